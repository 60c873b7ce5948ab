package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"chapter-quiz-service/internal/config"
	"chapter-quiz-service/internal/domain"
)

func TestLetterIndex(t *testing.T) {
	cases := []struct {
		in   string
		idx  int
		good bool
	}{
		{"a", 0, true},
		{"C", 2, true},
		{" b ", 1, true},
		{"d", 0, false},
		{"", 0, false},
		{"ab", 0, false},
		{"1", 0, false},
	}
	for _, tc := range cases {
		idx, ok := letterIndex(tc.in, 3)
		if ok != tc.good || (ok && idx != tc.idx) {
			t.Fatalf("letterIndex(%q) = %d,%v want %d,%v", tc.in, idx, ok, tc.idx, tc.good)
		}
	}
}

func TestParseChapterFlag(t *testing.T) {
	got, err := parseChapterFlag(" 1, 3 ,,")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected chapters %v", got)
	}
	if _, err := parseChapterFlag("1,x"); err == nil {
		t.Fatalf("expected error for non-numeric chapter")
	}
}

func TestPlayLoopReachesSummary(t *testing.T) {
	ctx := context.Background()
	service, cleanup, err := buildService(ctx, config.Config{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	defer cleanup()

	// Every question gets "a" and then an enter; the enter is ignored as an
	// invalid letter when the answer was correct and advanced on its own.
	input := strings.Repeat("a\n\n", 3) + "q\n"
	var out bytes.Buffer
	sel := domain.Selection{ChapterNumbers: []int{1}}
	if err := playLoop(ctx, service, "tester", sel, strings.NewReader(input), &out); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	if !strings.Contains(out.String(), "You answered") {
		t.Fatalf("expected summary in output, got:\n%s", out.String())
	}
	if strings.Count(out.String(), "Your answer:") < 3 {
		t.Fatalf("expected three questions to be asked, got:\n%s", out.String())
	}
}

func TestPlayLoopEmptySelection(t *testing.T) {
	ctx := context.Background()
	service, cleanup, err := buildService(ctx, config.Config{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	defer cleanup()

	var out bytes.Buffer
	sel := domain.Selection{ChapterNumbers: []int{99}}
	if err := playLoop(ctx, service, "tester", sel, strings.NewReader(""), &out); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	if !strings.Contains(out.String(), "No questions") {
		t.Fatalf("expected empty notice, got %q", out.String())
	}
}

func TestBuildServiceSeedsSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "quiz.db")
	cfg.Play.RevealPolicy = "reveal-always"

	service, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	defer cleanup()

	chapters, err := service.Chapters(ctx, nil)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 3 || chapters[0].Number != 1 {
		t.Fatalf("unexpected seeded chapters %+v", chapters)
	}

	view, err := service.Start(ctx, "tester", domain.Selection{ChapterNumbers: []int{2}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Total != 3 {
		t.Fatalf("expected 3 questions in chapter 2, got %d", view.Total)
	}
}

func TestBuildServiceRejectsUnknownPolicy(t *testing.T) {
	cfg := config.Config{}
	cfg.Play.RevealPolicy = "sometimes"
	if _, _, err := buildService(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown reveal policy")
	}
}
