package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chapter-quiz-service/internal/domain"
)

func TestChaptersEndpoint(t *testing.T) {
	router := NewRouter(newTestService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chapters", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var chapters []domain.Chapter
	if err := json.Unmarshal(rec.Body.Bytes(), &chapters); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(chapters) != 2 || chapters[0].Number != 1 {
		t.Fatalf("unexpected chapters %+v", chapters)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chapters?categories=cat-1", nil))
	chapters = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &chapters)
	if len(chapters) != 1 || chapters[0].ID != "c1" {
		t.Fatalf("expected filtered chapters, got %+v", chapters)
	}
}

func TestScoresEndpoints(t *testing.T) {
	router := NewRouter(newTestService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u1/scores", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var scores []domain.ChapterScore
	if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scores) != 2 || scores[0].QuestionCount != 1 || scores[0].Percent != 0 {
		t.Fatalf("unexpected scores %+v", scores)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/u1/scores/c1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/u1/scores/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestParseIntList(t *testing.T) {
	got, err := parseIntList(" 1, 2,,3 ")
	if err != nil || len(got) != 3 || got[2] != 3 {
		t.Fatalf("parseIntList = (%v, %v)", got, err)
	}
	if _, err := parseIntList("1,x"); err == nil {
		t.Fatalf("expected error for non-numeric chapter")
	}
	if got, _ := parseIntList(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
