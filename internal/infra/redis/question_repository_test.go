package redis

import (
	"context"
	"testing"
	"time"

	"chapter-quiz-service/internal/domain"
	"chapter-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: sampleCatalog()}
	repo := NewQuestionRepository(client, loader, time.Minute)
	sel := domain.Selection{ChapterNumbers: []int{1}}

	pool, err := repo.GetPool(context.Background(), sel)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:pool:" + sel.Key()) {
		t.Fatalf("expected pool cached in redis")
	}

	// Second call should hit cache and keep question text and answers intact.
	cached, err := repo.GetPool(context.Background(), sel)
	if err != nil {
		t.Fatalf("get cached pool: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(pool) || cached[0].Text != pool[0].Text || len(cached[0].Answers) != 3 {
		t.Fatalf("cached pool differs: %+v vs %+v", cached, pool)
	}

	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetPool(context.Background(), sel)
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}

	if err := repo.Invalidate(context.Background(), sel); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:pool:" + sel.Key()) {
		t.Fatalf("expected pool key removed")
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, sel domain.Selection) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, sel)
}

func sampleCatalog() *memory.StaticCatalog {
	ch := domain.Chapter{ID: "c1", Number: 1, Description: "Basics"}
	return memory.NewStaticCatalog(
		[]domain.Chapter{ch},
		nil,
		[]domain.Question{{
			ID:      "q1",
			Text:    "What is 2 + 2?",
			Chapter: domain.ChapterRef{ID: ch.ID, Number: ch.Number, Description: ch.Description},
			Answers: []domain.Answer{
				{ID: "a1", Text: "3"},
				{ID: "a2", Text: "4", Correct: true},
				{ID: "a3", Text: "5"},
			},
		}},
	)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
