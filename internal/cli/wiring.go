package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"chapter-quiz-service/internal/app"
	"chapter-quiz-service/internal/config"
	"chapter-quiz-service/internal/infra/memory"
	pgstore "chapter-quiz-service/internal/infra/postgres"
	redisstore "chapter-quiz-service/internal/infra/redis"
	"chapter-quiz-service/internal/infra/sqlite"
	"chapter-quiz-service/internal/play"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend is the set of stores a PlayService runs on.
type backend interface {
	app.Catalog
	app.AnswerHistory
	memory.QuestionLoader
}

type postgresBackend struct {
	*pgstore.CatalogLoader
	*pgstore.AnswerHistory
}

// staticBackend serves the built-in sample catalog with in-memory history.
type staticBackend struct {
	*memory.StaticCatalog
	*memory.AnswerHistory
}

// buildService wires the service from config: Postgres, then SQLite, then the
// built-in sample catalog as catalog source; Redis for caching and sessions
// when configured. The returned cleanup releases connections.
func buildService(ctx context.Context, cfg config.Config) (*app.PlayService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, closeStore, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var questions app.QuestionRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, store, quizTTL)
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		questions = memory.NewQuestionRepository(store, quizTTL)
		sessions = memory.NewSessionStore()
	}

	policy, err := play.ParsePolicy(cfg.Play.RevealPolicy)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	service := app.NewPlayService(sessions, questions, store, store, app.Options{
		Policy:        policy,
		RecordTimeout: config.TTLDuration(cfg.Play.RecordTimeout, 5*time.Second),
	})
	return service, cleanup, nil
}

func openBackend(ctx context.Context, cfg config.Config) (backend, func(), error) {
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgresBackend{
			CatalogLoader: pgstore.NewCatalogLoader(pool),
			AnswerHistory: pgstore.NewAnswerHistory(pool),
		}, pool.Close, nil

	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		empty, err := store.IsEmpty(ctx)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		if empty {
			chapters, categories, questions := sampleCatalog()
			if err := store.Seed(ctx, chapters, categories, questions); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
			log.Printf("seeded %s with %d sample questions", cfg.SQLite.Path, len(questions))
		}
		return store, func() { _ = store.Close() }, nil

	default:
		chapters, categories, questions := sampleCatalog()
		return staticBackend{
			StaticCatalog: memory.NewStaticCatalog(chapters, categories, questions),
			AnswerHistory: memory.NewAnswerHistory(),
		}, func() {}, nil
	}
}
