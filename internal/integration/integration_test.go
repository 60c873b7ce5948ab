package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"chapter-quiz-service/internal/app"
	"chapter-quiz-service/internal/domain"
	pgstore "chapter-quiz-service/internal/infra/postgres"
	pgmigrations "chapter-quiz-service/internal/infra/postgres/migrations"
	infraredis "chapter-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestPlaySessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewCatalogLoader(pool)
	history := pgstore.NewAnswerHistory(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	questions := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewPlayService(sessions, questions, loader, history, app.Options{Seed: 7})

	view, err := service.Start(ctx, "u1", domain.Selection{ChapterNumbers: []int{1}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Total != 2 {
		t.Fatalf("expected 2 questions in chapter 1, got %d", view.Total)
	}
	keys, err := redisClient.Keys(ctx, "quiz:pool:*").Result()
	if err != nil || len(keys) != 1 {
		t.Fatalf("expected cached pool in redis, got %v (%v)", keys, err)
	}

	// First question correct, second wrong.
	outcome, view, err := service.SubmitAnswer(ctx, view.SessionID, view.Question.ID+"-a")
	if err != nil || !outcome.Correct {
		t.Fatalf("expected correct answer, got %+v (%v)", outcome, err)
	}
	outcome, view, err = service.SubmitAnswer(ctx, view.SessionID, view.Question.ID+"-b")
	if err != nil || outcome.Correct || !view.Revealed {
		t.Fatalf("expected revealed wrong answer, got %+v (%v)", outcome, err)
	}
	view, err = service.Advance(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !view.Complete || view.Summary == nil || view.Summary.Percent != 50 {
		t.Fatalf("expected completed session at 50%%, got %+v", view)
	}

	waitForAnswers(t, ctx, history, "u1", 2)

	scores, err := service.ChapterScores(ctx, "u1")
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(scores) != 2 || scores[0].CorrectCount != 1 || scores[0].Percent != 50 {
		t.Fatalf("unexpected chapter scores %+v", scores)
	}

	if err := service.ResetChapterHistory(ctx, "u1", "ch-1"); err != nil {
		t.Fatalf("reset chapter: %v", err)
	}
	scores, err = service.ChapterScores(ctx, "u1")
	if err != nil {
		t.Fatalf("scores after reset: %v", err)
	}
	if scores[0].CorrectCount != 0 {
		t.Fatalf("expected chapter history reset, got %+v", scores[0])
	}

	view, err = service.Reset(ctx, view.SessionID, true)
	if err != nil {
		t.Fatalf("replay wrong: %v", err)
	}
	if view.Total != 1 {
		t.Fatalf("expected one question to replay, got %d", view.Total)
	}
}

func waitForAnswers(t *testing.T, ctx context.Context, history *pgstore.AnswerHistory, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		answers, err := history.RecentAnswers(ctx, userID)
		if err != nil {
			t.Fatalf("recent answers: %v", err)
		}
		if len(answers) == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d recorded answers, got %d", want, len(answers))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn string) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	type seedStmt struct {
		query string
		args  []any
	}
	stmts := []seedStmt{
		{`INSERT INTO categories (id, name) VALUES (?, ?)`, []any{"cat-1", "Basics"}},
		{`INSERT INTO chapters (id, number, description) VALUES (?, ?, ?)`, []any{"ch-1", 1, "Intro"}},
		{`INSERT INTO chapters (id, number, description) VALUES (?, ?, ?)`, []any{"ch-2", 2, "Empty"}},
		{`INSERT INTO chapter_categories (chapter_id, category_id) VALUES (?, ?)`, []any{"ch-1", "cat-1"}},
	}
	for _, q := range []string{"q1", "q2"} {
		stmts = append(stmts, seedStmt{`INSERT INTO questions (id, chapter_id, text) VALUES (?, ?, ?)`, []any{q, "ch-1", "Question " + q}})
		for i, suffix := range []string{"a", "b", "c"} {
			stmts = append(stmts, seedStmt{`INSERT INTO answers (id, question_id, text, is_correct) VALUES (?, ?, ?, ?)`,
				[]any{q + "-" + suffix, q, "Answer " + suffix, i == 0}})
		}
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("seed %q: %v", stmt.query, err)
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
