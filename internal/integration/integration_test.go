package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-client/internal/app"
	"trivia-client/internal/app/apptest"
	"trivia-client/internal/domain"
	pghistory "trivia-client/internal/infra/postgres"
	pgmigrations "trivia-client/internal/infra/postgres/migrations"
	infraredis "trivia-client/internal/infra/redis"
)

func TestQuizAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	history := pghistory.NewHistoryRepository(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	backend := apptest.NewBackend()
	backend.SetQuestions("sports", "Cricket", apptest.Capitals())

	sessions := infraredis.NewSessionStore(redisClient, "it", 5*time.Minute)
	questions := infraredis.NewQuestionCache(redisClient, app.BackendLoader{Backend: backend}, 5*time.Minute)
	service := app.NewService(backend, sessions, questions, app.WithHistory(history))

	if _, err := service.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		flow, err := service.SelectCategory(ctx, "sports", "Cricket")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		for {
			q, _, err := flow.Current()
			if errors.Is(err, domain.ErrQuizComplete) {
				break
			}
			if err != nil {
				t.Fatalf("current: %v", err)
			}
			if _, err := flow.Answer(q.Correct()); err != nil {
				t.Fatalf("answer: %v", err)
			}
		}
		review, err := service.Review(ctx, flow, app.ReviewOptions{Pair: []int{0, 1}})
		if err != nil {
			t.Fatalf("review: %v", err)
		}
		if review.Correct != 3 || !review.PairSubmitted {
			t.Fatalf("unexpected review %+v", review)
		}
	}

	if backend.QuestionHit != 1 {
		t.Fatalf("expected redis cache to serve the second attempt, backend hits=%d", backend.QuestionHit)
	}
	if backend.SubmissionCount() != 2 {
		t.Fatalf("expected one submission per attempt, got %d", backend.SubmissionCount())
	}

	attempts, err := service.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 stored attempts, got %d", len(attempts))
	}
	if attempts[0].Pair == nil || attempts[0].Pair.Status != domain.PairBothCorrect || len(attempts[0].Result.Answers) != 3 {
		t.Fatalf("attempt not stored intact: %+v", attempts[0])
	}
	if attempts[0].CompletedAt.Before(attempts[1].CompletedAt) {
		t.Fatalf("expected newest first")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "trivia"},
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
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/trivia?sslmode=disable", host, port.Port())
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

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
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
