package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"trivia-client/internal/api"
	"trivia-client/internal/app"
	"trivia-client/internal/config"
	"trivia-client/internal/explain"
	"trivia-client/internal/infra/file"
	"trivia-client/internal/infra/memory"
	pghistory "trivia-client/internal/infra/postgres"
	infraredis "trivia-client/internal/infra/redis"
	"trivia-client/internal/logger"
)

// runtime is everything a command needs, built from one config file.
type runtime struct {
	cfg     config.Config
	log     *logger.Logger
	service *app.Service
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.log.Sync()
}

func newRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newRuntimeWithConfig(ctx, cfg)
}

func newRuntimeWithConfig(ctx context.Context, cfg config.Config) (*runtime, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	rt := &runtime{cfg: cfg, log: log}

	backend := api.New(cfg.API.BaseURL,
		api.WithTimeout(config.TTLDuration(cfg.API.Timeout, 15*time.Second)),
		api.WithLogger(log.With("component", "api")),
	)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	sessions, err := sessionStore(cfg, redisClient)
	if err != nil {
		rt.Close()
		return nil, err
	}

	loader := app.BackendLoader{Backend: backend}
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 5*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = infraredis.NewQuestionCache(redisClient, loader, cacheTTL)
	} else {
		questions = memory.NewQuestionCache(loader, cacheTTL)
	}

	var history app.HistoryRepository = memory.NewHistoryRepository()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		history = pghistory.NewHistoryRepository(pool)
	}

	explainer := explain.NewClient(explain.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		Timeout: config.TTLDuration(cfg.OpenAI.Timeout, 60*time.Second),
	}, log.With("component", "explain"))

	rt.service = app.NewService(backend, sessions, questions,
		app.WithHistory(history),
		app.WithExplainer(explainer),
		app.WithQuizSize(cfg.Quiz.Size),
		app.WithLogger(log.With("component", "service")),
	)
	log.Debug("runtime ready", "api", backend.BaseURL(), "session", cfg.Session.Backend, "redis", redisClient != nil, "postgres", cfg.Postgres.URL != "")
	return rt, nil
}

func sessionStore(cfg config.Config, client *redis.Client) (app.SessionStore, error) {
	switch cfg.Session.Backend {
	case "memory":
		return memory.NewSessionStore(), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("session backend redis needs redis.addr")
		}
		return infraredis.NewSessionStore(client, "default", config.TTLDuration(cfg.Session.TTL, 0)), nil
	case "", "file":
		return file.NewSessionStore(cfg.Session.Path), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// withRuntime builds the runtime for one command and always releases it.
func withRuntime(ctx context.Context, configPath string, fn func(*runtime) error) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}
