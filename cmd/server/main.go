package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/wellspace/handler"
	"github.com/dmitrymomot/wellspace/modules/auth"
	"github.com/dmitrymomot/wellspace/modules/session"
	"github.com/dmitrymomot/wellspace/pkg/config"
	"github.com/dmitrymomot/wellspace/pkg/environment"
	"github.com/dmitrymomot/wellspace/pkg/httpserver"
	"github.com/dmitrymomot/wellspace/pkg/logger"
	"github.com/dmitrymomot/wellspace/pkg/mongo"
	"github.com/dmitrymomot/wellspace/pkg/redis"
	"github.com/dmitrymomot/wellspace/pkg/requestid"
)

type appConfig struct {
	Env      environment.Environment `env:"APP_ENV" envDefault:"development"`
	CacheTTL time.Duration           `env:"PUBLISHED_CACHE_TTL" envDefault:"1m"`

	Server httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	Auth   auth.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, "wellspace"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	sessionStore := session.NewMongoStore(db)
	if err := sessionStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	userStore := auth.NewMongoStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		return err
	}

	authSvc, err := auth.NewService(userStore, cfg.Auth,
		auth.WithLogger(log.With(logger.Component("auth"))),
	)
	if err != nil {
		return err
	}

	sessionSvc := session.NewService(sessionStore,
		session.WithLogger(log.With(logger.Component("session"))),
		session.WithCache(session.NewPublishedCache(redisClient, cfg.CacheTTL)),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	))

	r.Mount("/api/auth", auth.Router(authSvc))
	r.Mount("/api/sessions", session.Router(sessionSvc,
		auth.Authenticator(authSvc),
		func(ctx handler.Context) (string, bool) {
			return auth.UserIDFromContext(ctx)
		},
	))

	srv := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
	log.InfoContext(ctx, "server starting", "env", string(cfg.Env))
	return srv.Run(ctx, withServerContext(ctx, cfg.Env, r))
}

// withServerContext stamps every request context with the runtime
// environment so downstream code can branch on it.
func withServerContext(ctx context.Context, env environment.Environment, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(environment.WithContext(r.Context(), env)))
	})
}
