// Package main is the entrypoint for the adboard API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/adboard/adboard/internal/auth"
	"github.com/adboard/adboard/internal/cache"
	"github.com/adboard/adboard/internal/config"
	"github.com/adboard/adboard/internal/handler"
	"github.com/adboard/adboard/internal/metrics"
	"github.com/adboard/adboard/internal/middleware"
	"github.com/adboard/adboard/internal/repository"
	"github.com/adboard/adboard/internal/repository/memory"
	"github.com/adboard/adboard/internal/server"
	"github.com/adboard/adboard/internal/service"
	"github.com/adboard/adboard/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	srvOpts := server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
	// Released in reverse order once the HTTP server has stopped.
	var components []component

	// Storage
	var (
		opener  session.Opener
		storage handler.HealthChecker
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.New()
		opener, storage = store, store
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		dsn := cfg.DSN()
		if cfg.AutoMigrate {
			if err := repository.Migrate(ctx, dsn); err != nil {
				logger.Error("failed to run migrations",
					slog.String("error", sanitizeError(err, dsn)),
					slog.String("database_url", redactURL(dsn)),
				)
				return err
			}
			logger.Info("database migrations applied")
		}

		repo, err := repository.New(ctx, dsn, repository.Options{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			logger.Error("failed to connect to database",
				slog.String("error", sanitizeError(err, dsn)),
				slog.String("database_url", redactURL(dsn)),
			)
			return err
		}
		opener, storage = repo, repo
		components = append(components, component{"postgres", func(context.Context) error {
			repo.Close()
			return nil
		}})
		logger.Info("connected to database")
	}

	// Optional Redis: read cache and shared rate limiter
	var (
		userCache service.UserCache
		adCache   service.AdCache
		cachePing handler.HealthChecker
		limiter   middleware.Limiter = middleware.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	)
	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		userCache, adCache, cachePing = cacheClient, cacheClient, cacheClient
		limiter = cache.NewRateLimiter(cacheClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
		components = append(components, component{"redis", func(context.Context) error {
			return cacheClient.Close()
		}})
		logger.Info("connected to Redis")
	}

	hasher, err := auth.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return err
	}

	recorder := metrics.NewPrometheus()

	// Services
	userService := service.NewUserService(hasher, userCache, recorder, logger)
	adService := service.NewAdService(adCache, recorder, logger)

	security := middleware.DefaultSecurityConfig()
	security.IsDevelopment = cfg.IsDevelopment()
	security.MaxRequestBodySize = cfg.MaxRequestBodySize

	// Handlers
	base := handler.New(logger)
	router := server.NewRouter(server.Deps{
		Logger:   logger,
		Opener:   opener,
		Recorder: recorder,
		Base:     base,
		Users:    handler.NewUserHandler(base, userService),
		Ads:      handler.NewAdHandler(base, adService),
		Health:   handler.NewHealthHandler(storage, cachePing),
		Metrics:  recorder.Handler(),
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Enabled: cfg.RateLimitEnabled,
		},
		Security: security,
		CORS:     middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins()...),
	})

	srv := server.New(router, srvOpts, logger)
	for _, c := range components {
		srv.OnShutdown(c.name, c.close)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"password_hasher", cfg.PasswordHasher,
	)

	return srv.Run(ctx)
}

type component struct {
	name  string
	close server.ShutdownFunc
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
