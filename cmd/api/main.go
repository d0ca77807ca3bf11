// Package main is the entrypoint for the budgetgate server.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/budgetgate/budgetgate/internal/auth"
	"github.com/budgetgate/budgetgate/internal/cache"
	"github.com/budgetgate/budgetgate/internal/config"
	"github.com/budgetgate/budgetgate/internal/handler"
	"github.com/budgetgate/budgetgate/internal/metrics"
	"github.com/budgetgate/budgetgate/internal/repository"
	"github.com/budgetgate/budgetgate/internal/server"
	"github.com/budgetgate/budgetgate/internal/service"
	"github.com/budgetgate/budgetgate/internal/ynab"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	authSecret := cfg.AuthSecret
	if authSecret == "" {
		authSecret, err = ephemeralSecret()
		if err != nil {
			logger.Error("failed to generate session secret", "error", err)
			os.Exit(1)
		}
		logger.Warn("AUTH_SECRET not set; using an ephemeral secret, sessions end on restart")
	}

	sessions, err := auth.NewSessions(authSecret, !cfg.IsDevelopment())
	if err != nil {
		logger.Error("failed to initialise sessions", "error", err)
		os.Exit(1)
	}

	credential := cfg.Credential()
	logger.Info("credential loaded", "credential", credential)
	if !credential.HasToken() {
		logger.Warn("YNAB_API_TOKEN not set; budget endpoints will answer 500")
	}
	if credential.AllowedEmail == "" {
		logger.Warn("ALLOWED_EMAIL not set; every sign-in will be denied")
	}

	var provider auth.Provider
	if cfg.GoogleConfigured() {
		provider = auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + "/auth/callback/google",
		})
	} else {
		logger.Warn("Google sign-in not configured; /auth/signin will report a configuration error")
	}

	recorder := metrics.NewInMemory()
	gate := auth.NewGate(credential)

	upstream := ynab.NewClient(ynab.Config{
		BaseURL:    cfg.YNABBaseURL,
		HTTPClient: ynab.NewHTTPClient(cfg.UpstreamTimeout),
		Logger:     logger,
	})
	budgetService := service.NewBudgetService(upstream, credential, recorder)

	r := newRouter(routes{
		cfg:      cfg,
		logger:   logger,
		base:     handler.New(logger),
		health:   handler.NewHealthHandler(repo, cacheClient, logger),
		metrics:  handler.NewMetricsHandler(recorder),
		budgets:  handler.NewBudgetHandler(budgetService, logger),
		probe:    handler.NewProbeHandler(repo, logger),
		pages:    handler.NewPageHandler(sessions, gate, logger),
		sessions: sessions,
		gate:     gate,
		recorder: recorder,
		auth: handler.NewAuthHandler(handler.AuthHandlerConfig{
			Provider: provider,
			States:   cacheClient,
			Sessions: sessions,
			Gate:     gate,
			Metrics:  recorder,
			Logger:   logger,
		}),
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// LIFO: redis closes before the pool.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"api_require_session", cfg.APIRequireSession,
		"probe_public", cfg.ProbePublic,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
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

// ephemeralSecret returns a random session secret for development runs.
func ephemeralSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

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
