// Package main is the entrypoint for the MediReminder API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/medireminder/medireminder/internal/cache"
	"github.com/medireminder/medireminder/internal/config"
	"github.com/medireminder/medireminder/internal/handler"
	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/middleware"
	"github.com/medireminder/medireminder/internal/server"
	"github.com/medireminder/medireminder/internal/service"
	"github.com/medireminder/medireminder/internal/supabase"
)

func main() {
	ctx := context.Background()

	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the Supabase client (identity provider + row store)
	supabaseClient := supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)

	// Initialize cache when configured (auth endpoint rate limiting)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	authService := service.NewAuthService(supabaseClient, metricsRecorder)
	medicationService := service.NewMedicationService(supabaseClient, metricsRecorder)
	caregiverService := service.NewCaregiverService(supabaseClient, metricsRecorder)
	alarmService := service.NewAlarmService(supabaseClient, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := newHealthHandler(supabaseClient, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	medicationHandler := handler.NewMedicationHandler(medicationService, logger)
	caregiverHandler := handler.NewCaregiverHandler(caregiverService, logger)
	alarmHandler := handler.NewAlarmHandler(alarmService, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:        h,
		health:      healthHandler,
		auth:        authHandler,
		medications: medicationHandler,
		caregivers:  caregiverHandler,
		alarms:      alarmHandler,
		metrics:     metricsHandler,
		validator:   authService,
		cache:       cacheClient,
		cfg:         cfg,
		logger:      logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"supabase_url", cfg.SupabaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newHealthHandler wires the readiness checks, keeping the nil cache
// handle out of the handler's interface values.
func newHealthHandler(upstream *supabase.Client, cacheClient *cache.Cache) *handler.HealthHandler {
	var cacheChecker handler.HealthChecker
	if cacheClient != nil {
		cacheChecker = cacheClient
	}
	return handler.NewHealthHandler(upstream, cacheChecker)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles the dependencies the router needs.
type routerDeps struct {
	base        *handler.Handler
	health      *handler.HealthHandler
	auth        *handler.AuthHandler
	medications *handler.MedicationHandler
	caregivers  *handler.CaregiverHandler
	alarms      *handler.AlarmHandler
	metrics     *handler.MetricsHandler
	validator   middleware.TokenValidator
	cache       *cache.Cache
	cfg         *config.Config
	logger      *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      deps.cfg.IsDevelopment(),
		MaxRequestBodySize: deps.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))
	r.Use(middleware.CORS(corsConfig(deps.cfg)))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Root)

	// Operational metrics
	r.Get("/metrics", deps.metrics.Metrics)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:    deps.logger,
		Validator: deps.validator,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      deps.logger,
		Cache:       deps.cache,
		AuthEnabled: deps.cfg.RateLimitAuthEnabled && deps.cache != nil,
		AuthRPS:     deps.cfg.RateLimitAuthRPS,
		AuthBurst:   deps.cfg.RateLimitAuthBurst,
	}

	// Public auth endpoints, rate limited per IP
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/signup", deps.auth.Signup)
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/login", deps.auth.Login)
		r.With(middleware.Auth(authCfg)).Get("/me", deps.auth.Me)
	})

	// Resource endpoints (require a valid bearer token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", deps.medications.List)
			r.Post("/", deps.medications.Create)
			r.Put("/{id}", deps.medications.Update)
			r.Delete("/{id}", deps.medications.Delete)
		})

		r.Route("/caregivers", func(r chi.Router) {
			r.Get("/", deps.caregivers.List)
			r.Post("/", deps.caregivers.Create)
			r.Put("/{id}", deps.caregivers.Update)
			r.Delete("/{id}", deps.caregivers.Delete)
		})

		r.Route("/alarms", func(r chi.Router) {
			r.Get("/", deps.alarms.List)
			r.Post("/", deps.alarms.Create)
			r.Put("/{id}", deps.alarms.Update)
			r.Delete("/{id}", deps.alarms.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

// corsConfig builds the CORS configuration from the app config.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	return corsCfg
}

// redactURL strips credentials from a URL for logging.
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

// sanitizeError removes secrets from error messages before logging.
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

	return msg
}
