package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/config"
	"github.com/spotlesscleaning/site-server-go/internal/database"
	"github.com/spotlesscleaning/site-server-go/internal/handler"
	"github.com/spotlesscleaning/site-server-go/internal/jobs"
	"github.com/spotlesscleaning/site-server-go/internal/middleware"
	"github.com/spotlesscleaning/site-server-go/internal/redis"
	"github.com/spotlesscleaning/site-server-go/internal/repository"
	"github.com/spotlesscleaning/site-server-go/internal/service"
	"github.com/spotlesscleaning/site-server-go/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	var objectStore *storage.ObjectStore
	if cfg.UploadsConfigured() {
		objectStore, err = storage.NewObjectStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure object storage")
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("object storage configured")
	} else {
		log.Warn().Msg("object storage not configured: estimate photo uploads disabled")
	}

	contentRepo := repository.NewContentRepository(db.DB)
	adminUserRepo := repository.NewAdminUserRepository(db.DB)
	adminSessionRepo := repository.NewAdminSessionRepository(db.DB)
	estimateRepo := repository.NewEstimateRepository(db.DB)

	snapshotCache := service.NewRedisSnapshotCache(redisClient, cfg.ContentCacheTTL())
	contentService := service.NewContentService(contentRepo, snapshotCache)
	authService := service.NewAuthService(adminUserRepo, adminSessionRepo, cfg.SessionSecret)
	estimateService := service.NewEstimateService(
		db, estimateRepo, service.NewRedisPublisher(redisClient), cfg.CaptchaEnabled,
	)

	if cfg.AdminEmail != "" && cfg.AdminPasswordHash != "" {
		if err := authService.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPasswordHash); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin user")
		}
		log.Info().Str("email", cfg.AdminEmail).Msg("admin user seeded")
	}

	sessionMiddleware := middleware.NewAdminSessionMiddleware(authService)
	estimateRateLimit := middleware.NewIPRateLimitMiddleware(redisClient.Client, cfg.EstimateRatePerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	siteHandler := handler.NewSiteHandler(contentService)
	contentHandler := handler.NewContentHandler(contentService)
	authHandler := handler.NewAuthHandler(authService, isProduction)
	estimateHandler := handler.NewEstimateHandler(
		estimateService, objectStore, sessionMiddleware.Handler, estimateRateLimit.Handler,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Get("/", siteHandler.Index)

	r.Mount("/auth", authHandler.Routes())

	r.Route("/content", func(r chi.Router) {
		r.Get("/", contentHandler.List)
		r.Get("/fields", contentHandler.Fields)
		r.With(sessionMiddleware.Handler).Put("/", contentHandler.Update)
	})

	r.Mount("/estimates", estimateHandler.Routes())

	if cfg.CaptchaEnabled {
		r.Mount("/captcha", handler.NewCaptchaHandler().Routes())
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)
		r.Handle("/*", handler.StaticFileServer("web/static/admin"))
	})

	cleanupJob := jobs.NewCleanupJob(adminSessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
