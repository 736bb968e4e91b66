package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-events/api/api"
	"github.com/campus-events/api/config"
	"github.com/campus-events/api/database"
	"github.com/campus-events/api/router"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/services/cron"
	"github.com/campus-events/api/services/storage"
	"github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/cache"
	"github.com/campus-events/api/utils/metrics"
	"github.com/campus-events/api/utils/middleware"
	"github.com/rs/zerolog/log"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	config.NewLogger(env.LOG_LEVEL, env.LOG_FORMAT)
	metrics.Init()

	// Initialize GORM database connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Error().Msg("check whether the database is running and DB_* variables are set")
		return err
	}

	// Defer closing DB
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize database tables: %w", err)
	}

	if err := database.NewSeeder(store.GetDB()).SeedAdmin(database.AdminSeed{
		Email:    env.ADMIN_EMAIL,
		Password: env.ADMIN_PASSWORD,
		Name:     env.ADMIN_NAME,
		College:  env.ADMIN_COLLEGE,
	}); err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	if env.CRON_ENABLED {
		cronManager := cron.NewCronManager(store.GetDB())
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn().Err(err).Msg("failed to start cron jobs")
		} else {
			defer cronManager.Stop()
		}
	}

	opts := router.Options{
		JWT: auth.JWTConfig{
			Secret: env.JWT_SECRET,
			Expiry: env.JWT_EXPIRES_IN,
			Issuer: env.JWT_ISSUER,
		},
		Security: middleware.SecurityConfig{
			AllowedOrigins:    env.ALLOWED_ORIGINS,
			RateLimitRequests: env.RATE_LIMIT_REQUESTS,
			RateLimitWindow:   env.RATE_LIMIT_WINDOW,
		},
	}

	// Redis backs brute force protection; the API runs without it
	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, brute force protection disabled")
	} else {
		defer redisCache.Close()
		opts.AttemptStore = redisCache
	}

	opts.ImageStore = newImageStore(env)

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))

	if err := router.SetupRoutes(server.GetEngine(), store, opts); err != nil {
		return err
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	return server.Run()
}

// newImageStore returns nil when object storage is not configured
func newImageStore(env *config.EnvironmentVariable) services.ObjectStore {
	cfg := storage.SpacesConfig{
		AccessKey: env.SPACES_ACCESS_KEY,
		SecretKey: env.SPACES_SECRET_KEY,
		Bucket:    env.SPACES_BUCKET,
		Region:    env.SPACES_REGION,
		Endpoint:  env.SPACES_ENDPOINT,
		CDNURL:    env.SPACES_CDN_URL,
	}
	if !cfg.Enabled() {
		log.Info().Msg("SPACES_BUCKET not set, event image upload disabled")
		return nil
	}

	client, err := storage.NewSpacesClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create object storage client, event image upload disabled")
		return nil
	}
	return client
}
