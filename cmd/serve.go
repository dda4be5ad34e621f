package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wealth-planner/config"
	httpLayer "wealth-planner/http"
	"wealth-planner/repository"
	"wealth-planner/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openCache returns the configured cache and a function that releases it.
func openCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.CacheRepository, func(), error) {
	if cfg.Cache.Backend != "redis" {
		cache := repository.NewMemoryCache()
		return cache, cache.Stop, nil
	}

	cache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		_ = cache.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Cache.RedisAddr, err)
	}

	log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Using redis cache")
	return cache, func() { _ = cache.Close() }, nil
}

// openScenarios returns the configured scenario store and a function that
// releases it.
func openScenarios(cfg *config.Config, log zerolog.Logger) (repository.ScenarioRepository, func(), error) {
	if cfg.Storage.Backend != "sqlite" {
		return repository.NewScenarioRepositoryMemory(), func() {}, nil
	}

	repo, err := repository.OpenSQLiteScenarioRepository(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("path", cfg.Storage.DBPath).Msg("Using sqlite scenario store")
	return repo, func() { _ = repo.Close() }, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	cache, closeCache, err := openCache(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	scenarios, closeScenarios, err := openScenarios(cfg, log)
	if err != nil {
		return err
	}
	defer closeScenarios()

	loans := service.NewLoanService(log)
	planner := service.NewPlannerService(loans, cache, scenarios, plannerConfig(cfg), log)
	advisor := service.NewAdvisorService(service.AdvisorConfig{
		APIURL:  cfg.Advisor.APIURL,
		Model:   cfg.Advisor.Model,
		APIKey:  cfg.Advisor.APIKey,
		Timeout: cfg.Advisor.Timeout.Duration,
	}, log)
	if !advisor.Enabled() {
		log.Warn().Msg("No LLM API key configured, analysis will use the built-in advisor")
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		Log:            log,
		Planner:        planner,
		Loans:          loans,
		Advisor:        advisor,
		RateLimiter:    rateLimiter,
		RequestTimeout: cfg.Server.WriteTimeout.Duration,
		DevMode:        cfg.Server.DevMode,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Planner API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		log.Info().Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
