package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"marketplace/internal/adapter/repo"
	"marketplace/internal/auth"
	"marketplace/internal/campaign"
	"marketplace/internal/http/handlers"
	httpapi "marketplace/internal/http"
	"marketplace/internal/infra"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	campaigns := campaign.NewService(repo.NewCampaignRepository(dbpool), logger, cfg.BackingMaxRetries)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	app := handlers.NewApp(
		logger,
		repo.NewUserRepository(dbpool),
		repo.NewProductRepository(dbpool),
		repo.NewJobRepository(dbpool),
		campaigns,
		tokens,
	)

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
