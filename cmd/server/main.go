package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"lilypad/internal/config"
	"lilypad/internal/database"
	"lilypad/internal/forum"
	"lilypad/internal/handlers"
	"lilypad/internal/middleware"
	"lilypad/internal/utils"
	"lilypad/internal/websocket"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.NewPostgresDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.InitializeTables(initCtx); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tables")
	}

	metrics := utils.NewMetricsCollector()

	hub := websocket.NewHub()
	go hub.Run()

	forumSvc := forum.NewService(db, metrics)
	forumSvc.OnScoreChange(hub)

	auth := middleware.NewJWTAuth(cfg.Auth.JWTSecret)
	server := handlers.NewServer(forumSvc, auth, hub, metrics)

	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))
	handler := cors(server.Routes())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
