package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"gram-bot/internal/api"
	"gram-bot/internal/bets"
	"gram-bot/internal/bot"
	"gram-bot/internal/database"
	"gram-bot/internal/game"
	"gram-bot/internal/ledger"
	"gram-bot/internal/results"
	"gram-bot/pkg/config"
)

func main() {
	// A missing .env is fine, production sets real environment variables.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	db, err := database.New(cfg.DBType, cfg.ConnString)
	if err != nil {
		logger.Fatal().Err(err).Str("db_type", cfg.DBType).Msg("database")
	}
	defer db.Close()
	logger.Info().Str("db_type", cfg.DBType).Msg("database ready")

	svc := game.New(cfg.Game,
		ledger.New(db),
		bets.New(db),
		results.New(db, cfg.Game.ResultsWindow),
		logger.With().Str("component", "game").Logger(),
	)

	tgBot, err := bot.New(cfg, svc, logger.With().Str("component", "bot").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram bot")
	}

	var apiSrv *api.Server
	if cfg.EnableAPI {
		apiSrv = api.New(svc, logger.With().Str("component", "api").Logger())
		go func() {
			if err := apiSrv.Listen(cfg.APIAddr); err != nil {
				logger.Error().Err(err).Msg("api server stopped")
			}
		}()
	}

	go tgBot.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	tgBot.Stop()
	if apiSrv != nil {
		if err := apiSrv.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("api shutdown")
		}
	}
}
