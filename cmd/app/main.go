package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"CommandCore/internal/config"
	"CommandCore/pkg/log"
	"CommandCore/pkg/speech"
)

func main() {
	envErr := godotenv.Load()
	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded: %v", envErr)
	}

	engineConfig, err := config.LoadEngineConfig()
	if err != nil {
		logger.Fatal(err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	var transcriber speech.ITranscriber
	if speechConfig := speech.ConfigFromEnv(); speechConfig.Enabled() {
		if transcriber, err = speech.New(speechConfig); err != nil {
			logger.Fatal(err)
		}
	} else {
		logger.Info("OPENAI_API_KEY not set, voice commands disabled")
	}

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithEngine(engineConfig),
		config.WithCatalog(engineConfig.CatalogDir),
		config.WithDatabase(),
		config.WithTranscriber(transcriber),
		config.WithMiddleware(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Server started successfully")

	if err := server.Run(ctx); err != nil {
		logger.Fatalf("Error starting server: %v", err)
	}

	logger.Info("Server stopped")
}
