package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sakarghimire/thumbnail-service/config"
	"github.com/sakarghimire/thumbnail-service/handlers"
	"github.com/sakarghimire/thumbnail-service/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	api, err := handlers.NewAPIHandlerFromConfig(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize API handler")
	}

	logger.Log.Info().Str("table", cfg.TableName).Str("region", cfg.Region).Msg("thumbnail API starting")
	lambda.Start(api.Route)
}
