package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"canvas-agent/internal/app"
	"canvas-agent/internal/config"
	"canvas-agent/internal/integrations/paramstore"
	"canvas-agent/internal/logger"
	"canvas-agent/internal/repository"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	// Lambda ships stdout to CloudWatch; a file sink has nowhere to go.
	cfg.Log.File.Enabled = false

	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal("failed to load AWS config", zap.Error(err))
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		log.Fatal("failed to create SSM client", zap.Error(err))
	}

	var loader repository.TemplateLoader
	if cfg.TemplateTable != "" {
		templateRepo, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.TemplateTable)
		if err != nil {
			log.Fatal("failed to create template repository", zap.Error(err))
		}
		loader = templateRepo
	}
	catalog, err := app.NewCatalog(ctx, loader)
	if err != nil {
		log.Fatal("failed to build template catalog", zap.Error(err), zap.String("table", cfg.TemplateTable))
	}

	model, err := app.NewModelInvoker(ctx, cfg, ssmClient)
	if err != nil {
		log.Fatal("failed to create model client", zap.Error(err), zap.String("provider", cfg.Provider))
	}

	// ---- Handler ----
	h, err := app.NewHandler(cfg, model, catalog, log)
	if err != nil {
		log.Fatal("failed to create handler", zap.Error(err))
	}

	lambda.Start(h.Handle)
}
