// Package app assembles the interpret pipeline from configuration. Both
// entrypoints go through it so they wire identical services.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"canvas-agent/handler"
	"canvas-agent/internal/config"
	"canvas-agent/internal/domain"
	"canvas-agent/internal/integrations/gemini"
	"canvas-agent/internal/integrations/openai"
	"canvas-agent/internal/integrations/paramstore"
	"canvas-agent/internal/repository"
	"canvas-agent/internal/templates"
	"canvas-agent/internal/usecase"
)

const (
	OpenAIKeyParam = "open-ai-token"
	GeminiKeyParam = "gemini-api-key"
)

// NewModelInvoker builds the client for cfg.Provider. Keys are read through
// params under cfg.ParamPrefix.
func NewModelInvoker(ctx context.Context, cfg config.Config, params openai.Getter) (usecase.ModelInvoker, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		client, err := openai.NewClient(params, paramstore.Name(cfg.ParamPrefix, OpenAIKeyParam), opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGemini:
		if params == nil {
			return nil, errors.New("app: gemini API key source must not be nil")
		}
		key, err := params.GetParameter(ctx, paramstore.Name(cfg.ParamPrefix, GeminiKeyParam))
		if err != nil {
			return nil, fmt.Errorf("app: fetch gemini API key: %w", err)
		}
		client, err := gemini.NewClient(ctx, strings.TrimSpace(key), gemini.WithModel(cfg.Model))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("app: unsupported provider %q", cfg.Provider)
	}
}

// NewCatalog returns the built-in catalog, overlaid with loader's templates
// when loader is non-nil.
func NewCatalog(ctx context.Context, loader repository.TemplateLoader) (*templates.Catalog, error) {
	var extra []domain.Template
	if loader != nil {
		loaded, err := loader.LoadTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf("app: load templates: %w", err)
		}
		extra = loaded
	}
	return templates.NewCatalog(extra...)
}

// NewHandler wires the interpret service behind a handler.
func NewHandler(cfg config.Config, model usecase.ModelInvoker, catalog *templates.Catalog, logger *zap.Logger) (*handler.Handler, error) {
	if catalog == nil {
		return nil, errors.New("app: template catalog must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc, err := usecase.NewInterpretService(model, catalog, logger, cfg.MaxInputLength, cfg.ModelTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("interpret service ready",
		zap.String("provider", cfg.Provider),
		zap.Strings("templates", catalog.Names()),
	)
	return handler.NewHandler(svc, logger)
}

// StaticKeys exposes keys from configuration under the same names the
// parameter store would use. Empty keys are omitted.
func StaticKeys(cfg config.Config) paramstore.Static {
	keys := paramstore.Static{}
	if k := strings.TrimSpace(cfg.OpenAIAPIKey); k != "" {
		keys[paramstore.Name(cfg.ParamPrefix, OpenAIKeyParam)] = k
	}
	if k := strings.TrimSpace(cfg.GeminiAPIKey); k != "" {
		keys[paramstore.Name(cfg.ParamPrefix, GeminiKeyParam)] = k
	}
	return keys
}
