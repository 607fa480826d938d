package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"canvas-agent/internal/colorpolicy"
	"canvas-agent/internal/domain"
	"canvas-agent/internal/templates"
)

const (
	// defaultMaxInputLength is also the ceiling; larger limits are clamped.
	defaultMaxInputLength = 500
	defaultModelTimeout   = 25 * time.Second
)

// ModelInvoker returns the raw text completion for a prompt. Errors must carry
// enough text to be classified: "API key" for configuration problems and
// "timeout" for slow calls.
type ModelInvoker interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type TemplateResolver interface {
	Names() []string
	Resolve(cmd *domain.Command) (templates.Outcome, error)
}

// InterpretService runs the command interpretation pipeline. It holds only
// read-only dependencies and is safe for concurrent use.
type InterpretService struct {
	model        ModelInvoker
	templates    TemplateResolver
	logger       *zap.Logger
	maxInputLen  int
	modelTimeout time.Duration
}

type InterpretInput struct {
	CallerID      string
	CorrelationID string
	Request       domain.CommandRequest
}

type InterpretOutput struct {
	Command domain.Command
}

func NewInterpretService(model ModelInvoker, tpl TemplateResolver, logger *zap.Logger, maxInputLen int, modelTimeout time.Duration) (*InterpretService, error) {
	if model == nil {
		return nil, errors.New("usecase: model invoker must not be nil")
	}
	if tpl == nil {
		return nil, errors.New("usecase: template resolver must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxInputLen <= 0 || maxInputLen > defaultMaxInputLength {
		maxInputLen = defaultMaxInputLength
	}
	if modelTimeout <= 0 {
		modelTimeout = defaultModelTimeout
	}
	return &InterpretService{
		model:        model,
		templates:    tpl,
		logger:       logger,
		maxInputLen:  maxInputLen,
		modelTimeout: modelTimeout,
	}, nil
}

// Interpret turns a free-text instruction into a validated command. Every
// failure is returned as a *Error.
func (s *InterpretService) Interpret(ctx context.Context, in InterpretInput) (InterpretOutput, error) {
	log := s.logger.With(zap.String("correlation_id", in.CorrelationID))

	cmd, err := s.interpret(ctx, in, log)
	if err != nil {
		classified := classifyError(err)
		fields := []zap.Field{
			zap.String("kind", string(classified.Kind)),
			zap.String("reason", classified.Reason),
		}
		if classified.Err != nil {
			fields = append(fields, zap.Error(classified.Err))
		}
		if classified.Kind == ErrorInternal || classified.Kind == ErrorFailedPrecondition {
			log.Error("interpret failed", fields...)
		} else {
			log.Warn("interpret rejected", fields...)
		}
		return InterpretOutput{}, classified
	}

	log.Info("interpret succeeded",
		zap.String("category", string(cmd.Category)),
		zap.String("action", cmd.Action),
	)
	return InterpretOutput{Command: cmd}, nil
}

func (s *InterpretService) interpret(ctx context.Context, in InterpretInput, log *zap.Logger) (domain.Command, error) {
	if strings.TrimSpace(in.CallerID) == "" {
		return domain.Command{}, newError(ErrorUnauthenticated, "missing_caller", MessageUnauthenticated, nil)
	}
	if strings.TrimSpace(in.Request.UserInput) == "" {
		return domain.Command{}, newError(ErrorInvalidArgument, "empty_input", MessageEmptyInput, nil)
	}
	if utf8.RuneCountInString(in.Request.UserInput) > s.maxInputLen {
		return domain.Command{}, newError(ErrorInvalidArgument, "input_too_long", inputTooLongMessage(s.maxInputLen), nil)
	}

	prompt := buildCommandPrompt(in.Request, s.templates.Names())

	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()
	raw, err := s.model.Complete(callCtx, prompt)
	if err != nil {
		return domain.Command{}, err
	}

	cmd, err := parseCommand(extractPayload(raw))
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) && perr.Reason == "invalid_response_format" {
			log.Warn("model returned non-JSON response", zap.String("raw_response", raw))
		}
		return domain.Command{}, err
	}

	if check := colorpolicy.Check(cmd.Parameters); !check.IsValid {
		log.Info("color policy violation", zap.Strings("violations", check.Violations))
		return domain.Command{}, newError(ErrorInvalidArgument, "color_policy_violation", MessageColorViolation, nil)
	}

	sanitizeLabels(&cmd)

	outcome, err := s.templates.Resolve(&cmd)
	if err != nil {
		return domain.Command{}, err
	}
	switch outcome {
	case templates.Unknown:
		log.Warn("unknown template requested", zap.Any("template", cmd.Parameters["template"]))
	case templates.Generated, templates.Static:
		log.Debug("template resolved", zap.Stringer("outcome", outcome), zap.Any("template", cmd.Parameters["template"]))
	}

	return cmd, nil
}
