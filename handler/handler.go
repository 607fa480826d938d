package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"canvas-agent/internal/domain"
	"canvas-agent/internal/usecase"
)

// HeaderAuthenticatedUser carries the caller identity when the handler runs
// behind a trusted proxy instead of API Gateway.
const HeaderAuthenticatedUser = "X-Authenticated-User"

const (
	headerCorrelationID = "X-Correlation-Id"
	maxBodyBytes        = 16 << 10

	messageInvalidBody  = "Request body must be a JSON object."
	messageBodyTooLarge = "Request body too large."
)

type Interpreter interface {
	Interpret(ctx context.Context, in usecase.InterpretInput) (usecase.InterpretOutput, error)
}

type Handler struct {
	uc     Interpreter
	logger *zap.Logger
}

type interpretResponse struct {
	Success bool           `json:"success"`
	Command domain.Command `json:"command"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func NewHandler(uc Interpreter, logger *zap.Logger) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: interpreter must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{uc: uc, logger: logger}, nil
}

// Handle serves API Gateway proxy events. Every outcome, including failures,
// is reported in the response; the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, headerCorrelationID)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			body = nil
		} else {
			body = decoded
		}
	}

	status, payload := h.serve(ctx, correlationID, authorizerCaller(req.RequestContext.Authorizer), body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			headerCorrelationID: correlationID,
		},
		Body: string(payload),
	}, nil
}

// ServeHTTP exposes the same contract to net/http hosts. The caller identity
// is read from HeaderAuthenticatedUser.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	correlationID := strings.TrimSpace(r.Header.Get(headerCorrelationID))
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		body = nil
	}

	status, payload := h.serve(r.Context(), correlationID, strings.TrimSpace(r.Header.Get(HeaderAuthenticatedUser)), body)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerCorrelationID, correlationID)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (h *Handler) serve(ctx context.Context, correlationID, callerID string, body []byte) (int, []byte) {
	log := h.logger.With(zap.String("correlation_id", correlationID))

	if callerID == "" {
		return h.errorResult(log, &usecase.Error{Kind: usecase.ErrorUnauthenticated, Message: usecase.MessageUnauthenticated, Reason: "missing_caller"})
	}
	if len(body) > maxBodyBytes {
		return h.errorResult(log, &usecase.Error{Kind: usecase.ErrorInvalidArgument, Message: messageBodyTooLarge, Reason: "body_too_large"})
	}

	var req domain.CommandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return h.errorResult(log, &usecase.Error{Kind: usecase.ErrorInvalidArgument, Message: messageInvalidBody, Reason: "invalid_body", Err: err})
	}

	out, err := h.uc.Interpret(ctx, usecase.InterpretInput{
		CallerID:      callerID,
		CorrelationID: correlationID,
		Request:       req,
	})
	if err != nil {
		return h.errorResult(log, err)
	}

	payload, err := json.Marshal(interpretResponse{Success: true, Command: out.Command})
	if err != nil {
		return h.errorResult(log, &usecase.Error{Kind: usecase.ErrorInternal, Message: usecase.MessageGenericFailure, Reason: "marshal_response", Err: err})
	}
	return http.StatusOK, payload
}

func (h *Handler) errorResult(log *zap.Logger, err error) (int, []byte) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		log.Error("unclassified error from interpreter", zap.Error(err))
		ucErr = &usecase.Error{Kind: usecase.ErrorInternal, Message: usecase.MessageGenericFailure}
	}
	status := statusForKind(ucErr.Kind)
	log.Debug("request rejected", zap.Int("status", status), zap.String("kind", string(ucErr.Kind)), zap.String("reason", ucErr.Reason))

	payload, marshalErr := json.Marshal(errorResponse{Error: errorBody{Code: string(ucErr.Kind), Message: ucErr.Message}})
	if marshalErr != nil {
		return http.StatusInternalServerError, []byte(`{"success":false,"error":{"code":"INTERNAL","message":"` + usecase.MessageGenericFailure + `"}}`)
	}
	return status, payload
}

func statusForKind(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.ErrorUnauthenticated:
		return http.StatusUnauthorized
	case usecase.ErrorInvalidArgument, usecase.ErrorFailedPrecondition:
		return http.StatusBadRequest
	case usecase.ErrorDeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// authorizerCaller extracts the caller from a Lambda or Cognito authorizer
// context.
func authorizerCaller(authorizer map[string]interface{}) string {
	if id, ok := authorizer["principalId"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	claims, ok := authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok {
		return strings.TrimSpace(sub)
	}
	return ""
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
