package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"canvas-agent/internal/domain"
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```(?i:json)[ \t]*\\r?\\n?(.*?)```")
	anyFencePattern  = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\\r?\\n?(.*?)```")
)

// extractPayload isolates the JSON text from a raw completion. A fenced block
// labeled json wins over any other fenced block; without fences the whole
// text is used.
func extractPayload(raw string) string {
	if m := jsonFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// parseCommand checks that payload is JSON with truthy category and action.
// Nothing else about the parameters is validated here.
func parseCommand(payload string) (domain.Command, error) {
	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return domain.Command{}, newError(ErrorInternal, "invalid_response_format", MessageInvalidFormat,
			fmt.Errorf("usecase: decode command: %w", err))
	}

	obj, _ := decoded.(map[string]any)
	if !truthy(obj["category"]) || !truthy(obj["action"]) {
		return domain.Command{}, newError(ErrorInternal, "missing_required_fields", MessageMissingFields, nil)
	}

	params, _ := obj["parameters"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return domain.Command{
		Category:   domain.Category(asString(obj["category"])),
		Action:     asString(obj["action"]),
		Parameters: params,
	}, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
