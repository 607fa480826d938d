package usecase

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"canvas-agent/internal/domain"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

var labelKeys = []string{"text", "message"}

// sanitizeLabels strips markup from model-produced text in place. Sanitized
// values are HTML-escaped text.
func sanitizeLabels(cmd *domain.Command) {
	params := cmd.Parameters
	for _, key := range labelKeys {
		if s, ok := params[key].(string); ok {
			params[key] = sanitizeLabel(s)
		}
	}
	if texts, ok := params["texts"].([]any); ok {
		for i, t := range texts {
			if s, ok := t.(string); ok {
				texts[i] = sanitizeLabel(s)
			}
		}
	}
	data, ok := params["templateData"].(map[string]any)
	if !ok {
		return
	}
	shapes, _ := data["shapes"].([]any)
	for _, shape := range shapes {
		if m, ok := shape.(map[string]any); ok {
			if s, ok := m["text"].(string); ok {
				m["text"] = sanitizeLabel(s)
			}
		}
	}
}

// maxDecodePasses bounds entity decoding of nested encodings such as
// "&amp;lt;". Anything still encoded after that is escaped again by the
// policy, so it stays inert.
const maxDecodePasses = 8

// sanitizeLabel decodes entities until the value is stable, then sanitizes,
// so entity-encoded markup is stripped like literal markup. The result is
// returned as the policy emits it and never contains a raw '<' or '>'.
func sanitizeLabel(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	decoded := raw
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(decoded)
		if next == decoded {
			break
		}
		decoded = next
	}
	return labelSanitizer().Sanitize(decoded)
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}
