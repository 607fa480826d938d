package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"canvas-agent/internal/domain"
)

func TestSanitizeLabel(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "Plain label", want: "Plain label"},
		{name: "tag", raw: "<b>Bold</b>", want: "Bold"},
		{name: "script element", raw: "<script>alert(1)</script>Hi", want: "Hi"},
		{name: "ampersand", raw: "Terms & Conditions", want: "Terms &amp; Conditions"},
		{name: "named entity script", raw: "&lt;script&gt;alert(1)&lt;/script&gt;", want: ""},
		{name: "named entity img", raw: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "numeric entities", raw: "&#60;b&#62;x&#60;/b&#62;", want: "x"},
		{name: "hex entities", raw: "&#x3c;i&#x3e;y&#x3c;/i&#x3e;", want: "y"},
		{name: "double encoded", raw: "&amp;lt;b&amp;gt;z&amp;lt;/b&amp;gt;", want: "z"},
		{name: "stray angle bracket", raw: "a < b", want: "a &lt; b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeLabel(tc.raw)
			require.Equal(t, tc.want, got)
			require.NotContains(t, got, "<")
			require.NotContains(t, got, ">")
		})
	}
}

func TestSanitizeLabel_DeeplyEncodedStaysInert(t *testing.T) {
	raw := "<b>x</b>"
	for i := 0; i < maxDecodePasses+3; i++ {
		raw = strings.ReplaceAll(raw, "&", "&amp;")
		raw = strings.ReplaceAll(strings.ReplaceAll(raw, "<", "&lt;"), ">", "&gt;")
	}
	got := sanitizeLabel(raw)
	require.NotContains(t, got, "<")
	require.NotContains(t, got, ">")
}

func TestSanitizeLabels_WalksAllTextFields(t *testing.T) {
	cmd := domain.Command{
		Category: domain.CategoryComplex,
		Action:   "create-template",
		Parameters: map[string]any{
			"text":    "<i>a</i>",
			"message": "<u>m</u>",
			"texts":   []any{"<b>one</b>", 2, "two"},
			"templateData": map[string]any{
				"shapes": []any{
					map[string]any{"text": "<em>label</em>"},
					map[string]any{"text": "&lt;em&gt;encoded&lt;/em&gt;"},
					map[string]any{"fill": "#FFFFFF"},
				},
			},
		},
	}
	sanitizeLabels(&cmd)

	require.Equal(t, "a", cmd.Parameters["text"])
	require.Equal(t, "m", cmd.Parameters["message"])
	require.Equal(t, []any{"one", 2, "two"}, cmd.Parameters["texts"])
	shapes := cmd.Parameters["templateData"].(map[string]any)["shapes"].([]any)
	require.Equal(t, "label", shapes[0].(map[string]any)["text"])
	require.Equal(t, "encoded", shapes[1].(map[string]any)["text"])
}
