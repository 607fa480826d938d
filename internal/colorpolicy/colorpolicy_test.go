package colorpolicy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGrayscale_EqualChannels(t *testing.T) {
	for v := 0; v < 256; v += 17 {
		hex := fmt.Sprintf("%02X%02X%02X", v, v, v)
		require.True(t, IsGrayscale("#"+hex), hex)
		require.True(t, IsGrayscale(hex), hex)
	}
	require.True(t, IsGrayscale("#abABab"))
}

func TestIsGrayscale_DifferingChannel(t *testing.T) {
	cases := []string{"#FF0000", "#00FF00", "#0000FF", "#808081", "#7F8080", "808180", "#aabbaa"}
	for _, c := range cases {
		require.False(t, IsGrayscale(c), c)
	}
}

func TestIsGrayscale_MalformedPasses(t *testing.T) {
	cases := []string{"", "#", "#FFF", "#FF00000", "red", "#GG0000", "rgb(255,0,0)", "##FF0000", "#+f+f+f"}
	for _, c := range cases {
		require.True(t, IsGrayscale(c), c)
	}
}

func TestCheck_AllGrayscale(t *testing.T) {
	res := Check(map[string]any{
		"fill":   "#333333",
		"stroke": "#000000",
		"color":  "#FFFFFF",
		"templateData": map[string]any{
			"shapes": []any{
				map[string]any{"fill": "#EEEEEE", "stroke": "#111111"},
				map[string]any{"fill": "#FFFFFF"},
			},
		},
	})
	require.True(t, res.IsValid)
	require.Empty(t, res.Violations)
}

func TestCheck_TopLevelViolation(t *testing.T) {
	for _, key := range []string{"fill", "stroke", "color"} {
		res := Check(map[string]any{key: "#FF0000"})
		require.False(t, res.IsValid, key)
		require.Equal(t, []string{"#FF0000"}, res.Violations)
	}
}

func TestCheck_TemplateShapeViolation(t *testing.T) {
	res := Check(map[string]any{
		"fill": "#222222",
		"templateData": map[string]any{
			"shapes": []any{
				map[string]any{"fill": "#EEEEEE", "stroke": "#00FF00"},
				"not-a-shape",
				map[string]any{"fill": "#0000FF"},
			},
		},
	})
	require.False(t, res.IsValid)
	require.ElementsMatch(t, []string{"#00FF00", "#0000FF"}, res.Violations)
}

func TestCheck_IgnoresUnscannedFieldsAndNonStrings(t *testing.T) {
	res := Check(map[string]any{
		"background":   "#FF0000",
		"fill":         12,
		"templateData": "junk",
	})
	require.True(t, res.IsValid)
}

func TestCheck_NilParameters(t *testing.T) {
	require.True(t, Check(nil).IsValid)
}
