// Package colorpolicy enforces the grayscale-only color rule on command
// parameters.
package colorpolicy

import (
	"strconv"
	"strings"
)

// ViolationMessage is the user-facing message returned when any scanned
// color is not grayscale.
const ViolationMessage = "Only grayscale colors are allowed. Please use black, white, or shades of gray."

var colorKeys = []string{"color", "fill", "stroke"}

var shapeColorKeys = []string{"fill", "stroke"}

// Result reports the outcome of a policy check.
type Result struct {
	IsValid    bool
	Violations []string
}

// IsGrayscale reports whether color is a 6-digit hex value with equal red,
// green and blue channels. Strings that are not 6-digit hex values are
// treated as valid; format is not this check's concern.
func IsGrayscale(color string) bool {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return true
	}
	r, errR := strconv.ParseUint(hex[0:2], 16, 8)
	g, errG := strconv.ParseUint(hex[2:4], 16, 8)
	b, errB := strconv.ParseUint(hex[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return true
	}
	return r == g && g == b
}

// Check scans parameters.color, parameters.fill, parameters.stroke and the
// fill and stroke of every parameters.templateData.shapes entry.
func Check(parameters map[string]any) Result {
	var violations []string
	collect := func(m map[string]any, keys []string) {
		for _, key := range keys {
			s, ok := m[key].(string)
			if ok && !IsGrayscale(s) {
				violations = append(violations, s)
			}
		}
	}

	collect(parameters, colorKeys)

	if data, ok := parameters["templateData"].(map[string]any); ok {
		if shapes, ok := data["shapes"].([]any); ok {
			for _, shape := range shapes {
				if m, ok := shape.(map[string]any); ok {
					collect(m, shapeColorKeys)
				}
			}
		}
	}

	return Result{IsValid: len(violations) == 0, Violations: violations}
}
