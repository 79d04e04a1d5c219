package utils

import (
	"strings"
)

// SanitizePayload cleans raw decoder output before JSON parsing.
// Scanners in keyboard-wedge mode prepend a UTF-8 BOM or wrap the text in
// NUL/whitespace padding; some label tools also emit Markdown fences.
func SanitizePayload(input string) string {
	cleaned := strings.Trim(input, " \t\r\n\x00")
	cleaned = strings.TrimPrefix(cleaned, "\ufeff")

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}

	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

// NormalizeID trims and uppercases an identifier for comparison
func NormalizeID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
