package openai

import "strings"

// truncateRunes bounds text to at most n runes before it is sent to the
// analyst, keeping prompts within model context limits.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// joinOrNone renders a list for prompt interpolation, with an explicit
// marker for empty lists so the model does not invent entries.
func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
