// Package sanitize repairs model output so a markdown renderer never sees
// unbalanced emphasis markers.
package sanitize

import "strings"

const codeFence = "```"

// balanced markers, checked independently per line
var markers = []string{"*", "_"}

// Clean removes code fences, strips any marker that occurs an odd number of
// times on a line, drops empty lines and joins the rest with a blank line.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, codeFence, "")

	var lines []string
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, m := range markers {
			if strings.Count(line, m)%2 != 0 {
				line = strings.ReplaceAll(line, m, "")
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n\n")
}

// isLineBreak treats bare carriage returns, form feeds, vertical tabs, the
// ASCII separators and the Unicode line separators as line ends.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// StripMarkers removes every emphasis marker, for renderers that reject
// markdown altogether.
func StripMarkers(text string) string {
	for _, m := range markers {
		text = strings.ReplaceAll(text, m, "")
	}
	return text
}
