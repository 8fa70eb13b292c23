package text

import (
	"strings"
	"unicode"
)

// Words splits an identifier into its words.
// Examples:
//   - "SubSection" -> ["Sub", "Section"]
//   - "maxHTTPConns" -> ["max", "HTTP", "Conns"]
//   - "retry_count" -> ["retry", "count"]
//   - "sub-section" -> ["sub", "section"]
//   - "Port8080" -> ["Port8080"]
func Words(s string) []string {
	if s == "" {
		return nil
	}

	var words []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// Join lower- or upper-cases words and joins them with sep.
func Join(words []string, sep string, upper bool) string {
	out := make([]string, len(words))
	for i, w := range words {
		if upper {
			out[i] = strings.ToUpper(w)
		} else {
			out[i] = strings.ToLower(w)
		}
	}

	return strings.Join(out, sep)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsWord reports whether a new word begins at position i.
func startsWord(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if !unicode.IsUpper(r) {
		return false
	}

	// "subSection": lower to upper
	if !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// "HTTPServer": the last capital of an acronym starts the next word
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
