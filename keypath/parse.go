package keypath

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses the textual form produced by Path.String.
// Supports: "key", "a.b", "list[3]", "a.list[0].b", `map["x.y"]`.
func Parse(path string) (Path, error) {
	var out Path

	rest := path
	expectKey := true

	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "["):
			end := closingBracket(rest)
			if end < 0 {
				return nil, fmt.Errorf("invalid path %q: unterminated bracket", path)
			}

			inner := rest[1:end]
			rest = rest[end+1:]

			if strings.HasPrefix(inner, `"`) {
				key, err := strconv.Unquote(inner)
				if err != nil {
					return nil, fmt.Errorf("invalid path %q: bad quoted key %s", path, inner)
				}

				out = append(out, Key(key))
			} else {
				i, err := strconv.Atoi(inner)
				if err != nil || i < 0 {
					return nil, fmt.Errorf("invalid path %q: bad index %q", path, inner)
				}

				out = append(out, Index(i))
			}

			expectKey = false

		case strings.HasPrefix(rest, "."):
			if expectKey {
				return nil, fmt.Errorf("invalid path %q: empty segment", path)
			}

			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("invalid path %q: trailing dot", path)
			}

			expectKey = true

		default:
			if !expectKey {
				return nil, fmt.Errorf("invalid path %q: missing dot before %q", path, rest)
			}

			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}

			out = append(out, Key(rest[:end]))
			rest = rest[end:]
			expectKey = false
		}
	}

	return out, nil
}

// MustParse is Parse that panics on malformed input.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

// closingBracket finds the bracket closing s[0], skipping quoted text.
func closingBracket(s string) int {
	quoted := false

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ']':
			if !quoted {
				return i
			}
		}
	}

	return -1
}
