package parsers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maldun/UltraMekCore/models"
)

var tagPunctuation = strings.NewReplacer(":", "", "+", "", "*", "")

// NormalizeTags rewrites every bracket tag of a pseudo-markup document into
// a valid XML element name in a single forward pass. A tag interior may hold
// word characters, whitespace, ':', '+', '*' and '.'; anything else is left
// untouched. Opening and closing tags go through the same normalization, so
// <primaryFactory> … </primaryFactory> becomes <primary_factory> … </primary_factory>.
func NormalizeTags(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] == '<' {
			if tag, n, ok := scanTag(text[i:]); ok {
				out.WriteString(tag)
				i += n
				continue
			}
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

// scanTag reads one tag token at the start of s and returns its normalized
// form and the number of bytes consumed.
func scanTag(s string) (string, int, bool) {
	start := 1
	closing := len(s) > 1 && s[1] == '/'
	if closing {
		start = 2
	}

	for j := start; j < len(s); {
		r, size := utf8.DecodeRuneInString(s[j:])
		if r == '>' {
			if j == start {
				return "", 0, false
			}
			name := TagName(s[start:j])
			if closing {
				return "</" + name + ">", j + 1, true
			}
			return "<" + name + ">", j + 1, true
		}
		if !isTagRune(r) {
			return "", 0, false
		}
		j += size
	}
	return "", 0, false
}

func isTagRune(r rune) bool {
	switch r {
	case '_', ':', '+', '*', '.':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)
}

// TagName normalizes a single tag interior: camel-case pieces are
// lower-cased and joined with underscores, whitespace collapses to
// underscores and ':', '+', '*' are dropped.
func TagName(interior string) string {
	parts := SplitCamelCase(strings.TrimSpace(interior))
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	name := models.ReplaceWhitespace(strings.Join(parts, " "), "_")
	return tagPunctuation.Replace(name)
}
