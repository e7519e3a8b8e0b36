package parsers

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// isDigits reports whether s is a non-empty run of ASCII decimal digits.
// Zero-padded identifiers such as "007" qualify as well.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isDecimal reports whether s is digits with at least one dot, e.g. "1.5".
// Strings like "1.2.3" pass here and are rejected by strconv later.
func isDecimal(s string) bool {
	return strings.Contains(s, ".") && isDigits(strings.ReplaceAll(s, ".", ""))
}

// coerceDigits turns a purely numeric string into an int. Anything else,
// including values that overflow, is returned unchanged.
func coerceDigits(s string) any {
	if !isDigits(s) {
		return s
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}

// coerceLeaf applies the pseudo-markup leaf rules: digits become int,
// dotted numbers become float64 (or int when integral), the rest stays
// a string.
func coerceLeaf(s string) any {
	if isDigits(s) {
		return coerceDigits(s)
	}
	if isDecimal(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s
		}
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return int(f)
		}
		return f
	}
	return s
}

// coerceInt converts a signed integer token; anything else stays a string
func coerceInt(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

// SplitCamelCase splits s before every lower→Upper transition and before
// the last capital of a capital run followed by a lower-case letter:
// "primaryFactory" → [primary Factory], "ICEEngine" → [ICE Engine].
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	start := 0
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		boundary := isLower(prev) && isUpper(cur)
		if !boundary && isUpper(prev) && isUpper(cur) && i+1 < len(s) && isLower(s[i+1]) {
			boundary = true
		}
		if boundary {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	return append(parts, s[start:])
}

// readFile loads a pipeline input, reporting a missing path as ErrMissingFile
func readFile(format models.Format, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ParseError{Format: format, Field: path, Kind: ErrMissingFile, Err: err}
		}
		return "", err
	}
	return string(data), nil
}
