package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maldun/UltraMekCore/models"
)

// Error kinds. Match them with errors.Is.
var (
	ErrMissingFile          = errors.New("missing file")
	ErrMalformedSyntax      = errors.New("malformed syntax")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeCoercion         = errors.New("type coercion failed")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrUnknownFormat        = errors.New("unknown format")
)

// ParseError describes where and why a pipeline rejected its input
type ParseError struct {
	Format models.Format
	Line   int    // 1-based, 0 when unknown
	Field  string // offending field or tag, if any
	Kind   error  // one of the Err* kinds above
	Detail string
	Err    error // underlying cause, if any
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Format))
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(format models.Format, line int, detail string, err error) *ParseError {
	return &ParseError{Format: format, Line: line, Kind: ErrMalformedSyntax, Detail: detail, Err: err}
}

func missingField(format models.Format, field, detail string) *ParseError {
	return &ParseError{Format: format, Field: field, Kind: ErrMissingRequiredField, Detail: detail}
}
