package models

import (
	"regexp"
	"strings"
)

// Format identifies which ingestion pipeline produced a record
type Format string

const (
	FormatMTF   Format = "mtf"
	FormatBLK   Format = "blk"
	FormatMUL   Format = "mul"
	FormatBoard Format = "board"
)

// Record is the canonical ordered mapping shared by all pipelines.
// Values are string, int, float64, []any or *Record.
type Record struct {
	Format Format

	keys   []string
	values map[string]any
}

// NewRecord creates an empty record tagged with its source format
func NewRecord(format Format) *Record {
	return &Record{
		Format: format,
		values: make(map[string]any),
	}
}

// Set stores a value. An existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in insertion order
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Each calls fn for every field in order
func (r *Record) Each(fn func(key string, value any)) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		fn(k, r.values[k])
	}
}

// String returns the value under key if it is a string, "" otherwise
func (r *Record) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Int returns the value under key if it is an int
func (r *Record) Int(key string) (int, bool) {
	v, _ := r.Get(key)
	i, ok := v.(int)
	return i, ok
}

// Record returns the nested record under key, nil if absent
func (r *Record) Record(key string) *Record {
	v, _ := r.Get(key)
	nested, _ := v.(*Record)
	return nested
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeKey lower-cases a field name and replaces whitespace runs with underscores
func NormalizeKey(key string) string {
	return ReplaceWhitespace(strings.ToLower(strings.TrimSpace(key)), "_")
}

// ReplaceWhitespace replaces every whitespace run in s with sep
func ReplaceWhitespace(s, sep string) string {
	return whitespaceRun.ReplaceAllString(s, sep)
}

// DisplayName builds the unit lookup key: "chassis model", or just chassis
// when the model is empty.
func DisplayName(chassis, model string) string {
	if model == "" {
		return chassis
	}
	return chassis + " " + model
}
