// Package normalization maps loosely written user input (flags, config values)
// onto typed enum values.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string // sorted, for error messages
}

// NewEnumNormalizer creates a normalizer for the enum called name. Keys of
// values are matched case-insensitively and ignoring surrounding space;
// several keys may map to the same value to accept aliases.
func NewEnumNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	slices.Sort(validKeys)

	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to the enum value, returning the default when raw is
// not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.validValues[clean(raw)]; ok {
		return value
	}
	return n.defaultValue
}

// NormalizeWithValidation converts raw to the enum value or reports which
// values would have been accepted.
func (n *Normalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	if value, ok := n.validValues[clean(raw)]; ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", n.name, raw, strings.Join(n.validKeys, ", "))
}

// IsValid reports whether raw names a known value.
func (n *Normalizer[T]) IsValid(raw string) bool {
	_, ok := n.validValues[clean(raw)]
	return ok
}

// ValidValues returns all accepted spellings, sorted.
func (n *Normalizer[T]) ValidValues() []string {
	return slices.Clone(n.validKeys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
