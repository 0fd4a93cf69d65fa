// Package uid provides identifier generators behind small interfaces so
// callers can swap real generators for deterministic fakes in tests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}
