package validator

// Validator validates annotated structs and reports field-level failures.
type Validator interface {
	// Validate returns nil when data passes, or an error describing the
	// failing fields.
	Validate(data any) error
}
