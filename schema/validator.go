package schema

import "github.com/go-playground/validator/v10"

// StructValidator is invoked after a schema-directed decode populates a
// struct. It is the pluggable half of an otherwise external shim: the
// core ships the integration point, and NewValidator below supplies a
// concrete implementation backed by go-playground/validator/v10.
type StructValidator interface {
	Struct(v interface{}) error
}

type tagValidator struct {
	v *validator.Validate
}

// NewValidator returns a StructValidator that checks a decoded struct's
// exported fields against their "validate" struct tags.
func NewValidator() StructValidator {
	return &tagValidator{v: validator.New()}
}

func (t *tagValidator) Struct(v interface{}) error {
	if v == nil {
		return nil
	}
	return t.v.Struct(v)
}
