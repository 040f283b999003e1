package schema_test

import (
	"testing"

	"github.com/corvantis/goyaml/schema"
)

type signupForm struct {
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=130"`
}

func TestNewValidatorRejectsInvalidStruct(t *testing.T) {
	v := schema.NewValidator()
	err := v.Struct(signupForm{Email: "not-an-email", Age: 200})
	if err == nil {
		t.Fatalf("Struct() error = nil; want validation failure")
	}
}

func TestNewValidatorAcceptsValidStruct(t *testing.T) {
	v := schema.NewValidator()
	err := v.Struct(signupForm{Email: "user@example.com", Age: 30})
	if err != nil {
		t.Fatalf("Struct() error = %v; want nil", err)
	}
}

func TestNewValidatorIgnoresNil(t *testing.T) {
	v := schema.NewValidator()
	if err := v.Struct(nil); err != nil {
		t.Fatalf("Struct(nil) error = %v; want nil", err)
	}
}
