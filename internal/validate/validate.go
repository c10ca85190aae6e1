package validate

import (
	"fmt"
	"reflect"
	"strings"

	"AccountAPI/internal/dto"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated rule, reported by json field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violated rule for one request, in declaration order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Engine checks create/update requests against their rule-sets. All fields
// are checked; the result lists every violation, not just the first.
type Engine struct {
	v *validator.Validate
}

// New returns an Engine with the dto.Date type and json field names wired in.
func New() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(dto.Date); ok {
			return d.Time()
		}
		return nil
	}, dto.Date{})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Engine{v: v}
}

// Create validates a CreateUserRequest. Returns nil or *Error.
func (e *Engine) Create(req dto.CreateUserRequest) error {
	return e.check(req)
}

// Update validates an UpdateUserRequest. The password is intentionally not
// part of the rule-set; updates never ask for it.
func (e *Engine) Update(req dto.UpdateUserRequest) error {
	return e.check(req)
}

func (e *Engine) check(req any) error {
	err := e.v.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
