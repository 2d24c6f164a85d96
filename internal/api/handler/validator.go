package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValidator wraps go-playground/validator and renders failures as the
// per-field messages the views show next to each input. Field names are
// taken from json tags so they match the request payload.
type FormValidator struct {
	v *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FormValidator{v: v}
}

// Validate returns a map of field name to message, empty when the value
// passes. Validation happens before dispatch, so an invalid form never
// reaches the network.
func (fv *FormValidator) Validate(i any) map[string]string {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fields["form"] = err.Error()
		return fields
	}
	for _, fe := range ve {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

// fieldMessage converts a single ValidationError into the exact message the
// views display.
func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

func fieldLabel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
