package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator creates the request validator with the custom rules
func newValidator() *validator.Validate {
	validate := validator.New()

	// Report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// phone: optional leading +, then 7 to 15 digits; spaces and dashes are ignored
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
		value = strings.TrimPrefix(value, "+")
		if len(value) < 7 || len(value) > 15 {
			return false
		}
		for _, char := range value {
			if char < '0' || char > '9' {
				return false
			}
		}
		return true
	})

	return validate
}

// validationDetail turns validator errors into a single readable message
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", field))
		case "phone":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid phone number", field))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s characters", field, bound(fe.Tag()), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
