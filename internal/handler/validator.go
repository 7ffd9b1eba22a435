package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator registers the "notpast" rule (a 2006-01-02 date that is
// today or later) and reports fields by their JSON names.
func NewValidator() *RequestValidator {
	rv := &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}
	rv.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = rv.v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		d, err := time.ParseInLocation(dateLayout, fl.Field().String(), time.Local)
		if err != nil {
			return false
		}
		y, m, day := rv.now().Date()
		return !d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.Local))
	})
	return rv
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", f, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", f, fe.Param())
	case "notpast":
		return f + " must not be in the past"
	}
	return fmt.Sprintf("%s failed %s", f, fe.Tag())
}
