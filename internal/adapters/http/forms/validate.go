package forms

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its messages
type FieldErrors map[string][]string

// Add appends msg to field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether field has at least one message
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the first message of field
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Merge copies every message of other into fe
func (fe FieldErrors) Merge(other map[string][]string) {
	for field, msgs := range other {
		for _, m := range msgs {
			fe.Add(field, m)
		}
	}
}

// Any reports whether fe holds at least one message
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Errors are keyed by the name the browser posts, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		n, err := ParseDecimal(fl.Field().String())
		return err == nil && n > 0
	})

	return v
}

// Validate runs the struct tags of form and returns nil when everything passes
func Validate(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_form": {err.Error()}}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	label := strings.ReplaceAll(strings.TrimSuffix(fe.Field(), "_id"), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "number", "numeric":
		return fmt.Sprintf("The %s must be a number.", label)
	case "amount":
		return fmt.Sprintf("The %s must be a positive number.", label)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", label)
	}
	return fmt.Sprintf("The %s is invalid.", label)
}

// ErrNotDecimal is returned for input that is not a plain finite decimal
var ErrNotDecimal = errors.New("not a decimal number")

// ParseDecimal reads a user-typed number such as "1200", "12.5", "12,5" or " 84 ".
// Only digits, one separator and a leading sign are accepted, so "Inf", "NaN",
// hex floats and exponents are rejected.
func ParseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || len(s)-len(digits) > 1 || strings.IndexFunc(digits, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}) >= 0 {
		return 0, ErrNotDecimal
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, ErrNotDecimal
	}
	return n, nil
}

// ParseInt reads a user-typed whole number
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
