// Package validation holds the input rules shared by the HTTP handlers and
// the command line.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// emailPattern is the address shape accepted at registration. Length is
// checked separately (3 to 254 characters).
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Error is the first failed rule, phrased for the client.
type Error struct {
	Field   string
	Rule    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Registration holds the fields of a new account.
type Registration struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Email    string `json:"email" validate:"required,min=3,max=254,email_shape"`
	Password string `json:"password" validate:"required,min=8,bcrypt_len"`
}

// Validate applies the registration rules.
func (r Registration) Validate() error {
	return Struct(r)
}

var validate = newValidator()

// Struct checks v against its validate tags. The result is nil or an *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &Error{Message: "Invalid request"}
	}
	fe := errs[0]
	return &Error{Field: fe.Field(), Rule: fe.Tag(), Message: message(fe)}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	mustRegister(v, "web_url", func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	})
	mustRegister(v, "uuid_id", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// IsWebURL accepts absolute http and https URLs with a host.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s too long (max %s chars)", field, fe.Param())
	case "email_shape":
		return "Invalid email address"
	case "bcrypt_len":
		return fmt.Sprintf("%s too long (max %d bytes)", field, MaxPasswordBytes)
	case "web_url":
		return field + " must be a valid http/https URL"
	case "uuid_id":
		return field + " must be a UUID"
	default:
		return field + " is invalid"
	}
}
