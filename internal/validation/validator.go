// Package validation wraps a shared go-playground validator instance and
// turns its field errors into the messages the API returns.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// linkPattern is the accepted shape of a question link.
var linkPattern = regexp.MustCompile(`https?://(www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_\+.~#?&/=]*)`)

// Error is a failed validation run; Error() joins the per-field messages.
type Error struct {
	messages []string
}

func (e *Error) Error() string {
	if len(e.messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.messages, ", ")
}

// Messages returns one human readable message per failed field.
func (e *Error) Messages() []string {
	return e.messages
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// json names in messages, so they match what the client sent
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})

		_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return linkPattern.MatchString(fl.Field().String())
		})
	})

	return validate
}

// ValidateStruct validates s and returns *Error on failure.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{messages: []string{err.Error()}}
	}

	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = translateError(fe)
	}
	return &Error{messages: messages}
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"httpurl":  "%s must be a valid URL with HTTP or HTTPS",
}

func translateError(fe validator.FieldError) string {
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if fe.Tag() == "oneof" {
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
