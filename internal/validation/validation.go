// Package validation holds the input rules for stamp entry: required fields,
// parseable decimal amounts and ISO dates. They apply to the HTTP and CLI
// surfaces only; the store accepts whatever it is given.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rwreynolds/stampcollect/internal/models"
)

// TagName matches gin's binding tag so one set of struct tags serves both
// gin's validator and New.
const TagName = "binding"

const isoDateLayout = "2006-01-02"

// Error reports every rule a stamp request broke
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "invalid stamp: " + strings.Join(e.Messages, "; ")
}

// std is shared; a Validate is safe for concurrent use once configured
var std = New()

// ToStamp checks req against the stamp rules and converts it. Failures are
// returned as *Error.
func ToStamp(req models.StampRequest) (models.Stamp, error) {
	if err := std.Struct(req); err != nil {
		return models.Stamp{}, &Error{Messages: Messages(err)}
	}
	stamp, err := req.ToStamp()
	if err != nil {
		return models.Stamp{}, &Error{Messages: []string{err.Error()}}
	}
	return stamp, nil
}

// New returns a validator with the custom stamp rules registered
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	if err := Register(v); err != nil {
		// Registration only fails on an empty tag or nil func
		panic(err)
	}
	return v
}

// Register installs the custom rules on an existing validator, e.g. gin's
// binding engine.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]validator.Func{
		"notblank": notBlank,
		"decimal":  isDecimal,
		"isodate":  isISODate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isISODate(fl validator.FieldLevel) bool {
	return IsISODate(fl.Field().String())
}

// IsISODate reports whether s is a YYYY-MM-DD calendar date
func IsISODate(s string) bool {
	_, err := time.Parse(isoDateLayout, s)
	return err == nil
}

// Messages renders one human-readable message per failed field. Errors that
// are not validation errors are returned as a single message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "decimal":
		return fmt.Sprintf("%s must be a decimal amount", field)
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
