// Package schema validates request models and decodes API payloads into
// typed structs.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	paramPattern     = regexp.MustCompile(`'[^']*'|\S+`)
	namePattern      = regexp.MustCompile(`^[a-zA-Z\d\-_. ]+$`)
	containerPattern = regexp.MustCompile(`^[a-zA-Z\d\-_. ]+$`)
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the field errors as "field: message" strings.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return msgs
}

// Validator wraps go-playground/validator with SCM rules.
type Validator struct {
	validate *validator.Validate
}

// StructLevel is the hook signature for cross-field rules.
type StructLevel = validator.StructLevel

// New creates a Validator that reports JSON field names and knows the
// "scmname" and "scmcontainer" tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("schema: registering %q: %v", tag, err))
		}
	}
	mustRegister("scmname", matchPattern(namePattern))
	mustRegister("scmcontainer", matchPattern(containerPattern))

	return &Validator{validate: v}
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return re.MatchString(value)
	}
}

// RegisterStructValidation adds a cross-field rule for the given types.
func (v *Validator) RegisterStructValidation(fn func(StructLevel), types ...any) {
	v.validate.RegisterStructValidation(validator.StructLevelFunc(fn), types...)
}

// Validate checks obj and returns *ValidationError when constraints fail.
func (v *Validator) Validate(obj any) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := &ValidationError{Errors: make([]FieldError, 0, len(validationErrors))}
	for _, fe := range validationErrors {
		result.Errors = append(result.Errors, FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Field < result.Errors[j].Field
	})
	return result
}

// fieldPath strips the root struct name from the namespace, along with
// untagged embedded structs, which keep their Go name.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := make([]string, 0, len(parts))
	for _, p := range parts[1:] {
		if p == "" || unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items/characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items/characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(splitParams(fe.Param()), ", "))
	case "unique":
		return "list items must be unique"
	case "scmname", "scmcontainer":
		return "string does not match pattern ^[a-zA-Z\\d\\-_. ]+$"
	case "exactly_one":
		return fmt.Sprintf("exactly one of %s must be provided", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required_for_before_after":
		return "required when destination is 'before' or 'after'"
	case "excluded_for_top_bottom":
		return "must not be set when destination is 'top' or 'bottom'"
	case "ip", "cidr", "ip|cidr":
		return "must be a valid IP address or network"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// splitParams splits a oneof parameter list, honoring single quotes.
func splitParams(param string) []string {
	values := paramPattern.FindAllString(param, -1)
	for i, v := range values {
		values[i] = strings.Trim(v, "'")
	}
	return values
}
