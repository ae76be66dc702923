package scm

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tphakala/go-scm/internal/api"
)

// Sentinel errors for common failure modes.
var (
	ErrNoCredentials = errors.New("scm: no credentials configured")
	ErrNoBaseURL     = errors.New("scm: no base URL configured")
)

// HTTPError is the transport-level failure for a response with status >= 400.
// The classifier returns it unchanged when the response carried no body.
type HTTPError = api.HTTPError

// API error codes reported in the "code" field of an "_errors" entry.
const (
	CodeBadRequest       = "E003"
	CodeObjectNotPresent = "E005"
	CodeNameNotUnique    = "E006"
	CodeUnauthorized     = "E007"
	CodeReferenceNotZero = "E009"
	CodeNotImplemented   = "E012"
	CodeFormatMismatch   = "E013"
	CodeNotAuthenticated = "E016"
)

// APIError is the base of every SCM API error. Details holds the
// backend's "details" value verbatim, or a local description for errors
// detected by the SDK itself.
type APIError struct {
	Message    string
	ErrorCode  string
	StatusCode int
	Details    any
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s - HTTP error: %d - API error: %s", formatDetails(e.Details, e.Message), e.StatusCode, e.ErrorCode)
}

// formatDetails renders details in a JSON-like shape. String contents are
// written unescaped so the backend's wording survives verbatim.
func formatDetails(details any, fallback string) string {
	if isEmpty(details) {
		return fallback
	}
	if s, ok := details.(string); ok {
		return s
	}
	var b strings.Builder
	writeDetail(&b, reflect.ValueOf(details))
	return b.String()
}

// writeDetail writes maps with sorted keys, slices in order and scalars
// with fmt.
func writeDetail(b *strings.Builder, v reflect.Value) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			b.WriteString("null")
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Invalid:
		b.WriteString("null")
	case reflect.String:
		b.WriteByte('"')
		b.WriteString(v.String())
		b.WriteByte('"')
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(fmt.Sprint(k.Interface()))
			b.WriteString(`":`)
			writeDetail(b, v.MapIndex(k))
		}
		b.WriteByte('}')
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := range v.Len() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeDetail(b, v.Index(i))
		}
		b.WriteByte(']')
	default:
		fmt.Fprint(b, v.Interface())
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// AuthenticationError indicates the credentials were rejected (401).
type AuthenticationError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthenticationError) As(target any) bool { return asAPIError(&e.APIError, target) }

// AuthorizationError indicates the caller lacks permission (403).
type AuthorizationError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AuthorizationError) As(target any) bool { return asAPIError(&e.APIError, target) }

// MalformedCommandError indicates the backend rejected the request structure.
type MalformedCommandError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *MalformedCommandError) As(target any) bool { return asAPIError(&e.APIError, target) }

// InvalidObjectError indicates a payload, shape or validation failure,
// detected either by the backend or locally.
type InvalidObjectError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *InvalidObjectError) As(target any) bool { return asAPIError(&e.APIError, target) }

// MissingQueryParameterError indicates a required parameter was empty or absent.
type MissingQueryParameterError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *MissingQueryParameterError) As(target any) bool { return asAPIError(&e.APIError, target) }

// NotFoundError indicates the object or its container does not exist (404).
type NotFoundError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *NotFoundError) As(target any) bool { return asAPIError(&e.APIError, target) }

// ConflictError is a 409 that is neither a uniqueness nor a reference conflict.
type ConflictError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ConflictError) As(target any) bool { return asAPIError(&e.APIError, target) }

// AlreadyExistsError indicates a uniqueness violation on create.
type AlreadyExistsError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *AlreadyExistsError) As(target any) bool { return asAPIError(&e.APIError, target) }

// ReferenceNotZeroError indicates a delete blocked by objects that still
// reference the target.
type ReferenceNotZeroError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ReferenceNotZeroError) As(target any) bool { return asAPIError(&e.APIError, target) }

// MethodNotAllowedError indicates the action is not supported (405).
type MethodNotAllowedError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *MethodNotAllowedError) As(target any) bool { return asAPIError(&e.APIError, target) }

// PayloadTooLargeError indicates the request body exceeded the backend limit (413).
type PayloadTooLargeError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *PayloadTooLargeError) As(target any) bool { return asAPIError(&e.APIError, target) }

// UnsupportedMediaTypeError indicates an input format mismatch (415).
type UnsupportedMediaTypeError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *UnsupportedMediaTypeError) As(target any) bool { return asAPIError(&e.APIError, target) }

// ServerError indicates an unclassified internal server error (500).
type ServerError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ServerError) As(target any) bool { return asAPIError(&e.APIError, target) }

// NotImplementedError indicates an API version or method the backend does
// not support (501).
type NotImplementedError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *NotImplementedError) As(target any) bool { return asAPIError(&e.APIError, target) }

// GatewayTimeoutError indicates the backend timed out (504).
type GatewayTimeoutError struct {
	APIError
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *GatewayTimeoutError) As(target any) bool { return asAPIError(&e.APIError, target) }

func asAPIError(base *APIError, target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = base
		return true
	}
	return false
}

// invalidObject builds a locally detected InvalidObjectError.
func invalidObject(statusCode int, message string, details any) *InvalidObjectError {
	return &InvalidObjectError{APIError: APIError{
		Message:    message,
		ErrorCode:  CodeBadRequest,
		StatusCode: statusCode,
		Details:    details,
	}}
}

// missingQueryParameter builds a locally detected MissingQueryParameterError.
func missingQueryParameter(field string) *MissingQueryParameterError {
	return &MissingQueryParameterError{APIError: APIError{
		Message:    fmt.Sprintf("Field '%s' cannot be empty", field),
		ErrorCode:  CodeBadRequest,
		StatusCode: 400,
		Details: map[string]any{
			"field": field,
			"error": fmt.Sprintf("%q is not allowed to be empty", field),
		},
	}}
}
