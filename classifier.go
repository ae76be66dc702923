package scm

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

type errorKind int

const (
	kindGeneric errorKind = iota
	kindAuthentication
	kindAuthorization
	kindMalformedCommand
	kindInvalidObject
	kindMissingQueryParameter
	kindNotFound
	kindConflict
	kindAlreadyExists
	kindReferenceNotZero
	kindMethodNotAllowed
	kindPayloadTooLarge
	kindUnsupportedMediaType
	kindServer
	kindNotImplemented
	kindGatewayTimeout
)

// Backend "details.errorType" values.
const (
	errorTypeMissingQueryParameter = "Missing Query Parameter"
	errorTypeMalformedCommand      = "Malformed Command"
	errorTypeInvalidObject         = "Invalid Object"
	errorTypeInvalidQueryParameter = "Invalid Query Parameter"
	errorTypeObjectNotPresent      = "Object Not Present"
	errorTypeOperationImpossible   = "Operation Impossible"
	errorTypeObjectAlreadyExists   = "Object Already Exists"
	errorTypeObjectNotUnique       = "Object Not Unique"
	errorTypeNameNotUnique         = "Name Not Unique"
	errorTypeReferenceNotZero      = "Reference Not Zero"
)

// errorTypeTable maps (status, errorType) to the most specific error kind.
var errorTypeTable = map[int]map[string]errorKind{
	http.StatusBadRequest: {
		errorTypeMissingQueryParameter: kindMissingQueryParameter,
		errorTypeMalformedCommand:      kindMalformedCommand,
		errorTypeInvalidObject:         kindInvalidObject,
		errorTypeInvalidQueryParameter: kindInvalidObject,
	},
	http.StatusNotFound: {
		errorTypeObjectNotPresent:    kindNotFound,
		errorTypeOperationImpossible: kindNotFound,
	},
	http.StatusConflict: {
		errorTypeObjectAlreadyExists: kindAlreadyExists,
		errorTypeObjectNotUnique:     kindAlreadyExists,
		errorTypeNameNotUnique:       kindAlreadyExists,
		errorTypeReferenceNotZero:    kindReferenceNotZero,
	},
	http.StatusInternalServerError: {
		errorTypeInvalidObject: kindInvalidObject,
	},
}

// statusTable is consulted when the errorType has no entry for the status.
var statusTable = map[int]errorKind{
	http.StatusBadRequest:            kindInvalidObject,
	http.StatusForbidden:             kindAuthorization,
	http.StatusNotFound:              kindNotFound,
	http.StatusMethodNotAllowed:      kindMethodNotAllowed,
	http.StatusConflict:              kindConflict,
	http.StatusRequestEntityTooLarge: kindPayloadTooLarge,
	http.StatusUnsupportedMediaType:  kindUnsupportedMediaType,
	http.StatusInternalServerError:   kindServer,
	http.StatusNotImplemented:        kindNotImplemented,
	http.StatusGatewayTimeout:        kindGatewayTimeout,
}

func lookupKind(statusCode int, errorType string) errorKind {
	if statusCode == http.StatusUnauthorized {
		return kindAuthentication
	}
	if kind, ok := errorTypeTable[statusCode][errorType]; ok {
		return kind
	}
	if kind, ok := statusTable[statusCode]; ok {
		return kind
	}
	return kindGeneric
}

func newAPIError(kind errorKind, base APIError) error {
	switch kind {
	case kindAuthentication:
		return &AuthenticationError{APIError: base}
	case kindAuthorization:
		return &AuthorizationError{APIError: base}
	case kindMalformedCommand:
		return &MalformedCommandError{APIError: base}
	case kindInvalidObject:
		return &InvalidObjectError{APIError: base}
	case kindMissingQueryParameter:
		return &MissingQueryParameterError{APIError: base}
	case kindNotFound:
		return &NotFoundError{APIError: base}
	case kindConflict:
		return &ConflictError{APIError: base}
	case kindAlreadyExists:
		return &AlreadyExistsError{APIError: base}
	case kindReferenceNotZero:
		return &ReferenceNotZeroError{APIError: base}
	case kindMethodNotAllowed:
		return &MethodNotAllowedError{APIError: base}
	case kindPayloadTooLarge:
		return &PayloadTooLargeError{APIError: base}
	case kindUnsupportedMediaType:
		return &UnsupportedMediaTypeError{APIError: base}
	case kindServer:
		return &ServerError{APIError: base}
	case kindNotImplemented:
		return &NotImplementedError{APIError: base}
	case kindGatewayTimeout:
		return &GatewayTimeoutError{APIError: base}
	default:
		return &base
	}
}

// ClassifyError converts a transport failure into the matching API error.
// Errors that are not *HTTPError, and HTTP errors without a body, are
// returned unchanged.
func ClassifyError(err error) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	body := bytes.TrimSpace(httpErr.Body)
	if len(body) == 0 {
		return err
	}

	var content any
	if jsonErr := json.Unmarshal(body, &content); jsonErr != nil {
		content = string(body)
	}
	if isEmpty(content) {
		return err
	}

	classified := ErrorFromContent(httpErr.StatusCode, content)
	var apiErr *APIError
	if errors.As(classified, &apiErr) && apiErr.RequestID == "" && httpErr.Headers != nil {
		apiErr.RequestID = httpErr.Headers.Get("X-Request-ID")
	}
	return classified
}

// ErrorFromContent builds the API error for a status code and parsed
// error body of the form
//
//	{"_errors": [{"code": "...", "message": "...", "details": {"errorType": "..."}}], "_request_id": "..."}
//
// A body that does not have this shape yields an InvalidObjectError at the
// same status code carrying whatever fragments were present, including a
// nil body.
func ErrorFromContent(statusCode int, content any) error {
	if content == nil {
		return malformedErrorBody(statusCode, "", nil)
	}

	body, ok := content.(map[string]any)
	if !ok {
		return malformedErrorBody(statusCode, "", content)
	}
	requestID, _ := body["_request_id"].(string)

	entries, ok := body["_errors"].([]any)
	if !ok || len(entries) == 0 {
		err := malformedErrorBody(statusCode, "", content)
		err.RequestID = requestID
		return err
	}

	entry, ok := entries[0].(map[string]any)
	if !ok {
		err := malformedErrorBody(statusCode, "", entries[0])
		err.RequestID = requestID
		return err
	}

	code, _ := entry["code"].(string)
	message, _ := entry["message"].(string)
	details, hasDetails := entry["details"]

	var errorType string
	if d, ok := details.(map[string]any); ok {
		errorType, _ = d["errorType"].(string)
	}

	if code == "" || errorType == "" {
		fragment := any(entry)
		if hasDetails && !isEmpty(details) {
			fragment = details
		}
		err := malformedErrorBody(statusCode, code, fragment)
		err.RequestID = requestID
		if message != "" {
			err.Message = message
		}
		return err
	}

	return newAPIError(lookupKind(statusCode, errorType), APIError{
		Message:    message,
		ErrorCode:  code,
		StatusCode: statusCode,
		Details:    details,
		RequestID:  requestID,
	})
}

func malformedErrorBody(statusCode int, code string, fragment any) *InvalidObjectError {
	return &InvalidObjectError{APIError: APIError{
		Message:    "unrecognized error response format",
		ErrorCode:  code,
		StatusCode: statusCode,
		Details:    fragment,
	}}
}
