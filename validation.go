package scm

import (
	"github.com/tphakala/go-scm/internal/schema"
)

// StructLevel is passed to cross-field validation rules.
type StructLevel = schema.StructLevel

// newValidator builds the schema validator with every cross-field rule
// the request models need.
func newValidator() *schema.Validator {
	v := schema.New()
	v.RegisterStructValidation(validateMoveRequest, MoveRequest{})
	v.RegisterStructValidation(validateAddressRequest, AddressRequest{})
	v.RegisterStructValidation(validateAddressGroupRequest, AddressGroupRequest{})
	v.RegisterStructValidation(validateServiceRequest, ServiceRequest{})
	v.RegisterStructValidation(validateRemoteNetworkRequest, RemoteNetworkRequest{})
	return v
}

// reportExactlyOne reports a violation when the number of set options
// differs from one.
func reportExactlyOne(sl StructLevel, set int, field, structField, options string) {
	if set != 1 {
		sl.ReportError(nil, field, structField, "exactly_one", options)
	}
}
