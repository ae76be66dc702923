package scm

// AddressEndpoint is the REST path for address objects.
const AddressEndpoint = "/config/objects/v1/addresses"

// Address is an address object.
type Address struct {
	Resource
	Description string   `json:"description,omitempty"`
	Tag         []string `json:"tag,omitempty"`
	IPNetmask   string   `json:"ip_netmask,omitempty"`
	IPRange     string   `json:"ip_range,omitempty"`
	IPWildcard  string   `json:"ip_wildcard,omitempty"`
	FQDN        string   `json:"fqdn,omitempty"`
}

// Type returns which address field is set: "ip_netmask", "ip_range",
// "ip_wildcard" or "fqdn".
func (a *Address) Type() string {
	typ, _ := a.typeAndValue()
	return typ
}

func (a *Address) typeAndValue() (string, string) {
	switch {
	case a.IPNetmask != "":
		return "ip_netmask", a.IPNetmask
	case a.IPRange != "":
		return "ip_range", a.IPRange
	case a.IPWildcard != "":
		return "ip_wildcard", a.IPWildcard
	case a.FQDN != "":
		return "fqdn", a.FQDN
	default:
		return "", ""
	}
}

// AddressRequest creates or updates an address. Exactly one of IPNetmask,
// IPRange, IPWildcard and FQDN must be set.
type AddressRequest struct {
	Name        string   `json:"name" validate:"required,max=63,scmname"`
	Description string   `json:"description,omitempty" validate:"max=1023"`
	Tag         []string `json:"tag,omitempty" validate:"omitempty,unique,max=64,dive,max=127"`
	IPNetmask   string   `json:"ip_netmask,omitempty"`
	IPRange     string   `json:"ip_range,omitempty"`
	IPWildcard  string   `json:"ip_wildcard,omitempty"`
	FQDN        string   `json:"fqdn,omitempty" validate:"omitempty,max=255"`
	Container
}

func validateAddressRequest(sl StructLevel) {
	req := sl.Current().Interface().(AddressRequest)
	set := 0
	for _, v := range []string{req.IPNetmask, req.IPRange, req.IPWildcard, req.FQDN} {
		if v != "" {
			set++
		}
	}
	reportExactlyOne(sl, set, "address_type", "IPNetmask", "ip_netmask ip_range ip_wildcard fqdn")
}

// AddressService manages address objects.
type AddressService = ResourceService[Address, AddressRequest]

var addressFilters = filterSet[Address]{
	"types": stringsFilter(func(a *Address) []string {
		return nonEmpty(a.Type())
	}),
	"values": stringsFilter(func(a *Address) []string {
		_, v := a.typeAndValue()
		return nonEmpty(v)
	}),
	"tags": stringsFilter(func(a *Address) []string { return a.Tag }),
}

// NewAddressService creates a service for address objects.
func NewAddressService(t Transport, opts ...ServiceOption) (AddressService, error) {
	return newResourceService[Address, AddressRequest](resourceDef[Address]{
		name:     "address",
		endpoint: AddressEndpoint,
		filters:  addressFilters,
	}, t, opts...)
}

// nonEmpty returns a one-element slice, or nil for the empty string.
func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
