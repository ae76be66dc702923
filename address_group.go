package scm

// AddressGroupEndpoint is the REST path for address groups.
const AddressGroupEndpoint = "/config/objects/v1/address-groups"

// DynamicFilter selects group members by tag expression.
type DynamicFilter struct {
	Filter string `json:"filter" validate:"required,max=1024"`
}

// AddressGroup is a static or dynamic group of addresses.
type AddressGroup struct {
	Resource
	Description string         `json:"description,omitempty"`
	Tag         []string       `json:"tag,omitempty"`
	Static      []string       `json:"static,omitempty"`
	Dynamic     *DynamicFilter `json:"dynamic,omitempty"`
}

// Type returns "static" or "dynamic".
func (g *AddressGroup) Type() string {
	switch {
	case g.Dynamic != nil:
		return "dynamic"
	case g.Static != nil:
		return "static"
	default:
		return ""
	}
}

// AddressGroupRequest creates or updates an address group. Exactly one of
// Static and Dynamic must be set.
type AddressGroupRequest struct {
	Name        string         `json:"name" validate:"required,max=63,scmname"`
	Description string         `json:"description,omitempty" validate:"max=1023"`
	Tag         []string       `json:"tag,omitempty" validate:"omitempty,unique,max=64,dive,max=127"`
	Static      []string       `json:"static,omitempty" validate:"omitempty,min=1,max=255,unique,dive,required"`
	Dynamic     *DynamicFilter `json:"dynamic,omitempty"`
	Container
}

func validateAddressGroupRequest(sl StructLevel) {
	req := sl.Current().Interface().(AddressGroupRequest)
	set := 0
	if len(req.Static) > 0 {
		set++
	}
	if req.Dynamic != nil {
		set++
	}
	reportExactlyOne(sl, set, "group_type", "Static", "static dynamic")
}

// AddressGroupService manages address groups.
type AddressGroupService = ResourceService[AddressGroup, AddressGroupRequest]

var addressGroupFilters = filterSet[AddressGroup]{
	"types": stringsFilter(func(g *AddressGroup) []string { return nonEmpty(g.Type()) }),
	"values": stringsFilter(func(g *AddressGroup) []string {
		if g.Dynamic != nil {
			return nonEmpty(g.Dynamic.Filter)
		}
		return g.Static
	}),
	"tags": stringsFilter(func(g *AddressGroup) []string { return g.Tag }),
}

// NewAddressGroupService creates a service for address groups.
func NewAddressGroupService(t Transport, opts ...ServiceOption) (AddressGroupService, error) {
	return newResourceService[AddressGroup, AddressGroupRequest](resourceDef[AddressGroup]{
		name:     "address group",
		endpoint: AddressGroupEndpoint,
		filters:  addressGroupFilters,
	}, t, opts...)
}
