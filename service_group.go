package scm

// ServiceGroupEndpoint is the REST path for service groups.
const ServiceGroupEndpoint = "/config/objects/v1/service-groups"

// ServiceGroup groups service objects.
type ServiceGroup struct {
	Resource
	Members []string `json:"members"`
	Tag     []string `json:"tag,omitempty"`
}

// ServiceGroupRequest creates or updates a service group.
type ServiceGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=63,scmname"`
	Members []string `json:"members" validate:"required,min=1,max=1024,unique,dive,required,max=63"`
	Tag     []string `json:"tag,omitempty" validate:"omitempty,unique,max=64,dive,max=127"`
	Container
}

// ServiceGroupService manages service groups.
type ServiceGroupService = ResourceService[ServiceGroup, ServiceGroupRequest]

var serviceGroupFilters = filterSet[ServiceGroup]{
	"values": stringsFilter(func(g *ServiceGroup) []string { return g.Members }),
	"tags":   stringsFilter(func(g *ServiceGroup) []string { return g.Tag }),
}

// NewServiceGroupService creates a service for service groups.
func NewServiceGroupService(t Transport, opts ...ServiceOption) (ServiceGroupService, error) {
	return newResourceService[ServiceGroup, ServiceGroupRequest](resourceDef[ServiceGroup]{
		name:     "service group",
		endpoint: ServiceGroupEndpoint,
		filters:  serviceGroupFilters,
	}, t, opts...)
}
