package scm

// ServiceEndpoint is the REST path for service objects.
const ServiceEndpoint = "/config/objects/v1/services"

// PortOverride tunes session timeouts for a TCP service.
type PortOverride struct {
	Timeout          *int `json:"timeout,omitempty" validate:"omitempty,min=1,max=604800"`
	HalfcloseTimeout *int `json:"halfclose_timeout,omitempty" validate:"omitempty,min=1,max=604800"`
	TimewaitTimeout  *int `json:"timewait_timeout,omitempty" validate:"omitempty,min=1,max=600"`
}

// TCPProtocol describes TCP ports.
type TCPProtocol struct {
	Port       string        `json:"port" validate:"required,max=1023"`
	SourcePort string        `json:"source_port,omitempty" validate:"max=1023"`
	Override   *PortOverride `json:"override,omitempty"`
}

// UDPProtocol describes UDP ports.
type UDPProtocol struct {
	Port       string `json:"port" validate:"required,max=1023"`
	SourcePort string `json:"source_port,omitempty" validate:"max=1023"`
}

// Protocol holds exactly one of TCP or UDP.
type Protocol struct {
	TCP *TCPProtocol `json:"tcp,omitempty"`
	UDP *UDPProtocol `json:"udp,omitempty"`
}

// ServiceObject is a service (protocol and port) object.
type ServiceObject struct {
	Resource
	Description string   `json:"description,omitempty"`
	Tag         []string `json:"tag,omitempty"`
	Protocol    Protocol `json:"protocol"`
}

// ServiceRequest creates or updates a service object.
type ServiceRequest struct {
	Name        string   `json:"name" validate:"required,max=63,scmname"`
	Description string   `json:"description,omitempty" validate:"max=1023"`
	Tag         []string `json:"tag,omitempty" validate:"omitempty,unique,max=64,dive,max=127"`
	Protocol    Protocol `json:"protocol"`
	Container
}

func validateServiceRequest(sl StructLevel) {
	req := sl.Current().Interface().(ServiceRequest)
	set := 0
	if req.Protocol.TCP != nil {
		set++
	}
	if req.Protocol.UDP != nil {
		set++
	}
	reportExactlyOne(sl, set, "protocol", "Protocol", "tcp udp")
}

// ServiceObjectService manages service objects.
type ServiceObjectService = ResourceService[ServiceObject, ServiceRequest]

var serviceFilters = filterSet[ServiceObject]{
	"protocols": stringsFilter(func(s *ServiceObject) []string {
		var out []string
		if s.Protocol.TCP != nil {
			out = append(out, "tcp")
		}
		if s.Protocol.UDP != nil {
			out = append(out, "udp")
		}
		return out
	}),
	"tags": stringsFilter(func(s *ServiceObject) []string { return s.Tag }),
}

// NewServiceObjectService creates a service for service objects.
func NewServiceObjectService(t Transport, opts ...ServiceOption) (ServiceObjectService, error) {
	return newResourceService[ServiceObject, ServiceRequest](resourceDef[ServiceObject]{
		name:     "service",
		endpoint: ServiceEndpoint,
		filters:  serviceFilters,
	}, t, opts...)
}
