package scm

// RemoteNetworkEndpoint is the REST path for remote networks.
const RemoteNetworkEndpoint = "/sse/config/v1/remote-networks"

// Remote networks page more conservatively than config objects.
const (
	remoteNetworkDefaultMaxLimit = 200
	remoteNetworkMaxLimitCeiling = 1000
)

// ECMPTunnel is one of up to four tunnels used with ECMP load balancing.
type ECMPTunnel struct {
	Name           string `json:"name" validate:"required"`
	IPSecTunnel    string `json:"ipsec_tunnel" validate:"required"`
	LocalIPAddress string `json:"local_ip_address,omitempty"`
	PeerAS         string `json:"peer_as,omitempty"`
	PeerIPAddress  string `json:"peer_ip_address,omitempty"`
}

// BGPPeer configures BGP towards the remote network.
type BGPPeer struct {
	Enable          *bool  `json:"enable,omitempty"`
	PeerAS          string `json:"peer_as,omitempty"`
	PeerIPAddress   string `json:"peer_ip_address,omitempty"`
	LocalIPAddress  string `json:"local_ip_address,omitempty"`
	SummarizeMobile *bool  `json:"summarize_mobile_user_routes,omitempty"`
}

// RemoteNetworkProtocol holds routing protocol settings.
type RemoteNetworkProtocol struct {
	BGP *BGPPeer `json:"bgp,omitempty"`
}

// RemoteNetwork is a branch site connected to Prisma Access.
type RemoteNetwork struct {
	Resource
	Description       string                 `json:"description,omitempty"`
	Region            string                 `json:"region"`
	LicenseType       string                 `json:"license_type"`
	SPNName           string                 `json:"spn_name,omitempty"`
	ECMPLoadBalancing string                 `json:"ecmp_load_balancing,omitempty"`
	ECMPTunnels       []ECMPTunnel           `json:"ecmp_tunnels,omitempty"`
	IPSecTunnel       string                 `json:"ipsec_tunnel,omitempty"`
	SecondaryIPSec    string                 `json:"secondary_ipsec_tunnel,omitempty"`
	Subnets           []string               `json:"subnets,omitempty"`
	Protocol          *RemoteNetworkProtocol `json:"protocol,omitempty"`
}

// RemoteNetworkRequest creates or updates a remote network. With ECMP
// enabled ECMPTunnels is required; otherwise IPSecTunnel is.
type RemoteNetworkRequest struct {
	Name              string                 `json:"name" validate:"required,max=63,scmname"`
	Description       string                 `json:"description,omitempty" validate:"max=1023"`
	Region            string                 `json:"region" validate:"required"`
	LicenseType       string                 `json:"license_type,omitempty"`
	SPNName           string                 `json:"spn_name,omitempty"`
	ECMPLoadBalancing string                 `json:"ecmp_load_balancing,omitempty" validate:"omitempty,oneof=enable disable"`
	ECMPTunnels       []ECMPTunnel           `json:"ecmp_tunnels,omitempty" validate:"omitempty,max=4,dive"`
	IPSecTunnel       string                 `json:"ipsec_tunnel,omitempty"`
	SecondaryIPSec    string                 `json:"secondary_ipsec_tunnel,omitempty"`
	Subnets           []string               `json:"subnets,omitempty" validate:"omitempty,unique,dive,cidr"`
	Protocol          *RemoteNetworkProtocol `json:"protocol,omitempty"`
	Container
}

func validateRemoteNetworkRequest(sl StructLevel) {
	req := sl.Current().Interface().(RemoteNetworkRequest)
	if req.ECMPLoadBalancing == "enable" {
		if len(req.ECMPTunnels) == 0 {
			sl.ReportError(req.ECMPTunnels, "ecmp_tunnels", "ECMPTunnels", "required", "")
		}
		return
	}
	if req.IPSecTunnel == "" {
		sl.ReportError(req.IPSecTunnel, "ipsec_tunnel", "IPSecTunnel", "required", "")
	}
}

// RemoteNetworkService manages remote networks.
type RemoteNetworkService = ResourceService[RemoteNetwork, RemoteNetworkRequest]

var remoteNetworkFilters = filterSet[RemoteNetwork]{
	"regions":       stringsFilter(func(n *RemoteNetwork) []string { return nonEmpty(n.Region) }),
	"license_types": stringsFilter(func(n *RemoteNetwork) []string { return nonEmpty(n.LicenseType) }),
	"subnets":       stringsFilter(func(n *RemoteNetwork) []string { return n.Subnets }),
}

// NewRemoteNetworkService creates a service for remote networks.
func NewRemoteNetworkService(t Transport, opts ...ServiceOption) (RemoteNetworkService, error) {
	return newResourceService[RemoteNetwork, RemoteNetworkRequest](resourceDef[RemoteNetwork]{
		name:            "remote network",
		endpoint:        RemoteNetworkEndpoint,
		defaultMaxLimit: remoteNetworkDefaultMaxLimit,
		maxLimitCeiling: remoteNetworkMaxLimitCeiling,
		filters:         remoteNetworkFilters,
	}, t, opts...)
}
