package scm

// DNSSecurityProfileEndpoint is the REST path for DNS security profiles.
const DNSSecurityProfileEndpoint = "/config/security/v1/dns-security-profiles"

// DNSSecurityCategory sets the action for one DNS security category.
type DNSSecurityCategory struct {
	Name          string `json:"name" validate:"required"`
	Action        string `json:"action,omitempty" validate:"omitempty,oneof=default allow block sinkhole"`
	LogLevel      string `json:"log_level,omitempty" validate:"omitempty,oneof=default none low informational medium high critical"`
	PacketCapture string `json:"packet_capture,omitempty" validate:"omitempty,oneof=disable single-packet extended-capture"`
}

// DNSList applies an action to domains in an external dynamic list.
type DNSList struct {
	Name          string         `json:"name" validate:"required"`
	PacketCapture string         `json:"packet_capture,omitempty" validate:"omitempty,oneof=disable single-packet extended-capture"`
	Action        map[string]any `json:"action,omitempty"`
}

// Sinkhole redirects malicious lookups.
type Sinkhole struct {
	IPv4Address string `json:"ipv4_address,omitempty" validate:"omitempty,oneof=127.0.0.1 pan-sinkhole-default-ip"`
	IPv6Address string `json:"ipv6_address,omitempty" validate:"omitempty,oneof=::1"`
}

// WhitelistEntry exempts a domain.
type WhitelistEntry struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// BotnetDomains configures DNS signature policies.
type BotnetDomains struct {
	DNSSecurityCategories []DNSSecurityCategory `json:"dns_security_categories,omitempty" validate:"dive"`
	Lists                 []DNSList             `json:"lists,omitempty" validate:"dive"`
	Sinkhole              *Sinkhole             `json:"sinkhole,omitempty"`
	Whitelist             []WhitelistEntry      `json:"whitelist,omitempty" validate:"dive"`
}

// DNSSecurityProfile is a DNS security profile.
type DNSSecurityProfile struct {
	Resource
	Description   string         `json:"description,omitempty"`
	BotnetDomains *BotnetDomains `json:"botnet_domains,omitempty"`
}

// DNSSecurityProfileRequest creates or updates a DNS security profile.
type DNSSecurityProfileRequest struct {
	Name          string         `json:"name" validate:"required,scmname"`
	Description   string         `json:"description,omitempty"`
	BotnetDomains *BotnetDomains `json:"botnet_domains,omitempty"`
	Container
}

// DNSSecurityProfileService manages DNS security profiles.
type DNSSecurityProfileService = ResourceService[DNSSecurityProfile, DNSSecurityProfileRequest]

var dnsSecurityProfileFilters = filterSet[DNSSecurityProfile]{
	"dns_security_categories": stringsFilter(func(p *DNSSecurityProfile) []string {
		if p.BotnetDomains == nil {
			return nil
		}
		names := make([]string, 0, len(p.BotnetDomains.DNSSecurityCategories))
		for _, c := range p.BotnetDomains.DNSSecurityCategories {
			names = append(names, c.Name)
		}
		return names
	}),
}

// NewDNSSecurityProfileService creates a service for DNS security profiles.
func NewDNSSecurityProfileService(t Transport, opts ...ServiceOption) (DNSSecurityProfileService, error) {
	return newResourceService[DNSSecurityProfile, DNSSecurityProfileRequest](resourceDef[DNSSecurityProfile]{
		name:     "DNS security profile",
		endpoint: DNSSecurityProfileEndpoint,
		filters:  dnsSecurityProfileFilters,
	}, t, opts...)
}
