package scm

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"

	"github.com/tphakala/go-scm/internal/api"
	"github.com/tphakala/go-scm/internal/auth"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.strata.paloaltonetworks.com"
	defaultTimeout = 30 * time.Second
)

// Client is the Strata Cloud Manager API client.
type Client struct {
	Addresses           AddressService
	AddressGroups       AddressGroupService
	Services            ServiceObjectService
	ServiceGroups       ServiceGroupService
	Tags                TagService
	Regions             RegionService
	SecurityRules       SecurityRuleService
	DNSSecurityProfiles DNSSecurityProfileService
	RemoteNetworks      RemoteNetworkService
	QuarantinedDevices  QuarantinedDeviceService

	baseURL   string
	transport Transport
	logger    hclog.Logger
}

// NewClient creates a new SCM client with the given options.
//
// Unless WithTransport is given, the client authenticates with the OAuth2
// client-credentials grant and needs WithCredentials or WithEnv.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	logger := cfg.newLogger()

	transport := cfg.transport
	if transport == nil {
		t, err := newHTTPTransport(cfg, logger)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	client := &Client{
		baseURL:   cfg.baseURL,
		transport: transport,
		logger:    logger,
	}
	if err := client.initServices(); err != nil {
		return nil, err
	}

	logger.Debug("client initialized", "base_url", cfg.baseURL)
	return client, nil
}

func newHTTPTransport(cfg *clientConfig, logger hclog.Logger) (*api.Transport, error) {
	creds := &auth.Credentials{
		ClientID:     cfg.clientID,
		ClientSecret: cfg.clientSecret,
		TSGID:        cfg.tsgID,
		TokenURL:     cfg.tokenURL,
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCredentials, err)
	}

	base := cfg.httpClient
	if base == nil {
		base = cleanhttp.DefaultPooledClient()
		base.Timeout = cfg.timeout
	}

	// Token requests reuse base so proxies and TLS settings apply to both.
	httpClient := creds.Client(context.Background(), base)

	t, err := api.NewTransport(cfg.baseURL, httpClient, logger.Named("transport"))
	if err != nil {
		return nil, err
	}
	if cfg.userAgent != "" {
		t.UserAgent = cfg.userAgent
	}
	return t, nil
}

func (c *Client) initServices() error {
	var err error
	svc := func(name string) ServiceOption {
		return WithServiceLogger(c.logger.Named(name))
	}

	if c.Addresses, err = NewAddressService(c.transport, svc("address")); err != nil {
		return err
	}
	if c.AddressGroups, err = NewAddressGroupService(c.transport, svc("address_group")); err != nil {
		return err
	}
	if c.Services, err = NewServiceObjectService(c.transport, svc("service")); err != nil {
		return err
	}
	if c.ServiceGroups, err = NewServiceGroupService(c.transport, svc("service_group")); err != nil {
		return err
	}
	if c.Tags, err = NewTagService(c.transport, svc("tag")); err != nil {
		return err
	}
	if c.Regions, err = NewRegionService(c.transport, svc("region")); err != nil {
		return err
	}
	if c.SecurityRules, err = NewSecurityRuleService(c.transport, svc("security_rule")); err != nil {
		return err
	}
	if c.DNSSecurityProfiles, err = NewDNSSecurityProfileService(c.transport, svc("dns_security_profile")); err != nil {
		return err
	}
	if c.RemoteNetworks, err = NewRemoteNetworkService(c.transport, svc("remote_network")); err != nil {
		return err
	}
	if c.QuarantinedDevices, err = NewQuarantinedDeviceService(c.transport, svc("quarantined_device")); err != nil {
		return err
	}
	return nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transport returns the transport shared by the client's services.
func (c *Client) Transport() Transport {
	return c.transport
}
