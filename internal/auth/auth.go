// Package auth provides Strata Cloud Manager OAuth2 authentication.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is the SCM OAuth2 token endpoint.
const DefaultTokenURL = "https://auth.apps.paloaltonetworks.com/am/oauth2/access_token"

// Credentials holds the service account used for the client-credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TSGID        string
	TokenURL     string
}

// Scope returns the OAuth2 scope for the tenant service group.
func (c *Credentials) Scope() string {
	return "tsg_id:" + c.TSGID
}

// Validate reports every missing credential field.
func (c *Credentials) Validate() error {
	if c == nil {
		return errors.New("credentials must be provided")
	}

	var errs *multierror.Error
	if c.ClientID == "" {
		errs = multierror.Append(errs, errors.New("client_id is required"))
	}
	if c.ClientSecret == "" {
		errs = multierror.Append(errs, errors.New("client_secret is required"))
	}
	if c.TSGID == "" {
		errs = multierror.Append(errs, errors.New("tsg_id is required"))
	}
	return errs.ErrorOrNil()
}

func (c *Credentials) config() *clientcredentials.Config {
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{c.Scope()},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
}

// TokenSource returns a refreshing token source. Token requests are sent
// through base when it is non-nil.
func (c *Credentials) TokenSource(ctx context.Context, base *http.Client) oauth2.TokenSource {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return c.config().TokenSource(ctx)
}

// Client returns an HTTP client that attaches a bearer token to every
// request and refreshes it on expiry. The returned client reuses base's
// transport and timeout.
func (c *Credentials) Client(ctx context.Context, base *http.Client) *http.Client {
	if base == nil {
		return oauth2.NewClient(ctx, c.TokenSource(ctx, nil))
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: c.TokenSource(ctx, base),
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}
}
