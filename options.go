package scm

import (
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL      string
	clientID     string
	clientSecret string
	tsgID        string
	tokenURL     string
	httpClient   *http.Client
	timeout      time.Duration
	userAgent    string
	logger       hclog.Logger
	logLevel     string
	transport    Transport
}

// WithBaseURL sets the SCM API base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithCredentials sets the service account used for the OAuth2
// client-credentials grant. tsgID selects the tenant service group.
func WithCredentials(clientID, clientSecret, tsgID string) ClientOption {
	return func(c *clientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
		c.tsgID = tsgID
	}
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.tokenURL = url
	}
}

// WithHTTPClient sets the HTTP client used for token and API requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger shared by the client's services. Each service
// logs through a sub-logger named after its resource.
func WithLogger(logger hclog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithLogLevel creates a stderr logger at the given level ("trace",
// "debug", "info", "warn", "error"). Ignored when WithLogger is used.
func WithLogLevel(level string) ClientOption {
	return func(c *clientConfig) {
		c.logLevel = level
	}
}

// WithTransport replaces the HTTP transport. Credentials are not required
// when a transport is supplied; it is responsible for authentication.
func WithTransport(t Transport) ClientOption {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// Environment variables read by WithEnv.
const (
	EnvClientID     = "SCM_CLIENT_ID"
	EnvClientSecret = "SCM_CLIENT_SECRET"
	EnvTSGID        = "SCM_TSG_ID"
	EnvAPIURL       = "SCM_API_URL"
	EnvTokenURL     = "SCM_TOKEN_URL"
	EnvLogLevel     = "SCM_LOG_LEVEL"
)

// WithEnv fills unset settings from SCM_* environment variables. Options
// listed after WithEnv override the environment.
func WithEnv() ClientOption {
	return func(c *clientConfig) {
		setFromEnv(&c.clientID, EnvClientID)
		setFromEnv(&c.clientSecret, EnvClientSecret)
		setFromEnv(&c.tsgID, EnvTSGID)
		setFromEnv(&c.baseURL, EnvAPIURL)
		setFromEnv(&c.tokenURL, EnvTokenURL)
		setFromEnv(&c.logLevel, EnvLogLevel)
	}
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *clientConfig) newLogger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}
	if c.logLevel == "" {
		return hclog.NewNullLogger()
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "scm",
		Level:  hclog.LevelFromString(c.logLevel),
		Output: os.Stderr,
	})
}

// ServiceOption configures a resource service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	maxLimit    int
	maxLimitSet bool
	logger      hclog.Logger
}

// WithMaxLimit sets the page size used by List. It must be within
// [1, ceiling] for the resource.
func WithMaxLimit(n int) ServiceOption {
	return func(c *serviceConfig) {
		c.maxLimit = n
		c.maxLimitSet = true
	}
}

// WithServiceLogger sets the service's logger.
func WithServiceLogger(logger hclog.Logger) ServiceOption {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	rulebase Rulebase
}

func newRequestConfig(opts ...RequestOption) *requestConfig {
	r := &requestConfig{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithRulebase selects the pre or post rulebase for rule resources.
// Rule services default to RulebasePre.
func WithRulebase(rb Rulebase) RequestOption {
	return func(r *requestConfig) {
		r.rulebase = rb
	}
}
