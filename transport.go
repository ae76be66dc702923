package scm

import (
	"context"
	"net/url"
)

// Transport performs authenticated HTTP calls against the SCM API and
// returns the decoded JSON body. Failed responses are reported as
// *HTTPError so the classifier can turn them into typed errors.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (any, error)
	Post(ctx context.Context, path string, params url.Values, body any) (any, error)
	Put(ctx context.Context, path string, params url.Values, body any) (any, error)
	Delete(ctx context.Context, path string, params url.Values) (any, error)
}
