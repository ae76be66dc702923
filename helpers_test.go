package scm_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tphakala/go-scm"
)

// mockTransport is a scm.Transport driven by testify expectations.
type mockTransport struct {
	mock.Mock
}

var _ scm.Transport = (*mockTransport)(nil)

func (m *mockTransport) Get(ctx context.Context, path string, params url.Values) (any, error) {
	args := m.Called(ctx, path, params)
	return args.Get(0), args.Error(1)
}

func (m *mockTransport) Post(ctx context.Context, path string, params url.Values, body any) (any, error) {
	args := m.Called(ctx, path, params, body)
	return args.Get(0), args.Error(1)
}

func (m *mockTransport) Put(ctx context.Context, path string, params url.Values, body any) (any, error) {
	args := m.Called(ctx, path, params, body)
	return args.Get(0), args.Error(1)
}

func (m *mockTransport) Delete(ctx context.Context, path string, params url.Values) (any, error) {
	args := m.Called(ctx, path, params)
	return args.Get(0), args.Error(1)
}

func newMockTransport(t *testing.T) *mockTransport {
	t.Helper()
	m := &mockTransport{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// hasParams matches url.Values containing every given key/value pair.
func hasParams(kv ...string) any {
	return mock.MatchedBy(func(v url.Values) bool {
		for i := 0; i+1 < len(kv); i += 2 {
			if v.Get(kv[i]) != kv[i+1] {
				return false
			}
		}
		return true
	})
}

func addressItem(name, folder string) map[string]any {
	return map[string]any{
		"id":         uuid.NewString(),
		"name":       name,
		"folder":     folder,
		"ip_netmask": "10.0.0.1/32",
	}
}

func listBody(items ...map[string]any) map[string]any {
	data := make([]any, 0, len(items))
	for _, item := range items {
		data = append(data, item)
	}
	return map[string]any{
		"data":   data,
		"limit":  float64(len(items)),
		"offset": float64(0),
		"total":  float64(len(items)),
	}
}

func errorBody(code, message, errorType string, extra map[string]any) []byte {
	details := map[string]any{"errorType": errorType}
	for k, v := range extra {
		details[k] = v
	}
	data, _ := json.Marshal(map[string]any{
		"_errors": []any{map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		}},
		"_request_id": "req-123",
	})
	return data
}
