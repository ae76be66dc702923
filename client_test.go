package scm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-scm"
)

func TestNewClient(t *testing.T) {
	t.Run("success with credentials", func(t *testing.T) {
		client, err := scm.NewClient(
			scm.WithCredentials("client-id", "secret", "1234567890"),
		)
		require.NoError(t, err)
		assert.Equal(t, scm.DefaultBaseURL, client.BaseURL())
		assert.NotNil(t, client.Addresses)
		assert.NotNil(t, client.AddressGroups)
		assert.NotNil(t, client.Services)
		assert.NotNil(t, client.ServiceGroups)
		assert.NotNil(t, client.Tags)
		assert.NotNil(t, client.Regions)
		assert.NotNil(t, client.SecurityRules)
		assert.NotNil(t, client.DNSSecurityProfiles)
		assert.NotNil(t, client.RemoteNetworks)
		assert.NotNil(t, client.QuarantinedDevices)
	})

	t.Run("error without credentials", func(t *testing.T) {
		_, err := scm.NewClient()
		require.Error(t, err)
		assert.ErrorIs(t, err, scm.ErrNoCredentials)
	})

	t.Run("error with partial credentials", func(t *testing.T) {
		_, err := scm.NewClient(scm.WithCredentials("client-id", "", ""))
		require.ErrorIs(t, err, scm.ErrNoCredentials)
		assert.Contains(t, err.Error(), "client_secret is required")
		assert.Contains(t, err.Error(), "tsg_id is required")
	})

	t.Run("error without base URL", func(t *testing.T) {
		_, err := scm.NewClient(
			scm.WithBaseURL(""),
			scm.WithCredentials("client-id", "secret", "123"),
		)
		assert.ErrorIs(t, err, scm.ErrNoBaseURL)
	})

	t.Run("error with invalid base URL", func(t *testing.T) {
		_, err := scm.NewClient(
			scm.WithBaseURL("not a url"),
			scm.WithCredentials("client-id", "secret", "123"),
		)
		assert.Error(t, err)
	})

	t.Run("custom transport needs no credentials", func(t *testing.T) {
		tr := newMockTransport(t)
		client, err := scm.NewClient(scm.WithTransport(tr))
		require.NoError(t, err)
		assert.Same(t, tr, client.Transport())
	})

	t.Run("success with all options", func(t *testing.T) {
		client, err := scm.NewClient(
			scm.WithBaseURL("https://api.example.com"),
			scm.WithCredentials("client-id", "secret", "123"),
			scm.WithTokenURL("https://auth.example.com/token"),
			scm.WithUserAgent("test-agent/1.0"),
			scm.WithTimeout(60*time.Second),
			scm.WithHTTPClient(&http.Client{Timeout: 90 * time.Second}),
			scm.WithLogger(hclog.NewNullLogger()),
		)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", client.BaseURL())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(scm.EnvClientID, "env-id")
		t.Setenv(scm.EnvClientSecret, "env-secret")
		t.Setenv(scm.EnvTSGID, "env-tsg")
		t.Setenv(scm.EnvAPIURL, "https://env.example.com")
		t.Setenv(scm.EnvLogLevel, "error")

		client, err := scm.NewClient(scm.WithEnv())
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", client.BaseURL())

		client, err = scm.NewClient(scm.WithEnv(), scm.WithBaseURL("https://override.example.com"))
		require.NoError(t, err)
		assert.Equal(t, "https://override.example.com", client.BaseURL())
	})
}

// newTestServer serves a token endpoint at /token and the given API
// handler for everything else.
func newTestServer(t *testing.T, api http.HandlerFunc) (*scm.Client, *atomic.Int32) {
	t.Helper()
	var tokenRequests atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "tsg_id:1234567890", r.PostForm.Get("scope"))

		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", id)
		assert.Equal(t, "secret", secret)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		api(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := scm.NewClient(
		scm.WithBaseURL(server.URL),
		scm.WithTokenURL(server.URL+"/token"),
		scm.WithCredentials("client-id", "secret", "1234567890"),
	)
	require.NoError(t, err)
	return client, &tokenRequests
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("list addresses", func(t *testing.T) {
		client, tokens := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, scm.AddressEndpoint, r.URL.Path)
			assert.Equal(t, "Texas", r.URL.Query().Get("folder"))
			assert.Equal(t, "2500", r.URL.Query().Get("limit"))

			items := []any{}
			if r.URL.Query().Get("offset") == "0" {
				items = append(items, addressItem("web", "Texas"), addressItem("db", "Texas"))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"data": items, "total": 2})
		})

		addrs, err := client.Addresses.List(ctx, scm.InFolder("Texas"), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"web", "db"}, addressNames(addrs))
		assert.Equal(t, int32(1), tokens.Load())
	})

	t.Run("create posts json body", func(t *testing.T) {
		id := uuid.New()
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"name": "web", "fqdn": "example.com", "folder": "Texas"}, body)

			body["id"] = id.String()
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(body)
		})

		addr, err := client.Addresses.Create(ctx, &scm.AddressRequest{
			Name:      "web",
			FQDN:      "example.com",
			Container: scm.InFolder("Texas"),
		})
		require.NoError(t, err)
		assert.Equal(t, id, addr.ID)
	})

	t.Run("error body is classified", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(errorBody("E005", "Object not found", "Object Not Present", nil))
		})

		_, err := client.Addresses.Get(ctx, uuid.New())
		var notFound *scm.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "E005", notFound.ErrorCode)
		assert.Equal(t, "req-123", notFound.RequestID)
	})

	t.Run("empty error body returns HTTP error", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		err := client.Addresses.Delete(ctx, uuid.New())
		var httpErr *scm.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	})

	t.Run("move rule", func(t *testing.T) {
		id := uuid.New()
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, scm.SecurityRuleEndpoint+"/"+id.String()+":move", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})

		err := client.SecurityRules.Move(ctx, id, &scm.MoveRequest{Destination: scm.MoveTop, Rulebase: scm.RulebasePre})
		require.NoError(t, err)
	})
}
