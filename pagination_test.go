package scm_test

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-scm"
)

func addressPage(offset, n int) map[string]any {
	data := make([]any, 0, n)
	for i := range n {
		data = append(data, map[string]any{
			"id":         uuid.NewString(),
			"name":       fmt.Sprintf("addr-%d", offset+i),
			"folder":     "Texas",
			"ip_netmask": "10.0.0.1/32",
		})
	}
	return map[string]any{"data": data, "offset": float64(offset), "total": float64(7500)}
}

func pageParams(offset, limit int) any {
	return mock.MatchedBy(func(v url.Values) bool {
		return v.Get("folder") == "Texas" &&
			v.Get("offset") == strconv.Itoa(offset) &&
			v.Get("limit") == strconv.Itoa(limit)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("walks pages until an empty one", func(t *testing.T) {
		tr := newMockTransport(t)
		for i := range 3 {
			tr.On("Get", ctx, scm.AddressEndpoint, pageParams(i*2500, 2500)).
				Return(addressPage(i*2500, 2500), nil).Once()
		}
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(7500, 2500)).
			Return(addressPage(7500, 0), nil).Once()

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)

		addrs, err := svc.List(ctx, scm.InFolder("Texas"), nil)
		require.NoError(t, err)
		require.Len(t, addrs, 7500)
		assert.Equal(t, "addr-0", addrs[0].Name)
		assert.Equal(t, "addr-7499", addrs[7499].Name)
		tr.AssertNumberOfCalls(t, "Get", 4)
	})

	t.Run("short page does not stop listing", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(0, 10)).Return(addressPage(0, 3), nil).Once()
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(10, 10)).Return(addressPage(10, 0), nil).Once()

		svc, err := scm.NewAddressService(tr, scm.WithMaxLimit(10))
		require.NoError(t, err)

		addrs, err := svc.List(ctx, scm.InFolder("Texas"), nil)
		require.NoError(t, err)
		assert.Len(t, addrs, 3)
	})

	t.Run("unparseable items are skipped", func(t *testing.T) {
		tr := newMockTransport(t)
		page := addressPage(0, 2)
		page["data"] = append(page["data"].([]any), map[string]any{"name": "no-id"}, "junk")
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(0, 10)).Return(page, nil).Once()
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(10, 10)).Return(addressPage(10, 0), nil).Once()

		svc, err := scm.NewAddressService(tr, scm.WithMaxLimit(10))
		require.NoError(t, err)

		addrs, err := svc.List(ctx, scm.InFolder("Texas"), nil)
		require.NoError(t, err)
		assert.Len(t, addrs, 2)
	})

	t.Run("predefined snippet items may lack id", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.TagEndpoint, mock.Anything).Return(map[string]any{
			"data": []any{map[string]any{"name": "Sanctioned", "snippet": "predefined"}},
		}, nil).Once()
		tr.On("Get", ctx, scm.TagEndpoint, mock.Anything).Return(map[string]any{"data": []any{}}, nil).Once()

		svc, err := scm.NewTagService(tr)
		require.NoError(t, err)

		tags, err := svc.List(ctx, scm.InSnippet("predefined"), nil)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, uuid.Nil, tags[0].ID)
	})

	t.Run("missing data field", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, mock.Anything).Return(map[string]any{"total": 0.0}, nil)

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)
		_, err = svc.List(ctx, scm.InFolder("Texas"), nil)

		var invalid *scm.InvalidObjectError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 500, invalid.StatusCode)
	})

	t.Run("non-object response", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, mock.Anything).Return([]any{}, nil)

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)
		_, err = svc.List(ctx, scm.InFolder("Texas"), nil)
		assert.True(t, isType[*scm.InvalidObjectError](err))
	})

	t.Run("backend error stops listing", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, mock.Anything).Return(nil, &scm.HTTPError{
			StatusCode: 404,
			Body:       errorBody("E005", "Folder not found", "Object Not Present", nil),
		})

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)
		_, err = svc.List(ctx, scm.InFolder("Nowhere"), nil)
		assert.True(t, isType[*scm.NotFoundError](err))
	})
}

func TestAll(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches lazily", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(0, 5)).Return(addressPage(0, 5), nil).Once()

		svc, err := scm.NewAddressService(tr, scm.WithMaxLimit(5))
		require.NoError(t, err)

		addrs, err := scm.CollectN(svc.All(ctx, scm.InFolder("Texas")), 3)
		require.NoError(t, err)
		assert.Len(t, addrs, 3)
		tr.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("cancelled context", func(t *testing.T) {
		tr := newMockTransport(t)
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		tr.On("Get", cctx, scm.AddressEndpoint, mock.Anything).Return(addressPage(0, 5), nil).Once()

		svc, err := scm.NewAddressService(tr, scm.WithMaxLimit(5))
		require.NoError(t, err)

		var got int
		for _, err := range svc.All(cctx, scm.InFolder("Texas")) {
			if err != nil {
				assert.ErrorIs(t, err, context.Canceled)
				break
			}
			got++
			cancel()
		}
		assert.Equal(t, 1, got)
	})

	t.Run("invalid scope yields error", func(t *testing.T) {
		svc, err := scm.NewAddressService(newMockTransport(t))
		require.NoError(t, err)

		_, err = scm.Collect(svc.All(ctx, scm.Container{}))
		assert.True(t, isType[*scm.InvalidObjectError](err))
	})
}

func TestListPage(t *testing.T) {
	ctx := context.Background()

	t.Run("single page", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(20, 10)).Return(addressPage(20, 10), nil).Once()

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)

		page, err := svc.ListPage(ctx, scm.InFolder("Texas"), &scm.PageOptions{Offset: 20, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Data, 10)
		assert.Equal(t, 7500, page.Total)
		assert.True(t, page.HasMore())
		assert.Equal(t, 30, page.NextOffset())
	})

	t.Run("limit is capped", func(t *testing.T) {
		tr := newMockTransport(t)
		tr.On("Get", ctx, scm.AddressEndpoint, pageParams(0, 5000)).Return(addressPage(0, 0), nil).Once()

		svc, err := scm.NewAddressService(tr)
		require.NoError(t, err)

		page, err := svc.ListPage(ctx, scm.InFolder("Texas"), &scm.PageOptions{Limit: 9000})
		require.NoError(t, err)
		assert.False(t, page.HasMore())
	})

	t.Run("negative offset", func(t *testing.T) {
		svc, err := scm.NewAddressService(newMockTransport(t))
		require.NoError(t, err)
		_, err = svc.ListPage(ctx, scm.InFolder("Texas"), &scm.PageOptions{Offset: -1})
		assert.True(t, isType[*scm.InvalidObjectError](err))
	})
}
