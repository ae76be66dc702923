package scm

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// PageOptions configures a single page request.
type PageOptions struct {
	Offset int
	Limit  int
}

// Page is one page of a list response. Count is the number of items the
// backend returned, including items that failed to parse and were skipped.
type Page[R any] struct {
	Data    []*R
	Offset  int
	Limit   int
	Total   int
	Count   int
	Skipped int
}

// HasMore reports whether another page should be requested. Listing stops
// at the first page that returns no items.
func (p *Page[R]) HasMore() bool {
	return p.Count > 0
}

// NextOffset returns the offset for the next page.
func (p *Page[R]) NextOffset() int {
	return p.Offset + p.Limit
}

// List returns every resource in the container with filter applied. The
// container and filter are validated before any request is made.
func (s *resourceService[R, Q]) List(ctx context.Context, scope Container, filter *ListOptions, opts ...RequestOption) ([]*R, error) {
	field, value, err := scope.resolve()
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &ListOptions{}
	}
	preds, err := s.def.filters.compile(filter.Filters)
	if err != nil {
		return nil, err
	}

	items, err := Collect(s.All(ctx, scope, opts...))
	if err != nil {
		return nil, err
	}

	result := applyFilters(items, preds, filter, field, value)
	s.logger.Debug("listed resources", "fetched", len(items), "returned", len(result))
	return result, nil
}

// All returns an iterator over every resource in scope. Pages are
// requested strictly in offset order until one comes back empty.
func (s *resourceService[R, Q]) All(ctx context.Context, scope Container, opts ...RequestOption) iter.Seq2[*R, error] {
	return func(yield func(*R, error) bool) {
		params, err := s.listParams(scope, opts)
		if err != nil {
			yield(nil, err)
			return
		}

		offset := 0
		limit := s.MaxLimit()

		for {
			page, err := s.fetchPage(ctx, params, offset, limit)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yieldPageItems(ctx, page, yield) {
				return
			}

			if !page.HasMore() {
				return
			}

			offset = page.NextOffset()
		}
	}
}

// yieldPageItems yields each item from the page to the iterator.
// Returns false if iteration should stop (context cancelled or yield returned false).
func yieldPageItems[R any](ctx context.Context, page *Page[R], yield func(*R, error) bool) bool {
	for _, item := range page.Data {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		if !yield(item, nil) {
			return false
		}
	}
	return true
}

// ListPage returns a single page of resources.
func (s *resourceService[R, Q]) ListPage(ctx context.Context, scope Container, page *PageOptions, opts ...RequestOption) (*Page[R], error) {
	params, err := s.listParams(scope, opts)
	if err != nil {
		return nil, err
	}

	if page == nil {
		page = &PageOptions{}
	}
	if page.Offset < 0 {
		return nil, invalidObject(http.StatusBadRequest, "offset must not be negative",
			map[string]any{"error": "Invalid offset value"})
	}
	limit := page.Limit
	if limit <= 0 {
		limit = s.MaxLimit()
	}
	if limit > s.def.maxLimitCeiling {
		limit = s.def.maxLimitCeiling
	}

	return s.fetchPage(ctx, params, page.Offset, limit)
}

func (s *resourceService[R, Q]) listParams(scope Container, opts []RequestOption) (url.Values, error) {
	scopeParams, err := scope.params()
	if err != nil {
		return nil, err
	}
	params, err := s.requestParams(opts)
	if err != nil {
		return nil, err
	}
	maps.Copy(params, scopeParams)
	return params, nil
}

// fetchPage requests one page and parses its items. Items that fail to
// parse are skipped and logged; a malformed envelope fails the page.
func (s *resourceService[R, Q]) fetchPage(ctx context.Context, params url.Values, offset, limit int) (*Page[R], error) {
	query := maps.Clone(params)
	if query == nil {
		query = url.Values{}
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	resp, err := s.transport.Get(ctx, s.def.endpoint, query)
	if err != nil {
		return nil, ClassifyError(err)
	}

	body, ok := resp.(map[string]any)
	if !ok {
		return nil, errNotMapping()
	}
	raw, ok := body["data"]
	if !ok {
		return nil, invalidObject(http.StatusInternalServerError,
			"Invalid response format: missing 'data' field",
			map[string]any{"field": "data", "error": "Response is missing 'data' field"})
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errDataNotList()
	}

	page := &Page[R]{
		Data:   make([]*R, 0, len(items)),
		Offset: offset,
		Limit:  limit,
		Total:  intField(body, "total"),
		Count:  len(items),
	}

	var skipped *multierror.Error
	for i, item := range items {
		r, err := decodeObject[R](item)
		if err != nil {
			skipped = multierror.Append(skipped, fmt.Errorf("item %d: %w", offset+i, err))
			continue
		}
		page.Data = append(page.Data, r)
	}

	if skipped != nil {
		page.Skipped = len(skipped.Errors)
		s.logger.Warn("skipped items that failed to parse",
			"offset", offset, "skipped", page.Skipped, "error", skipped.Error())
	}
	s.logger.Debug("fetched page", "offset", offset, "limit", limit, "items", page.Count)

	return page, nil
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
