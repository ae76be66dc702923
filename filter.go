package scm

import (
	"fmt"
	"net/http"
	"slices"
	"sort"
)

// ListOptions holds the client-side filters applied by List after every
// page has been fetched.
type ListOptions struct {
	// Filters maps a filter name supported by the resource to its value.
	// Most filters take a []string (or []bool); an empty list matches
	// nothing. Unknown names and non-list values are rejected.
	Filters map[string]any

	// ExactMatch keeps only items whose container equals the queried
	// container, dropping items inherited from parent scopes.
	ExactMatch bool

	ExcludeFolders  []string
	ExcludeSnippets []string
	ExcludeDevices  []string
}

// Range is an inclusive numeric interval used by range filters.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type filterShape int

const (
	shapeStrings filterShape = iota
	shapeBools
	shapeRanges
)

// filterFunc declares a filter's expected value shape and its predicate.
// match receives the value already converted to that shape.
type filterFunc[R any] struct {
	shape filterShape
	match func(item *R, value any) bool
}

type filterSet[R any] map[string]filterFunc[R]

// stringsFilter matches items where any of the item's values is in the
// wanted list.
func stringsFilter[R any](values func(*R) []string) filterFunc[R] {
	return filterFunc[R]{
		shape: shapeStrings,
		match: func(item *R, value any) bool {
			wanted := value.([]string)
			for _, v := range values(item) {
				if slices.Contains(wanted, v) {
					return true
				}
			}
			return false
		},
	}
}

// boolsFilter matches items whose flag is in the wanted list.
func boolsFilter[R any](flag func(*R) bool) filterFunc[R] {
	return filterFunc[R]{
		shape: shapeBools,
		match: func(item *R, value any) bool {
			return slices.Contains(value.([]bool), flag(item))
		},
	}
}

// rangesFilter matches items whose coordinates fall inside every given
// range. An item lacking a coordinate named by the filter does not match.
func rangesFilter[R any](coords func(*R) map[string]float64) filterFunc[R] {
	return filterFunc[R]{
		shape: shapeRanges,
		match: func(item *R, value any) bool {
			ranges := value.(map[string]Range)
			if len(ranges) == 0 {
				return false
			}
			have := coords(item)
			for key, r := range ranges {
				v, ok := have[key]
				if !ok || !r.contains(v) {
					return false
				}
			}
			return true
		},
	}
}

type predicate[R any] func(*R) bool

// compile checks every requested filter against the set and returns the
// predicates in name order.
func (fs filterSet[R]) compile(filters map[string]any) ([]predicate[R], error) {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	preds := make([]predicate[R], 0, len(names))
	for _, name := range names {
		f, ok := fs[name]
		if !ok {
			return nil, invalidObject(http.StatusBadRequest,
				fmt.Sprintf("unsupported filter '%s'", name),
				map[string]any{"errorType": errorTypeInvalidObject, "filter": name})
		}

		value, ok := coerceFilter(f.shape, filters[name])
		if !ok {
			return nil, invalidObject(http.StatusBadRequest,
				fmt.Sprintf("'%s' filter must be %s", name, shapeDescription(f.shape)),
				map[string]any{"errorType": errorTypeInvalidObject})
		}

		match := f.match
		preds = append(preds, func(item *R) bool { return match(item, value) })
	}
	return preds, nil
}

func shapeDescription(shape filterShape) string {
	switch shape {
	case shapeBools:
		return "a list of booleans"
	case shapeRanges:
		return "a mapping of ranges"
	default:
		return "a list"
	}
}

// coerceFilter converts a caller-supplied value into the filter's shape.
// Scalars are rejected rather than treated as one-element lists.
func coerceFilter(shape filterShape, value any) (any, bool) {
	switch shape {
	case shapeStrings:
		switch v := value.(type) {
		case []string:
			return v, true
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out = append(out, s)
			}
			return out, true
		}
	case shapeBools:
		switch v := value.(type) {
		case []bool:
			return v, true
		case []any:
			out := make([]bool, 0, len(v))
			for _, item := range v {
				b, ok := item.(bool)
				if !ok {
					return nil, false
				}
				out = append(out, b)
			}
			return out, true
		}
	case shapeRanges:
		if v, ok := value.(map[string]Range); ok {
			return v, true
		}
	}
	return nil, false
}

// applyFilters runs the typed filters, then exact_match, then the
// exclusion lists. Order is preserved.
func applyFilters[R object](items []*R, preds []predicate[R], opts *ListOptions, field, value string) []*R {
	result := make([]*R, 0, len(items))

items:
	for _, item := range items {
		for _, pred := range preds {
			if !pred(item) {
				continue items
			}
		}

		c := (*item).resource().Location
		if opts.ExactMatch && !c.matches(field, value) {
			continue
		}
		if slices.Contains(opts.ExcludeFolders, c.Folder) ||
			slices.Contains(opts.ExcludeSnippets, c.Snippet) ||
			slices.Contains(opts.ExcludeDevices, c.Device) {
			continue
		}
		result = append(result, item)
	}
	return result
}
