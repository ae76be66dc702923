package scm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/tphakala/go-scm/internal/schema"
)

// Page size bounds shared by most resources.
const (
	defaultMaxLimit = 2500
	maxLimitCeiling = 5000
)

// ResourceService provides the operations shared by every configuration
// resource. R is the response model, Q the create/update request model.
type ResourceService[R object, Q any] interface {
	// Create validates req and creates the resource.
	Create(ctx context.Context, req *Q, opts ...RequestOption) (*R, error)

	// Get retrieves a resource by ID.
	Get(ctx context.Context, id uuid.UUID, opts ...RequestOption) (*R, error)

	// Update replaces the resource with the given ID. The ID travels in
	// the URL, never in the body.
	Update(ctx context.Context, id uuid.UUID, req *Q, opts ...RequestOption) (*R, error)

	// Delete removes a resource by ID.
	Delete(ctx context.Context, id uuid.UUID, opts ...RequestOption) error

	// List returns every resource in scope across all pages, with the
	// client-side filters in filter applied.
	List(ctx context.Context, scope Container, filter *ListOptions, opts ...RequestOption) ([]*R, error)

	// All returns an iterator over every resource in scope. Pages are
	// fetched lazily as you iterate.
	All(ctx context.Context, scope Container, opts ...RequestOption) iter.Seq2[*R, error]

	// ListPage returns a single page of resources.
	ListPage(ctx context.Context, scope Container, page *PageOptions, opts ...RequestOption) (*Page[R], error)

	// Fetch retrieves a resource by name within one container.
	Fetch(ctx context.Context, name string, scope Container, opts ...RequestOption) (*R, error)

	// MaxLimit returns the page size used by List and All.
	MaxLimit() int

	// SetMaxLimit changes the page size. It must be within [1, ceiling].
	SetMaxLimit(n int) error
}

// resourceDef describes one resource kind.
type resourceDef[R object] struct {
	name            string
	endpoint        string
	defaultMaxLimit int
	maxLimitCeiling int
	rulebase        bool
	filters         filterSet[R]
}

// resourceService implements ResourceService for any resource kind.
type resourceService[R object, Q any] struct {
	def       resourceDef[R]
	transport Transport
	logger    hclog.Logger
	validator *schema.Validator
	maxLimit  int
}

var sharedValidator = sync.OnceValue(newValidator)

func newResourceService[R object, Q any](def resourceDef[R], transport Transport, opts ...ServiceOption) (*resourceService[R, Q], error) {
	if transport == nil {
		return nil, invalidObject(http.StatusBadRequest, "transport must be provided", map[string]any{"error": "nil transport"})
	}
	if def.defaultMaxLimit == 0 {
		def.defaultMaxLimit = defaultMaxLimit
	}
	if def.maxLimitCeiling == 0 {
		def.maxLimitCeiling = maxLimitCeiling
	}

	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &resourceService[R, Q]{
		def:       def,
		transport: transport,
		logger:    cfg.logger,
		validator: sharedValidator(),
		maxLimit:  def.defaultMaxLimit,
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	if cfg.maxLimitSet {
		if err := s.SetMaxLimit(cfg.maxLimit); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MaxLimit returns the page size used by List and All.
func (s *resourceService[R, Q]) MaxLimit() int {
	return s.maxLimit
}

// SetMaxLimit changes the page size.
func (s *resourceService[R, Q]) SetMaxLimit(n int) error {
	if n < 1 {
		return invalidObject(http.StatusBadRequest, "max_limit must be greater than 0",
			map[string]any{"error": "Invalid max_limit value"})
	}
	if n > s.def.maxLimitCeiling {
		return invalidObject(http.StatusBadRequest,
			fmt.Sprintf("max_limit cannot exceed %d", s.def.maxLimitCeiling),
			map[string]any{"error": "max_limit exceeds maximum allowed value"})
	}
	s.maxLimit = n
	return nil
}

// Create validates req and creates the resource.
func (s *resourceService[R, Q]) Create(ctx context.Context, req *Q, opts ...RequestOption) (*R, error) {
	if req == nil {
		return nil, invalidObject(http.StatusBadRequest, s.def.name+" create request cannot be nil",
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	params, err := s.requestParams(opts)
	if err != nil {
		return nil, err
	}

	resp, err := s.transport.Post(ctx, s.def.endpoint, params, req)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return s.parseObject(resp)
}

// Get retrieves a resource by ID.
func (s *resourceService[R, Q]) Get(ctx context.Context, id uuid.UUID, opts ...RequestOption) (*R, error) {
	if id == uuid.Nil {
		return nil, missingQueryParameter("id")
	}
	params, err := s.requestParams(opts)
	if err != nil {
		return nil, err
	}

	resp, err := s.transport.Get(ctx, s.objectPath(id), params)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return s.parseObject(resp)
}

// Update replaces the resource with the given ID.
func (s *resourceService[R, Q]) Update(ctx context.Context, id uuid.UUID, req *Q, opts ...RequestOption) (*R, error) {
	if id == uuid.Nil {
		return nil, missingQueryParameter("id")
	}
	if req == nil {
		return nil, invalidObject(http.StatusBadRequest, s.def.name+" update request cannot be nil",
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	params, err := s.requestParams(opts)
	if err != nil {
		return nil, err
	}

	resp, err := s.transport.Put(ctx, s.objectPath(id), params, req)
	if err != nil {
		return nil, ClassifyError(err)
	}
	return s.parseObject(resp)
}

// Delete removes a resource by ID.
func (s *resourceService[R, Q]) Delete(ctx context.Context, id uuid.UUID, opts ...RequestOption) error {
	if id == uuid.Nil {
		return missingQueryParameter("id")
	}
	params, err := s.requestParams(opts)
	if err != nil {
		return err
	}

	if _, err := s.transport.Delete(ctx, s.objectPath(id), params); err != nil {
		return ClassifyError(err)
	}
	return nil
}

// Fetch retrieves a resource by name within one container.
//
// The backend answers either with the object itself or with a list
// envelope. From a list, the item whose name and container match exactly
// is preferred, otherwise the first item is returned.
func (s *resourceService[R, Q]) Fetch(ctx context.Context, name string, scope Container, opts ...RequestOption) (*R, error) {
	if name == "" {
		return nil, missingQueryParameter("name")
	}
	field, value, err := scope.resolve()
	if err != nil {
		return nil, err
	}
	params, err := s.requestParams(opts)
	if err != nil {
		return nil, err
	}
	params.Set(field, value)
	params.Set("name", name)

	resp, err := s.transport.Get(ctx, s.def.endpoint, params)
	if err != nil {
		return nil, ClassifyError(err)
	}

	body, ok := resp.(map[string]any)
	if !ok {
		return nil, errNotMapping()
	}

	raw, isList := body["data"]
	if !isList {
		return s.parseObject(body)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, errDataNotList()
	}
	if len(items) == 0 {
		return nil, &NotFoundError{APIError: APIError{
			Message:    fmt.Sprintf("%s '%s' not found in %s '%s'", s.def.name, name, field, value),
			ErrorCode:  CodeObjectNotPresent,
			StatusCode: http.StatusNotFound,
			Details:    map[string]any{"errorType": errorTypeObjectNotPresent},
		}}
	}

	var first *R
	for i, item := range items {
		r, err := s.parseObject(item)
		if err != nil {
			return nil, err
		}
		res := (*r).resource()
		if res.Name == name && res.matches(field, value) {
			return r, nil
		}
		if i == 0 {
			first = r
		}
	}

	s.logger.Warn("no exact name and container match, using first result",
		"name", name, field, value, "results", len(items))
	return first, nil
}

// requestParams builds the query parameters common to every request.
func (s *resourceService[R, Q]) requestParams(opts []RequestOption) (url.Values, error) {
	cfg := newRequestConfig(opts...)
	params := url.Values{}

	if !s.def.rulebase {
		if cfg.rulebase != "" {
			return nil, invalidObject(http.StatusBadRequest,
				fmt.Sprintf("rulebase is not supported for %s", s.def.name),
				map[string]any{"errorType": errorTypeInvalidObject})
		}
		return params, nil
	}

	rb := cfg.rulebase
	if rb == "" {
		rb = RulebasePre
	}
	if !rb.valid() {
		return nil, errInvalidRulebase(string(rb))
	}
	params.Set("position", string(rb))
	return params, nil
}

func (s *resourceService[R, Q]) objectPath(id uuid.UUID) string {
	return s.def.endpoint + "/" + id.String()
}

func (s *resourceService[R, Q]) validate(req any) error {
	return validateRequest(s.validator, s.def.name, req)
}

// validateRequest checks the embedded container, if any, then runs the
// request model's schema rules.
func validateRequest(v *schema.Validator, name string, req any) error {
	if c, ok := containerOf(req); ok {
		if _, _, err := c.resolve(); err != nil {
			return err
		}
	}

	err := v.Validate(req)
	if err == nil {
		return nil
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return invalidObject(http.StatusBadRequest,
			fmt.Sprintf("%s validation failed", name),
			map[string]any{
				"errorType": errorTypeInvalidObject,
				"message":   verr.Messages(),
			})
	}
	return invalidObject(http.StatusBadRequest, err.Error(),
		map[string]any{"errorType": errorTypeInvalidObject})
}

// parseObject decodes one resource from a response body.
func (s *resourceService[R, Q]) parseObject(resp any) (*R, error) {
	if _, ok := resp.(map[string]any); !ok {
		return nil, errNotMapping()
	}
	r, err := decodeObject[R](resp)
	if err != nil {
		return nil, invalidObject(http.StatusInternalServerError, err.Error(),
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	return r, nil
}

// decodeObject decodes item into R and checks that it carries an id.
// Predefined snippet entries are allowed to have none.
func decodeObject[R object](item any) (*R, error) {
	if _, ok := item.(map[string]any); !ok {
		return nil, errors.New("item is not an object")
	}
	r := new(R)
	if err := schema.Decode(item, r); err != nil {
		return nil, err
	}
	res := (*r).resource()
	if res.ID == uuid.Nil && res.Snippet != predefinedSnippet {
		return nil, errors.New("response missing 'id' field")
	}
	return r, nil
}

func errNotMapping() *InvalidObjectError {
	return invalidObject(http.StatusInternalServerError,
		"Invalid response format: expected dictionary",
		map[string]any{"error": "Response is not a dictionary"})
}

func errDataNotList() *InvalidObjectError {
	return invalidObject(http.StatusInternalServerError,
		"Invalid response format: 'data' field must be a list",
		map[string]any{"field": "data", "error": "Data field must be a list"})
}
