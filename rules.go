package scm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Rulebase selects the section of an ordered rule list relative to the
// default rules.
type Rulebase string

const (
	RulebasePre  Rulebase = "pre"
	RulebasePost Rulebase = "post"
)

func (r Rulebase) valid() bool {
	return r == RulebasePre || r == RulebasePost
}

// ParseRulebase validates s and returns the matching Rulebase.
func ParseRulebase(s string) (Rulebase, error) {
	rb := Rulebase(s)
	if !rb.valid() {
		return "", errInvalidRulebase(s)
	}
	return rb, nil
}

func errInvalidRulebase(s string) *InvalidObjectError {
	return invalidObject(http.StatusBadRequest,
		fmt.Sprintf("rulebase must be either 'pre' or 'post', got %q", s),
		map[string]any{"errorType": errorTypeInvalidObject, "field": "rulebase"})
}

// MoveDestination is where a rule is moved to.
type MoveDestination string

const (
	MoveTop    MoveDestination = "top"
	MoveBottom MoveDestination = "bottom"
	MoveBefore MoveDestination = "before"
	MoveAfter  MoveDestination = "after"
)

// MoveRequest repositions a rule. DestinationRule is required for
// MoveBefore and MoveAfter and must be unset otherwise.
type MoveRequest struct {
	Destination     MoveDestination `json:"destination" validate:"required,oneof=top bottom before after"`
	Rulebase        Rulebase        `json:"rulebase" validate:"required,oneof=pre post"`
	DestinationRule *uuid.UUID      `json:"destination_rule,omitempty"`
}

func validateMoveRequest(sl StructLevel) {
	req := sl.Current().Interface().(MoveRequest)
	switch req.Destination {
	case MoveBefore, MoveAfter:
		if req.DestinationRule == nil || *req.DestinationRule == uuid.Nil {
			sl.ReportError(req.DestinationRule, "destination_rule", "DestinationRule", "required_for_before_after", "")
		}
	case MoveTop, MoveBottom:
		if req.DestinationRule != nil {
			sl.ReportError(req.DestinationRule, "destination_rule", "DestinationRule", "excluded_for_top_bottom", "")
		}
	}
}

// RuleService adds ordering to ResourceService for rule resources.
type RuleService[R object, Q any] interface {
	ResourceService[R, Q]

	// Move repositions the rule with the given ID.
	Move(ctx context.Context, id uuid.UUID, req *MoveRequest) error
}

type ruleService[R object, Q any] struct {
	*resourceService[R, Q]
}

func newRuleService[R object, Q any](def resourceDef[R], transport Transport, opts ...ServiceOption) (*ruleService[R, Q], error) {
	def.rulebase = true
	base, err := newResourceService[R, Q](def, transport, opts...)
	if err != nil {
		return nil, err
	}
	return &ruleService[R, Q]{resourceService: base}, nil
}

// Move repositions the rule with the given ID.
func (s *ruleService[R, Q]) Move(ctx context.Context, id uuid.UUID, req *MoveRequest) error {
	if id == uuid.Nil {
		return missingQueryParameter("id")
	}
	if req == nil {
		return invalidObject(http.StatusBadRequest, "move request cannot be nil",
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	if err := s.validate(req); err != nil {
		return err
	}

	if _, err := s.transport.Post(ctx, s.objectPath(id)+":move", nil, req); err != nil {
		return ClassifyError(err)
	}
	return nil
}
