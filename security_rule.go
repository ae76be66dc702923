package scm

// SecurityRuleEndpoint is the REST path for security rules.
const SecurityRuleEndpoint = "/config/security/v1/security-rules"

// SecurityRuleAction is the verdict applied to matching traffic.
type SecurityRuleAction string

const (
	ActionAllow       SecurityRuleAction = "allow"
	ActionDeny        SecurityRuleAction = "deny"
	ActionDrop        SecurityRuleAction = "drop"
	ActionResetClient SecurityRuleAction = "reset-client"
	ActionResetServer SecurityRuleAction = "reset-server"
	ActionResetBoth   SecurityRuleAction = "reset-both"
)

// ProfileSetting attaches a security profile group to a rule.
type ProfileSetting struct {
	Group []string `json:"group,omitempty" validate:"omitempty,unique"`
}

// SecurityRule is an ordered security policy rule.
type SecurityRule struct {
	Resource
	Disabled          bool               `json:"disabled"`
	Description       string             `json:"description,omitempty"`
	Tag               []string           `json:"tag,omitempty"`
	From              []string           `json:"from,omitempty"`
	Source            []string           `json:"source,omitempty"`
	NegateSource      bool               `json:"negate_source"`
	SourceUser        []string           `json:"source_user,omitempty"`
	SourceHIP         []string           `json:"source_hip,omitempty"`
	To                []string           `json:"to,omitempty"`
	Destination       []string           `json:"destination,omitempty"`
	NegateDestination bool               `json:"negate_destination"`
	DestinationHIP    []string           `json:"destination_hip,omitempty"`
	Application       []string           `json:"application,omitempty"`
	Service           []string           `json:"service,omitempty"`
	Category          []string           `json:"category,omitempty"`
	Action            SecurityRuleAction `json:"action"`
	ProfileSetting    *ProfileSetting    `json:"profile_setting,omitempty"`
	LogSetting        string             `json:"log_setting,omitempty"`
	Schedule          string             `json:"schedule,omitempty"`
	LogStart          *bool              `json:"log_start,omitempty"`
	LogEnd            *bool              `json:"log_end,omitempty"`
}

// SecurityRuleRequest creates or updates a security rule. Unset list
// fields are omitted so the backend applies its defaults.
type SecurityRuleRequest struct {
	Name              string             `json:"name" validate:"required,max=63,scmname"`
	Disabled          *bool              `json:"disabled,omitempty"`
	Description       string             `json:"description,omitempty" validate:"max=1024"`
	Tag               []string           `json:"tag,omitempty" validate:"omitempty,unique,dive,required"`
	From              []string           `json:"from,omitempty" validate:"omitempty,unique,dive,required"`
	Source            []string           `json:"source,omitempty" validate:"omitempty,unique,dive,required"`
	NegateSource      *bool              `json:"negate_source,omitempty"`
	SourceUser        []string           `json:"source_user,omitempty" validate:"omitempty,unique,dive,required"`
	SourceHIP         []string           `json:"source_hip,omitempty" validate:"omitempty,unique,dive,required"`
	To                []string           `json:"to,omitempty" validate:"omitempty,unique,dive,required"`
	Destination       []string           `json:"destination,omitempty" validate:"omitempty,unique,dive,required"`
	NegateDestination *bool              `json:"negate_destination,omitempty"`
	DestinationHIP    []string           `json:"destination_hip,omitempty" validate:"omitempty,unique,dive,required"`
	Application       []string           `json:"application,omitempty" validate:"omitempty,unique,dive,required"`
	Service           []string           `json:"service,omitempty" validate:"omitempty,unique,dive,required"`
	Category          []string           `json:"category,omitempty" validate:"omitempty,unique,dive,required"`
	Action            SecurityRuleAction `json:"action,omitempty" validate:"omitempty,oneof=allow deny drop reset-client reset-server reset-both"`
	ProfileSetting    *ProfileSetting    `json:"profile_setting,omitempty"`
	LogSetting        string             `json:"log_setting,omitempty"`
	Schedule          string             `json:"schedule,omitempty"`
	LogStart          *bool              `json:"log_start,omitempty"`
	LogEnd            *bool              `json:"log_end,omitempty"`
	Container
}

// SecurityRuleService manages security rules.
type SecurityRuleService = RuleService[SecurityRule, SecurityRuleRequest]

var securityRuleFilters = filterSet[SecurityRule]{
	"action":      stringsFilter(func(r *SecurityRule) []string { return nonEmpty(string(r.Action)) }),
	"category":    stringsFilter(func(r *SecurityRule) []string { return r.Category }),
	"service":     stringsFilter(func(r *SecurityRule) []string { return r.Service }),
	"application": stringsFilter(func(r *SecurityRule) []string { return r.Application }),
	"destination": stringsFilter(func(r *SecurityRule) []string { return r.Destination }),
	"to":          stringsFilter(func(r *SecurityRule) []string { return r.To }),
	"source":      stringsFilter(func(r *SecurityRule) []string { return r.Source }),
	"from":        stringsFilter(func(r *SecurityRule) []string { return r.From }),
	"tag":         stringsFilter(func(r *SecurityRule) []string { return r.Tag }),
	"disabled":    boolsFilter(func(r *SecurityRule) bool { return r.Disabled }),
	"profile_setting": stringsFilter(func(r *SecurityRule) []string {
		if r.ProfileSetting == nil {
			return nil
		}
		return r.ProfileSetting.Group
	}),
	"log_setting": stringsFilter(func(r *SecurityRule) []string { return nonEmpty(r.LogSetting) }),
}

// NewSecurityRuleService creates a service for security rules. Requests
// target the pre rulebase unless WithRulebase says otherwise.
func NewSecurityRuleService(t Transport, opts ...ServiceOption) (SecurityRuleService, error) {
	return newRuleService[SecurityRule, SecurityRuleRequest](resourceDef[SecurityRule]{
		name:     "security rule",
		endpoint: SecurityRuleEndpoint,
		filters:  securityRuleFilters,
	}, t, opts...)
}
