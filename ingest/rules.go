package ingest

import (
	"strings"

	"github.com/teranos/CATX/catalog"
)

// RuleLocationAny is the wildcard location type; a rule using it permits its
// kinds from every location type.
const RuleLocationAny = "*"

// Rule permits a set of entity kinds from one location type.
type Rule struct {
	// LocationType the rule applies to, or RuleLocationAny
	LocationType string
	// Kinds permitted from that location type
	Kinds []string
}

// Enforcer is the admission gate deciding whether a produced entity may be
// kept, based on its kind and the location type it came from. The rule set
// is immutable per instance; reconfiguring means constructing a new Enforcer.
type Enforcer struct {
	// allowed maps lowercased location type -> lowercased kind set
	allowed map[string]map[string]struct{}
}

// NewEnforcer builds an enforcer from the given rules. Rules for the same
// location type accumulate. Matching is case-insensitive for both location
// types and kinds.
func NewEnforcer(rules []Rule) *Enforcer {
	allowed := make(map[string]map[string]struct{}, len(rules))
	for _, rule := range rules {
		locType := strings.ToLower(rule.LocationType)
		kinds, ok := allowed[locType]
		if !ok {
			kinds = make(map[string]struct{}, len(rule.Kinds))
			allowed[locType] = kinds
		}
		for _, kind := range rule.Kinds {
			kinds[strings.ToLower(kind)] = struct{}{}
		}
	}
	return &Enforcer{allowed: allowed}
}

// DefaultRules is the rule set used when no configuration is supplied: the
// standard catalog kinds are permitted from every location type.
func DefaultRules() []Rule {
	return []Rule{
		{
			LocationType: RuleLocationAny,
			Kinds: []string{
				"Component",
				"API",
				"Resource",
				"System",
				"Domain",
				"Group",
				"User",
				"Template",
				catalog.KindLocation,
			},
		},
	}
}

// DefaultEnforcer returns an enforcer over DefaultRules.
func DefaultEnforcer() *Enforcer {
	return NewEnforcer(DefaultRules())
}

// Allowed reports whether an entity of this kind may originate from the
// given location. Checked once per entity item, strictly before the entity
// transform pipeline runs.
func (e *Enforcer) Allowed(entity *catalog.Entity, location LocationSpec) bool {
	kind := strings.ToLower(entity.Kind)
	if kinds, ok := e.allowed[strings.ToLower(location.Type)]; ok {
		if _, ok := kinds[kind]; ok {
			return true
		}
	}
	if kinds, ok := e.allowed[RuleLocationAny]; ok {
		if _, ok := kinds[kind]; ok {
			return true
		}
	}
	return false
}
