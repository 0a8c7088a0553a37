package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/CATX/catalog"
)

func TestDefaultEnforcer(t *testing.T) {
	enforcer := DefaultEnforcer()

	tests := []struct {
		kind    string
		locType string
		allowed bool
	}{
		{"Component", "file", true},
		{"API", "url", true},
		{"Location", "repo", true},
		{"Template", "file", true},
		{"Widget", "file", false},
		{"", "file", false},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.locType, func(t *testing.T) {
			entity := &catalog.Entity{Kind: tt.kind}
			loc := LocationSpec{Type: tt.locType, Target: "x"}
			assert.Equal(t, tt.allowed, enforcer.Allowed(entity, loc))
		})
	}
}

func TestEnforcer_LocationSpecificRules(t *testing.T) {
	enforcer := NewEnforcer([]Rule{
		{LocationType: "file", Kinds: []string{"Component", "API"}},
		{LocationType: "url", Kinds: []string{"Location"}},
	})

	component := &catalog.Entity{Kind: "Component"}
	location := &catalog.Entity{Kind: "Location"}

	assert.True(t, enforcer.Allowed(component, LocationSpec{Type: "file"}))
	assert.False(t, enforcer.Allowed(component, LocationSpec{Type: "url"}))
	assert.True(t, enforcer.Allowed(location, LocationSpec{Type: "url"}))
	assert.False(t, enforcer.Allowed(location, LocationSpec{Type: "file"}))
	assert.False(t, enforcer.Allowed(component, LocationSpec{Type: "repo"}))
}

func TestEnforcer_WildcardFallback(t *testing.T) {
	enforcer := NewEnforcer([]Rule{
		{LocationType: RuleLocationAny, Kinds: []string{"Component"}},
		{LocationType: "file", Kinds: []string{"Template"}},
	})

	component := &catalog.Entity{Kind: "Component"}
	template := &catalog.Entity{Kind: "Template"}

	// Wildcard applies everywhere, location-specific only where declared
	assert.True(t, enforcer.Allowed(component, LocationSpec{Type: "file"}))
	assert.True(t, enforcer.Allowed(component, LocationSpec{Type: "url"}))
	assert.True(t, enforcer.Allowed(template, LocationSpec{Type: "file"}))
	assert.False(t, enforcer.Allowed(template, LocationSpec{Type: "url"}))
}

func TestEnforcer_CaseInsensitive(t *testing.T) {
	enforcer := NewEnforcer([]Rule{
		{LocationType: "File", Kinds: []string{"component"}},
	})

	entity := &catalog.Entity{Kind: "COMPONENT"}
	assert.True(t, enforcer.Allowed(entity, LocationSpec{Type: "FILE"}))
}

func TestEnforcer_AccumulatesRulesForSameLocation(t *testing.T) {
	enforcer := NewEnforcer([]Rule{
		{LocationType: "file", Kinds: []string{"Component"}},
		{LocationType: "file", Kinds: []string{"API"}},
	})

	assert.True(t, enforcer.Allowed(&catalog.Entity{Kind: "Component"}, LocationSpec{Type: "file"}))
	assert.True(t, enforcer.Allowed(&catalog.Entity{Kind: "API"}, LocationSpec{Type: "file"}))
}

func TestEnforcer_EmptyRules(t *testing.T) {
	enforcer := NewEnforcer(nil)
	assert.False(t, enforcer.Allowed(&catalog.Entity{Kind: "Component"}, LocationSpec{Type: "file"}))
}
