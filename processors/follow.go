package processors

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// LocationFollower expands entities of kind Location into new location
// items for the next round. This is the processor that makes multi-round
// ingestion happen in practice: a catalog file can point at further catalog
// files, repositories or URLs.
//
// Recognized spec fields:
//
//	type:     location type for the referenced targets (default: the
//	          origin's location type)
//	target:   single target string
//	targets:  list of target strings
//	presence: "optional" marks targets whose absence is not an error
type LocationFollower struct{}

// NewLocationFollower creates the Location-kind expansion processor.
func NewLocationFollower() *LocationFollower {
	return &LocationFollower{}
}

// Name implements ingest.Processor.
func (f *LocationFollower) Name() string { return "LocationFollower" }

// ProcessEntity emits a location item per referenced target and returns the
// entity unchanged. Relative file targets resolve against the directory of
// the origin file.
func (f *LocationFollower) ProcessEntity(ctx context.Context, entity *catalog.Entity, location ingest.LocationSpec, emit ingest.Emit) (*catalog.Entity, error) {
	if !entity.IsKind(catalog.KindLocation) {
		return entity, nil
	}

	locType, _ := entity.Spec["type"].(string)
	if locType == "" {
		locType = location.Type
	}

	optional := false
	if presence, ok := entity.Spec["presence"].(string); ok {
		optional = strings.EqualFold(presence, "optional")
	}

	targets, err := specTargets(entity.Spec)
	if err != nil {
		return nil, err
	}

	for _, target := range targets {
		emit(ingest.LocationItem{
			Spec: ingest.LocationSpec{
				Type:   locType,
				Target: resolveTarget(locType, target, location),
			},
			Optional: optional,
		})
	}
	return entity, nil
}

// specTargets collects spec.target and spec.targets into one list.
func specTargets(spec map[string]interface{}) ([]string, error) {
	var targets []string

	if target, ok := spec["target"]; ok {
		s, ok := target.(string)
		if !ok {
			return nil, errors.Newf("spec.target must be a string, got %T", target)
		}
		targets = append(targets, s)
	}

	if raw, ok := spec["targets"]; ok {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Newf("spec.targets must be a list, got %T", raw)
		}
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("spec.targets[%d] must be a string, got %T", i, item)
			}
			targets = append(targets, s)
		}
	}

	if len(targets) == 0 {
		return nil, errors.New("Location entity has neither spec.target nor spec.targets")
	}
	return targets, nil
}

// resolveTarget resolves relative file targets against the origin file's
// directory. Non-file targets and absolute paths pass through unchanged.
func resolveTarget(locType, target string, origin ingest.LocationSpec) string {
	if locType != LocationTypeFile || filepath.IsAbs(target) {
		return target
	}
	if origin.Type != LocationTypeFile {
		return target
	}
	return filepath.Join(filepath.Dir(origin.Target), target)
}

var _ ingest.EntityProcessor = (*LocationFollower)(nil)
