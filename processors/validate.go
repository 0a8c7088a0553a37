package processors

import (
	"context"
	"strings"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// Validator enforces the minimal structural contract every entity must
// satisfy: apiVersion, kind and metadata.name present, name within length
// and character limits. Violations are processor faults, so the offending
// entity is recorded as an error while the rest of the batch proceeds.
type Validator struct{}

// NewValidator creates the structural validation processor.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements ingest.Processor.
func (v *Validator) Name() string { return "Validator" }

const maxNameLength = 63

// ProcessEntity validates the entity's structural fields and passes it
// through unchanged.
func (v *Validator) ProcessEntity(ctx context.Context, entity *catalog.Entity, location ingest.LocationSpec, emit ingest.Emit) (*catalog.Entity, error) {
	if entity.APIVersion == "" {
		return nil, errors.New("entity is missing apiVersion")
	}
	if entity.Kind == "" {
		return nil, errors.New("entity is missing kind")
	}
	name := entity.Metadata.Name
	if name == "" {
		return nil, errors.New("entity is missing metadata.name")
	}
	if len(name) > maxNameLength {
		return nil, errors.Newf("metadata.name %q exceeds %d characters", name, maxNameLength)
	}
	if strings.ContainsAny(name, " \t\n") {
		return nil, errors.Newf("metadata.name %q must not contain whitespace", name)
	}
	return entity, nil
}

var _ ingest.EntityProcessor = (*Validator)(nil)
