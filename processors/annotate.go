package processors

import (
	"context"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/ingest"
)

// AnnotationOriginLocation records which location an entity was ingested from.
const AnnotationOriginLocation = "catx.dev/origin-location"

// OriginAnnotator stamps provenance annotations on every entity passing
// through the pipeline.
type OriginAnnotator struct{}

// NewOriginAnnotator creates the provenance annotation processor.
func NewOriginAnnotator() *OriginAnnotator {
	return &OriginAnnotator{}
}

// Name implements ingest.Processor.
func (a *OriginAnnotator) Name() string { return "OriginAnnotator" }

// ProcessEntity records the originating location on the entity. An existing
// origin annotation is left alone so hand-authored provenance survives.
func (a *OriginAnnotator) ProcessEntity(ctx context.Context, entity *catalog.Entity, location ingest.LocationSpec, emit ingest.Emit) (*catalog.Entity, error) {
	if _, ok := entity.Metadata.Annotations[AnnotationOriginLocation]; !ok {
		entity.SetAnnotation(AnnotationOriginLocation, location.String())
	}
	return entity, nil
}

var _ ingest.EntityProcessor = (*OriginAnnotator)(nil)
