package processors

import (
	"context"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// YAMLParser turns raw payloads into candidate entities. It claims every
// data item: payloads that fail to decode are emitted as error items rather
// than deferred, since no other parser ships with the standard set.
type YAMLParser struct{}

// NewYAMLParser creates the YAML entity parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Name implements ingest.Processor.
func (p *YAMLParser) Name() string { return "YAMLParser" }

// ParseData decodes a multi-document YAML payload and emits one entity item
// per document. Entities decoded before a malformed document are still
// emitted alongside the parse error.
func (p *YAMLParser) ParseData(ctx context.Context, data []byte, location ingest.LocationSpec, emit ingest.Emit) (bool, error) {
	entities, err := catalog.ParseEntities(data)
	for _, entity := range entities {
		emit(ingest.EntityItem{Spec: location, Entity: entity})
	}
	if err != nil {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "malformed catalog data from %s", location),
		})
	}
	return true, nil
}

var _ ingest.DataParser = (*YAMLParser)(nil)
