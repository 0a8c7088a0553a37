// Package catalog defines the entity model produced by ingestion.
//
// Entities are treated as mostly-opaque payloads by the ingestion engine;
// only Kind and APIVersion participate in engine-level decisions. Everything
// else is interpreted by processors.
package catalog

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/CATX/errors"
)

// Entity is a single catalog record.
type Entity struct {
	// APIVersion is the schema version of this entity, e.g. "catx.dev/v1"
	APIVersion string `yaml:"apiVersion" json:"apiVersion"`

	// Kind is the high-level entity type, e.g. "Component"
	Kind string `yaml:"kind" json:"kind"`

	// Metadata holds identity and bookkeeping fields
	Metadata Metadata `yaml:"metadata" json:"metadata"`

	// Spec is the kind-specific payload, opaque to the engine
	Spec map[string]interface{} `yaml:"spec,omitempty" json:"spec,omitempty"`
}

// Metadata holds the identity fields shared by all entity kinds.
type Metadata struct {
	Name        string            `yaml:"name" json:"name"`
	Namespace   string            `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// KindLocation is the entity kind whose spec points at further locations
// to ingest. The location-follower processor expands these.
const KindLocation = "Location"

// IsKind reports whether the entity has the given kind, case-insensitively.
func (e *Entity) IsKind(kind string) bool {
	return strings.EqualFold(e.Kind, kind)
}

// SetAnnotation sets a metadata annotation, allocating the map if needed.
func (e *Entity) SetAnnotation(key, value string) {
	if e.Metadata.Annotations == nil {
		e.Metadata.Annotations = make(map[string]string)
	}
	e.Metadata.Annotations[key] = value
}

// ParseEntities decodes a multi-document YAML payload into entities.
// Empty documents are skipped. A document that fails to decode aborts
// parsing and returns the entities decoded so far along with the error.
func ParseEntities(data []byte) ([]*Entity, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var entities []*Entity
	for i := 0; ; i++ {
		var entity Entity
		err := dec.Decode(&entity)
		if err == io.EOF {
			return entities, nil
		}
		if err != nil {
			return entities, errors.Wrapf(err, "failed to decode YAML document %d", i)
		}
		if entity.APIVersion == "" && entity.Kind == "" && entity.Metadata.Name == "" {
			// Empty document (e.g. trailing "---")
			continue
		}
		entities = append(entities, &entity)
	}
}
