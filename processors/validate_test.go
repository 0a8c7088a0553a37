package processors

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/ingest"
)

func TestValidator(t *testing.T) {
	loc := ingest.LocationSpec{Type: "file", Target: "/catalog.yaml"}

	tests := []struct {
		name    string
		entity  *catalog.Entity
		wantErr string
	}{
		{
			name: "valid entity",
			entity: &catalog.Entity{
				APIVersion: "catx.dev/v1",
				Kind:       "Component",
				Metadata:   catalog.Metadata{Name: "billing-service"},
			},
		},
		{
			name:    "missing apiVersion",
			entity:  &catalog.Entity{Kind: "Component", Metadata: catalog.Metadata{Name: "x"}},
			wantErr: "apiVersion",
		},
		{
			name:    "missing kind",
			entity:  &catalog.Entity{APIVersion: "v1", Metadata: catalog.Metadata{Name: "x"}},
			wantErr: "kind",
		},
		{
			name:    "missing name",
			entity:  &catalog.Entity{APIVersion: "v1", Kind: "Component"},
			wantErr: "metadata.name",
		},
		{
			name: "name too long",
			entity: &catalog.Entity{
				APIVersion: "v1",
				Kind:       "Component",
				Metadata:   catalog.Metadata{Name: strings.Repeat("a", 64)},
			},
			wantErr: "exceeds",
		},
		{
			name: "name with whitespace",
			entity: &catalog.Entity{
				APIVersion: "v1",
				Kind:       "Component",
				Metadata:   catalog.Metadata{Name: "bad name"},
			},
			wantErr: "whitespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c collector
			result, err := NewValidator().ProcessEntity(context.Background(), tt.entity, loc, c.emit)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Same(t, tt.entity, result)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOriginAnnotator(t *testing.T) {
	loc := ingest.LocationSpec{Type: "file", Target: "/catalog.yaml"}
	entity := &catalog.Entity{Kind: "Component", Metadata: catalog.Metadata{Name: "svc"}}

	var c collector
	result, err := NewOriginAnnotator().ProcessEntity(context.Background(), entity, loc, c.emit)

	require.NoError(t, err)
	assert.Equal(t, "file:/catalog.yaml", result.Metadata.Annotations[AnnotationOriginLocation])
}

func TestOriginAnnotator_KeepsExistingAnnotation(t *testing.T) {
	loc := ingest.LocationSpec{Type: "file", Target: "/generated.yaml"}
	entity := &catalog.Entity{Kind: "Component", Metadata: catalog.Metadata{Name: "svc"}}
	entity.SetAnnotation(AnnotationOriginLocation, "repo:github.com/acme/infra")

	var c collector
	result, err := NewOriginAnnotator().ProcessEntity(context.Background(), entity, loc, c.emit)

	require.NoError(t, err)
	assert.Equal(t, "repo:github.com/acme/infra", result.Metadata.Annotations[AnnotationOriginLocation])
}
