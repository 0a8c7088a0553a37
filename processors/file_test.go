package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/CATX/ingest"
)

// collector gathers emitted items for assertions.
type collector struct {
	items []ingest.Item
}

func (c *collector) emit(item ingest.Item) {
	c.items = append(c.items, item)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileReader_ReadsFile(t *testing.T) {
	path := writeTempFile(t, "catalog.yaml", "kind: Component\n")
	loc := ingest.LocationSpec{Type: "file", Target: path}

	var c collector
	handled, err := NewFileReader().ReadLocation(context.Background(), loc, false, c.emit)

	require.NoError(t, err)
	assert.True(t, handled)
	require.Len(t, c.items, 1)
	data, ok := c.items[0].(ingest.DataItem)
	require.True(t, ok)
	assert.Equal(t, loc, data.Spec)
	assert.Equal(t, "kind: Component\n", string(data.Data))
}

func TestFileReader_MissingFile(t *testing.T) {
	loc := ingest.LocationSpec{Type: "file", Target: filepath.Join(t.TempDir(), "absent.yaml")}

	var c collector
	handled, err := NewFileReader().ReadLocation(context.Background(), loc, false, c.emit)

	require.NoError(t, err)
	assert.True(t, handled)
	require.Len(t, c.items, 1)
	errItem, ok := c.items[0].(ingest.ErrorItem)
	require.True(t, ok)
	assert.Equal(t, loc, errItem.Spec)
	assert.Error(t, errItem.Err)
}

func TestFileReader_MissingOptionalFile(t *testing.T) {
	loc := ingest.LocationSpec{Type: "file", Target: filepath.Join(t.TempDir(), "absent.yaml")}

	var c collector
	handled, err := NewFileReader().ReadLocation(context.Background(), loc, true, c.emit)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Empty(t, c.items, "missing optional locations are silently handled")
}

func TestFileReader_DefersOtherTypes(t *testing.T) {
	loc := ingest.LocationSpec{Type: "url", Target: "https://example.com/catalog.yaml"}

	var c collector
	handled, err := NewFileReader().ReadLocation(context.Background(), loc, false, c.emit)

	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, c.items)
}
