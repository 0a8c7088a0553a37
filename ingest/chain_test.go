package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/errors"
)

// panicProcessor panics in every hook it implements.
type panicProcessor struct{}

func (panicProcessor) Name() string { return "Panicker" }

func (panicProcessor) ReadLocation(ctx context.Context, loc LocationSpec, optional bool, emit Emit) (bool, error) {
	panic("readLocation blew up")
}

func (panicProcessor) ParseData(ctx context.Context, data []byte, loc LocationSpec, emit Emit) (bool, error) {
	panic("parseData blew up")
}

func (panicProcessor) ProcessEntity(ctx context.Context, entity *catalog.Entity, loc LocationSpec, emit Emit) (*catalog.Entity, error) {
	panic("processEntity blew up")
}

func (panicProcessor) HandleError(ctx context.Context, readErr error, loc LocationSpec, emit Emit) {
	panic("handleError blew up")
}

func testChain(procs ...Processor) *Chain {
	return NewChain(zap.NewNop().Sugar(), procs...)
}

func TestChain_ReadLocation_PanicRecovery(t *testing.T) {
	chain := testChain(panicProcessor{})

	var items []Item
	require.NotPanics(t, func() {
		items = chain.ReadLocation(context.Background(), fileLoc, false)
	})

	// One fault item for the panic, one no-reader item since nothing claimed it
	require.Len(t, items, 2)
	fault, ok := items[0].(ErrorItem)
	require.True(t, ok)
	assert.True(t, errors.IsProcessorFaultError(fault.Err))
	assert.Contains(t, fault.Err.Error(), "Panicker")
	assert.Contains(t, fault.Err.Error(), "readLocation blew up")

	noReader, ok := items[1].(ErrorItem)
	require.True(t, ok)
	assert.True(t, errors.Is(noReader.Err, errors.ErrNoReader))
}

func TestChain_ParseData_PanicRecovery(t *testing.T) {
	chain := testChain(panicProcessor{})

	items := chain.ParseData(context.Background(), []byte("data"), fileLoc)

	require.Len(t, items, 2)
	fault := items[0].(ErrorItem)
	assert.True(t, errors.IsProcessorFaultError(fault.Err))
	noParser := items[1].(ErrorItem)
	assert.True(t, errors.Is(noParser.Err, errors.ErrNoParser))
}

func TestChain_ProcessEntity_PanicRecovery(t *testing.T) {
	tagger := &fakeTransformer{name: "Tagger", transform: func(e *catalog.Entity, _ LocationSpec, _ Emit) (*catalog.Entity, error) {
		e.SetAnnotation("after-panic", "still-ran")
		return e, nil
	}}
	chain := testChain(panicProcessor{}, tagger)

	entity := componentEntity("svc")
	final, items := chain.ProcessEntity(context.Background(), entity, fileLoc)

	require.Len(t, items, 1)
	assert.True(t, errors.IsProcessorFaultError(items[0].(ErrorItem).Err))
	// Fold continues past the panicking stage with the previous entity
	assert.Equal(t, "still-ran", final.Metadata.Annotations["after-panic"])
	assert.Equal(t, 1, tagger.calls)
}

func TestChain_HandleError_PanicRecovery(t *testing.T) {
	recorder := &fakeErrorHandler{name: "Recorder"}
	chain := testChain(panicProcessor{}, recorder)

	items := chain.HandleError(context.Background(), errors.New("original"), fileLoc)

	require.Len(t, items, 1)
	assert.True(t, errors.IsProcessorFaultError(items[0].(ErrorItem).Err))
	// Remaining handlers still run after a panicking one
	require.Len(t, recorder.seen, 1)
}

func TestChain_ProcessEntity_NilResultIsFault(t *testing.T) {
	vanisher := &fakeTransformer{name: "Vanisher", transform: func(*catalog.Entity, LocationSpec, Emit) (*catalog.Entity, error) {
		return nil, nil
	}}
	chain := testChain(vanisher)

	entity := componentEntity("svc")
	final, items := chain.ProcessEntity(context.Background(), entity, fileLoc)

	require.Len(t, items, 1)
	fault := items[0].(ErrorItem)
	assert.True(t, errors.IsProcessorFaultError(fault.Err))
	assert.Contains(t, fault.Err.Error(), "returned no entity")
	assert.Same(t, entity, final, "fold keeps the last good entity")
}

func TestChain_EmittedItemsCollected(t *testing.T) {
	reader := &fakeReader{name: "Multi", read: func(loc LocationSpec, _ bool, emit Emit) (bool, error) {
		emit(DataItem{Spec: loc, Data: []byte("a")})
		emit(DataItem{Spec: loc, Data: []byte("b")})
		emit(LocationItem{Spec: LocationSpec{Type: "file", Target: "/more.yaml"}, Optional: true})
		return true, nil
	}}
	chain := testChain(reader)

	items := chain.ReadLocation(context.Background(), fileLoc, false)

	require.Len(t, items, 3)
	assert.IsType(t, DataItem{}, items[0])
	assert.IsType(t, DataItem{}, items[1])
	loc, ok := items[2].(LocationItem)
	require.True(t, ok)
	assert.True(t, loc.Optional)
}
