package ingest

import (
	"context"

	"github.com/teranos/CATX/catalog"
)

// Processor is the base interface all chain members implement. Capabilities
// are optional extension interfaces; a processor implements any subset of
// LocationReader, DataParser, EntityProcessor and ErrorHandler, and the
// chain discovers capabilities by interface assertion.
type Processor interface {
	// Name identifies the processor in logs and fault messages
	Name() string
}

// LocationReader is an optional capability for reading locations.
//
// ReadLocation returns true when the processor claims the location, which
// stops the chain for that item. Returning false defers to the next
// processor. A non-nil error is a processor fault: the engine records it and
// continues with the next processor.
type LocationReader interface {
	Processor
	ReadLocation(ctx context.Context, location LocationSpec, optional bool, emit Emit) (bool, error)
}

// DataParser is an optional capability for parsing raw payloads. Same
// first-match-wins discipline as LocationReader.
type DataParser interface {
	Processor
	ParseData(ctx context.Context, data []byte, location LocationSpec, emit Emit) (bool, error)
}

// EntityProcessor is an optional capability for transforming entities.
//
// Every capable processor runs, in registration order, each receiving the
// entity returned by the previous one. A non-nil error is a processor fault;
// the pipeline continues with the previous entity.
type EntityProcessor interface {
	Processor
	ProcessEntity(ctx context.Context, entity *catalog.Entity, location LocationSpec, emit Emit) (*catalog.Entity, error)
}

// ErrorHandler is an optional capability invoked for every error item, on
// every capable processor, for side effects only.
type ErrorHandler interface {
	Processor
	HandleError(ctx context.Context, readErr error, location LocationSpec, emit Emit)
}
