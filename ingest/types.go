// Package ingest implements the catalog ingestion engine.
//
// The engine expands a single seed location through a processor chain in
// bounded rounds: locations are read into raw data, data is parsed into
// candidate entities, entities pass an admission gate and an ordered
// transform pipeline before landing in the final output. Failures never
// escape the engine; they accumulate as error entries in the result.
package ingest

import (
	"fmt"

	"github.com/teranos/CATX/catalog"
)

// LocationSpec identifies an external source to ingest. Immutable once created.
type LocationSpec struct {
	// Type selects the reader, e.g. "file", "url", "repo"
	Type string `json:"type"`
	// Target is the type-specific address, e.g. a path or URL
	Target string `json:"target"`
}

// String renders the location as "type:target" for logs and error messages.
func (l LocationSpec) String() string {
	return fmt.Sprintf("%s:%s", l.Type, l.Target)
}

// Item is one unit of pending ingestion work. Exactly four variants exist:
// LocationItem, DataItem, EntityItem and ErrorItem. Every variant carries
// the LocationSpec it originated from.
type Item interface {
	// Location returns the originating location for provenance. Never empty.
	Location() LocationSpec
}

// LocationItem requests that a location be read.
type LocationItem struct {
	Spec LocationSpec
	// Optional marks locations whose absence is not an error
	Optional bool
}

func (i LocationItem) Location() LocationSpec { return i.Spec }

// DataItem carries raw bytes read from a location, awaiting parsing.
type DataItem struct {
	Spec LocationSpec
	Data []byte
}

func (i DataItem) Location() LocationSpec { return i.Spec }

// EntityItem carries a candidate entity produced from data.
type EntityItem struct {
	Spec   LocationSpec
	Entity *catalog.Entity
}

func (i EntityItem) Location() LocationSpec { return i.Spec }

// ErrorItem carries a failure tied to a location.
type ErrorItem struct {
	Spec LocationSpec
	Err  error
}

func (i ErrorItem) Location() LocationSpec { return i.Spec }

// Emit appends a new work item for the next round. Hooks may call it any
// number of times.
type Emit func(Item)

// EntityRef pairs an accepted entity with the location it came from.
type EntityRef struct {
	Entity   *catalog.Entity `json:"entity"`
	Location LocationSpec    `json:"location"`
}

// ReadError pairs an ingestion failure with the location it came from.
type ReadError struct {
	Location LocationSpec `json:"location"`
	Err      error        `json:"error"`
}

// ReadResult is the engine's final output for one Read call. Entry order
// follows round and processing order.
type ReadResult struct {
	Entities []EntityRef `json:"entities"`
	Errors   []ReadError `json:"errors"`
}
