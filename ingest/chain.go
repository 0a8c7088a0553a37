package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/CATX/catalog"
	"github.com/teranos/CATX/errors"
)

// Chain is the ordered list of registered processors. Three dispatch
// disciplines coexist and are deliberately kept separate:
//
//   - first-match-wins: ReadLocation and ParseData try processors in
//     registration order and stop at the first one that claims the item
//   - ordered fold: ProcessEntity runs every capable processor, each
//     receiving the previous processor's output
//   - fan-out side effect: HandleError runs every capable processor and
//     ignores return values
//
// A processor fault (returned error or panic) in any hook is captured as an
// ErrorItem naming the processor and location; the chain then continues with
// the next processor. A faulting processor can never abort the chain.
//
// Each dispatch method returns the items produced while handling the input
// item; the chain holds no cross-call state, so one Chain safely serves
// concurrent engine reads.
type Chain struct {
	processors []Processor
	logger     *zap.SugaredLogger
}

// NewChain creates a chain over the given processors. Registration order is
// dispatch order.
func NewChain(logger *zap.SugaredLogger, processors ...Processor) *Chain {
	return &Chain{
		processors: processors,
		logger:     logger,
	}
}

// Processors returns the registered processors in dispatch order.
func (c *Chain) Processors() []Processor {
	return c.processors
}

// ReadLocation dispatches a location item: first-match-wins over the
// LocationReader capability. If no processor claims the location, an
// unhandled-input ErrorItem is produced.
func (c *Chain) ReadLocation(ctx context.Context, location LocationSpec, optional bool) []Item {
	var produced []Item
	emit := func(item Item) { produced = append(produced, item) }

	for _, p := range c.processors {
		reader, ok := p.(LocationReader)
		if !ok {
			continue
		}
		handled, err := c.safeReadLocation(ctx, reader, location, optional, emit)
		if err != nil {
			produced = append(produced, ErrorItem{
				Spec: location,
				Err:  faultError(p, "readLocation", location, err),
			})
			continue
		}
		if handled {
			c.logger.Debugw("location claimed",
				"processor", p.Name(),
				"location", location.String())
			return produced
		}
	}

	produced = append(produced, ErrorItem{
		Spec: location,
		Err:  errors.Wrapf(errors.ErrNoReader, "location %s", location),
	})
	return produced
}

// ParseData dispatches a data item: first-match-wins over the DataParser
// capability, with the same no-processor-found semantics as ReadLocation.
func (c *Chain) ParseData(ctx context.Context, data []byte, location LocationSpec) []Item {
	var produced []Item
	emit := func(item Item) { produced = append(produced, item) }

	for _, p := range c.processors {
		parser, ok := p.(DataParser)
		if !ok {
			continue
		}
		handled, err := c.safeParseData(ctx, parser, data, location, emit)
		if err != nil {
			produced = append(produced, ErrorItem{
				Spec: location,
				Err:  faultError(p, "parseData", location, err),
			})
			continue
		}
		if handled {
			return produced
		}
	}

	produced = append(produced, ErrorItem{
		Spec: location,
		Err:  errors.Wrapf(errors.ErrNoParser, "data from location %s", location),
	})
	return produced
}

// ProcessEntity folds the entity through every EntityProcessor in
// registration order and returns the final entity plus any items produced
// along the way. A faulting stage contributes an ErrorItem and the fold
// continues with the entity from the last successful stage.
func (c *Chain) ProcessEntity(ctx context.Context, entity *catalog.Entity, location LocationSpec) (*catalog.Entity, []Item) {
	var produced []Item
	emit := func(item Item) { produced = append(produced, item) }

	current := entity
	for _, p := range c.processors {
		proc, ok := p.(EntityProcessor)
		if !ok {
			continue
		}
		next, err := c.safeProcessEntity(ctx, proc, current, location, emit)
		if err == nil && next == nil {
			err = errors.New("returned no entity")
		}
		if err != nil {
			produced = append(produced, ErrorItem{
				Spec: location,
				Err:  faultError(p, "processEntity", location, err),
			})
			continue
		}
		current = next
	}

	return current, produced
}

// HandleError fans an error item out to every ErrorHandler for side effects.
// There is no stopping rule; all capable processors run.
func (c *Chain) HandleError(ctx context.Context, readErr error, location LocationSpec) []Item {
	var produced []Item
	emit := func(item Item) { produced = append(produced, item) }

	for _, p := range c.processors {
		handler, ok := p.(ErrorHandler)
		if !ok {
			continue
		}
		if err := c.safeHandleError(ctx, handler, readErr, location, emit); err != nil {
			produced = append(produced, ErrorItem{
				Spec: location,
				Err:  faultError(p, "handleError", location, err),
			})
		}
	}

	return produced
}

// safeReadLocation invokes ReadLocation with panic recovery.
func (c *Chain) safeReadLocation(ctx context.Context, r LocationReader, location LocationSpec, optional bool, emit Emit) (handled bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic: %v", rec)
		}
	}()
	return r.ReadLocation(ctx, location, optional, emit)
}

// safeParseData invokes ParseData with panic recovery.
func (c *Chain) safeParseData(ctx context.Context, p DataParser, data []byte, location LocationSpec, emit Emit) (handled bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic: %v", rec)
		}
	}()
	return p.ParseData(ctx, data, location, emit)
}

// safeProcessEntity invokes ProcessEntity with panic recovery.
func (c *Chain) safeProcessEntity(ctx context.Context, p EntityProcessor, entity *catalog.Entity, location LocationSpec, emit Emit) (result *catalog.Entity, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = errors.Newf("panic: %v", rec)
		}
	}()
	return p.ProcessEntity(ctx, entity, location, emit)
}

// safeHandleError invokes HandleError with panic recovery.
func (c *Chain) safeHandleError(ctx context.Context, h ErrorHandler, readErr error, location LocationSpec, emit Emit) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic: %v", rec)
		}
	}()
	h.HandleError(ctx, readErr, location, emit)
	return nil
}

// faultError wraps a hook failure so the output identifies the failing
// processor and location while preserving the cause chain.
func faultError(p Processor, hook string, location LocationSpec, cause error) error {
	return errors.Mark(
		errors.Wrapf(cause, "processor %s failed during %s of %s", p.Name(), hook, location),
		errors.ErrProcessorFault,
	)
}
