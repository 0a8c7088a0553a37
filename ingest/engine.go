package ingest

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/CATX/errors"
)

// DefaultMaxRounds bounds the expansion loop against runaway or cyclic
// location graphs.
const DefaultMaxRounds = 10

// Engine drives the round-based expansion loop. It seeds one location item
// from the caller's input, then repeatedly drains the current pending set
// through the processor chain, feeding newly emitted items into the next
// round, until a round produces nothing new or the round bound is reached.
//
// An Engine holds no mutable state across Read calls, so one instance serves
// concurrent reads without locking.
type Engine struct {
	chain     *Chain
	rules     *Enforcer
	maxRounds int
	logger    *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxRounds overrides the round bound. Values below 1 are ignored.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.maxRounds = n
		}
	}
}

// NewEngine creates an engine over the given chain and admission rules.
// Both are required; there are no implicit defaults here. Callers wanting
// the stock setup combine processors.Standard with DefaultEnforcer.
func NewEngine(chain *Chain, rules *Enforcer, logger *zap.SugaredLogger, opts ...Option) *Engine {
	e := &Engine{
		chain:     chain,
		rules:     rules,
		maxRounds: DefaultMaxRounds,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Read ingests a location and returns everything produced from it. It never
// returns an error value: unreadable locations, processor faults, policy
// rejections and the round limit all become entries in ReadResult.Errors.
func (e *Engine) Read(ctx context.Context, location LocationSpec) ReadResult {
	runID := uuid.NewString()[:8]
	log := e.logger.With("run_id", runID, "location", location.String())

	var out ReadResult
	pending := []Item{LocationItem{Spec: location}}

	for round := 0; round < e.maxRounds; round++ {
		var next []Item

		// Items are processed strictly in the order they were emitted;
		// round N+1 is exactly the union of what round N produced.
		for _, item := range pending {
			next = append(next, e.dispatch(ctx, item, &out)...)
		}

		log.Debugw("ingestion round complete",
			"round", round,
			"processed", len(pending),
			"emitted", len(next))

		if len(next) == 0 {
			return out
		}
		pending = next
	}

	// Bound reached with work still pending. The pending items are discarded
	// rather than folded into the output; termination wins over completeness.
	log.Warnw("ingestion round limit reached, discarding pending items",
		"max_rounds", e.maxRounds,
		"discarded", len(pending))
	out.Errors = append(out.Errors, ReadError{
		Location: location,
		Err: errors.Wrapf(errors.ErrRoundLimit,
			"stopped after %d rounds while reading %s", e.maxRounds, location),
	})
	return out
}

// dispatch routes one item to the handler for its variant and returns the
// items it produced for the next round. Output accumulation happens here:
// entity items append to out.Entities once admitted and transformed, error
// items append to out.Errors after the error-handler fan-out.
func (e *Engine) dispatch(ctx context.Context, item Item, out *ReadResult) []Item {
	switch it := item.(type) {
	case LocationItem:
		return e.chain.ReadLocation(ctx, it.Spec, it.Optional)

	case DataItem:
		return e.chain.ParseData(ctx, it.Data, it.Spec)

	case EntityItem:
		// Admission gate runs strictly before the transform pipeline;
		// rejected entities never reach ProcessEntity.
		if !e.rules.Allowed(it.Entity, it.Spec) {
			return []Item{ErrorItem{
				Spec: it.Spec,
				Err: errors.Wrapf(errors.ErrNotAllowed,
					"entity of kind %q is not allowed from location type %q",
					it.Entity.Kind, it.Spec.Type),
			}}
		}
		final, produced := e.chain.ProcessEntity(ctx, it.Entity, it.Spec)
		out.Entities = append(out.Entities, EntityRef{Entity: final, Location: it.Spec})
		return produced

	case ErrorItem:
		produced := e.chain.HandleError(ctx, it.Err, it.Spec)
		out.Errors = append(out.Errors, ReadError{Location: it.Spec, Err: it.Err})
		return produced

	default:
		// Unknown variants cannot be produced by this package's constructors.
		out.Errors = append(out.Errors, ReadError{
			Location: item.Location(),
			Err:      errors.AssertionFailedf("unknown item variant %T", item),
		})
		return nil
	}
}
