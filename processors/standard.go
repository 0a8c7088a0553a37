package processors

import (
	"go.uber.org/zap"

	"github.com/teranos/CATX/ingest"
)

// StandardOptions tunes the standard processor set.
type StandardOptions struct {
	// FetchRate is the remote fetch rate limit in requests per second for
	// the URL reader. Zero uses DefaultFetchRate.
	FetchRate float64
}

// Standard returns the stock processor set in its canonical order: readers
// first (file, url, repo), then the YAML parser, then the entity pipeline
// (follow locations, annotate provenance, validate structure).
//
// This is a convenience for callers, not an engine default: the engine
// always takes an explicit chain.
func Standard(logger *zap.SugaredLogger, opts StandardOptions) []ingest.Processor {
	return []ingest.Processor{
		NewFileReader(),
		NewURLReader(opts.FetchRate),
		NewRepoReader(logger),
		NewYAMLParser(),
		NewLocationFollower(),
		NewOriginAnnotator(),
		NewValidator(),
	}
}
