package processors

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"
	"golang.org/x/time/rate"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// LocationTypeURL is the location type claimed by URLReader.
const LocationTypeURL = "url"

// DefaultFetchRate is the default number of remote fetches per second.
const DefaultFetchRate = 2.0

// URLReader reads locations of type "url" by fetching them with go-getter,
// which handles http(s), s3, gcs and friends. Fetches are rate limited to
// stay polite toward remote hosts.
type URLReader struct {
	limiter *rate.Limiter
}

// NewURLReader creates a URL location reader fetching at most perSecond
// locations per second. Values <= 0 fall back to DefaultFetchRate.
func NewURLReader(perSecond float64) *URLReader {
	if perSecond <= 0 {
		perSecond = DefaultFetchRate
	}
	return &URLReader{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Name implements ingest.Processor.
func (r *URLReader) Name() string { return "URLReader" }

// ReadLocation claims "url" locations. Fetch failures are emitted as error
// items; only a cancelled context surfaces as a processor fault.
func (r *URLReader) ReadLocation(ctx context.Context, location ingest.LocationSpec, optional bool, emit ingest.Emit) (bool, error) {
	if location.Type != LocationTypeURL {
		return false, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return true, err
	}

	tempDir, err := os.MkdirTemp("", "catx-url-*")
	if err != nil {
		return true, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	dst := filepath.Join(tempDir, "payload")
	client := &getter.Client{
		Ctx:     ctx,
		Src:     location.Target,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}

	if err := client.Get(); err != nil {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "unable to fetch url location %s", location.Target),
		})
		return true, nil
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "fetched payload unreadable for %s", location.Target),
		})
		return true, nil
	}

	emit(ingest.DataItem{Spec: location, Data: data})
	return true, nil
}

var _ ingest.LocationReader = (*URLReader)(nil)
