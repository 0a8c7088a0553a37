// Package processors provides the standard processor set for the CATX
// ingestion engine: location readers for files, URLs and repositories, the
// YAML entity parser, and the entity transform stages.
package processors

import (
	"context"
	"os"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// LocationTypeFile is the location type claimed by FileReader.
const LocationTypeFile = "file"

// FileReader reads locations of type "file" from the local filesystem.
type FileReader struct{}

// NewFileReader creates a filesystem location reader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// Name implements ingest.Processor.
func (r *FileReader) Name() string { return "FileReader" }

// ReadLocation claims "file" locations. Missing optional locations are
// handled silently; any other read failure is emitted as an error item
// rather than treated as a processor fault.
func (r *FileReader) ReadLocation(ctx context.Context, location ingest.LocationSpec, optional bool, emit ingest.Emit) (bool, error) {
	if location.Type != LocationTypeFile {
		return false, nil
	}

	data, err := os.ReadFile(location.Target)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return true, nil
		}
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "unable to read file location %s", location.Target),
		})
		return true, nil
	}

	emit(ingest.DataItem{Spec: location, Data: data})
	return true, nil
}

var _ ingest.LocationReader = (*FileReader)(nil)
