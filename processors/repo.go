package processors

// Repository location reading. Uses hashicorp/go-getter for flexible source
// resolution (local paths, git URLs, github shorthand) and go-git to walk
// the checked-out tree for catalog descriptor files.

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
)

// LocationTypeRepo is the location type claimed by RepoReader.
const LocationTypeRepo = "repo"

// Catalog descriptor file names recognized inside a repository.
var descriptorNames = map[string]struct{}{
	"catalog-info.yaml": {},
	"catalog-info.yml":  {},
}

// RepoReader reads locations of type "repo": a git repository, local or
// remote. Remote sources are fetched into a temp directory first. The HEAD
// tree is walked for catalog descriptor files, each emitted as a data item
// whose location records both the repository and the path within it.
type RepoReader struct {
	logger *zap.SugaredLogger
}

// NewRepoReader creates a repository location reader.
func NewRepoReader(logger *zap.SugaredLogger) *RepoReader {
	return &RepoReader{logger: logger}
}

// Name implements ingest.Processor.
func (r *RepoReader) Name() string { return "RepoReader" }

// ReadLocation claims "repo" locations. Resolution and read failures are
// emitted as error items, not processor faults.
func (r *RepoReader) ReadLocation(ctx context.Context, location ingest.LocationSpec, optional bool, emit ingest.Emit) (bool, error) {
	if location.Type != LocationTypeRepo {
		return false, nil
	}

	localPath, cleanup, err := r.resolve(ctx, location.Target)
	if err != nil {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "unable to resolve repository %s", location.Target),
		})
		return true, nil
	}
	defer cleanup()

	found, err := r.emitDescriptors(localPath, location, emit)
	if err != nil {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Wrapf(err, "unable to read repository %s", location.Target),
		})
		return true, nil
	}

	if found == 0 && !optional {
		emit(ingest.ErrorItem{
			Spec: location,
			Err:  errors.Newf("no catalog descriptor found in repository %s", location.Target),
		})
	}
	return true, nil
}

// resolve turns the target into a local working tree path. Remote sources
// are fetched with go-getter; local paths are used in place.
func (r *RepoReader) resolve(ctx context.Context, target string) (string, func(), error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(target, pwd, getter.Detectors)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to detect source type")
	}

	parsed, err := url.Parse(detected)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to parse detected URL")
	}

	// Local path: use directly, nothing to clean up
	if parsed.Scheme == "file" || parsed.Scheme == "" {
		localPath := target
		if parsed.Scheme == "file" {
			localPath = parsed.Path
		}
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(pwd, localPath)
		}
		return localPath, func() {}, nil
	}

	// Remote source: fetch to temp directory
	tempDir, err := os.MkdirTemp("", "catx-repo-*")
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temp directory")
	}

	r.logger.Infow("Fetching repository",
		"target", target,
		"detected", detected,
		"destination", tempDir)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tempDir,
		Mode:    getter.ClientModeDir,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return "", nil, errors.Wrap(err, "failed to fetch repository")
	}

	return tempDir, func() { os.RemoveAll(tempDir) }, nil
}

// emitDescriptors walks the repository HEAD tree and emits a data item per
// catalog descriptor file. Returns the number of descriptors found.
func (r *RepoReader) emitDescriptors(localPath string, location ingest.LocationSpec, emit ingest.Emit) (int, error) {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open repository")
	}

	head, err := repo.Head()
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve HEAD")
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return 0, errors.Wrap(err, "failed to load HEAD commit")
	}

	tree, err := commit.Tree()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load HEAD tree")
	}

	found := 0
	err = tree.Files().ForEach(func(f *object.File) error {
		base := strings.ToLower(filepath.Base(f.Name))
		if _, ok := descriptorNames[base]; !ok {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", f.Name)
		}
		found++
		emit(ingest.DataItem{
			Spec: ingest.LocationSpec{
				Type:   location.Type,
				Target: location.Target + "//" + f.Name,
			},
			Data: []byte(contents),
		})
		return nil
	})
	if err != nil {
		return found, err
	}

	r.logger.Debugw("repository descriptors collected",
		"repository", location.Target,
		"descriptors", found)
	return found, nil
}

var _ ingest.LocationReader = (*RepoReader)(nil)
