package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/teranos/CATX/errors"
	"github.com/teranos/CATX/ingest"
	"github.com/teranos/CATX/logger"
	"github.com/teranos/CATX/processors"
)

// watchDebounce coalesces rapid editor write bursts into one re-ingestion.
const watchDebounce = 500 * time.Millisecond

// WatchCmd re-ingests a file location whenever it changes on disk.
var WatchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-ingest a file location whenever it changes",
	Long: `Watch a catalog file and re-ingest it on every change.

Changes are debounced, so editors that write multiple times in quick
succession trigger a single re-ingestion. Stop with Ctrl-C.

Examples:
  catx watch ./catalog.yaml
  catx watch ./catalog.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useJSON, _ := cmd.Flags().GetBool("json")
		return runWatch(args[0], useJSON)
	},
}

func runWatch(path string, useJSON bool) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "cannot watch %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location := ingest.LocationSpec{Type: processors.LocationTypeFile, Target: path}

	// Initial ingestion before waiting for changes
	if err := runRead(ctx, location, 0, useJSON); err != nil {
		return err
	}
	logger.Infow("Watching for changes", "path", path)

	var debounce *time.Timer
	reingest := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reingest <- struct{}{}:
				default:
				}
			})

		case <-reingest:
			logger.Infow("Change detected, re-ingesting", "path", path)
			if err := runRead(ctx, location, 0, useJSON); err != nil {
				logger.Errorw("Re-ingestion failed", "path", path, "error", err)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", "error", watchErr)
		}
	}
}
