package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/agentic-research/sdfpack/internal/ingest"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	billy "github.com/go-git/go-billy/v5"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

func init() {
	addExportFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period after a change before re-exporting")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Export, then re-export whenever the scene or its images change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := resolveJob(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, job.Config)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchScene(ctx, hostFS, job, logger, watchDebounce)
	},
}

// watchScene exports once, then again after every burst of changes in the
// directories holding the scene and its images. Exports run one at a time.
// A failed export is logged and the watch continues. Returns nil when ctx ends.
func watchScene(ctx context.Context, fs billy.Filesystem, job exportJob, logger *log.Logger, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	export := func() {
		res, err := runExport(ctx, fs, job, logger)
		if err != nil {
			logger.Error("export failed", "err", err)
			return
		}
		logger.Info("exported", "links", len(res.Links))
		for _, dir := range watchDirs(fs, job) {
			// Directories that appear later are picked up here.
			if err := watcher.Add(dir); err != nil {
				logger.Debug("cannot watch", "dir", dir, "err", err)
			}
		}
	}

	if err := watcher.Add(filepath.Dir(job.Scene)); err != nil {
		return err
	}
	export()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, job) {
				continue
			}
			logger.Debug("change", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			export()
		}
	}
}

// watchDirs lists the directories holding the scene and its image sources.
func watchDirs(fs billy.Filesystem, job exportJob) []string {
	dirs := []string{filepath.Dir(job.Scene)}
	seen := map[string]bool{dirs[0]: true}

	scene, err := ingest.LoadScene(fs, job.Scene)
	if err != nil {
		return dirs
	}
	for _, src := range scene.ImageSources() {
		if src == "" {
			continue
		}
		dir := filepath.Dir(src)
		if !seen[dir] && !within(dir, job.Out) {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// relevant reports whether event may change the export. Changes under the
// package directory or to the archive are the export's own output.
func relevant(event fsnotify.Event, job exportJob) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	path := filepath.Clean(event.Name)
	if within(path, job.Out) {
		return false
	}
	return job.Archive == "" || path != job.Archive
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
