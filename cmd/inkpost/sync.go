package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/inkpost/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// syncDebounce is how long a file must be quiet before it is synced again
const syncDebounce = 300 * time.Millisecond

var postSyncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Create or update posts from a directory of markdown files",
	Long: `Import every markdown file under a directory, updating the post with the
same slug when it already exists. With --watch the directory keeps being
polled and changed files are synced again until interrupted. Removing a file
never deletes its post.

Example:
  inkpost post sync posts/
  inkpost post sync posts/ --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runPostSync,
}

func init() {
	postCmd.AddCommand(postSyncCmd)

	postSyncCmd.Flags().BoolP("watch", "w", false, "Keep syncing files as they change")
	postSyncCmd.Flags().Duration("interval", time.Second, "Polling interval for --watch")
}

func runPostSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLoggerFromConfig(cfg.Logging)

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	syncer := newPostSyncer(a.parser, a.forms, cmd.OutOrStdout())

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return syncer.syncDir(ctx, dir)
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}

	// start watching before the first pass so no edit falls in between
	w := watcher.NewPollingWatcher(interval, syncDebounce)
	events, err := w.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	defer func() { _ = w.Stop() }()

	if err := syncer.syncDir(ctx, dir); err != nil {
		logger.Warn("%v", err)
	}
	logger.Success("Watching %s for changes (Ctrl+C to stop)", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			syncer.handle(ctx, event, logger)
		}
	}
}

// postSyncer keeps posts in line with markdown files. It remembers the slug
// each file was last stored under so a changed slug renames the post.
type postSyncer struct {
	docs  ports.DocumentParser
	forms ports.PostFormController
	out   io.Writer
	slugs map[string]string
}

func newPostSyncer(docs ports.DocumentParser, forms ports.PostFormController, out io.Writer) *postSyncer {
	return &postSyncer{docs: docs, forms: forms, out: out, slugs: make(map[string]string)}
}

// syncDir syncs every markdown file under dir. It keeps going after a
// failure and reports how many files failed.
func (s *postSyncer) syncDir(ctx context.Context, dir string) error {
	files, err := watcher.ListMarkdownFiles(dir)
	if err != nil {
		return err
	}

	var failed []error
	for _, path := range files {
		if err := s.syncFile(ctx, path); err != nil {
			_, _ = fmt.Fprintf(s.out, "Skipped %s: %v\n", path, err)
			failed = append(failed, err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files could not be synced: %w", len(failed), len(files), errors.Join(failed...))
	}
	return nil
}

// syncFile updates the post the file maps to, creating it when missing
func (s *postSyncer) syncFile(ctx context.Context, path string) error {
	sub, err := readPostFile(ctx, s.docs, path)
	if err != nil {
		return err
	}
	slug := sub.Fields.Get(entities.FieldSlug)

	target := slug
	if previous, ok := s.slugs[path]; ok {
		target = previous
	}

	update := entities.Submission{
		Intent:     entities.IntentUpdate,
		TargetSlug: target,
		Fields:     maps.Clone(sub.Fields),
	}
	update.Fields.Set(entities.FieldIntent, string(entities.IntentUpdate))

	verb := "Updated"
	err = submitPostFile(ctx, s.forms, path, update)
	if errors.Is(err, entities.ErrPostNotFound) {
		verb = "Created"
		err = submitPostFile(ctx, s.forms, path, sub)
	}
	if err != nil {
		return err
	}

	s.slugs[path] = slug
	_, _ = fmt.Fprintf(s.out, "%s /posts/%s from %s\n", verb, slug, path)
	return nil
}

// handle reacts to one watcher event
func (s *postSyncer) handle(ctx context.Context, event ports.FileChangeEvent, logger *Logger) {
	if event.Type == ports.Deleted {
		if slug, ok := s.slugs[event.Path]; ok {
			logger.Warn("%s was removed; /posts/%s is kept", event.Path, slug)
			delete(s.slugs, event.Path)
		}
		return
	}

	logger.Debug("%s %s", event.Path, event.Type)
	if err := s.syncFile(ctx, event.Path); err != nil {
		logger.Error("%v", err)
	}
}
