package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/config"
	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/flags"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/presentation"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
	"github.com/inchworm-units/inchworm/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload catalogs when they change",
	Long: `Build the registry, then watch every configured catalog file and reload
when one changes. Each successful reload prints what changed. A catalog that
fails to apply leaves the registry as it was.

Entries removed from a catalog file stay registered until the next start;
the registry has no delete.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// reloader keeps a long-lived registry in step with the catalog files.
type reloader struct {
	live  *dimensions.Registry
	build func(context.Context) (*dimensions.Registry, error)

	// afterChange runs when a reload changed the registry and returns the
	// GUID of the snapshot it saved. Optional.
	afterChange func(context.Context, dimensions.Snapshot) (string, error)
}

type reloadResult struct {
	Diff         presentation.Diff
	Installed    int
	Stale        []string // keys no longer in any catalog
	SnapshotGUID string
}

// reload builds a scratch registry from the catalogs and, only if that
// succeeds, restores it over the live one.
func (r *reloader) reload(ctx context.Context) (reloadResult, error) {
	scratch, err := r.build(ctx)
	if err != nil {
		return reloadResult{}, err
	}
	defer scratch.Close()

	before := r.live.Snapshot()
	next := scratch.Snapshot()
	if keys := baseTurnedDerived(r.live, scratch); len(keys) > 0 {
		return reloadResult{}, fmt.Errorf("%s changed from base to derived; restart watch to apply", strings.Join(keys, ", "))
	}
	installed, err := r.live.Restore(next)
	if err != nil {
		return reloadResult{}, err
	}

	res := reloadResult{
		Diff:      presentation.DiffSnapshots(before, r.live.Snapshot()),
		Installed: installed,
	}
	for _, e := range before.Base {
		if !scratch.BaseDimensions().Contains(e.Key) {
			res.Stale = append(res.Stale, e.Key)
		}
	}
	for _, e := range before.Derived {
		if !scratch.DerivedDimensions().Contains(e.Key) {
			res.Stale = append(res.Stale, e.Key)
		}
	}

	if r.afterChange != nil && res.Diff.HasChanges() {
		guid, err := r.afterChange(ctx, r.live.Snapshot())
		if err != nil {
			log.ErrorErr(log.CatStore, "saving reload snapshot failed", err)
		}
		res.SnapshotGUID = guid
	}
	return res, nil
}

// baseTurnedDerived lists keys that are base dimensions in live but only
// derived in next. Restore cannot apply them without a delete.
func baseTurnedDerived(live, next *dimensions.Registry) []string {
	var keys []string
	for _, key := range next.DerivedDimensions().Keys() {
		if live.BaseDimensions().Contains(key) && !next.BaseDimensions().Contains(key) {
			keys = append(keys, strconv.Quote(key))
		}
	}
	return keys
}

// saveReloadSnapshot stores snap in the configured snapshot database.
func saveReloadSnapshot(ctx context.Context, snap dimensions.Snapshot) (string, error) {
	s := domain.NewSnapshot(uuid.NewString(), "watch reload", snap, time.Now())
	err := withRepository(func(repo domain.SnapshotRepository) error {
		return repo.Save(ctx, s)
	})
	if err != nil {
		return "", err
	}
	return s.GUID(), nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if len(cfg.Catalogs) == 0 {
		return fmt.Errorf("no catalogs configured: add one with --catalog or 'inchworm config add-catalog'")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	live, err := buildRegistry(ctx)
	if err != nil {
		return err
	}
	defer live.Close()

	paths := make([]string, len(cfg.Catalogs))
	for i, p := range cfg.Catalogs {
		paths[i] = config.ExpandHome(p)
	}
	w, err := watcher.New(watcher.Config{Paths: paths, Debounce: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	events := live.Subscribe(ctx)
	r := &reloader{live: live, build: buildRegistry}
	if featureFlags.Enabled(flags.SnapshotOnReload) {
		r.afterChange = saveReloadSnapshot
	}
	out := cmd.OutOrStdout()
	f := formatter(cmd)

	fmt.Fprintf(out, "Watching %d catalogs (%d dimensions). Press Ctrl+C to stop.\n",
		len(paths), live.BaseDimensions().Len()+live.DerivedDimensions().Len())

	mutations := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "Stopped after %d registry changes.\n", mutations)
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			mutations++
			log.Debug(log.CatRegistry, "registry changed", "event", ev.Type, "name", ev.Payload.Name, "generation", ev.Payload.Generation)
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			log.Info(log.CatWatcher, "catalog files changed", "paths", change.Paths)
			reportReload(ctx, out, f, r, change)
		}
	}
}

func reportReload(ctx context.Context, out io.Writer, f *presentation.Formatter, r *reloader, change watcher.Change) {
	res, err := r.reload(ctx)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "reload failed", err, "paths", change.Paths)
		fmt.Fprintf(out, "Reload failed, keeping previous registry: %v\n", err)
		return
	}
	inserted, deleted := res.Diff.Stats()
	fmt.Fprintf(out, "Reloaded %d dimensions (+%d -%d)\n", res.Installed, inserted, deleted)
	if res.Diff.HasChanges() {
		if err := f.FormatDiff(res.Diff, false); err != nil {
			log.ErrorErr(log.CatCLI, "printing diff failed", err)
		}
	}
	if res.SnapshotGUID != "" {
		fmt.Fprintf(out, "Saved snapshot %s\n", res.SnapshotGUID)
	}
	if len(res.Stale) > 0 {
		fmt.Fprintf(out, "Warning: %d entries were removed from the catalogs but stay registered until restart: %v\n",
			len(res.Stale), res.Stale)
	}
}
