package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/inchworm-units/inchworm/internal/config"
	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/infrastructure/sqlite"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/presentation"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
)

const latestRef = "latest"

var (
	snapshotLabel   string
	snapshotLimit   int
	snapshotOut     string
	snapshotContext bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save, list and restore registry snapshots",
	Long: `Snapshots record the full registry, in order, in the snapshot database
(store.path in the config). A snapshot is referenced by its GUID, any unique
GUID prefix, or "latest".`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:     "save",
	Short:   "Save the current registry",
	Example: `  inchworm snapshot save --label "before information units"`,
	Args:    cobra.NoArgs,
	RunE:    runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved snapshots, newest first",
	Args:    cobra.NoArgs,
	RunE:    runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <guid|latest>",
	Short: "Rebuild a registry from a snapshot",
	Long: `Rebuild a registry from a snapshot and write it as a catalog.

Without --out the catalog is written to stdout. With --out it is written to the
file and the difference from the current registry is printed.`,
	Example: `  inchworm snapshot restore latest --out restored.yaml
  inchworm snapshot restore 3f2a --out restored.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotRestore,
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <guid|latest> [guid|latest]",
	Short: "Compare snapshots",
	Long: `Compare two snapshots, or one snapshot with the current registry.
Lines starting with "-" are only in the first, "+" only in the second.`,
	Example: `  inchworm snapshot diff latest
  inchworm snapshot diff 3f2a 9c41 --context`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSnapshotDiff,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <guid>",
	Aliases: []string{"rm"},
	Short:   "Delete a snapshot",
	Args:    cobra.ExactArgs(1),
	RunE:    runSnapshotDelete,
}

func init() {
	snapshotSaveCmd.Flags().StringVarP(&snapshotLabel, "label", "l", "", "description stored with the snapshot")
	snapshotListCmd.Flags().IntVarP(&snapshotLimit, "limit", "n", 20, "maximum number of snapshots (0 for all)")
	snapshotRestoreCmd.Flags().StringVar(&snapshotOut, "out", "", "write the restored catalog to a file")
	snapshotDiffCmd.Flags().BoolVar(&snapshotContext, "context", false, "also print unchanged entries")

	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotRestoreCmd, snapshotDiffCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// openStore opens the snapshot database configured in store.path.
func openStore() (*sqlite.DB, error) {
	path := cfg.Store.Path
	if path == "" {
		path = config.DefaultStorePath()
	}
	return sqlite.NewDB(config.ExpandHome(path))
}

func withRepository(fn func(repo domain.SnapshotRepository) error) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn(log.CatStore, "closing database failed", "error", err)
		}
	}()
	return fn(db.SnapshotRepository())
}

func findSnapshot(ctx context.Context, repo domain.SnapshotRepository, ref string) (*domain.Snapshot, error) {
	if ref == latestRef {
		return repo.Latest(ctx)
	}
	return repo.FindByGUID(ctx, ref)
}

func runSnapshotSave(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	reg, err := buildRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	snap := domain.NewSnapshot(uuid.NewString(), snapshotLabel, reg.Snapshot(), time.Now())
	err = withRepository(func(repo domain.SnapshotRepository) error {
		return repo.Save(ctx, snap)
	})
	if err != nil {
		return err
	}

	base, derived := snap.Counts()
	return formatter(cmd).FormatResult(
		fmt.Sprintf("Saved snapshot %s (%d base, %d derived)", snap.GUID(), base, derived),
		presentation.FromSnapshot(snap),
	)
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	var snapshots []*domain.Snapshot
	err := withRepository(func(repo domain.SnapshotRepository) error {
		var err error
		snapshots, err = repo.List(cmd.Context(), snapshotLimit)
		return err
	})
	if err != nil {
		return err
	}
	return formatter(cmd).FormatSnapshots(presentation.FromSnapshots(snapshots))
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var snap *domain.Snapshot
	err := withRepository(func(repo domain.SnapshotRepository) error {
		var err error
		snap, err = findSnapshot(ctx, repo, args[0])
		return err
	})
	if err != nil {
		return err
	}

	restored := newRegistry()
	defer restored.Close()
	if _, err := snap.RestoreInto(restored); err != nil {
		return fmt.Errorf("restoring snapshot %s: %w", snap.GUID(), err)
	}

	if snapshotOut == "" {
		return writeCatalog(cmd, restored.Snapshot(), "")
	}
	if err := writeCatalog(cmd, restored.Snapshot(), snapshotOut); err != nil {
		return err
	}

	current, err := buildRegistry(ctx)
	if err != nil {
		return err
	}
	defer current.Close()
	return formatter(cmd).FormatDiff(presentation.DiffSnapshots(current.Snapshot(), restored.Snapshot()), false)
}

func runSnapshotDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var before, after dimensions.Snapshot
	err := withRepository(func(repo domain.SnapshotRepository) error {
		first, err := findSnapshot(ctx, repo, args[0])
		if err != nil {
			return err
		}
		before = first.Contents()
		if len(args) == 2 {
			second, err := findSnapshot(ctx, repo, args[1])
			if err != nil {
				return err
			}
			after = second.Contents()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(args) == 1 {
		current, err := buildRegistry(ctx)
		if err != nil {
			return err
		}
		defer current.Close()
		after = current.Snapshot()
	}

	d := presentation.DiffSnapshots(before, after)
	if !d.HasChanges() && !formatter(cmd).JSON() {
		fmt.Fprintln(cmd.OutOrStdout(), "No differences")
		return nil
	}
	return formatter(cmd).FormatDiff(d, snapshotContext)
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var guid string
	err := withRepository(func(repo domain.SnapshotRepository) error {
		snap, err := repo.FindByGUID(ctx, args[0])
		if err != nil {
			return err
		}
		guid = snap.GUID()
		return repo.Delete(ctx, guid)
	})
	if err != nil {
		return err
	}
	return formatter(cmd).FormatResult("Deleted snapshot "+guid, map[string]string{"deleted": guid})
}
