package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harun/parley/pkg/archive"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived sessions",
	Long: `Inspect sessions recorded with --archive-dir (or archive_dir in the
config file).`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		ids, err := store.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintf(out, "No archived sessions in %s.\n", store.Dir())
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the messages of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		entries, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no archived messages for run %s", args[0])
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Turn, e.Timestamp.Format("15:04:05"), e.Label, e.Text)
		}
		return w.Flush()
	},
}

var pruneOlderThan time.Duration

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archived runs older than --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		deleted, err := store.Prune(cmd.Context(), pruneOlderThan, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d archived run(s).\n", len(deleted))
		return nil
	},
}

func init() {
	archivePruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", archive.DefaultRetention, "minimum age of runs to delete")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archivePruneCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.ArchiveDir == "" {
		return nil, fmt.Errorf("no archive configured, set --archive-dir or archive_dir")
	}
	return archive.New(cfg.ArchiveDir)
}
