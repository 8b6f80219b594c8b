package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/realjck/scorm-iframe-packager/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past package generations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one generation record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete generation records older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records")
	historyCmd.Flags().String("status", "", "filter by status: succeeded, failed")
	historyCmd.Flags().String("version", "", "filter by SCORM version: 1.2, 2004")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "age of the records to delete")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryForCommand() (*history.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := openHistory(cfg)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, errors.New("history is disabled (history.enabled: false)")
	}
	return store, closeFn, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	version, _ := cmd.Flags().GetString("version")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, closeFn, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer closeFn()

	records, err := store.List(cmd.Context(), history.Filter{
		Status:  history.Status(status),
		Version: version,
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages generated yet. Use `scormpack build` to create one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tVERSION\tTYPE\tSIZE\tPLACEHOLDERS\tNAME")
	for _, r := range records {
		name := r.Name
		if r.Status == history.StatusFailed {
			name = r.Error
		}
		if len(name) > 60 {
			name = name[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Status,
			r.Version, r.PackageType, r.Size, len(r.Placeholders), name)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := store.GetByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	age, _ := cmd.Flags().GetDuration("older-than")
	if age <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	store, closeFn, err := openHistoryForCommand()
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Deleted %d record(s) older than %s\n", n, age)
	return nil
}
