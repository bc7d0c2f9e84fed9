package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/carfront/internal/activity"
	"github.com/ziadkadry99/carfront/internal/db"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Inspect or prune the local activity log",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent creates and deletes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runActivityList,
}

var activityPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete activity entries older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runActivityPrune,
}

func init() {
	activityListCmd.Flags().String("action", "", "filter by action: car_created, car_deleted")
	activityListCmd.Flags().String("car", "", "filter by car id")
	activityListCmd.Flags().Int("limit", 20, "maximum number of entries")
	activityListCmd.Flags().Bool("json", false, "output entries as JSON")

	activityPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete entries older than this")

	activityCmd.AddCommand(activityListCmd, activityPruneCmd)
	rootCmd.AddCommand(activityCmd)
}

func openActivityStore() (*activity.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Activity.Enabled {
		return nil, nil, fmt.Errorf("the activity log is disabled (activity.enabled: false)")
	}
	database, err := db.Open(cfg.ActivityDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return activity.NewStore(database), func() { database.Close() }, nil
}

func runActivityList(cmd *cobra.Command, args []string) error {
	action, _ := cmd.Flags().GetString("action")
	carID, _ := cmd.Flags().GetString("car")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, closeDB, err := openActivityStore()
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := store.Query(cmd.Context(), activity.QueryFilter{
		Action: activity.Action(action),
		CarID:  carID,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		if entries == nil {
			entries = []activity.Entry{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tCAR\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Action, e.CarID, e.Summary)
	}
	return w.Flush()
}

func runActivityPrune(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	store, closeDB, err := openActivityStore()
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d activity entr%s.\n", n, plural(n, "y", "ies"))
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
