package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskpad/internal/observability"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display task activity statistics",
	Long: `Display counts derived from the event log: tasks created, updated,
completed, reopened and deleted over a time window, plus the current
number of completed and pending tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		sinceTime, err := observability.ParseSince(statsSince, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Activity (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(out, "  %-20s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks created:", metrics.TasksCreated)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks updated:", metrics.TasksUpdated)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks completed:", metrics.TasksCompleted)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks reopened:", metrics.TasksReopened)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks deleted:", metrics.TasksDeleted)
		fmt.Fprintf(out, "  %-20s %d\n", "Sessions:", metrics.Runs)

		if Board != nil {
			all := Board.AllTasks()
			done := 0
			for _, t := range all {
				if t.Completed {
					done++
				}
			}
			fmt.Fprintf(out, "\n  %-20s %d\n", string(models.FilterCompleted)+":", done)
			fmt.Fprintf(out, "  %-20s %d\n", string(models.FilterPending)+":", len(all)-done)
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-20s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(out, "  %-20s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "Time window (e.g. 7d, 24h)")
	rootCmd.AddCommand(statsCmd)
}
