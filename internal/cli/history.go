package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskpad/internal/observability"
)

var (
	historySince string
	historyType  string
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded task events",
	Long: `Show the task events recorded in the event log, oldest first.

Pass a task id to see only that task's history. Use --since to limit the
window and --type to select one event type (e.g. task.completed).`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeTaskIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (events may be disabled)")
		}

		filter := observability.EventFilter{Type: historyType}
		if len(args) == 1 {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			filter.TaskID = id
		}
		if historySince != "" {
			since, err := observability.ParseSince(historySince, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events recorded.")
			return nil
		}
		for _, e := range events {
			fmt.Fprintf(out, "%s  %-15s %d  %s\n", e.Time.Local().Format("2006-01-02 15:04:05"), e.Type, e.TaskID, e.Title)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "Time window (e.g. 7d, 24h); empty means all")
	historyCmd.Flags().StringVar(&historyType, "type", "", "Only show events of this type")
	rootCmd.AddCommand(historyCmd)
}
