package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

var errBoardNotInitialized = fmt.Errorf("task board not initialized")

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to the end of the list.

Use --description, --date (YYYY-MM-DD) and --time (HH:MM) to set the
optional fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		if Board.EditState() == core.EditEditing {
			return fmt.Errorf("an edit is in progress")
		}

		description, _ := cmd.Flags().GetString("description")
		dateFlag, _ := cmd.Flags().GetString("date")
		timeFlag, _ := cmd.Flags().GetString("time")

		date, err := parseDateArg(dateFlag)
		if err != nil {
			return err
		}
		clock, err := parseClockArg(timeFlag)
		if err != nil {
			return err
		}

		Board.SetDraftTitle(args[0])
		Board.SetDraftDescription(description)
		Board.SetDraftDate(date)
		Board.SetDraftTime(clock)

		res, err := Board.AddOrUpdateTask()
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}
		if res.Action == core.SubmitIgnored {
			return fmt.Errorf("adding task: %w", core.ErrEmptyTitle)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", res.Task.ID, res.Task.Title)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `List tasks in the order they were added. Use --filter to show only completed or pending tasks.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}

		if cmd.Flags().Changed("filter") {
			filterFlag, _ := cmd.Flags().GetString("filter")
			mode, err := models.ParseFilterMode(filterFlag)
			if err != nil {
				return err
			}
			Board.SetFilter(mode)
		}

		tasks := Board.VisibleTasks()
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintf(out, "No %s tasks.\n", filterNoun(Board.CurrentFilter()))
			return nil
		}
		for _, t := range tasks {
			fmt.Fprintln(out, formatTaskLine(t))
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> [new-title]",
	Short: "Edit a task",
	Long: `Edit an existing task.

The new title replaces the current one. --description, --date and --time
are applied only when editing.apply_all_fields is enabled in .taskpad.yaml;
otherwise only the title changes.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeTaskIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := Board.EditTaskByID(id); err != nil {
			return fmt.Errorf("editing task %d: %w", id, err)
		}

		if len(args) == 2 {
			Board.SetDraftTitle(args[1])
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			Board.SetDraftDescription(description)
		}
		if cmd.Flags().Changed("date") {
			dateFlag, _ := cmd.Flags().GetString("date")
			date, err := parseDateArg(dateFlag)
			if err != nil {
				return err
			}
			Board.SetDraftDate(date)
		}
		if cmd.Flags().Changed("time") {
			timeFlag, _ := cmd.Flags().GetString("time")
			clock, err := parseClockArg(timeFlag)
			if err != nil {
				return err
			}
			Board.SetDraftTime(clock)
		}

		res, err := Board.AddOrUpdateTask()
		if err != nil {
			return fmt.Errorf("editing task %d: %w", id, err)
		}
		if res.Action == core.SubmitIgnored {
			return fmt.Errorf("editing task %d: %w", id, core.ErrEmptyTitle)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s\n", res.Task.ID, res.Task.Title)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:               "done <id>",
	Aliases:           []string{"toggle"},
	Short:             "Toggle a task between completed and pending",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		task, err := Board.ToggleComplete(id)
		if err != nil {
			return fmt.Errorf("toggling task %d: %w", id, err)
		}

		state := "pending"
		if task.Completed {
			state = "completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked %s\n", task.ID, state)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:               "rm <id>",
	Aliases:           []string{"delete"},
	Short:             "Delete a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if !Board.DeleteTask(id) {
			return fmt.Errorf("deleting task %d: %w", id, core.ErrTaskNotFound)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:               "show <id>",
	Short:             "Show the details of a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := Board.ViewDetailsByID(id); err != nil {
			return fmt.Errorf("showing task %d: %w", id, err)
		}
		defer Board.CloseDetails()

		fmt.Fprint(cmd.OutOrStdout(), formatTaskDetail(*Board.SelectedTask()))
		return nil
	},
}

func filterNoun(mode models.FilterMode) string {
	if mode == models.FilterAll {
		return "saved"
	}
	return string(mode)
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().String("description", "", "Task description")
		c.Flags().String("date", "", "Task date (YYYY-MM-DD)")
		c.Flags().String("time", "", "Task time (HH:MM)")
	}
	listCmd.Flags().String("filter", "all", "Show all, completed, or pending tasks")
	_ = listCmd.RegisterFlagCompletionFunc("filter", completeFilterModes)

	rootCmd.AddCommand(addCmd, listCmd, editCmd, doneCmd, rmCmd, showCmd)
}
