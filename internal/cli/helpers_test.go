package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// newTestBoard returns an in-memory board and installs it as the package
// Board for the duration of the test.
func newTestBoard(t *testing.T, opts core.BoardOptions) *core.Board {
	t.Helper()
	store := core.NewTaskStore(nil, core.NewTaskIDGenerator(nil), nil, nil)
	board := core.NewBoard(store, opts)

	orig := Board
	Board = board
	t.Cleanup(func() { Board = orig })
	return board
}

func seedTask(t *testing.T, board *core.Board, title string) models.Task {
	t.Helper()
	board.SetDraftTitle(title)
	res, err := board.AddOrUpdateTask()
	if err != nil {
		t.Fatalf("seeding %q: %v", title, err)
	}
	if res.Task == nil {
		t.Fatalf("seeding %q: no task created", title)
	}
	return *res.Task
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so state does not leak
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
