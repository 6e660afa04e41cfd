package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	taskmcp "github.com/valter-silva-au/taskpad/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the taskpad MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskpad MCP server on stdio",
	Long: `Start the taskpad MCP server on stdio transport.

The server exposes the task list as MCP tools that AI assistants can call:
list_tasks, get_task, add_task, update_task, toggle_task, delete_task,
get_metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}

		var opts []taskmcp.Option
		if Flusher != nil {
			opts = append(opts, taskmcp.WithFlusher(Flusher))
		}
		srv := taskmcp.NewServer(Board, MetricsCalc, appVersion, opts...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if Logger != nil {
			Logger.Info("mcp server starting", "transport", "stdio")
		}
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
