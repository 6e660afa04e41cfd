// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task board as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/internal/observability"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// Flusher waits until every pending save has reached storage.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithFlusher makes every mutating tool wait for f before it reports back,
// so a client that sees success can rely on the change being on disk.
func WithFlusher(f Flusher) Option {
	return func(s *Server) { s.flusher = f }
}

// Server wraps the task board and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	metricsCalc observability.MetricsCalculator
	flusher     Flusher

	// mu serialises tool calls; the board has a single writer.
	mu    sync.Mutex
	board *core.Board
}

// NewServer creates a new MCP server backed by board. metricsCalc may be nil
// if the event log is disabled.
func NewServer(board *core.Board, metricsCalc observability.MetricsCalculator, version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		board:       board,
		metricsCalc: metricsCalc,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskpad", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskIDInput struct {
	ID int64 `json:"id" jsonschema:"the numeric task identifier"`
}

type taskOutput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Completed   bool   `json:"completed"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
}

type listTasksInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"which tasks to return: all, completed or pending. Defaults to all."`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"the task title; must not be blank"`
	Description string `json:"description,omitempty" jsonschema:"optional free-form description"`
	Date        string `json:"date,omitempty" jsonschema:"optional date as YYYY-MM-DD"`
	Time        string `json:"time,omitempty" jsonschema:"optional time of day as HH:MM"`
}

type updateTaskInput struct {
	ID    int64  `json:"id" jsonschema:"the numeric task identifier"`
	Title string `json:"title" jsonschema:"the new title; must not be blank"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksCreated   int    `json:"tasks_created"`
	TasksUpdated   int    `json:"tasks_updated"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksReopened  int    `json:"tasks_reopened"`
	TasksDeleted   int    `json:"tasks_deleted"`
	Runs           int    `json:"runs"`
	EventCount     int    `json:"event_count"`
	OldestEvent    string `json:"oldest_event,omitempty"`
	NewestEvent    string `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in insertion order, optionally filtered to completed or pending tasks.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get a single task by ID, including its description, date and time.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a new pending task. Only the title is required.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Change the title of an existing task.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between completed and pending.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by ID.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get counts of task events (created, updated, completed, reopened, deleted) from the event log.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	mode := models.FilterAll
	if input.Filter != "" {
		var err error
		mode, err = models.ParseFilterMode(input.Filter)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{Tasks: []taskOutput{}}, nil
		}
	}

	s.mu.Lock()
	tasks := core.VisibleTasks(mode, s.board.AllTasks())
	s.mu.Unlock()

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.board.ViewDetailsByID(input.ID); err != nil {
		return errorResult(fmt.Sprintf("getting task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	defer s.board.CloseDetails()

	return nil, taskToOutput(*s.board.SelectedTask()), nil
}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}
	date, clock, err := parseWhen(input.Date, input.Time)
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.EditState() == core.EditEditing {
		return errorResult("an edit is in progress"), taskOutput{}, nil
	}
	s.board.SetDraftTitle(input.Title)
	s.board.SetDraftDescription(input.Description)
	s.board.SetDraftDate(date)
	s.board.SetDraftTime(clock)

	res, err := s.board.AddOrUpdateTask()
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	if err := s.flush(ctx); err != nil {
		return errorResult(fmt.Sprintf("saving task %d: %s", res.Task.ID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*res.Task), nil
}

func (s *Server) handleUpdateTask(ctx context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.board.EditTaskByID(input.ID); err != nil {
		return errorResult(fmt.Sprintf("updating task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	s.board.SetDraftTitle(input.Title)

	res, err := s.board.AddOrUpdateTask()
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	if err := s.flush(ctx); err != nil {
		return errorResult(fmt.Sprintf("saving task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*res.Task), nil
}

func (s *Server) handleToggleTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.board.ToggleComplete(input.ID)
	if err != nil {
		return errorResult(fmt.Sprintf("toggling task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	if err := s.flush(ctx); err != nil {
		return errorResult(fmt.Sprintf("saving task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*task), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.board.DeleteTask(input.ID) {
		return errorResult(fmt.Sprintf("deleting task %d: %s", input.ID, core.ErrTaskNotFound)), deleteTaskOutput{}, nil
	}
	if err := s.flush(ctx); err != nil {
		return errorResult(fmt.Sprintf("saving after delete of task %d: %s", input.ID, err)), deleteTaskOutput{}, nil
	}
	return nil, deleteTaskOutput{Message: fmt.Sprintf("task %d deleted", input.ID)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (events may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := observability.ParseSince(sinceStr, time.Now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		TasksCreated:   metrics.TasksCreated,
		TasksUpdated:   metrics.TasksUpdated,
		TasksCompleted: metrics.TasksCompleted,
		TasksReopened:  metrics.TasksReopened,
		TasksDeleted:   metrics.TasksDeleted,
		Runs:           metrics.Runs,
		EventCount:     metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

func (s *Server) flush(ctx context.Context) error {
	if s.flusher == nil {
		return nil
	}
	return s.flusher.Flush(ctx)
}

func taskToOutput(t models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Completed:   t.Completed,
		Description: t.Description,
	}
	if t.Date != nil {
		out.Date = t.Date.String()
	}
	if t.Time != nil {
		out.Time = t.Time.String()
	}
	return out
}

func parseWhen(dateStr, timeStr string) (*models.Date, *models.Clock, error) {
	var date *models.Date
	var clock *models.Clock
	if dateStr != "" {
		d, err := models.ParseDate(dateStr)
		if err != nil {
			return nil, nil, err
		}
		date = &d
	}
	if timeStr != "" {
		c, err := models.ParseClock(timeStr)
		if err != nil {
			return nil, nil, err
		}
		clock = &c
	}
	return date, clock, nil
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
