package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/internal/observability"
	"github.com/valter-silva-au/taskpad/internal/storage"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// --- Fake implementations ---

type fakeMetricsCalculator struct {
	metrics *observability.Metrics
	since   time.Time
}

func (f *fakeMetricsCalculator) Calculate(since time.Time) (*observability.Metrics, error) {
	f.since = since
	return f.metrics, nil
}

type countingFlusher struct {
	calls int
	err   error
}

func (f *countingFlusher) Flush(context.Context) error {
	f.calls++
	return f.err
}

// --- Test helpers ---

func newTestBoard(t *testing.T, titles ...string) *core.Board {
	t.Helper()
	store := core.NewTaskStore(nil, core.NewTaskIDGenerator(nil), nil, nil)
	board := core.NewBoard(store, core.BoardOptions{})
	for _, title := range titles {
		board.SetDraftTitle(title)
		if _, err := board.AddOrUpdateTask(); err != nil {
			t.Fatalf("seeding %q: %v", title, err)
		}
	}
	return board
}

// callTool is a helper that connects a client to the server and calls a tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	result := callToolAllowError(t, srv, toolName, args)
	if result == nil {
		t.Fatalf("call tool %s: protocol error", toolName)
	}
	return result
}

// callToolAllowError is like callTool but returns nil instead of failing when
// the tool call returns a protocol error (e.g. schema validation failure).
func callToolAllowError(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		return nil
	}
	return result
}

// decode reads the structured output of a tool call, falling back to the
// text content.
func decode(t *testing.T, result *gomcp.CallToolResult, out any) {
	t.Helper()
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			t.Fatalf("marshalling structured content: %v", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshalling structured content: %v", err)
		}
		return
	}
	text := extractText(result)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("unmarshalling output: %v (text was: %s)", err, text)
	}
}

// extractText extracts the text from the first TextContent in a CallToolResult.
func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Tests ---

func TestListTasksAll(t *testing.T) {
	board := newTestBoard(t, "one", "two")
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "list_tasks", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out listTasksOutput
	decode(t, result, &out)
	if out.Count != 2 {
		t.Fatalf("expected 2 tasks, got %d", out.Count)
	}
	if out.Tasks[0].Title != "one" || out.Tasks[1].Title != "two" {
		t.Errorf("tasks out of insertion order: %+v", out.Tasks)
	}
}

func TestListTasksWithFilter(t *testing.T) {
	board := newTestBoard(t, "one", "two")
	second := board.AllTasks()[1]
	if _, err := board.ToggleComplete(second.ID); err != nil {
		t.Fatal(err)
	}
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "list_tasks", map[string]any{"filter": "completed"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out listTasksOutput
	decode(t, result, &out)
	if out.Count != 1 || out.Tasks[0].ID != second.ID {
		t.Errorf("expected only task %d, got %+v", second.ID, out.Tasks)
	}
	if board.CurrentFilter() != models.FilterAll {
		t.Errorf("list_tasks should not change the board filter, got %s", board.CurrentFilter())
	}
}

func TestListTasksInvalidFilter(t *testing.T) {
	srv := NewServer(newTestBoard(t), nil, "test")

	result := callTool(t, srv, "list_tasks", map[string]any{"filter": "someday"})
	if !result.IsError {
		t.Fatal("expected error for invalid filter")
	}
}

func TestGetTask(t *testing.T) {
	board := newTestBoard(t, "read book")
	id := board.AllTasks()[0].ID
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "get_task", map[string]any{"id": id})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out taskOutput
	decode(t, result, &out)
	if out.ID != id || out.Title != "read book" || out.Completed {
		t.Errorf("unexpected task: %+v", out)
	}
	if board.IsDetailOpen() {
		t.Error("get_task should leave the detail view closed")
	}
}

func TestGetTaskNotFound(t *testing.T) {
	srv := NewServer(newTestBoard(t), nil, "test")

	result := callTool(t, srv, "get_task", map[string]any{"id": 42})
	if !result.IsError {
		t.Fatal("expected error result for non-existent task")
	}
	if extractText(result) == "" {
		t.Fatal("expected error message in result content")
	}
}

func TestAddTask(t *testing.T) {
	board := newTestBoard(t)
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "add_task", map[string]any{
		"title":       "call mum",
		"description": "birthday",
		"date":        "2026-05-04",
		"time":        "18:00",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out taskOutput
	decode(t, result, &out)
	if out.Title != "call mum" || out.Date != "2026-05-04" || out.Time != "18:00" {
		t.Errorf("unexpected task: %+v", out)
	}

	tasks := board.AllTasks()
	if len(tasks) != 1 || tasks[0].ID != out.ID || tasks[0].Description != "birthday" {
		t.Errorf("board tasks = %+v", tasks)
	}
	if board.EditState() != core.EditIdle {
		t.Error("board should be idle after add_task")
	}
}

func TestAddTaskRejectsBlankTitle(t *testing.T) {
	board := newTestBoard(t)
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "add_task", map[string]any{"title": "  "})
	if !result.IsError {
		t.Fatal("expected error for blank title")
	}
	if len(board.AllTasks()) != 0 {
		t.Error("no task should be created")
	}
}

func TestAddTaskRejectsBadDate(t *testing.T) {
	board := newTestBoard(t)
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "add_task", map[string]any{"title": "x", "date": "05/04/2026"})
	if !result.IsError {
		t.Fatal("expected error for malformed date")
	}
	if len(board.AllTasks()) != 0 {
		t.Error("no task should be created")
	}
}

func TestUpdateTask(t *testing.T) {
	board := newTestBoard(t, "old title")
	id := board.AllTasks()[0].ID
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "update_task", map[string]any{"id": id, "title": "new title"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	tasks := board.AllTasks()
	if len(tasks) != 1 || tasks[0].Title != "new title" {
		t.Errorf("board tasks = %+v", tasks)
	}
	if board.EditState() != core.EditIdle {
		t.Error("board should be idle after update_task")
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	board := newTestBoard(t)
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "update_task", map[string]any{"id": 7, "title": "x"})
	if !result.IsError {
		t.Fatal("expected error for missing task")
	}
	if board.EditState() != core.EditIdle {
		t.Error("board should stay idle")
	}
}

func TestToggleTask(t *testing.T) {
	board := newTestBoard(t, "a")
	id := board.AllTasks()[0].ID
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "toggle_task", map[string]any{"id": id})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}
	var out taskOutput
	decode(t, result, &out)
	if !out.Completed {
		t.Error("expected task to be completed")
	}

	callTool(t, srv, "toggle_task", map[string]any{"id": id})
	if board.AllTasks()[0].Completed {
		t.Error("second toggle should reopen the task")
	}
}

func TestDeleteTask(t *testing.T) {
	board := newTestBoard(t, "a", "b")
	first := board.AllTasks()[0]
	srv := NewServer(board, nil, "test")

	result := callTool(t, srv, "delete_task", map[string]any{"id": first.ID})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}
	tasks := board.AllTasks()
	if len(tasks) != 1 || tasks[0].Title != "b" {
		t.Errorf("board tasks = %+v", tasks)
	}

	result = callTool(t, srv, "delete_task", map[string]any{"id": first.ID})
	if !result.IsError {
		t.Error("deleting a missing task should report an error")
	}
}

func TestGetMetrics(t *testing.T) {
	now := time.Now().UTC()
	mc := &fakeMetricsCalculator{
		metrics: &observability.Metrics{
			TasksCreated:   5,
			TasksCompleted: 3,
			TasksDeleted:   1,
			Runs:           2,
			EventCount:     9,
			OldestEvent:    &now,
			NewestEvent:    &now,
		},
	}
	srv := NewServer(newTestBoard(t), mc, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{"since": "24h"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var m metricsOutput
	decode(t, result, &m)
	if m.TasksCreated != 5 || m.TasksDeleted != 1 || m.Runs != 2 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if m.EventCount != 9 {
		t.Errorf("expected 9 events, got %d", m.EventCount)
	}
	if d := time.Since(mc.since); d < 23*time.Hour || d > 25*time.Hour {
		t.Errorf("since window = %s, want about 24h", d)
	}
}

func TestGetMetricsDisabled(t *testing.T) {
	srv := NewServer(newTestBoard(t), nil, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error when metrics calculator is nil")
	}
}

func TestGetMetricsBadSince(t *testing.T) {
	mc := &fakeMetricsCalculator{metrics: &observability.Metrics{}}
	srv := NewServer(newTestBoard(t), mc, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{"since": "7x"})
	if !result.IsError {
		t.Fatal("expected error for unsupported duration suffix")
	}
}

func TestMutatingToolsFlush(t *testing.T) {
	board := newTestBoard(t, "a")
	id := board.AllTasks()[0].ID
	flusher := &countingFlusher{}
	srv := NewServer(board, nil, "test", WithFlusher(flusher))

	callTool(t, srv, "list_tasks", map[string]any{})
	callTool(t, srv, "get_task", map[string]any{"id": id})
	if flusher.calls != 0 {
		t.Fatalf("read-only tools flushed %d times", flusher.calls)
	}

	calls := []struct {
		tool string
		args map[string]any
	}{
		{"add_task", map[string]any{"title": "b"}},
		{"update_task", map[string]any{"id": id, "title": "a2"}},
		{"toggle_task", map[string]any{"id": id}},
		{"delete_task", map[string]any{"id": id}},
	}
	for i, c := range calls {
		if res := callTool(t, srv, c.tool, c.args); res.IsError {
			t.Fatalf("%s: %s", c.tool, extractText(res))
		}
		if flusher.calls != i+1 {
			t.Errorf("after %s: flushed %d times, want %d", c.tool, flusher.calls, i+1)
		}
	}
}

func TestMutatingToolReportsFlushFailure(t *testing.T) {
	board := newTestBoard(t)
	srv := NewServer(board, nil, "test", WithFlusher(&countingFlusher{err: errors.New("disk gone")}))

	result := callTool(t, srv, "add_task", map[string]any{"title": "x"})
	if !result.IsError {
		t.Fatal("expected error result when saving fails")
	}
	if !strings.Contains(extractText(result), "disk gone") {
		t.Errorf("error text = %q", extractText(result))
	}
}

func TestAddTaskIsOnDiskWhenToolReturns(t *testing.T) {
	dir := t.TempDir()
	codec, err := storage.NewCodec("json")
	if err != nil {
		t.Fatal(err)
	}
	persistence := storage.NewTaskPersistence(storage.NewFileKVStore(dir, codec.Ext()), codec, "tasks", 8, nil)
	defer persistence.Close()

	store := core.NewTaskStore(persistence, core.NewTaskIDGenerator(nil), nil, nil)
	store.Initialize(context.Background())
	board := core.NewBoard(store, core.BoardOptions{})
	srv := NewServer(board, nil, "test", WithFlusher(persistence))

	if res := callTool(t, srv, "add_task", map[string]any{"title": "durable"}); res.IsError {
		t.Fatalf("add_task: %s", extractText(res))
	}

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("reading saved collection: %v", err)
	}
	if !strings.Contains(string(data), `"durable"`) {
		t.Errorf("saved collection = %s", data)
	}
}
