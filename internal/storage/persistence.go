package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// writeRequest is either a snapshot to store or, when done is set, a flush
// marker that is acknowledged once every earlier snapshot is written.
type writeRequest struct {
	tasks []models.Task
	done  chan struct{}
}

// TaskPersistence stores the task collection under a single key. Saves are
// queued and written in issue order by one background goroutine, so the
// caller never waits on disk and two saves never interleave.
type TaskPersistence struct {
	kv     KVStore
	codec  Codec
	key    string
	logger *slog.Logger

	queue chan writeRequest
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewTaskPersistence starts the writer goroutine. queueSize bounds the
// number of pending saves; Save blocks only when the queue is full.
func NewTaskPersistence(kv KVStore, codec Codec, key string, queueSize int, logger *slog.Logger) *TaskPersistence {
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &TaskPersistence{
		kv:     kv,
		codec:  codec,
		key:    key,
		logger: logger.With("component", "persistence", "key", key),
		queue:  make(chan writeRequest, queueSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Load returns the stored collection. It reports false, after logging, when
// nothing is stored or the value cannot be read or decoded.
func (p *TaskPersistence) Load(ctx context.Context) ([]models.Task, bool) {
	if err := ctx.Err(); err != nil {
		p.logger.Warn("load cancelled", "error", err)
		return nil, false
	}

	data, err := p.kv.Get(p.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			p.logger.Debug("no stored tasks")
			return nil, false
		}
		p.logger.Error("error retrieving data", "error", err)
		return nil, false
	}

	tasks, err := p.codec.Unmarshal(data)
	if err != nil {
		p.logger.Error("error retrieving data", "error", err)
		return nil, false
	}
	if tasks == nil {
		return nil, false
	}
	return tasks, true
}

// Save enqueues a copy of tasks for writing. Saves after Close are dropped.
func (p *TaskPersistence) Save(tasks []models.Task) {
	snapshot := make([]models.Task, len(tasks))
	for i, t := range tasks {
		snapshot[i] = t.Clone()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn("save after close dropped", "count", len(snapshot))
		return
	}
	p.queue <- writeRequest{tasks: snapshot}
}

// Flush waits until every save issued before the call has been written, or
// ctx is done.
func (p *TaskPersistence) Flush(ctx context.Context) error {
	done := make(chan struct{})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.queue <- writeRequest{done: done}
	p.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes every pending save and stops the writer. It is safe to call
// more than once.
func (p *TaskPersistence) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *TaskPersistence) run() {
	defer p.wg.Done()
	for req := range p.queue {
		if req.done != nil {
			close(req.done)
			continue
		}
		p.write(req.tasks)
	}
}

func (p *TaskPersistence) write(tasks []models.Task) {
	data, err := p.codec.Marshal(tasks)
	if err != nil {
		p.logger.Error("error saving data", "error", err)
		return
	}
	if err := p.kv.Set(p.key, data); err != nil {
		p.logger.Error("error saving data", "error", err)
		return
	}
	p.logger.Debug("saved tasks", "count", len(tasks))
}
