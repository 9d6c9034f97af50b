// Package reconcile makes optimistic board moves durable.
//
// Each optimistic move is registered as a pending change together with its
// rollback. A change is persisted, then resolved exactly once: on success it
// is dropped, on failure it is rolled back (unless a newer move of the same
// task superseded it) and the board is refetched from the server.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/drag"
	"taskboard/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrUnknownChange = errors.New("unknown change")
	ErrEmptyTitle    = errors.New("title is required")
	ErrDiverged      = errors.New("server stored a different status")
)

// Remote is the authoritative task store.
type Remote interface {
	FetchAll(ctx context.Context, sess client.Session) ([]model.Task, error)
	SetStatus(ctx context.Context, sess client.Session, id uuid.UUID, status model.Status) (model.Task, error)
	Create(ctx context.Context, sess client.Session, title, description string) (model.Task, error)
	Delete(ctx context.Context, sess client.Session, id uuid.UUID) error
}

// ChangeID identifies one in-flight optimistic move.
type ChangeID uint64

// Outcome is the result of persisting a change.
type Outcome struct {
	Change ChangeID
	Task   model.Task
	Err    error
}

type change struct {
	intent   drag.Intent
	rollback func() bool
}

type Reconciler struct {
	store   *board.Store
	remote  Remote
	session client.Session
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	nextID  ChangeID
	pending map[ChangeID]change
	latest  map[uuid.UUID]ChangeID
	message string

	refetches singleflight.Group
}

type Option func(*Reconciler)

// WithTimeout bounds every remote call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.timeout = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

func New(store *board.Store, remote Remote, sess client.Session, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   store,
		remote:  remote,
		session: sess,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		pending: make(map[ChangeID]change),
		latest:  make(map[uuid.UUID]ChangeID),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin registers a move the store already shows.
func (r *Reconciler) Begin(in drag.Intent) ChangeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.pending[id] = change{
		intent: in,
		// MoveItemAt is a no-op unless the task still sits in in.To, so a
		// task moved elsewhere or deleted meanwhile is left alone.
		rollback: func() bool {
			return r.store.MoveItemAt(in.TaskID, in.To, in.From, in.FromIndex)
		},
	}
	r.latest[in.TaskID] = id
	return id
}

// Persist sends a registered change to the server. It does not touch the
// board and may run on any goroutine.
func (r *Reconciler) Persist(ctx context.Context, id ChangeID) Outcome {
	r.mu.Lock()
	ch, ok := r.pending[id]
	r.mu.Unlock()
	if !ok {
		return Outcome{Change: id, Err: ErrUnknownChange}
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	task, err := r.remote.SetStatus(ctx, r.session, ch.intent.TaskID, ch.intent.To)
	return Outcome{Change: id, Task: task, Err: err}
}

// Resolve settles a persisted change and reports whether the board must be
// refetched. Resolving the same change twice is a no-op.
func (r *Reconciler) Resolve(o Outcome) bool {
	r.mu.Lock()
	ch, ok := r.pending[o.Change]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.pending, o.Change)
	newest := r.latest[ch.intent.TaskID] == o.Change
	if newest {
		delete(r.latest, ch.intent.TaskID)
	}
	r.mu.Unlock()

	in := ch.intent
	log := r.logger.With(
		zap.String("task_id", in.TaskID.String()),
		zap.String("from", in.From.String()),
		zap.String("to", in.To.String()),
	)

	if o.Err == nil {
		if o.Task.ID == in.TaskID && o.Task.Status != in.To {
			log.Warn("server disagrees with move", zap.String("stored", o.Task.Status.String()))
			r.setMessage("Failed to move task", ErrDiverged)
			return true
		}
		// a refetch may have loaded a snapshot taken before this write landed
		if newest {
			r.settleAt(in.TaskID, in.To)
		}
		log.Debug("move persisted")
		return false
	}

	reverted := false
	if newest {
		reverted = ch.rollback()
	}
	log.Warn("move failed", zap.Error(o.Err), zap.Bool("reverted", reverted))
	r.setMessage("Failed to move task", o.Err)
	return true
}

// Settle persists and resolves a registered change, refetching on failure.
func (r *Reconciler) Settle(ctx context.Context, id ChangeID) error {
	o := r.Persist(ctx, id)
	if r.Resolve(o) {
		if err := r.Refetch(ctx); err != nil {
			r.logger.Error("refetch after failed move", zap.Error(err))
		}
	}
	if o.Err != nil {
		return fmt.Errorf("move task: %w", o.Err)
	}
	return nil
}

// Commit registers and settles a move the store already shows.
func (r *Reconciler) Commit(ctx context.Context, in drag.Intent) error {
	return r.Settle(ctx, r.Begin(in))
}

// Refetch reloads the whole board from the server. Concurrent calls share
// one request.
func (r *Reconciler) Refetch(ctx context.Context) error {
	_, err, _ := r.refetches.Do("refetch", func() (any, error) {
		ctx, cancel := r.withTimeout(ctx)
		defer cancel()

		tasks, err := r.remote.FetchAll(ctx, r.session)
		if err != nil {
			return nil, err
		}
		r.store.Load(tasks)
		return nil, nil
	})
	if err != nil {
		r.setMessage("Failed to fetch tasks", err)
		return fmt.Errorf("fetch tasks: %w", err)
	}
	return nil
}

// CreateItem creates a task on the server and adds it to the board.
// Nothing changes locally when the server call fails.
func (r *Reconciler) CreateItem(ctx context.Context, title, description string) (model.Task, error) {
	if title == "" {
		r.setMessage("Failed to create task", ErrEmptyTitle)
		return model.Task{}, ErrEmptyTitle
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	task, err := r.remote.Create(ctx, r.session, title, description)
	if err != nil {
		r.logger.Warn("create failed", zap.Error(err))
		r.setMessage("Failed to create task", err)
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	r.store.AddItem(task)
	r.ClearMessage()
	return task, nil
}

// DeleteItem deletes a task on the server, then from the board.
func (r *Reconciler) DeleteItem(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.remote.Delete(ctx, r.session, id); err != nil {
		r.logger.Warn("delete failed", zap.String("task_id", id.String()), zap.Error(err))
		r.setMessage("Failed to delete task", err)
		return fmt.Errorf("delete task: %w", err)
	}
	r.store.RemoveItem(id)
	r.ClearMessage()
	return nil
}

// Message returns the error text of the most recent failed operation.
func (r *Reconciler) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

func (r *Reconciler) ClearMessage() {
	r.mu.Lock()
	r.message = ""
	r.mu.Unlock()
}

// Pending returns the number of unresolved changes.
func (r *Reconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Reconciler) setMessage(op string, err error) {
	msg := op + ": " + describe(err)
	r.mu.Lock()
	r.message = msg
	r.mu.Unlock()
}

// settleAt puts a task the server confirmed back into its column. A task no
// longer on the board stays gone.
func (r *Reconciler) settleAt(id uuid.UUID, to model.Status) {
	status, _, ok := r.store.Locate(id)
	if !ok || status == to {
		return
	}
	if r.store.MoveItem(id, status, to) {
		r.logger.Debug("reapplied persisted move over stale snapshot",
			zap.String("task_id", id.String()),
			zap.String("to", to.String()),
		)
	}
}

func (r *Reconciler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, client.ErrTransport):
		return "server unreachable"
	default:
		return err.Error()
	}
}
