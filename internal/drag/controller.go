// Package drag turns drag gestures over the board into column-change intents.
//
// Moves are applied to the store live while the pointer crosses columns. A
// gesture that ends outside any valid target, or back in the column it came
// from, is rolled back so the task returns to its original column and position.
package drag

import (
	"errors"

	"taskboard/internal/board"
	"taskboard/internal/model"

	"github.com/google/uuid"
)

var (
	ErrAlreadyDragging = errors.New("a drag is already in progress")
	ErrUnknownTask     = errors.New("task is not on the board")
)

// Target is what the pointer is over: a column, or another task.
type Target struct {
	Column model.Status
	TaskID uuid.UUID
}

// NoTarget is a drop outside any valid drop zone.
var NoTarget = Target{}

func ColumnTarget(status model.Status) Target {
	return Target{Column: status}
}

func TaskTarget(id uuid.UUID) Target {
	return Target{TaskID: id}
}

// Intent asks for a task's status to be persisted. FromIndex is the task's
// position in From when the gesture began.
type Intent struct {
	TaskID    uuid.UUID
	From      model.Status
	To        model.Status
	FromIndex int
}

type session struct {
	task        model.Task
	source      model.Status
	sourceIndex int
	current     model.Status
}

// Controller is the drag state machine. It is either idle or holds one
// active session.
type Controller struct {
	store  *board.Store
	active *session
}

func NewController(store *board.Store) *Controller {
	return &Controller{store: store}
}

// Start begins dragging the given task.
func (c *Controller) Start(id uuid.UUID) error {
	if c.active != nil {
		return ErrAlreadyDragging
	}
	status, index, ok := c.store.Locate(id)
	if !ok {
		return ErrUnknownTask
	}
	task, _ := c.store.Get(id)
	c.active = &session{
		task:        task,
		source:      status,
		sourceIndex: index,
		current:     status,
	}
	return nil
}

// Over handles the pointer crossing onto a target. When the target resolves
// to another column the task is moved there immediately.
func (c *Controller) Over(t Target) {
	if c.active == nil {
		return
	}
	col, ok := c.resolve(t)
	if !ok {
		return
	}
	c.moveTo(col)
}

// End finishes the gesture. It returns an intent when the task ends in a
// column other than the one it started in.
func (c *Controller) End(t Target) (Intent, bool) {
	s := c.active
	if s == nil {
		return Intent{}, false
	}

	col, ok := c.resolve(t)
	if !ok || col == s.source {
		c.rollback()
		return Intent{}, false
	}

	if !c.moveTo(col) {
		// task vanished from the board mid-drag
		c.active = nil
		return Intent{}, false
	}
	c.active = nil
	return Intent{
		TaskID:    s.task.ID,
		From:      s.source,
		To:        col,
		FromIndex: s.sourceIndex,
	}, true
}

// Cancel abandons the gesture and puts the task back where it started.
func (c *Controller) Cancel() {
	if c.active == nil {
		return
	}
	c.rollback()
}

// Active returns the dragged task for a drag preview.
func (c *Controller) Active() (model.Task, bool) {
	if c.active == nil {
		return model.Task{}, false
	}
	return c.active.task, true
}

func (c *Controller) Dragging() bool {
	return c.active != nil
}

// Current returns the column the dragged task occupies right now.
func (c *Controller) Current() (model.Status, bool) {
	if c.active == nil {
		return "", false
	}
	return c.active.current, true
}

func (c *Controller) resolve(t Target) (model.Status, bool) {
	if t.Column != "" {
		return t.Column, t.Column.Valid()
	}
	if t.TaskID == uuid.Nil {
		return "", false
	}
	if t.TaskID == c.active.task.ID {
		return c.active.current, true
	}
	status, _, ok := c.store.Locate(t.TaskID)
	return status, ok
}

func (c *Controller) moveTo(col model.Status) bool {
	s := c.active
	if col == s.current {
		_, _, ok := c.store.Locate(s.task.ID)
		return ok
	}
	if !c.store.MoveItem(s.task.ID, s.current, col) {
		return false
	}
	s.current = col
	return true
}

func (c *Controller) rollback() {
	s := c.active
	c.active = nil
	if s.current != s.source {
		c.store.MoveItemAt(s.task.ID, s.current, s.source, s.sourceIndex)
	}
}
