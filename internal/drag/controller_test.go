package drag_test

import (
	"testing"

	"taskboard/internal/board"
	"taskboard/internal/drag"
	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(tasks ...model.Task) (*board.Store, *drag.Controller) {
	store := board.NewStore()
	store.Load(tasks)
	return store, drag.NewController(store)
}

func newTask(status model.Status) model.Task {
	return model.Task{ID: uuid.New(), Title: "task", Status: status}
}

func columnOf(t *testing.T, store *board.Store, id uuid.UUID) model.Status {
	t.Helper()
	status, _, ok := store.Locate(id)
	require.True(t, ok)
	return status
}

func TestController_DropOnOtherColumnEmitsIntent(t *testing.T) {
	// Arrange
	a := newTask(model.StatusPending)
	store, c := setup(a)

	// Act
	require.NoError(t, c.Start(a.ID))
	c.Over(drag.ColumnTarget(model.StatusCompleted))
	intent, ok := c.End(drag.ColumnTarget(model.StatusCompleted))

	// Assert
	assert.True(t, ok)
	assert.Equal(t, drag.Intent{TaskID: a.ID, From: model.StatusPending, To: model.StatusCompleted}, intent)
	assert.Equal(t, model.StatusCompleted, columnOf(t, store, a.ID))
	assert.False(t, c.Dragging())
}

func TestController_DropWithoutDragOverStillMoves(t *testing.T) {
	a := newTask(model.StatusPending)
	store, c := setup(a)

	require.NoError(t, c.Start(a.ID))
	intent, ok := c.End(drag.ColumnTarget(model.StatusDone))

	assert.True(t, ok)
	assert.Equal(t, model.StatusDone, intent.To)
	assert.Equal(t, model.StatusDone, columnOf(t, store, a.ID))
}

func TestController_DropOnTaskUsesItsColumn(t *testing.T) {
	a, b := newTask(model.StatusPending), newTask(model.StatusDone)
	store, c := setup(a, b)

	require.NoError(t, c.Start(a.ID))
	c.Over(drag.TaskTarget(b.ID))
	intent, ok := c.End(drag.TaskTarget(b.ID))

	assert.True(t, ok)
	assert.Equal(t, model.StatusDone, intent.To)
	assert.Equal(t, model.StatusDone, columnOf(t, store, a.ID))
}

func TestController_SameColumnDropIsNoop(t *testing.T) {
	a, b := newTask(model.StatusPending), newTask(model.StatusPending)
	store, c := setup(a, b)
	before := store.Snapshot()

	require.NoError(t, c.Start(b.ID))
	c.Over(drag.TaskTarget(a.ID))
	_, ok := c.End(drag.ColumnTarget(model.StatusPending))

	assert.False(t, ok)
	assert.Equal(t, before, store.Snapshot())
}

func TestController_ReturnToSourceRestoresPosition(t *testing.T) {
	a, b, x := newTask(model.StatusPending), newTask(model.StatusPending), newTask(model.StatusPending)
	store, c := setup(a, b, x)
	before := store.Snapshot()

	require.NoError(t, c.Start(b.ID))
	c.Over(drag.ColumnTarget(model.StatusCompleted))
	c.Over(drag.ColumnTarget(model.StatusDone))
	_, ok := c.End(drag.ColumnTarget(model.StatusPending))

	assert.False(t, ok)
	assert.Equal(t, before, store.Snapshot())
}

func TestController_DragOverAppliesEveryEventInOrder(t *testing.T) {
	a := newTask(model.StatusPending)
	store, c := setup(a)

	require.NoError(t, c.Start(a.ID))

	c.Over(drag.ColumnTarget(model.StatusCompleted))
	assert.Equal(t, model.StatusCompleted, columnOf(t, store, a.ID))

	c.Over(drag.ColumnTarget(model.StatusDone))
	assert.Equal(t, model.StatusDone, columnOf(t, store, a.ID))

	c.Over(drag.ColumnTarget(model.StatusCompleted))
	assert.Equal(t, model.StatusCompleted, columnOf(t, store, a.ID))

	current, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, model.StatusCompleted, current)

	intent, ok := c.End(drag.TaskTarget(a.ID))
	assert.True(t, ok)
	assert.Equal(t, model.StatusPending, intent.From)
	assert.Equal(t, model.StatusCompleted, intent.To)
}

func TestController_DropOutsideRollsBack(t *testing.T) {
	a := newTask(model.StatusPending)
	store, c := setup(a)

	require.NoError(t, c.Start(a.ID))
	c.Over(drag.ColumnTarget(model.StatusDone))
	_, ok := c.End(drag.NoTarget)

	assert.False(t, ok)
	assert.Equal(t, model.StatusPending, columnOf(t, store, a.ID))
}

func TestController_DropOnMissingTaskIsInvalid(t *testing.T) {
	a, b := newTask(model.StatusPending), newTask(model.StatusDone)
	store, c := setup(a, b)

	require.NoError(t, c.Start(a.ID))
	c.Over(drag.TaskTarget(b.ID))
	// b удалена во время перетаскивания
	store.RemoveItem(b.ID)
	_, ok := c.End(drag.TaskTarget(b.ID))

	assert.False(t, ok)
	assert.Equal(t, model.StatusPending, columnOf(t, store, a.ID))
}

func TestController_Cancel(t *testing.T) {
	a := newTask(model.StatusCompleted)
	store, c := setup(a)

	require.NoError(t, c.Start(a.ID))
	c.Over(drag.ColumnTarget(model.StatusPending))
	c.Cancel()

	assert.False(t, c.Dragging())
	assert.Equal(t, model.StatusCompleted, columnOf(t, store, a.ID))
}

func TestController_StartErrors(t *testing.T) {
	a := newTask(model.StatusPending)
	_, c := setup(a)

	assert.ErrorIs(t, c.Start(uuid.New()), drag.ErrUnknownTask)

	require.NoError(t, c.Start(a.ID))
	assert.ErrorIs(t, c.Start(a.ID), drag.ErrAlreadyDragging)

	task, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, a.ID, task.ID)
}

func TestController_EventsWhileIdleAreIgnored(t *testing.T) {
	a := newTask(model.StatusPending)
	store, c := setup(a)
	before := store.Snapshot()

	c.Over(drag.ColumnTarget(model.StatusDone))
	_, ok := c.End(drag.ColumnTarget(model.StatusDone))
	c.Cancel()

	assert.False(t, ok)
	assert.Equal(t, before, store.Snapshot())
	_, active := c.Active()
	assert.False(t, active)
}
