// Package board holds the client-side partition of tasks into columns.
//
// Every operation leaves each task in exactly one column, and that column
// always equals the task's Status.
package board

import (
	"sync"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

// Columns maps a column to its ordered tasks.
type Columns map[model.Status][]model.Task

type Store struct {
	mu      sync.RWMutex
	columns Columns
}

func NewStore() *Store {
	return &Store{columns: emptyColumns()}
}

func emptyColumns() Columns {
	cols := make(Columns, len(model.Statuses))
	for _, s := range model.Statuses {
		cols[s] = []model.Task{}
	}
	return cols
}

// Load replaces the whole board with tasks partitioned by status.
// Input order is kept inside each column. Tasks with an unknown status and
// repeated IDs are skipped.
func (s *Store) Load(tasks []model.Task) {
	cols := emptyColumns()
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		cols[t.Status] = append(cols[t.Status], t)
	}

	s.mu.Lock()
	s.columns = cols
	s.mu.Unlock()
}

// MoveItem moves a task from one column to the front of another.
// It reports false and leaves the board untouched when the task is not in from.
func (s *Store) MoveItem(id uuid.UUID, from, to model.Status) bool {
	return s.MoveItemAt(id, from, to, 0)
}

// MoveItemAt is MoveItem with an explicit insertion index, clamped to the
// target column's bounds.
func (s *Store) MoveItemAt(id uuid.UUID, from, to model.Status, index int) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.columns[from], id)
	if i < 0 {
		return false
	}
	if from == to {
		return true
	}

	task := s.columns[from][i]
	s.columns[from] = remove(s.columns[from], i)
	task.Status = to
	s.columns[to] = insert(s.columns[to], task, index)
	return true
}

// AddItem puts a new task at the front of the pending column.
// A task already on the board under the same ID is replaced.
func (s *Store) AddItem(task model.Task) {
	task.Status = model.StatusPending

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(task.ID)
	s.columns[model.StatusPending] = insert(s.columns[model.StatusPending], task, 0)
}

// RemoveItem deletes the task from whichever column holds it.
func (s *Store) RemoveItem(id uuid.UUID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Store) removeLocked(id uuid.UUID) (model.Task, bool) {
	for _, status := range model.Statuses {
		if i := indexOf(s.columns[status], id); i >= 0 {
			task := s.columns[status][i]
			s.columns[status] = remove(s.columns[status], i)
			return task, true
		}
	}
	return model.Task{}, false
}

// Locate returns the column and position of a task.
func (s *Store) Locate(id uuid.UUID) (model.Status, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, status := range model.Statuses {
		if i := indexOf(s.columns[status], id); i >= 0 {
			return status, i, true
		}
	}
	return "", -1, false
}

func (s *Store) Get(id uuid.UUID) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, status := range model.Statuses {
		if i := indexOf(s.columns[status], id); i >= 0 {
			return s.columns[status][i], true
		}
	}
	return model.Task{}, false
}

// Column returns a copy of one column.
func (s *Store) Column(status model.Status) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.columns[status]...)
}

// Snapshot returns a deep copy of the board for rendering.
func (s *Store) Snapshot() Columns {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Columns, len(s.columns))
	for status, tasks := range s.columns {
		out[status] = append([]model.Task{}, tasks...)
	}
	return out
}

// Len returns the number of tasks on the board.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, tasks := range s.columns {
		n += len(tasks)
	}
	return n
}

func indexOf(tasks []model.Task, id uuid.UUID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func remove(tasks []model.Task, i int) []model.Task {
	out := make([]model.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

func insert(tasks []model.Task, task model.Task, i int) []model.Task {
	if i < 0 {
		i = 0
	}
	if i > len(tasks) {
		i = len(tasks)
	}
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, task)
	return append(out, tasks[i:]...)
}
