// Package tui is an interactive terminal board. Keys stand in for the
// pointer: space picks a card up, the arrows carry it across columns and
// space or enter drops it. Persistence runs in tea.Cmds so the board never
// waits on the network.
package tui

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/drag"
	"taskboard/internal/model"
	"taskboard/internal/reconcile"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type (
	loadedMsg    struct{ err error }
	persistedMsg struct{ outcome reconcile.Outcome }
	deletedMsg   struct{ err error }
)

type Model struct {
	ctx   context.Context
	store *board.Store
	drag  *drag.Controller
	rec   *reconcile.Reconciler

	keys   KeyMap
	styles Styles
	help   help.Model

	col     int
	row     int
	loading bool
}

func New(ctx context.Context, store *board.Store, rec *reconcile.Reconciler) Model {
	return Model{
		ctx:     ctx,
		store:   store,
		drag:    drag.NewController(store),
		rec:     rec,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.clamp()
		return m, nil

	case persistedMsg:
		// Resolve идёт в цикле Update; Refetch и DeleteItem работают в tea.Cmd
		// и меняют доску параллельно, Store защищён своим мьютексом
		if m.rec.Resolve(msg.outcome) {
			return m, m.refetch()
		}
		return m, nil

	case deletedMsg:
		m.clamp()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.drag.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.shift(-1)

	case key.Matches(msg, m.keys.Right):
		m.shift(1)

	case key.Matches(msg, m.keys.Up):
		if !m.drag.Dragging() && m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.Down):
		if !m.drag.Dragging() {
			m.row++
			m.clamp()
		}

	case key.Matches(msg, m.keys.Grab):
		if m.drag.Dragging() {
			return m.drop()
		}
		if task, ok := m.selected(); ok {
			if err := m.drag.Start(task.ID); err == nil {
				m.rec.ClearMessage()
			}
		}

	case key.Matches(msg, m.keys.Drop):
		if m.drag.Dragging() {
			return m.drop()
		}

	case key.Matches(msg, m.keys.Cancel):
		if task, ok := m.drag.Active(); ok {
			m.drag.Cancel()
			m.follow(task.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if m.drag.Dragging() {
			break
		}
		if task, ok := m.selected(); ok {
			return m, m.remove(task.ID)
		}

	case key.Matches(msg, m.keys.Refresh):
		if !m.drag.Dragging() {
			m.loading = true
			return m, m.refetch()
		}
	}
	return m, nil
}

// shift moves the focus one column over, carrying the dragged card along.
func (m *Model) shift(delta int) {
	next := m.col + delta
	if next < 0 || next >= len(model.Statuses) {
		return
	}
	m.col = next
	if task, ok := m.drag.Active(); ok {
		m.drag.Over(drag.ColumnTarget(model.Statuses[m.col]))
		m.follow(task.ID)
		return
	}
	m.clamp()
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	task, _ := m.drag.Active()
	intent, moved := m.drag.End(drag.ColumnTarget(model.Statuses[m.col]))
	m.follow(task.ID)
	if !moved {
		return m, nil
	}
	return m, m.persist(m.rec.Begin(intent))
}

// follow puts the cursor on the given task wherever it is now.
func (m *Model) follow(id uuid.UUID) {
	if status, index, ok := m.store.Locate(id); ok {
		m.col = status.Index()
		m.row = index
		return
	}
	m.clamp()
}

func (m *Model) clamp() {
	n := len(m.store.Column(model.Statuses[m.col]))
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m Model) selected() (model.Task, bool) {
	tasks := m.store.Column(model.Statuses[m.col])
	if m.row < 0 || m.row >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.row], true
}

func (m Model) persist(id reconcile.ChangeID) tea.Cmd {
	ctx, rec := m.ctx, m.rec
	return func() tea.Msg {
		return persistedMsg{outcome: rec.Persist(ctx, id)}
	}
}

func (m Model) refetch() tea.Cmd {
	ctx, rec := m.ctx, m.rec
	return func() tea.Msg {
		return loadedMsg{err: rec.Refetch(ctx)}
	}
}

func (m Model) remove(id uuid.UUID) tea.Cmd {
	ctx, rec := m.ctx, m.rec
	return func() tea.Msg {
		return deletedMsg{err: rec.DeleteItem(ctx, id)}
	}
}

func (m Model) View() string {
	active, dragging := m.drag.Active()

	columns := make([]string, 0, len(model.Statuses))
	for i, status := range model.Statuses {
		tasks := m.store.Column(status)

		var b strings.Builder
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("%s (%d)", columnTitle(status), len(tasks))))
		b.WriteString("\n")
		if len(tasks) == 0 {
			b.WriteString(m.styles.Muted.Render("empty"))
		}
		for j, task := range tasks {
			style := m.styles.Card
			switch {
			case dragging && task.ID == active.ID:
				style = m.styles.Dragged
			case !dragging && i == m.col && j == m.row:
				style = m.styles.Selected
			}
			b.WriteString(style.Render(task.Title))
			if j < len(tasks)-1 {
				b.WriteString("\n")
			}
		}

		frame := m.styles.Column
		if i == m.col {
			frame = m.styles.ColumnActive
		}
		columns = append(columns, frame.Render(b.String()))
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, columns...)}
	if dragging {
		lines = append(lines, m.styles.Preview.Render("Dragging: "+active.Title))
	}
	if msg := m.rec.Message(); msg != "" {
		lines = append(lines, m.styles.Error.Render(msg))
	}
	if m.loading {
		lines = append(lines, m.styles.Muted.Render("loading…"))
	}
	lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	return strings.Join(lines, "\n")
}

func columnTitle(s model.Status) string {
	switch s {
	case model.StatusPending:
		return "Pending"
	case model.StatusCompleted:
		return "Completed"
	case model.StatusDone:
		return "Done"
	default:
		return s.String()
	}
}
