// Package tui is the interactive list screen. It turns key presses into
// List controller events and redraws from the controller's render callback.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/controller"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return i.item.CreatedAt.Local().Format(ui.TimeLayout) }
func (i listItem) FilterValue() string { return i.item.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	prefix := "  "
	name := it.Title()
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor)
		name = t.Selected.Render(name)
	}
	fmt.Fprintf(w, "%s%s  %s", prefix, name, t.Muted.Render(it.Description()))
}

// frame receives the controller's render calls. It lives behind a pointer
// so every copy of Model sees the latest rows.
type frame struct {
	items []model.Item
	dirty bool
}

func (f *frame) Render(items []model.Item) {
	f.items = items
	f.dirty = true
}

// loadMsg asks the event loop to run the initial load.
type loadMsg struct{}

type keyMap struct {
	Search, Add, Delete, Quit key.Binding
}

var keys = keyMap{
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type Model struct {
	ctx   context.Context
	ctl   *controller.List
	frame *frame

	list   list.Model
	search textinput.Model

	// Inline search
	searching bool

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	width, height int
}

// New builds the screen and installs itself as ctl's renderer.
func New(ctx context.Context, ctl *controller.List) Model {
	f := &frame{}
	ctl.SetRenderer(f)

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// Search goes through the store, not the widget's fuzzy filter.
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit.SetEnabled(false)

	extra := func() []key.Binding { return []key.Binding{keys.Search, keys.Add, keys.Delete} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search for item..."
	search.CharLimit = 200

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Write down your task"
	ti.CharLimit = 200

	m := Model{
		ctx:    ctx,
		ctl:    ctl,
		frame:  f,
		list:   l,
		search: search,
		ti:     ti,
		width:  80,
		height: 24,
	}
	m.resize()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, ctl *controller.List, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctl), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return loadMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loadMsg:
		m.ctl.OnLoad(m.ctx)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.adding:
			cmd = m.updateAdd(msg)
		case m.searching:
			cmd = m.updateSearch(msg)
		default:
			var quit bool
			cmd, quit = m.updateBrowse(msg)
			if quit {
				return m, tea.Quit
			}
		}
	default:
		m.list, cmd = m.list.Update(msg)
	}
	m.resize()
	syncCmd := m.sync()
	return m, tea.Batch(cmd, syncCmd)
}

// resize fits the list between the search line and the add prompt.
func (m *Model) resize() {
	h := m.height - 6
	if m.adding {
		h -= 4
	}
	m.list.SetSize(max(m.width-4, 20), max(h, 3))
}

// updateBrowse handles keys while neither prompt has focus.
func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return nil, true
	case key.Matches(msg, keys.Search):
		m.searching = true
		return m.search.Focus(), false
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.addErr = ""
		m.ti.SetValue("")
		return m.ti.Focus(), false
	case key.Matches(msg, keys.Delete):
		if m.ctl.Count() == 0 {
			return nil, false
		}
		// Rows mirror the controller's results, so a failure here is a bug.
		if err := m.ctl.OnDeleteRequested(m.ctx, m.list.Index()); err != nil {
			panic(err)
		}
		return nil, false
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd, false
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.ctl.OnSearchTextChanged(m.ctx, "")
		}
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.ctl.OnSearchTextChanged(m.ctx, after)
	}
	return cmd
}

func (m *Model) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.ti.Value())
		if name == "" {
			m.addErr = "Name cannot be empty"
			return nil
		}
		m.ctl.OnAddRequested(m.ctx, name)
		m.adding = false
		m.ti.SetValue("")
		m.ti.Blur()
		// Adding may have reset the filter.
		m.search.SetValue(m.ctl.Filter())
		return nil
	case tea.KeyEsc:
		m.adding = false
		m.ti.SetValue("")
		m.ti.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return cmd
}

// sync copies rendered rows into the list widget.
func (m *Model) sync() tea.Cmd {
	if !m.frame.dirty {
		return nil
	}
	m.frame.dirty = false
	rows := make([]list.Item, len(m.frame.items))
	for i, it := range m.frame.items {
		rows[i] = listItem{item: it}
	}
	cmd := m.list.SetItems(rows)
	if m.list.Index() >= len(rows) && len(rows) > 0 {
		m.list.Select(len(rows) - 1)
	}
	return cmd
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n")
	if err := m.ctl.Err(); err != nil {
		b.WriteString(t.Error.Render(t.SymFail + " " + err.Error()))
	}
	b.WriteString("\n")

	b.WriteString(m.list.View())

	if m.adding {
		title := "Write task"
		if m.addErr != "" {
			title += " " + t.Error.Render(m.addErr)
		}
		box := lipgloss.NewStyle().Border(t.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(box.Render(title + "\n" + m.ti.View()))
	}
	return ui.Panel([]string{b.String()})
}

// Items returns the rows currently shown, for tests and debugging.
func (m Model) Items() []model.Item {
	out := make([]model.Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.item)
		}
	}
	return out
}
