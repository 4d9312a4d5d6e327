// Package ui is the terminal front end: a Bubble Tea program that shows a
// tree table, toggles rows from the keyboard and reloads when the source
// changes.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
	"github.com/vanderheijden86/treetable/pkg/watcher"
)

// Default dimensions used until the terminal reports its size.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// LoadFunc reads the rows of the source again.
type LoadFunc func(ctx context.Context) ([]*model.Row, error)

// ReloadMsg carries freshly loaded rows after the source changed.
type ReloadMsg struct {
	Rows []*model.Row
	Err  error
}

// WatchCmd waits for the watcher to report a change, reloads the rows and
// sends them as a ReloadMsg.
func WatchCmd(w *watcher.Watcher, load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		rows, err := load(context.Background())
		return ReloadMsg{Rows: rows, Err: err}
	}
}

// Options configures NewModel.
type Options struct {
	Title       string // Shown in the header
	ColumnWidth int    // Cap for non-tree columns; 0 uses DefaultColumnWidth
	ShowDetail  bool   // Open the detail pane on start

	// Watcher and Load enable live reload. Both must be set.
	Watcher *watcher.Watcher
	Load    LoadFunc
}

// Model is the Bubble Tea model of the tree table viewer.
type Model struct {
	tree   TreeView
	detail DetailPane
	theme  Theme
	keys   KeyMap
	help   help.Model

	title      string
	width      int
	height     int
	showHelp   bool
	showDetail bool

	statusMsg     string
	statusIsError bool

	watcher *watcher.Watcher
	load    LoadFunc

	// copyText writes to the system clipboard; replaced in tests.
	copyText func(string) error
}

// NewModel creates a model for an initialized table.
func NewModel(t *treetable.Table, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	title := opts.Title
	if title == "" {
		title = "tt"
	}

	m := Model{
		tree:       NewTreeView(t, theme),
		detail:     NewDetailPane(defaultWidth/2, defaultHeight-4),
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		title:      title,
		width:      defaultWidth,
		height:     defaultHeight,
		showDetail: opts.ShowDetail,
		watcher:    opts.Watcher,
		load:       opts.Load,
		copyText:   clipboard.WriteAll,
	}
	m.tree.SetColumnWidth(opts.ColumnWidth)
	m.layout()
	m.syncDetail()
	return m
}

// Init starts watching the source when live reload is configured.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil && m.load != nil {
		return WatchCmd(m.watcher, m.load)
	}
	return nil
}

// WithClipboard replaces the function used to copy row ids.
func (m Model) WithClipboard(fn func(string) error) Model {
	m.copyText = fn
	return m
}

// Table returns the table currently shown.
func (m Model) Table() *treetable.Table {
	return m.tree.Table()
}

// SelectedID returns the id of the row under the cursor.
func (m Model) SelectedID() string {
	return m.tree.SelectedID()
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.statusMsg
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		m.syncDetail()
		return m, nil

	case ReloadMsg:
		m.handleReload(msg)
		if m.watcher != nil && m.load != nil {
			return m, WatchCmd(m.watcher, m.load)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes the help overlay
		m.showHelp = false
		return m, nil
	}

	m.statusMsg = ""
	m.statusIsError = false

	var err error
	switch {
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Top):
		m.tree.SelectFirst()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.SelectLast()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.Toggle):
		err = m.timed(func() error {
			_, err := m.tree.ToggleSelected()
			return err
		})
	case key.Matches(msg, m.keys.Expand):
		err = m.timed(m.tree.ExpandOrMoveToChild)
	case key.Matches(msg, m.keys.Collapse):
		err = m.timed(m.tree.CollapseOrJumpToParent)
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
		m.layout()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	if err != nil {
		m.setError(err)
	}
	m.syncDetail()
	return m, nil
}

// timed runs a toggle operation under the toggle metric.
func (m *Model) timed(fn func() error) error {
	defer metrics.Timer(metrics.Toggle)()
	return fn()
}

func (m *Model) copySelected() {
	id := m.tree.SelectedID()
	if id == "" {
		return
	}
	if err := m.copyText(id); err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", id)
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusIsError = true
}

// handleReload re-initializes the table from msg.Rows. Rows that kept their
// id and carry no explicit tag get the tag they had before, so a reload does
// not undo the user's toggles.
func (m *Model) handleReload(msg ReloadMsg) {
	if msg.Err != nil {
		m.setError(fmt.Errorf("reload failed: %w", msg.Err))
		return
	}

	old := m.tree.Table()
	var diff datasource.RowDiff
	if old != nil {
		diff = datasource.DiffRows(old.Rows(), msg.Rows)
		carryTags(old, msg.Rows)
	}

	opts := treetable.DefaultOptions()
	if old != nil {
		opts = old.Options()
	}
	t, err := treetable.Initialize(msg.Rows, opts)
	if err != nil {
		m.setError(fmt.Errorf("reload failed: %w", err))
		return
	}
	debug.Log("ui: reloaded %d rows (%s)", t.Len(), diff.Summary())

	m.tree.SetTable(t)
	m.statusMsg = "Reloaded: " + diff.Summary()
	m.statusIsError = false
	m.syncDetail()
}

func carryTags(old *treetable.Table, rows []*model.Row) {
	for _, row := range rows {
		if row == nil || row.Tag != model.TagNone {
			continue
		}
		if prev := old.Row(row.ID); prev != nil && prev.Control {
			row.Tag = prev.Tag
		}
	}
}

// layout distributes the terminal between the list and the detail pane.
func (m *Model) layout() {
	body := max(m.height-2, 1)
	listWidth := m.width
	if m.showDetail {
		detailWidth := m.width * 2 / 5
		listWidth = m.width - detailWidth
		// Border takes two cells each way
		m.detail.SetSize(max(detailWidth-2, 10), max(body-2, 1))
	}
	m.tree.SetSize(listWidth, body)
}

func (m *Model) syncDetail() {
	if !m.showDetail {
		return
	}
	m.detail.Show(m.tree.Table(), m.tree.Selected())
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	header := m.renderHeader()
	var body string
	switch {
	case m.showHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	case m.showDetail:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.tree.View(),
			m.theme.Detail.Render(m.detail.View()),
		)
	default:
		body = m.tree.View()
	}

	bodyHeight := max(m.height-2, 1)
	body = m.theme.Renderer.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m Model) renderHeader() string {
	t := m.tree.Table()
	total := 0
	if t != nil {
		total = t.Len()
	}
	text := fmt.Sprintf("%s  %d/%d rows", m.title, m.tree.VisibleCount(), total)
	return m.theme.Header.Width(m.width).Render(truncate(text, max(m.width-2, 1)))
}

func (m Model) renderFooter() string {
	var line string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		line = m.theme.StatusError.Render(m.statusMsg)
	case m.statusMsg != "":
		line = m.theme.StatusText.Render(m.statusMsg)
	default:
		line = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	if m.watcher != nil && m.watcher.IsPolling() {
		line = strings.TrimSpace(line + "  " + m.theme.MutedText.Render("(polling)"))
	}
	return m.theme.Footer.Width(m.width).Render(truncateStyled(line, m.width))
}
