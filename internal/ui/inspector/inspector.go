// Package inspector provides an interactive terminal view of a marker tree
// file. It lists each marker with its position expression and resolved
// value, and reloads the view when the file changes on disk.
package inspector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/markers/internal/config"
	"github.com/zjrosen/markers/internal/coordinate"
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/marker"
	"github.com/zjrosen/markers/internal/pubsub"
	"github.com/zjrosen/markers/internal/valuetree"
)

// FileChangedMsg signals that the tree file changed on disk.
type FileChangedMsg struct{}

// ReloadedMsg carries the freshly loaded tree.
type ReloadedMsg struct {
	Tree *valuetree.Node
}

// ReloadErrMsg carries a failed reload.
type ReloadErrMsg struct {
	Err error
}

// LogMsg carries one formatted log entry from the live log tap.
type LogMsg struct {
	Entry string
}

// row is one rendered marker line.
type row struct {
	name     string
	position string
	resolved string
	failed   bool
}

// Model holds the inspector state.
type Model struct {
	treePath string
	cfg      config.Config

	list     *marker.List
	resolver coordinate.Resolver

	onChange <-chan struct{}
	logSub   *pubsub.Subscription[string]

	viewport viewport.Model
	selected int
	width    int
	height   int

	status  string
	lastLog string
	loadErr error
}

// New creates an inspector for the tree at treePath.
// onChange, when non-nil, is a watcher channel whose signals trigger a
// reload (pass nil to disable live reload).
func New(treePath string, cfg config.Config, onChange <-chan struct{}) (Model, error) {
	tree, err := valuetree.LoadFile(treePath)
	if err != nil {
		return Model{}, fmt.Errorf("loading tree: %w", err)
	}

	list := marker.NewList()
	marker.NewTreeView(tree).ApplyTo(list)

	m := Model{
		treePath: treePath,
		cfg:      cfg,
		list:     list,
		resolver: newResolver(list, cfg),
		onChange: onChange,
		logSub:   log.Subscribe(),
		viewport: viewport.New(0, 0),
		status:   fmt.Sprintf("loaded %d markers", list.Len()),
	}
	return m, nil
}

// Close cancels the live log subscription.
func (m Model) Close() {
	if m.logSub != nil {
		m.logSub.Cancel()
	}
}

// newResolver builds the coordinate resolver from config: external anchors
// come from resolve.anchors, caching follows resolve.cache.
func newResolver(list *marker.List, cfg config.Config) coordinate.Resolver {
	var extern coordinate.Resolver
	if len(cfg.Resolve.Anchors) > 0 {
		anchors := cfg.Resolve.Anchors
		extern = coordinate.ResolverFunc(func(name string) (float64, error) {
			if v, ok := anchors[name]; ok {
				return v, nil
			}
			return 0, fmt.Errorf("unknown anchor %q", name)
		})
	}
	if cfg.Resolve.Cache {
		return coordinate.NewCachedListResolver(list, extern)
	}
	return coordinate.NewListResolver(list, extern)
}

// List exposes the marker list backing the inspector.
func (m Model) List() *marker.List {
	return m.list
}

// Selected returns the index of the highlighted marker.
func (m Model) Selected() int {
	return m.selected
}

// Init starts listening for file changes and log entries.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.waitForLog())
}

// waitForChange blocks on the watcher channel and converts a signal into a
// FileChangedMsg. Returns nil when live reload is disabled.
func (m Model) waitForChange() tea.Cmd {
	if m.onChange == nil {
		return nil
	}
	ch := m.onChange
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

// waitForLog blocks on the log tap and converts the next entry into a
// LogMsg. Returns nil when logging is not initialized.
func (m Model) waitForLog() tea.Cmd {
	if m.logSub == nil {
		return nil
	}
	ch := m.logSub.C
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return LogMsg{Entry: e.Payload}
	}
}

// reload loads the tree file off the update loop.
func (m Model) reload() tea.Cmd {
	path := m.treePath
	return func() tea.Msg {
		tree, err := valuetree.LoadFile(path)
		if err != nil {
			return ReloadErrMsg{Err: err}
		}
		return ReloadedMsg{Tree: tree}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(0, msg.Height-m.chromeHeight())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.list.Len()-1 {
				m.selected++
			}
			return m, nil
		case "g":
			m.selected = 0
			return m, nil
		case "G":
			if m.list.Len() > 0 {
				m.selected = m.list.Len() - 1
			}
			return m, nil
		case "r":
			return m, m.reload()
		}

	case FileChangedMsg:
		log.Debug(log.CatUI, "Tree file changed, reloading", "path", m.treePath)
		return m, tea.Batch(m.reload(), m.waitForChange())

	case ReloadedMsg:
		marker.NewTreeView(msg.Tree).ApplyTo(m.list)
		if m.selected >= m.list.Len() {
			m.selected = max(0, m.list.Len()-1)
		}
		m.loadErr = nil
		m.status = fmt.Sprintf("reloaded %d markers at %s", m.list.Len(), time.Now().Format("15:04:05"))
		return m, nil

	case ReloadErrMsg:
		log.ErrorErr(log.CatUI, "Tree reload failed", msg.Err, "path", m.treePath)
		m.loadErr = msg.Err
		return m, nil

	case LogMsg:
		m.lastLog = strings.TrimSpace(msg.Entry)
		return m, m.waitForLog()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// chromeHeight is the number of lines used by title, header, and status bar.
func (m Model) chromeHeight() int {
	h := 2 // title + column header
	if m.cfg.UI.ShowStatusBar {
		h++
	}
	return h
}

// rows resolves every marker for display.
func (m Model) rows() []row {
	out := make([]row, 0, m.list.Len())
	for _, mk := range m.list.Markers() {
		r := row{name: mk.Name, position: mk.Position}
		if m.cfg.UI.ShowResolved {
			value, err := m.resolver.ResolveAnchor(mk.Name)
			if err != nil {
				r.resolved = "unresolved"
				r.failed = true
			} else {
				r.resolved = strconv.FormatFloat(value, 'f', -1, 64)
			}
		}
		out = append(out, r)
	}
	return out
}

// View renders the inspector.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Markers · "+m.treePath) + "\n")

	nameWidth, posWidth := m.columnWidths()

	header := fmt.Sprintf("%-*s  %-*s", nameWidth, "NAME", posWidth, "POSITION")
	if m.cfg.UI.ShowResolved {
		header += "  RESOLVED"
	}
	b.WriteString(headerStyle.Render(header) + "\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(rowStyle.Render("No markers") + "\n")
	}
	var lines []string
	for i, r := range rows {
		line := fmt.Sprintf("%-*s  %-*s", nameWidth, r.name, posWidth, r.position)
		if m.cfg.UI.ShowResolved {
			resolved := resolvedStyle.Render(r.resolved)
			if r.failed {
				resolved = errorStyle.Render(r.resolved)
			}
			line += "  " + resolved
		}
		style := rowStyle
		if i == m.selected {
			style = selectedRowStyle
		}
		lines = append(lines, style.Render(line))
	}
	if m.viewport.Height > 0 {
		m.viewport.SetContent(strings.Join(lines, "\n"))
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}

	if m.cfg.UI.ShowStatusBar {
		status := m.status
		if m.loadErr != nil {
			status = errorStyle.Render("load error: " + m.loadErr.Error())
		}
		if m.lastLog != "" {
			status += "  " + m.lastLog
		}
		b.WriteString("\n" + statusBarStyle.Render(status))
	}

	return b.String()
}

// columnWidths sizes the name and position columns to their content.
func (m Model) columnWidths() (int, int) {
	nameWidth, posWidth := len("NAME"), len("POSITION")
	for _, mk := range m.list.Markers() {
		nameWidth = max(nameWidth, lipgloss.Width(mk.Name))
		posWidth = max(posWidth, lipgloss.Width(mk.Position))
	}
	return nameWidth, posWidth
}
