// Package ui is the terminal front end: a Bubble Tea program that draws the
// scatter plot, switches axes on click or key press, animates the change
// and shows a tooltip for the hovered state.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/healthscatter/internal/datasource"
	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/watcher"
)

// Default terminal size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 40
	footerRows    = 2 // status line and help bar
	defaultFPS    = 30
)

// Options configures a Model.
type Options struct {
	FPS        int
	ShowLabels bool
	Source     string // shown in the status line
	Loader     LoaderFunc
	Watcher    *watcher.Watcher
}

// Model is the Bubble Tea model of the chart view.
type Model struct {
	session *chart.Session
	opts    Options
	keys    keyMap
	help    help.Model
	theme   Theme
	now     func() time.Time

	width, height int

	displayed  chart.Scene
	transition chart.Transition
	animating  bool
	started    time.Time

	hovered    string
	showLabels bool

	showHelp bool
	helpView viewport.Model

	status    string
	statusErr bool
}

// NewModel wraps a session. The first frame is the session's scene, drawn
// without animation.
func NewModel(session *chart.Session, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	return Model{
		session:    session,
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		theme:      DefaultTheme(lipgloss.DefaultRenderer()),
		now:        time.Now,
		width:      defaultWidth,
		height:     defaultHeight,
		displayed:  session.Scene(),
		showLabels: opts.ShowLabels,
	}
}

func (m Model) Init() tea.Cmd {
	return watchCmd(m.opts.Watcher)
}

func (m Model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.opts.FPS)
}

func (m Model) chartHeight() int {
	return max(m.height-footerRows, 0)
}

// hitFrame lays out the displayed scene for hit testing.
func (m Model) hitFrame() frame {
	return renderFrame(m.displayed, m.width, m.chartHeight(), m.showLabels, "", nil)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// startTransition begins animating tr. A transition that arrives while
// another is running starts from the frame currently on screen.
func (m *Model) startTransition(tr chart.Transition) tea.Cmd {
	if !tr.Changed {
		return nil
	}
	if tr.Duration <= 0 {
		m.displayed = tr.To
		m.animating = false
		return nil
	}
	if m.animating {
		tr = tr.Retarget(m.displayed)
	}
	m.transition = tr
	m.started = m.now()
	if m.animating {
		// A frame tick is already scheduled.
		return nil
	}
	m.animating = true
	return frameCmd(m.frameInterval())
}

func (m *Model) click(tag string) tea.Cmd {
	tr, err := m.session.Click(tag)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	if !tr.Changed {
		return nil
	}
	col := m.session.Active(tr.Axis)
	m.setStatus(fmt.Sprintf("%s axis: %s", tr.Axis, col.Title()), false)
	return m.startTransition(tr)
}

// cycleHover moves the tooltip to the next or previous record in load order.
func (m *Model) cycleHover(step int) {
	records := m.session.Records()
	if len(records) == 0 {
		return
	}
	idx := -1
	for i, r := range records {
		if r.ID == m.hovered {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step > 0 {
			idx = 0
		} else {
			idx = len(records) - 1
		}
	} else {
		idx = (idx + step + len(records)) % len(records)
	}
	m.hovered = records[idx].ID
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpView = newHelpViewport(m.keys, m.width, m.chartHeight())
		}
		return m, nil

	case frameMsg:
		if !m.animating {
			return m, nil
		}
		elapsed := msg.at.Sub(m.started)
		m.displayed = m.transition.At(elapsed)
		if m.transition.Done(elapsed) {
			m.displayed = m.transition.To
			m.animating = false
			return m, nil
		}
		return m, frameCmd(m.frameInterval())

	case reloadMsg:
		return m.handleReload(msg)

	case fileEventMsg:
		return m.handleFileEvent(msg)

	case copiedMsg:
		if msg.err != nil {
			m.setStatus("copy failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("copied tooltip to clipboard", false)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.showHelp {
			return m.handleHelpKeys(msg)
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, ck := range m.keys.columnKeys() {
		if key.Matches(msg, ck.binding) {
			return m, m.click(ck.tag)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = newHelpViewport(m.keys, m.width, m.chartHeight())
	case key.Matches(msg, m.keys.NextPoint):
		m.cycleHover(1)
	case key.Matches(msg, m.keys.PrevPoint):
		m.cycleHover(-1)
	case key.Matches(msg, m.keys.ClearHover):
		m.hovered = ""
	case key.Matches(msg, m.keys.Labels):
		m.showLabels = !m.showLabels
	case key.Matches(msg, m.keys.Copy):
		r, ok := m.session.Record(m.hovered)
		if !ok {
			m.setStatus("hover a state to copy its tooltip", true)
			return m, nil
		}
		return m, copyCmd(m.session.Tooltip().Text(r))
	case key.Matches(msg, m.keys.Reload):
		if m.opts.Loader == nil {
			m.setStatus("reload is not available for this data source", true)
			return m, nil
		}
		m.setStatus("reloading…", false)
		return m, reloadCmd(m.opts.Loader)
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.ClearHover), msg.String() == "q":
		m.showHelp = false
		return m, nil
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}
	f := m.hitFrame()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if tag, ok := f.selectorAt(msg.X, msg.Y); ok {
			return m, m.click(tag)
		}
		if id, ok := m.markerUnder(f, msg.X, msg.Y); ok {
			m.hovered = id
		}
		return m, nil

	case tea.MouseActionMotion:
		if id, ok := m.markerUnder(f, msg.X, msg.Y); ok {
			m.hovered = id
		} else {
			m.hovered = ""
		}
	}
	return m, nil
}

// markerUnder resolves a cell to a record, first by the drawn glyphs and
// then by the marker radius in plot space.
func (m Model) markerUnder(f frame, col, row int) (string, bool) {
	if id, ok := f.markerAt(col, row); ok {
		return id, true
	}
	x, y, ok := f.geom.toPlot(col, row)
	if !ok || m.animating {
		return "", false
	}
	r, ok := m.session.HitTest(x, y)
	if !ok {
		return "", false
	}
	return r.ID, true
}

func (m Model) handleReload(msg reloadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		debug.Log("reload failed: %v", msg.err)
		m.setStatus("reload failed: "+msg.err.Error(), true)
		return m, nil
	}
	before := m.session.Records()
	diff := datasource.DiffRecords(before, msg.records)
	tr, err := m.session.Reload(msg.records)
	if err != nil {
		m.setStatus("reload failed: "+err.Error(), true)
		return m, nil
	}
	if _, ok := m.session.Record(m.hovered); !ok {
		m.hovered = ""
	}
	m.setStatus("reloaded: "+diff.Summary(), false)
	return m, m.startTransition(tr)
}

func (m Model) handleFileEvent(msg fileEventMsg) (tea.Model, tea.Cmd) {
	next := watchCmd(m.opts.Watcher)
	switch msg.ev.Kind {
	case watcher.EventChanged:
		return m, tea.Batch(reloadCmd(m.opts.Loader), next)
	case watcher.EventRemoved:
		m.setStatus("data file removed; showing last loaded data", true)
	default:
		if msg.ev.Err != nil {
			m.setStatus("watch: "+msg.ev.Err.Error(), true)
		}
	}
	return m, next
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var body string
	if m.showHelp {
		body = m.helpView.View()
	} else {
		var tip []string
		if r, ok := m.session.Record(m.hovered); ok {
			tip = m.session.Tooltip().Lines(r)
		}
		f := renderFrame(m.displayed, m.width, m.chartHeight(), m.showLabels, m.hovered, tip)
		body = f.canvas.render(m.theme.paints())
	}
	return body + "\n" + m.statusLine() + "\n" + m.theme.HelpBar.Render(m.help.View(m.keys))
}

func (m Model) statusLine() string {
	left := fmt.Sprintf("x: %s  y: %s  %d states",
		m.session.ActiveX().Title(), m.session.ActiveY().Title(), len(m.session.Records()))
	if m.opts.Source != "" {
		left += "  " + m.opts.Source
	}
	left = truncate(left, m.width)
	if m.status == "" {
		return m.theme.StatusText.Render(left)
	}

	room := m.width - runewidth.StringWidth(left) - 2
	right := truncate(m.status, max(room, 0))
	style := m.theme.StatusText
	if m.statusErr {
		style = m.theme.ErrorText
	}
	gap := max(m.width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 1)
	return m.theme.StatusText.Render(left) + strings.Repeat(" ", gap) + style.Render(right)
}

// Hovered returns the id of the record whose tooltip is showing.
func (m Model) Hovered() string { return m.hovered }

// Animating reports whether a transition is in progress.
func (m Model) Animating() bool { return m.animating }

// Displayed returns the frame currently on screen.
func (m Model) Displayed() chart.Scene { return m.displayed }

// Status returns the status line message.
func (m Model) Status() string { return m.status }
