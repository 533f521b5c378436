package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
	"github.com/vanderheijden86/healthscatter/pkg/testutil"
	"github.com/vanderheijden86/healthscatter/pkg/watcher"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	s, err := chart.NewSession(testutil.TwoStates(), chart.DefaultOptions())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	m := NewModel(s, opts)
	m.now = func() time.Time { return t0 }
	m.showLabels = true
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func finish(m Model) Model {
	m, _ = send(m, frameMsg{at: t0.Add(10 * time.Second)})
	return m
}

func selectorCell(t *testing.T, m Model, tag string) (int, int) {
	t.Helper()
	for _, s := range m.hitFrame().selectors {
		if s.tag == tag {
			return s.col0, s.row
		}
	}
	t.Fatalf("no selector %q in frame", tag)
	return 0, 0
}

func markerCell(t *testing.T, m Model, id string) (int, int) {
	t.Helper()
	for _, mk := range m.hitFrame().markers {
		if mk.id == id {
			return mk.col0, mk.row
		}
	}
	t.Fatalf("no marker %q in frame", id)
	return 0, 0
}

// ============================================================================
// Axis selection
// ============================================================================

func TestKeySelectsColumnAndAnimates(t *testing.T) {
	m := newTestModel(t, Options{})
	builds := m.session.ScaleBuilds()

	m, cmd := send(m, keyPress("2"))
	if cmd == nil {
		t.Fatal("expected a frame command")
	}
	if got := m.session.ActiveX(); got != model.ColumnAge {
		t.Fatalf("ActiveX = %v, want age", got)
	}
	if !m.Animating() {
		t.Fatal("expected animation to start")
	}
	if m.session.ScaleBuilds() != builds+1 {
		t.Errorf("expected exactly one scale build, got %d", m.session.ScaleBuilds()-builds)
	}

	m = finish(m)
	if m.Animating() {
		t.Error("animation should end after its duration")
	}
	want := m.session.Scene()
	got := m.Displayed()
	for i := range want.Markers {
		if got.Markers[i] != want.Markers[i] {
			t.Errorf("marker %d = %+v, want %+v", i, got.Markers[i], want.Markers[i])
		}
	}
}

func TestReselectActiveColumnIsNoop(t *testing.T) {
	m := newTestModel(t, Options{})
	builds := m.session.ScaleBuilds()

	m, cmd := send(m, keyPress("1"))
	if cmd != nil {
		t.Error("re-selecting the active column should not schedule frames")
	}
	if m.Animating() {
		t.Error("no animation expected")
	}
	if m.session.ScaleBuilds() != builds {
		t.Error("re-selecting must not rebuild a scale")
	}
}

func TestYKeysSelectYColumns(t *testing.T) {
	m := newTestModel(t, Options{})
	tests := []struct {
		key  string
		want model.Column
	}{
		{"4", model.ColumnObesity},
		{"5", model.ColumnSmokes},
		{"6", model.ColumnHealthcare},
	}
	for _, tt := range tests {
		m, _ = send(m, keyPress(tt.key))
		m = finish(m)
		if got := m.session.ActiveY(); got != tt.want {
			t.Errorf("after %q ActiveY = %v, want %v", tt.key, got, tt.want)
		}
		if m.session.ActiveX() != model.ColumnPoverty {
			t.Errorf("Y selection changed X to %v", m.session.ActiveX())
		}
	}
}

func TestMouseClickOnSelector(t *testing.T) {
	m := newTestModel(t, Options{})
	x, y := selectorCell(t, m, "income")

	m, cmd := send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatal("expected animation command")
	}
	if got := m.session.ActiveX(); got != model.ColumnIncome {
		t.Errorf("ActiveX = %v, want income", got)
	}

	x, y = selectorCell(t, m, "smokes")
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.session.ActiveY(); got != model.ColumnSmokes {
		t.Errorf("ActiveY = %v, want smokes", got)
	}
	testutil.AssertOneActivePerAxis(t, m.session.Scene())
}

func TestRightClickIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	x, y := selectorCell(t, m, "age")
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if m.session.ActiveX() != model.ColumnPoverty {
		t.Error("right click should not change the axis")
	}
}

func TestClickDuringAnimationRetargets(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("2"))
	m, _ = send(m, frameMsg{at: t0.Add(500 * time.Millisecond)})
	mid := m.Displayed()
	if !m.Animating() {
		t.Fatal("expected animation still running at half time")
	}

	m, cmd := send(m, keyPress("3"))
	if cmd != nil {
		t.Error("a frame tick is already pending, no new one expected")
	}
	for i := range mid.Markers {
		if m.transition.From.Markers[i] != mid.Markers[i] {
			t.Errorf("retargeted transition should start from the displayed frame")
		}
	}
	if m.transition.To.XAxis.Scale.Column != model.ColumnIncome {
		t.Errorf("transition target column = %v, want income", m.transition.To.XAxis.Scale.Column)
	}
}

// ============================================================================
// Hover and tooltip
// ============================================================================

func TestHoverShowsTooltip(t *testing.T) {
	m := newTestModel(t, Options{})
	x, y := markerCell(t, m, "CA")

	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.Hovered() != "CA" {
		t.Fatalf("Hovered() = %q, want CA", m.Hovered())
	}
	view := m.View()
	testutil.AssertContainsAll(t, view, "California", "Poverty: 10%", "Lacks Healthcare: 12.1%")

	m, _ = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if m.Hovered() != "" {
		t.Errorf("pointer leave should hide the tooltip, hovered %q", m.Hovered())
	}
	if strings.Contains(m.View(), "Poverty: 10%") {
		t.Error("tooltip still drawn after pointer leave")
	}
}

func TestTooltipFollowsActiveColumns(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("3"))
	m = finish(m)
	m, _ = send(m, keyPress("n"))
	if m.Hovered() != "CA" {
		t.Fatalf("Hovered() = %q, want CA", m.Hovered())
	}
	testutil.AssertContainsAll(t, m.View(), "Median Income: $61933")
}

func TestCycleHover(t *testing.T) {
	m := newTestModel(t, Options{})
	steps := []struct {
		key  string
		want string
	}{
		{"n", "CA"},
		{"n", "TX"},
		{"n", "CA"},
		{"p", "TX"},
		{"esc", ""},
		{"p", "TX"},
	}
	for _, s := range steps {
		m, _ = send(m, keyPress(s.key))
		if m.Hovered() != s.want {
			t.Errorf("after %q Hovered() = %q, want %q", s.key, m.Hovered(), s.want)
		}
	}
}

func TestCopyTooltip(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	m := newTestModel(t, Options{})
	m, cmd := send(m, keyPress("y"))
	if cmd != nil || !m.statusErr {
		t.Fatal("copy without a hovered state should report an error")
	}

	m, _ = send(m, keyPress("n"))
	_, cmd = send(m, keyPress("y"))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	msg := cmd()
	m, _ = send(m, msg)
	if !strings.HasPrefix(copied, "California\n") || !strings.Contains(copied, "Poverty: 10%") {
		t.Errorf("unexpected clipboard text %q", copied)
	}
	if m.statusErr {
		t.Errorf("unexpected error status %q", m.Status())
	}
}

func TestCopyFailureReported(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, copiedMsg{err: errors.New("no display")})
	if !m.statusErr || !strings.Contains(m.Status(), "no display") {
		t.Errorf("status = %q, want copy error", m.Status())
	}
}

// ============================================================================
// Reload
// ============================================================================

func TestReloadAppliesNewRecords(t *testing.T) {
	next := testutil.TwoStates()
	next[0].Poverty = 12
	next = append(next, model.Record{ID: "NV", Poverty: 15, Age: 38, Income: 55000, Obesity: 27, Smokes: 17, Healthcare: 20})

	m := newTestModel(t, Options{Loader: func() ([]model.Record, error) { return next, nil }})
	m, cmd := send(m, keyPress("r"))
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	m, _ = send(m, cmd())

	if got := len(m.session.Records()); got != 3 {
		t.Fatalf("records = %d, want 3", got)
	}
	testutil.AssertContainsAll(t, m.Status(), "reloaded", "1 added (NV)", "1 changed (CA)")
	if !m.Animating() {
		t.Error("reload should animate")
	}
	if m.session.ActiveX() != model.ColumnPoverty || m.session.ActiveY() != model.ColumnHealthcare {
		t.Error("reload must keep the active columns")
	}
}

func TestReloadErrorKeepsData(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("n"))
	m, _ = send(m, reloadMsg{err: errors.New("bad row")})
	if !m.statusErr || !strings.Contains(m.Status(), "bad row") {
		t.Errorf("status = %q, want reload error", m.Status())
	}
	if len(m.session.Records()) != 2 || m.Hovered() != "CA" {
		t.Error("failed reload should leave the chart untouched")
	}
}

func TestReloadDropsMissingHover(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("p"))
	if m.Hovered() != "TX" {
		t.Fatalf("Hovered() = %q, want TX", m.Hovered())
	}
	m, _ = send(m, reloadMsg{records: testutil.TwoStates()[:1]})
	if m.Hovered() != "" {
		t.Errorf("hover on removed record should clear, got %q", m.Hovered())
	}
}

func TestReloadWithoutLoader(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := send(m, keyPress("r"))
	if cmd != nil || !m.statusErr {
		t.Error("reload without a loader should only report an error")
	}
}

func TestFileRemovedEvent(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, fileEventMsg{ev: watcher.Event{Kind: watcher.EventRemoved, Err: watcher.ErrFileRemoved}})
	if !m.statusErr || !strings.Contains(m.Status(), "removed") {
		t.Errorf("status = %q, want removal notice", m.Status())
	}
}

func TestFileChangedEventReloads(t *testing.T) {
	called := false
	m := newTestModel(t, Options{Loader: func() ([]model.Record, error) {
		called = true
		return testutil.TwoStates(), nil
	}})
	_, cmd := send(m, fileEventMsg{ev: watcher.Event{Kind: watcher.EventChanged}})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	cmd()
	if !called {
		t.Error("loader not invoked for a change event")
	}
}

// ============================================================================
// View and help
// ============================================================================

func TestViewShowsAxesAndSelectors(t *testing.T) {
	m := newTestModel(t, Options{Source: "data.csv"})
	view := m.View()
	var titles []string
	for _, c := range model.Columns() {
		titles = append(titles, c.Title())
	}
	testutil.AssertContainsAll(t, view, titles...)
	testutil.AssertContainsAll(t, view, selectorMarker+"In Poverty (%)", selectorMarker+"Lacks Healthcare (%)", "CA", "TX", "data.csv")
}

func TestLabelsToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("l"))
	if m.showLabels {
		t.Fatal("labels should be hidden")
	}
	for _, mk := range m.hitFrame().markers {
		if mk.col0 != mk.col1 {
			t.Errorf("hidden labels should not extend marker %s hit area", mk.id)
		}
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, keyPress("?"))
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	m, _ = send(m, keyPress("2"))
	if m.session.ActiveX() != model.ColumnPoverty {
		t.Error("keys must not reach the chart while help is open")
	}
	m, _ = send(m, keyPress("esc"))
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := send(m, keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestHelpMarkdownListsColumns(t *testing.T) {
	md := helpMarkdown(defaultKeyMap())
	for _, c := range model.Columns() {
		if !strings.Contains(md, c.Title()) {
			t.Errorf("help is missing %q", c.Title())
		}
	}
}
