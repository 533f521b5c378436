package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// keyMap lists every binding shown in the help bar and overlay.
type keyMap struct {
	XPoverty    key.Binding
	XAge        key.Binding
	XIncome     key.Binding
	YObesity    key.Binding
	YSmokes     key.Binding
	YHealthcare key.Binding
	NextPoint   key.Binding
	PrevPoint   key.Binding
	ClearHover  key.Binding
	Copy        key.Binding
	Labels      key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		XPoverty:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "x: poverty")),
		XAge:        key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "x: age")),
		XIncome:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "x: income")),
		YObesity:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "y: obesity")),
		YSmokes:     key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "y: smokes")),
		YHealthcare: key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "y: healthcare")),
		NextPoint:   key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n", "next state")),
		PrevPoint:   key.NewBinding(key.WithKeys("p", "shift+tab"), key.WithHelp("p", "prev state")),
		ClearHover:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide tooltip")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy tooltip")),
		Labels:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle labels")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload data")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// columnKeys maps the six column bindings to selector tags.
func (k keyMap) columnKeys() []struct {
	binding key.Binding
	tag     string
} {
	return []struct {
		binding key.Binding
		tag     string
	}{
		{k.XPoverty, model.ColumnPoverty.Tag()},
		{k.XAge, model.ColumnAge.Tag()},
		{k.XIncome, model.ColumnIncome.Tag()},
		{k.YObesity, model.ColumnObesity.Tag()},
		{k.YSmokes, model.ColumnSmokes.Tag()},
		{k.YHealthcare, model.ColumnHealthcare.Tag()},
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPoint, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.XPoverty, k.XAge, k.XIncome},
		{k.YObesity, k.YSmokes, k.YHealthcare},
		{k.NextPoint, k.PrevPoint, k.ClearHover, k.Copy},
		{k.Labels, k.Reload, k.Help, k.Quit},
	}
}
