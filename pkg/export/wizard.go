package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// WizardChoices is what the export wizard collects.
type WizardChoices struct {
	X        string
	Y        string
	Formats  []string
	Dir      string
	BaseName string
}

// Validate checks the choices and resolves them to typed values.
func (c WizardChoices) Validate() (model.Column, model.Column, []Format, error) {
	x, err := model.ParseAxisColumn(model.AxisX, c.X)
	if err != nil {
		return 0, 0, nil, err
	}
	y, err := model.ParseAxisColumn(model.AxisY, c.Y)
	if err != nil {
		return 0, 0, nil, err
	}
	if len(c.Formats) == 0 {
		return 0, 0, nil, errors.New("pick at least one format")
	}
	formats, err := ParseFormats(c.Formats)
	if err != nil {
		return 0, 0, nil, err
	}
	if strings.TrimSpace(c.Dir) == "" {
		return 0, 0, nil, errors.New("output directory is required")
	}
	if strings.ContainsRune(c.BaseName, filepath.Separator) {
		return 0, 0, nil, fmt.Errorf("file name %q must not contain a path separator", c.BaseName)
	}
	return x, y, formats, nil
}

// Wizard asks for the axes, formats and destination of an export.
type Wizard struct {
	choices WizardChoices
}

// NewWizard seeds the form with the current axes and configured defaults.
func NewWizard(x, y model.Column, formats []string, dir string) *Wizard {
	if len(formats) == 0 {
		formats = []string{string(FormatSVG), string(FormatPNG), string(FormatHTML)}
	}
	if dir == "" {
		dir = "."
	}
	return &Wizard{choices: WizardChoices{
		X:        x.Tag(),
		Y:        y.Tag(),
		Formats:  append([]string(nil), formats...),
		Dir:      dir,
		BaseName: DefaultBaseName,
	}}
}

// Choices returns the current answers.
func (w *Wizard) Choices() WizardChoices { return w.choices }

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm falls back to huh's line-based accessible mode without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func columnOptions(axis model.Axis) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, c := range model.ColumnsFor(axis) {
		opts = append(opts, huh.NewOption(c.Title(), c.Tag()))
	}
	return opts
}

// Form builds the wizard form bound to the wizard's choices.
func (w *Wizard) Form() *huh.Form {
	formatOpts := []huh.Option[string]{
		huh.NewOption("SVG snapshot", string(FormatSVG)),
		huh.NewOption("PNG snapshot", string(FormatPNG)),
		huh.NewOption("Interactive HTML page", string(FormatHTML)),
	}
	return newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Horizontal axis").
				Options(columnOptions(model.AxisX)...).
				Value(&w.choices.X),
			huh.NewSelect[string]().
				Title("Vertical axis").
				Options(columnOptions(model.AxisY)...).
				Value(&w.choices.Y),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Formats").
				Options(formatOpts...).
				Value(&w.choices.Formats).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return errors.New("pick at least one format")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output directory").
				Value(&w.choices.Dir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("File name (without extension)").
				Value(&w.choices.BaseName),
		),
	)
}

// Run shows the form and returns the validated answers.
func (w *Wizard) Run() (WizardChoices, error) {
	fmt.Println("Export the chart")
	fmt.Println("────────────────")
	if err := w.Form().Run(); err != nil {
		return WizardChoices{}, err
	}
	if _, _, _, err := w.choices.Validate(); err != nil {
		return WizardChoices{}, err
	}
	return w.choices, nil
}
