package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownColumn is returned when a tag does not name a chart column.
var ErrUnknownColumn = errors.New("unknown column")

// Axis identifies one of the two chart axes.
type Axis int

const (
	AxisX Axis = iota // horizontal, demographic indicators
	AxisY             // vertical, health outcomes
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Other returns the opposite axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// ValueFormat controls how a metric value is decorated in tooltips and tick
// labels.
type ValueFormat int

const (
	FormatPlain   ValueFormat = iota // 38.6
	FormatPercent                    // 15.3%
	FormatDollars                    // $44000
)

// Column is one selectable metric of a Record.
type Column int

const (
	ColumnPoverty Column = iota
	ColumnAge
	ColumnIncome
	ColumnObesity
	ColumnSmokes
	ColumnHealthcare
	numColumns // Keep this last - used for bounds checks
)

type columnInfo struct {
	tag          string      // CSV header and selector tag
	title        string      // Selector label text
	tooltipLabel string      // Prefix in the tooltip body
	axis         Axis        // Axis the column can be selected on
	slot         int         // Selector row, 0 is nearest the axis
	format       ValueFormat // Tooltip value decoration
}

// columnTable is the single source of truth for per-column behaviour.
var columnTable = [numColumns]columnInfo{
	ColumnPoverty:    {tag: "poverty", title: "In Poverty (%)", tooltipLabel: "Poverty:", axis: AxisX, slot: 0, format: FormatPercent},
	ColumnAge:        {tag: "age", title: "Age (Median)", tooltipLabel: "Age:", axis: AxisX, slot: 1, format: FormatPlain},
	ColumnIncome:     {tag: "income", title: "Household Income (Median)", tooltipLabel: "Median Income:", axis: AxisX, slot: 2, format: FormatDollars},
	ColumnObesity:    {tag: "obesity", title: "Obese (%)", tooltipLabel: "Obesity:", axis: AxisY, slot: 2, format: FormatPercent},
	ColumnSmokes:     {tag: "smokes", title: "Smokes (%)", tooltipLabel: "Smokers:", axis: AxisY, slot: 1, format: FormatPercent},
	ColumnHealthcare: {tag: "healthcare", title: "Lacks Healthcare (%)", tooltipLabel: "Lacks Healthcare:", axis: AxisY, slot: 0, format: FormatPercent},
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	return c >= 0 && c < numColumns
}

func (c Column) info() columnInfo {
	if !c.Valid() {
		return columnInfo{tag: fmt.Sprintf("column(%d)", int(c))}
	}
	return columnTable[c]
}

// Tag returns the CSV header name, which is also the selector label tag.
func (c Column) Tag() string { return c.info().tag }

// String implements fmt.Stringer.
func (c Column) String() string { return c.Tag() }

// Title returns the axis selector label.
func (c Column) Title() string { return c.info().title }

// TooltipLabel returns the label preceding the value in a tooltip.
func (c Column) TooltipLabel() string { return c.info().tooltipLabel }

// Axis returns the axis this column belongs to.
func (c Column) Axis() Axis { return c.info().axis }

// Slot returns the selector row of the column, counted outward from its axis.
func (c Column) Slot() int { return c.info().slot }

// Format returns the value decoration used for the column.
func (c Column) Format() ValueFormat { return c.info().format }

// FormatValue renders v with the column's decoration.
func (c Column) FormatValue(v float64) string {
	return c.Decorate(FormatNumber(v))
}

// Decorate adds the column's unit to an already formatted number.
func (c Column) Decorate(n string) string {
	switch c.Format() {
	case FormatPercent:
		return n + "%"
	case FormatDollars:
		return "$" + n
	default:
		return n
	}
}

// MarshalText encodes the column as its tag.
func (c Column) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColumn, int(c))
	}
	return []byte(c.Tag()), nil
}

// UnmarshalText decodes a column tag.
func (c *Column) UnmarshalText(text []byte) error {
	parsed, err := ParseColumn(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColumn maps a tag such as "poverty" to its Column. Matching ignores
// case and surrounding whitespace.
func ParseColumn(tag string) (Column, error) {
	needle := strings.ToLower(strings.TrimSpace(tag))
	for c := Column(0); c < numColumns; c++ {
		if columnTable[c].tag == needle {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, tag)
}

// ParseAxisColumn parses tag and checks that it belongs to axis.
func ParseAxisColumn(axis Axis, tag string) (Column, error) {
	c, err := ParseColumn(tag)
	if err != nil {
		return 0, err
	}
	if c.Axis() != axis {
		return 0, fmt.Errorf("column %q is not selectable on the %s axis", tag, axis)
	}
	return c, nil
}

// Columns returns every column in declaration order.
func Columns() []Column {
	cols := make([]Column, 0, numColumns)
	for c := Column(0); c < numColumns; c++ {
		cols = append(cols, c)
	}
	return cols
}

// ColumnsFor returns the selectable columns of an axis in display order.
func ColumnsFor(axis Axis) []Column {
	var cols []Column
	for _, c := range Columns() {
		if c.Axis() == axis {
			cols = append(cols, c)
		}
	}
	return cols
}

// XColumns returns poverty, age and income.
func XColumns() []Column { return ColumnsFor(AxisX) }

// YColumns returns obesity, smokes and healthcare.
func YColumns() []Column { return ColumnsFor(AxisY) }

// FormatNumber renders v with the shortest decimal representation that
// round-trips, so 15.3 prints as "15.3" and 44000 as "44000".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
