// Package model defines the geography records plotted by healthscatter and
// the enumerated metric columns that can be placed on each axis.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Record is one geography (a US state) with its six metrics.
type Record struct {
	ID   string `json:"id"`             // Short code, e.g. "CA"
	Name string `json:"name,omitempty"` // Full name, e.g. "California"

	Poverty    float64 `json:"poverty"`
	Age        float64 `json:"age"`
	Income     float64 `json:"income"`
	Obesity    float64 `json:"obesity"`
	Smokes     float64 `json:"smokes"`
	Healthcare float64 `json:"healthcare"`
}

// Label returns the name shown as the tooltip headline.
func (r Record) Label() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.ID
}

// Value returns the metric stored for column c.
func (r Record) Value(c Column) float64 {
	switch c {
	case ColumnPoverty:
		return r.Poverty
	case ColumnAge:
		return r.Age
	case ColumnIncome:
		return r.Income
	case ColumnObesity:
		return r.Obesity
	case ColumnSmokes:
		return r.Smokes
	case ColumnHealthcare:
		return r.Healthcare
	default:
		return math.NaN()
	}
}

// SetValue stores v as the metric for column c.
func (r *Record) SetValue(c Column, v float64) {
	switch c {
	case ColumnPoverty:
		r.Poverty = v
	case ColumnAge:
		r.Age = v
	case ColumnIncome:
		r.Income = v
	case ColumnObesity:
		r.Obesity = v
	case ColumnSmokes:
		r.Smokes = v
	case ColumnHealthcare:
		r.Healthcare = v
	}
}

// Validate checks that the record has an identifier and six finite metrics.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("record id cannot be empty")
	}
	for _, c := range Columns() {
		v := r.Value(c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("record %s: %s is not a finite number", r.ID, c.Tag())
		}
	}
	return nil
}
