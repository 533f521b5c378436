// Package testutil provides deterministic dataset fixtures and assertions
// shared by the package tests.
package testutil

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// StateCodes are the two-letter codes used for generated record ids, in
// alphabetical order of state name.
var StateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID",
	"IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA",
	"RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// metricRange is the realistic span of each column in the state dataset.
var metricRange = map[model.Column][2]float64{
	model.ColumnPoverty:    {9, 22},
	model.ColumnAge:        {30, 45},
	model.ColumnIncome:     {39000, 76000},
	model.ColumnObesity:    {21, 36},
	model.ColumnSmokes:     {9, 27},
	model.ColumnHealthcare: {4, 25},
}

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed     int64  // 0 picks a fixed default so output is reproducible
	IDPrefix string // when set, ids are prefix + index instead of state codes
	WithName bool   // fill Record.Name
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42, WithName: true}
}

// Generator creates synthetic datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Records returns n records with metrics drawn uniformly from realistic
// ranges, rounded to one decimal (income to whole dollars).
func (g *Generator) Records(n int) []model.Record {
	records := make([]model.Record, n)
	for i := range records {
		r := model.Record{ID: g.id(i)}
		if g.cfg.WithName {
			r.Name = "State " + r.ID
		}
		for _, c := range model.Columns() {
			span := metricRange[c]
			v := span[0] + g.rng.Float64()*(span[1]-span[0])
			if c == model.ColumnIncome {
				v = math.Round(v)
			} else {
				v = math.Round(v*10) / 10
			}
			r.SetValue(c, v)
		}
		records[i] = r
	}
	return records
}

func (g *Generator) id(i int) string {
	if g.cfg.IDPrefix == "" && i < len(StateCodes) {
		return StateCodes[i]
	}
	prefix := g.cfg.IDPrefix
	if prefix == "" {
		prefix = "S"
	}
	return fmt.Sprintf("%s%d", prefix, i+1)
}

// ToCSV renders records with the standard header, including the optional
// state column and an ignored margin-of-error column. Fields are quoted
// where needed.
func ToCSV(records []model.Record) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"id", "state", "abbr"}
	for _, c := range model.Columns() {
		header = append(header, c.Tag())
	}
	header = append(header, "povertyMoe")
	_ = w.Write(header)

	for i, r := range records {
		row := []string{strconv.Itoa(i + 1), r.Name, r.ID}
		for _, c := range model.Columns() {
			row = append(row, model.FormatNumber(r.Value(c)))
		}
		row = append(row, "0.5")
		_ = w.Write(row)
	}
	w.Flush()
	return sb.String()
}

// QuickRecords returns n deterministic records.
func QuickRecords(n int) []model.Record {
	return NewDefault().Records(n)
}

// TwoStates returns the small fixture used throughout the chart tests:
// poverty 10 and 20, so the poverty domain is exactly [9, 22].
func TwoStates() []model.Record {
	return []model.Record{
		{ID: "CA", Name: "California", Poverty: 10, Age: 36, Income: 61933, Obesity: 24.7, Smokes: 12, Healthcare: 12.1},
		{ID: "TX", Name: "Texas", Poverty: 20, Age: 34.3, Income: 53207, Obesity: 32.4, Smokes: 15.9, Healthcare: 22.1},
	}
}
