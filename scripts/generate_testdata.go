//go:build ignore

// generate_testdata.go writes synthetic CSV datasets for manual and
// benchmark runs of hs.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/bench/states.csv  (51 rows, state codes)
//	testdata/bench/medium.csv  (500 rows)
//	testdata/bench/large.csv   (5000 rows)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/healthscatter/pkg/testutil"
)

type datasetSpec struct {
	name     string
	size     int
	idPrefix string
}

var datasets = []datasetSpec{
	{"states", len(testutil.StateCodes), ""},
	{"medium", 500, "S"},
	{"large", 5000, "S"},
}

func main() {
	outputDir := filepath.Join("testdata", "bench")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d rows)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.size), // reproducible per size
			IDPrefix: ds.idPrefix,
			WithName: true,
		})
		csv := testutil.ToCSV(gen.Records(ds.size))

		outputPath := filepath.Join(outputDir, ds.name+".csv")
		if err := os.WriteFile(outputPath, []byte(csv), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(csv))
	}

	fmt.Println("\nDone! Datasets created in", outputDir)
}
