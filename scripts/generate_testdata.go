//go:build ignore

// generate_testdata.go creates standard row files for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/benchmark/small.jsonl   (100 rows)
//	tests/testdata/benchmark/medium.jsonl  (1000 rows)
//	tests/testdata/benchmark/large.jsonl   (5000 rows)
//	tests/testdata/benchmark/huge.jsonl    (20000 rows)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
}

var datasets = []datasetSpec{
	{"small", 100},
	{"medium", 1000},
	{"large", 5000},
	{"huge", 20000},
}

var names = []string{
	"src", "docs", "README.md", "main.go", "config.yaml",
	"assets", "logo.png", "Makefile", "internal", "notes.txt",
}

func main() {
	outputDir := "tests/testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d rows)...\n", ds.name, ds.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.size), // Reproducible per-size
			IDPrefix: "n",
			Columns:  2,
			TagMix:   []model.Tag{model.TagNone, model.TagNone, model.TagCollapsed},
		})
		rows := gen.Forest(ds.size, rootProbability(ds.size))
		addListingContent(rows)

		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := writeRows(outputPath, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		info, _ := os.Stat(outputPath)
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, info.Size())
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

// rootProbability keeps trees deeper as the dataset grows.
func rootProbability(size int) float64 {
	switch {
	case size <= 100:
		return 0.1
	case size <= 1000:
		return 0.05
	case size <= 5000:
		return 0.02
	default:
		return 0.01
	}
}

// addListingContent makes the rows look like a file listing.
func addListingContent(rows []*model.Row) {
	for i, row := range rows {
		row.Cells[0].Text = fmt.Sprintf("%s-%d", names[i%len(names)], i)
		row.Cells[1].Text = fmt.Sprintf("%d KB", (i*37)%512+1)
	}
}

func writeRows(path string, rows []*model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := loader.WriteJSONL(f, rows, 0); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
