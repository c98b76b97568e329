package main

import (
	"fmt"
	"os"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/report"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

const sample = "testdata/erd/schema.sql"

func main() {
	source, err := os.ReadFile(sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", sample, err)
		os.Exit(1)
	}

	// Annotate the sample schema without touching it
	fixed, err := annotate.New().Fix(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error annotating %s: %v\n", sample, err)
		os.Exit(1)
	}

	res := results.New()
	res.CheckOnly = true
	res.Add(sample, results.FileResult{
		Status:  results.StatusFixed,
		Splices: fixed.Splices,
	})
	res.Add("testdata/erd/broken.sql", results.FileResult{
		Status: results.StatusFailed,
		Error:  "broken.sql: Column 'email' is not defined in 'customer' table statements.",
	})

	// Generate HTML report
	reporter := report.NewHTMLReporter()
	file, err := os.Create("testdata/html_demo/report.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating report file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	err = reporter.Format(res, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	s := res.Summarize()
	fmt.Println("✓ HTML report generated: testdata/html_demo/report.html")
	fmt.Printf("  Comments: %d (%d truncated)\n", s.Splices, s.Truncated)
}
