package probe

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintReport writes the results as a table followed by a summary line.
// Colors are dropped automatically when stdout is not a terminal.
func PrintReport(w io.Writer, r *Report) {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Check", "Result", "Requests", "Took", "Detail"})
	table.SetAutoWrapText(false)
	passed := 0
	for _, res := range r.Results {
		status := fail("FAIL")
		if res.Passed {
			status = pass("PASS")
			passed++
		}
		table.Append([]string{res.Name, status, fmt.Sprint(res.Requests), res.Duration.Round(time.Millisecond).String(), res.Detail})
	}
	table.Render()

	summary := pass
	if passed < len(r.Results) {
		summary = fail
	}
	_, _ = fmt.Fprintln(w, summary(fmt.Sprintf("%d/%d checks passed", passed, len(r.Results))))
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Happiness Probe
===============

Checks the invariants of a running happiness server.

Usage:
  go run ./cmd/happiness-probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8050")
  -timeout duration
        HTTP request timeout (default 10s)
  -workers int
        Concurrent requests per check (default 4)
  -pairs int
        Country pairs for the comparison check (default 10)
  -verbose
        Log every request
  -help
        Show this help message

Checks:
  health, happiest has rank 1 each year, correlations ascending in [-1,1],
  comparison antisymmetry, global average covers all years, unsupported year
  is 404, chart images are png.

Exit status is 1 when any check fails.
`)
}
