// Package report renders an HTML run-report dashboard from a
// completed HarvestRun: one page summarizing per-period activity
// counts and per-cedula errors, in the spirit of the teacher's static
// site generator (grouped sections, inline CSS, sorted keys).
//
// Report generation is additive: callers skip it entirely when no
// output directory is configured (spec.md's non-goals exclude an
// external reporting collaborator, not a plain local summary).
package report

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saludunivalle/cosecha/internal/model"
)

// Write renders run as an HTML report at <dir>/report.html. dir is
// created if missing.
func Write(dir string, run *model.HarvestRun) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: creating %s: %w", dir, err)
	}

	page := renderPage(run)
	path := filepath.Join(dir, "report.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}
	return nil
}

// Summary renders a short plain-text summary suitable for a log line
// (spec.md §6's required run-summary).
func Summary(run *model.HarvestRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "harvest run: %d cedulas, %d periods, %d documents, %d critical errors",
		len(run.Cedulas), len(run.Periods), len(run.Documents), len(run.CriticalErrors))

	failed := 0
	for _, errs := range run.PerCedulaErrors {
		failed += len(errs)
	}
	if failed > 0 {
		fmt.Fprintf(&b, ", %d per-cedula failures", failed)
	}
	return b.String()
}

// periodCounts maps a period label to the number of assembled
// documents seen for it.
func periodCounts(run *model.HarvestRun) map[string]int {
	counts := map[string]int{}
	for _, doc := range run.Documents {
		counts[doc.PeriodLabel]++
	}
	return counts
}

func sortedStringKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCedulaKeys(m map[string][]model.CedulaError) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func renderPage(run *model.HarvestRun) string {
	var b strings.Builder

	b.WriteString("<!doctype html><html><head><meta charset='utf-8'>")
	b.WriteString("<title>cosecha run report</title>")
	b.WriteString("<style>" + reportCSS() + "</style>")
	b.WriteString("</head><body>")

	b.WriteString("<header><h1>Harvest run report</h1><p>")
	b.WriteString(html.EscapeString(run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString("</p></header>")

	b.WriteString("<section class='summary'><p>")
	b.WriteString(html.EscapeString(Summary(run)))
	b.WriteString("</p></section>")

	counts := periodCounts(run)
	b.WriteString("<section><h2>Documents per period</h2><ul>")
	for _, label := range sortedStringKeys(counts) {
		fmt.Fprintf(&b, "<li><span class='period'>%s</span><span class='count'>%d</span></li>",
			html.EscapeString(label), counts[label])
	}
	b.WriteString("</ul></section>")

	if len(run.PerCedulaErrors) > 0 {
		b.WriteString("<section><h2>Per-cedula errors</h2>")
		for _, cedula := range sortedCedulaKeys(run.PerCedulaErrors) {
			fmt.Fprintf(&b, "<h3>%s</h3><ul>", html.EscapeString(cedula))
			for _, e := range run.PerCedulaErrors[cedula] {
				fmt.Fprintf(&b, "<li><span class='period'>%s</span>: %s</li>",
					html.EscapeString(e.Period), html.EscapeString(e.Msg))
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</section>")
	}

	if len(run.CriticalErrors) > 0 {
		b.WriteString("<section class='critical'><h2>Critical errors</h2><ul>")
		for _, e := range run.CriticalErrors {
			b.WriteString("<li>" + html.EscapeString(e) + "</li>")
		}
		b.WriteString("</ul></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func reportCSS() string {
	return `
body{font-family:sans-serif;margin:2rem;color:#222}
header p{color:#666}
section{margin-bottom:2rem}
ul{list-style:none;padding-left:0}
li{padding:.25rem 0;border-bottom:1px solid #eee}
.period{display:inline-block;width:8rem;font-weight:bold}
.critical{color:#a00}
`
}
