// Package renderer turns replay results into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// EpisodesRenderOptions holds configuration for rendering the episodes report.
type EpisodesRenderOptions struct {
	SkipTotals bool // Do not render the totals section.
	SkipFills  bool // Do not render the fills of each episode.
}

// RenderLedger renders the ledger report to a markdown string.
func RenderLedger(l *Ledger) string {
	return renderTemplate("ledger", "ledger.md", nil, l)
}

// RenderEpisodes renders the episodes report to a markdown string.
func RenderEpisodes(e *Episodes, opts EpisodesRenderOptions) string {
	partials := map[string]string{
		"episodes_totals": "episodes_totals.md",
		"episodes_fills":  "episodes_fills.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipTotals {
		partials["episodes_totals"] = ""
	}
	if opts.SkipFills {
		partials["episodes_fills"] = ""
	}
	return renderTemplate("episodes", "episodes.md", partials, e)
}

// RenderBalances renders the balances report to a markdown string.
func RenderBalances(b *Balances) string {
	return renderTemplate("balances", "balances.md", nil, b)
}

// RenderPnL renders the realized P&L report to a markdown string.
func RenderPnL(p *PnL) string {
	return renderTemplate("pnl", "pnl.md", nil, p)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// timeLayout is how timestamps are shown in reports.
const timeLayout = "2006-01-02 15:04"

// instrument makes an instrument key safe for a markdown table cell.
func instrument(key string) string { return strings.ReplaceAll(key, "|", " ") }
