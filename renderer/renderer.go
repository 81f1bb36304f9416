// Package renderer renders portfolio snapshots and news feeds as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/watchlist"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

var funcs = template.FuncMap{
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.DateOnly)
	},
	"stamp": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	// cell escapes the pipes of a table cell
	"cell": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
}

// allocationRow is a line of the allocation table.
type allocationRow struct {
	Label string
	Value folio.Money
	Share folio.Percent
}

// summaryView is the data of the summary template.
type summaryView struct {
	*folio.Snapshot
	Rows []allocationRow
}

// RenderHoldings renders the reconciled lots of a snapshot.
func RenderHoldings(s *folio.Snapshot) string {
	partials := map[string]string{"advisory": "advisory.md"}
	return renderTemplate("holdings", "holdings.md", partials, s)
}

// RenderSummary renders totals, allocation and P/L of a snapshot.
func RenderSummary(s *folio.Snapshot) string {
	v := summaryView{Snapshot: s}
	shares := s.Allocation.Shares()
	for i, label := range s.Allocation.Labels {
		value := s.Allocation.Values[i].In(s.Cash.Currency())
		v.Rows = append(v.Rows, allocationRow{Label: label, Value: value, Share: shares[i]})
	}
	partials := map[string]string{"advisory": "advisory.md"}
	return renderTemplate("summary", "summary.md", partials, v)
}

// RenderHistory renders a value series under title.
func RenderHistory(title string, points []folio.HistoryPoint) string {
	data := struct {
		Title  string
		Points []folio.HistoryPoint
	}{title, points}
	return renderTemplate("history", "history.md", nil, data)
}

// RenderNews renders a news feed.
func RenderNews(f watchlist.Feed) string {
	partials := map[string]string{"advisory": "advisory.md"}
	return renderTemplate("news", "news.md", partials, f)
}

// RenderQuote renders the quote of a watched symbol.
func RenderQuote(q watchlist.Quote) string {
	return renderTemplate("quote", "quote.md", nil, q)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
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
