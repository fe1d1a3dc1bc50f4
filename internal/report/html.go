package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Delete1994/PDF-Compare/internal/result"
	"github.com/Delete1994/PDF-Compare/internal/textdiff"
)

const (
	htmlDiffLimit   = 50
	htmlContentSize = 100
)

type htmlMetric struct {
	Label string
	Value string
}

type htmlSegment struct {
	Class string
	Text  string
}

type htmlRow struct {
	Index      int
	Class      string
	Kind       string
	File       string
	Page       int
	LineInPage int
	Line       int
	Segments   []htmlSegment
}

type htmlSection struct {
	Title     string
	Error     string
	Identical bool
	Metrics   []htmlMetric
	Rows      []htmlRow
	Hidden    int
	Preview   []string
}

type htmlPage struct {
	Generated string
	Left      string
	Right     string
	Sections  []htmlSection
	Summary   result.Summary
	Methods   int
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>PDF comparison report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 8px; margin-bottom: 30px; }
        .header h1 { margin: 0; font-size: 2em; }
        .header p { margin: 5px 0; opacity: 0.9; }
        .section { margin: 20px 0; padding: 20px; border: 1px solid #e0e0e0; border-radius: 8px; background: #fafafa; }
        .section h2 { margin-top: 0; color: #333; border-bottom: 2px solid #667eea; padding-bottom: 10px; }
        .status-same { color: #4caf50; font-weight: bold; }
        .status-diff { color: #f44336; font-weight: bold; }
        .status-error { color: #ff9800; font-weight: bold; }
        table { border-collapse: collapse; width: 100%; margin-top: 15px; background: white; }
        th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
        th { background-color: #667eea; color: white; font-weight: bold; }
        tr.removed { background-color: #ffebee; }
        tr.added { background-color: #e8f5e9; }
        td.content { font-family: monospace; white-space: pre-wrap; }
        del { background-color: #ffcdd2; text-decoration: line-through; }
        ins { background-color: #c8e6c9; text-decoration: none; }
        pre.preview { background: white; padding: 10px; border: 1px solid #ddd; overflow-x: auto; }
        .metric { display: inline-block; margin: 10px 20px 10px 0; padding: 10px 15px; background: white; border-radius: 5px; border-left: 4px solid #667eea; }
        .metric-label { font-size: 0.9em; color: #666; }
        .metric-value { font-size: 1.5em; font-weight: bold; color: #333; }
        .summary { background: #e3f2fd; padding: 20px; border-radius: 8px; border-left: 5px solid #2196f3; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>PDF comparison report</h1>
            <p>Generated: {{.Generated}}</p>
            <p>File 1: {{.Left}}</p>
            <p>File 2: {{.Right}}</p>
        </div>
{{range .Sections}}
        <div class="section">
            <h2>{{.Title}}</h2>
{{- if .Error}}
            <p class="status-error">{{.Error}}</p>
{{- else}}
            {{if .Identical}}<p class="status-same">Identical</p>{{else}}<p class="status-diff">Different</p>{{end}}
{{- range .Metrics}}
            <div class="metric">
                <div class="metric-label">{{.Label}}</div>
                <div class="metric-value">{{.Value}}</div>
            </div>
{{- end}}
{{- if .Rows}}
            <h3>Differences</h3>
            <table>
                <tr><th>#</th><th>Type</th><th>File</th><th>Page</th><th>Line in page</th><th>Line</th><th>Content</th></tr>
{{- range .Rows}}
                <tr class="{{.Class}}">
                    <td>{{.Index}}</td>
                    <td><strong>{{.Kind}}</strong></td>
                    <td>{{.File}}</td>
                    <td>{{.Page}}</td>
                    <td>{{.LineInPage}}</td>
                    <td>{{.Line}}</td>
                    <td class="content">{{range .Segments}}{{if eq .Class "del"}}<del>{{.Text}}</del>{{else if eq .Class "ins"}}<ins>{{.Text}}</ins>{{else}}{{.Text}}{{end}}{{end}}</td>
                </tr>
{{- end}}
{{- if .Hidden}}
                <tr><td colspan="7" style="text-align: center; color: #999;">{{.Hidden}} more differences not shown</td></tr>
{{- end}}
            </table>
{{- end}}
{{- if .Preview}}
            <h3>Diff preview</h3>
            <pre class="preview">{{range .Preview}}{{.}}{{end}}</pre>
{{- end}}
{{- end}}
        </div>
{{end}}
        <div class="summary">
            <h2>Summary</h2>
            {{if .Summary.OverallIdentical}}<p class="status-same">The documents are identical</p>{{else}}<p class="status-diff">The documents differ</p>{{end}}
            <div class="metric">
                <div class="metric-label">Checks passed</div>
                <div class="metric-value">{{.Summary.ChecksPassed}}/{{.Summary.ChecksTotal}}</div>
            </div>
            <div class="metric">
                <div class="metric-label">Methods used</div>
                <div class="metric-value">{{.Methods}}</div>
            </div>
        </div>
    </div>
</body>
</html>
`))

// WriteHTML renders the report as a standalone HTML page. All document text is escaped.
func WriteHTML(w io.Writer, rep *result.Report) error {
	view := htmlPage{
		Generated: rep.Timestamp.Format(time.DateTime),
		Left:      rep.Left,
		Right:     rep.Right,
		Summary:   rep.Summary,
		Methods:   len(rep.Selected),
	}
	for _, res := range rep.Ordered() {
		view.Sections = append(view.Sections, section(res))
	}
	if err := page.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

func section(res result.MethodResult) htmlSection {
	s := htmlSection{Title: title(res.Method())}
	if res.Failed() {
		s.Error = res.Message()
		return s
	}
	s.Identical, _ = res.Identical()

	switch m := res.Metrics().(type) {
	case result.BasicMetrics:
		s.Metrics = append(s.Metrics, htmlMetric{"File size", fmt.Sprintf("%d / %d bytes", m.FileSize.Left, m.FileSize.Right)})
		if m.PageCount != nil {
			s.Metrics = append(s.Metrics, htmlMetric{"Pages", fmt.Sprintf("%d / %d", m.PageCount.Left, m.PageCount.Right)})
		}
	case result.TextMetrics:
		s.Metrics = append(s.Metrics,
			htmlMetric{"Similarity", percent(m.Similarity, 1)},
			htmlMetric{"Lines added", fmt.Sprint(m.Statistics.LinesAdded)},
			htmlMetric{"Lines removed", fmt.Sprint(m.Statistics.LinesRemoved)},
		)
		s.Rows, s.Hidden = rows(m.Entries)
		s.Preview = m.Preview
	case result.VisualMetrics:
		s.Metrics = append(s.Metrics,
			htmlMetric{"Visual similarity", percent(m.OverallSimilarity, 1)},
			htmlMetric{"Pages", fmt.Sprint(m.PageCount)},
		)
	case result.StructureMetrics:
		tables := func(side func(result.PageTables) int) int {
			n := 0
			for _, t := range m.Tables {
				n += side(t)
			}
			return n
		}
		s.Metrics = append(s.Metrics,
			htmlMetric{"Pages", fmt.Sprintf("%d / %d", m.PageCount.Left, m.PageCount.Right)},
			htmlMetric{"Tables", fmt.Sprintf("%d / %d",
				tables(func(t result.PageTables) int { return t.Left }),
				tables(func(t result.PageTables) int { return t.Right }))},
		)
	case result.MetadataMetrics:
		s.Metrics = append(s.Metrics,
			htmlMetric{"File hash", verdict(m.FileHash.Identical)},
			htmlMetric{"Fields", fmt.Sprint(len(m.Fields))},
		)
	}
	return s
}

// rows builds the difference table. A removed line that was replaced by an added line in the
// same change block is shown with its character level changes.
func rows(entries []textdiff.Entry) ([]htmlRow, int) {
	pairs := textdiff.Pairs(entries)
	partner := make(map[int]int, len(pairs))
	for r, a := range pairs {
		partner[r] = a
		partner[a] = r
	}

	n := min(len(entries), htmlDiffLimit)
	out := make([]htmlRow, 0, n)
	for i, e := range entries[:n] {
		row := htmlRow{
			Index:      i + 1,
			Class:      e.Kind.String(),
			Kind:       e.Kind.String(),
			File:       sideLabel(e.Side),
			Page:       e.Page,
			LineInPage: e.LineInPage,
			Line:       e.GlobalLine,
		}
		if j, ok := partner[i]; ok {
			row.Segments = inline(e, entries[j])
		} else {
			row.Segments = []htmlSegment{{Text: truncate(e.Content, htmlContentSize)}}
		}
		out = append(out, row)
	}
	return out, len(entries) - n
}

// inline returns the segments of e relative to its partner, capped at the content limit.
func inline(e, other textdiff.Entry) []htmlSegment {
	removed, added := e.Content, other.Content
	if e.Kind == textdiff.Added {
		removed, added = other.Content, e.Content
	}

	var out []htmlSegment
	budget := htmlContentSize
	for _, seg := range textdiff.Inline(removed, added) {
		class := ""
		switch seg.Op {
		case textdiff.SegmentDelete:
			if e.Kind == textdiff.Added {
				continue
			}
			class = "del"
		case textdiff.SegmentInsert:
			if e.Kind == textdiff.Removed {
				continue
			}
			class = "ins"
		}
		text := []rune(seg.Text)
		if len(text) > budget {
			out = append(out, htmlSegment{Class: class, Text: string(text[:budget]) + "..."})
			return out
		}
		budget -= len(text)
		out = append(out, htmlSegment{Class: class, Text: seg.Text})
	}
	return out
}
