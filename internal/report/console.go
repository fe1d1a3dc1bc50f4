// Package report renders a comparison report for people (console, HTML) and machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Delete1994/PDF-Compare/internal/result"
	"github.com/Delete1994/PDF-Compare/internal/textdiff"
)

const (
	consoleDiffLimit   = 10
	consoleContentSize = 60
	rule               = "======================================================================"
)

// WriteConsole prints a human readable summary. With detailed set the first differences of the
// text comparison are listed with their page and line.
func WriteConsole(w io.Writer, rep *result.Report, detailed bool) error {
	p := &printer{w: w}
	p.line(rule)
	p.line("PDF comparison")
	p.line(rule)
	p.line("left:  %s", rep.Left)
	p.line("right: %s", rep.Right)

	for _, res := range rep.Ordered() {
		p.line("")
		if res.Failed() {
			p.line("%s: error: %s", title(res.Method()), res.Message())
			continue
		}
		identical, _ := res.Identical()
		p.line("%s: %s", title(res.Method()), verdict(identical))
		switch m := res.Metrics().(type) {
		case result.BasicMetrics:
			p.line("   file size: %d vs %d bytes", m.FileSize.Left, m.FileSize.Right)
			if m.PageCount != nil {
				p.line("   pages:     %d vs %d", m.PageCount.Left, m.PageCount.Right)
			}
		case result.TextMetrics:
			if !identical {
				p.text(m, detailed)
			}
		case result.VisualMetrics:
			p.line("   similarity: %s", percent(m.OverallSimilarity, 2))
			p.line("   pages:      %d", m.PageCount)
		case result.StructureMetrics:
			p.line("   pages: %d vs %d", m.PageCount.Left, m.PageCount.Right)
		case result.MetadataMetrics:
			p.line("   file hash: %s", verdict(m.FileHash.Identical))
		}
	}

	p.line("")
	p.line(rule)
	if rep.Summary.OverallIdentical {
		p.line("Result: the documents are identical")
	} else {
		p.line("Result: the documents differ")
	}
	p.line("Checks passed: %d/%d", rep.Summary.ChecksPassed, rep.Summary.ChecksTotal)
	p.line(rule)
	return p.err
}

func (p *printer) text(m result.TextMetrics, detailed bool) {
	p.line("   similarity:    %s", percent(m.Similarity, 2))
	p.line("   lines added:   %d", m.Statistics.LinesAdded)
	p.line("   lines removed: %d", m.Statistics.LinesRemoved)
	p.line("   total changes: %d", m.Statistics.TotalChanges)
	if !detailed || len(m.Entries) == 0 {
		return
	}
	p.line("")
	p.line("   Differences (first %d):", consoleDiffLimit)
	for i, e := range m.Entries {
		if i == consoleDiffLimit {
			p.line("   ... %d more", len(m.Entries)-consoleDiffLimit)
			break
		}
		p.line("   %d. [%s] %s page %d line %d: %s",
			i+1, e.Kind, sideLabel(e.Side), e.Page, e.GlobalLine, truncate(e.Content, consoleContentSize))
	}
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, rep *result.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// printer keeps the first write error so the rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func title(m result.Method) string {
	words := strings.Split(string(m), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func verdict(identical bool) string {
	if identical {
		return "identical"
	}
	return "different"
}

func sideLabel(s textdiff.Side) string {
	if s == textdiff.Right {
		return "PDF2"
	}
	return "PDF1"
}

func percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

// truncate cuts s to n runes and marks the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
