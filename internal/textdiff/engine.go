// Package textdiff turns two page-segmented text extractions into a line-level edit script and
// locates every changed line on its page.
package textdiff

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind tells whether a line was removed from the left document or added by the right one.
type Kind int

const (
	Removed Kind = iota
	Added
)

func (k Kind) String() string {
	if k == Added {
		return "added"
	}
	return "removed"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Side names the document an entry was taken from.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Context holds the neighbouring lines of an entry in its own document.
type Context struct {
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// Entry is one non-matching line.
type Entry struct {
	Kind       Kind    `json:"type"`
	Content    string  `json:"content"`
	Page       int     `json:"page"`
	LineInPage int     `json:"line_in_page"`
	GlobalLine int     `json:"line"`
	Side       Side    `json:"file"`
	Context    Context `json:"context"`
	// Block numbers contiguous runs of changes, starting at 0.
	Block int `json:"block"`
}

// Stats summarises a comparison.
type Stats struct {
	LinesAdded     int `json:"lines_added"`
	LinesRemoved   int `json:"lines_removed"`
	TotalChanges   int `json:"total_changes"`
	CharCountLeft  int `json:"char_count1"`
	CharCountRight int `json:"char_count2"`
	LineCountLeft  int `json:"line_count1"`
	LineCountRight int `json:"line_count2"`
}

type Options struct {
	// Detailed resolves every change to page coordinates. When false only a preview of the
	// unified diff is produced.
	Detailed     bool
	ContextLines int
	PreviewLines int
	LeftName     string
	RightName    string
}

func DefaultOptions() Options {
	return Options{
		Detailed:     true,
		ContextLines: 2,
		PreviewLines: 20,
		LeftName:     "left",
		RightName:    "right",
	}
}

type Result struct {
	Entries   []Entry
	Identical bool
	Stats     Stats
	// Preview holds the first lines of a unified diff when no positional detail was requested.
	Preview []string
}

// Compare diffs left against right.
func Compare(left, right Document, opts Options) Result {
	leftLines, leftSpans := Flatten(left)
	rightLines, rightSpans := Flatten(right)
	leftRaw, rightRaw := left.Raw(), right.Raw()

	res := Result{
		Stats: Stats{
			CharCountLeft:  utf8.RuneCountInString(leftRaw),
			CharCountRight: utf8.RuneCountInString(rightRaw),
			LineCountLeft:  len(leftLines),
			LineCountRight: len(rightLines),
		},
	}

	if opts.Detailed {
		res.Entries = locate(leftLines, rightLines, leftSpans, rightSpans, opts.ContextLines)
		for _, e := range res.Entries {
			if e.Kind == Added {
				res.Stats.LinesAdded++
			} else {
				res.Stats.LinesRemoved++
			}
		}
	} else {
		res.Stats.LinesAdded, res.Stats.LinesRemoved = countChanges(leftLines, rightLines)
	}
	res.Stats.TotalChanges = res.Stats.LinesAdded + res.Stats.LinesRemoved

	if !opts.Detailed || len(res.Entries) == 0 {
		res.Preview = Preview(leftLines, rightLines, opts)
	}

	res.Identical = len(res.Entries) == 0 && res.Stats.TotalChanges == 0 && leftRaw == rightRaw
	return res
}

// locate walks the edit script with one cursor per side and resolves each change to its page.
func locate(a, b []string, aSpans, bSpans Spans, contextLines int) []Entry {
	var entries []Entry
	i, j := 0, 0
	block, inChange := -1, false
	for _, op := range EditScript(a, b) {
		if op == Keep {
			i++
			j++
			inChange = false
			continue
		}
		if !inChange {
			block++
			inChange = true
		}
		switch op {
		case Remove:
			page, line := aSpans.Resolve(i + 1)
			entries = append(entries, Entry{
				Kind:       Removed,
				Content:    a[i],
				Page:       page,
				LineInPage: line,
				GlobalLine: i + 1,
				Side:       Left,
				Context:    contextAt(a, i, contextLines),
				Block:      block,
			})
			i++
		case Add:
			page, line := bSpans.Resolve(j + 1)
			entries = append(entries, Entry{
				Kind:       Added,
				Content:    b[j],
				Page:       page,
				LineInPage: line,
				GlobalLine: j + 1,
				Side:       Right,
				Context:    contextAt(b, j, contextLines),
				Block:      block,
			})
			j++
		}
	}
	return entries
}

func contextAt(lines []string, idx, size int) Context {
	lo := max(0, idx-size)
	hi := min(len(lines), idx+1+size)
	return Context{
		Before: append([]string{}, lines[lo:idx]...),
		After:  append([]string{}, lines[idx+1:hi]...),
	}
}

// countChanges counts changed lines from difflib opcodes without resolving positions.
func countChanges(a, b []string) (added, removed int) {
	m := difflib.NewMatcher(a, b)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'd':
			removed += op.I2 - op.I1
		case 'i':
			added += op.J2 - op.J1
		case 'r':
			removed += op.I2 - op.I1
			added += op.J2 - op.J1
		}
	}
	return added, removed
}

// Preview renders a unified diff of a and b and keeps its first opts.PreviewLines lines.
func Preview(a, b []string, opts Options) []string {
	if opts.PreviewLines <= 0 {
		return nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(a),
		B:        terminate(b),
		FromFile: opts.LeftName,
		ToFile:   opts.RightName,
		Context:  3,
	})
	if err != nil || text == "" {
		return nil
	}
	out := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(out) > opts.PreviewLines {
		out = out[:opts.PreviewLines]
	}
	return out
}

func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
