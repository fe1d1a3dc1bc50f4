package textdiff

import "strings"

// Document is a page-segmented text extraction: one string per page, in page order.
type Document []string

// Raw joins the pages the way the extraction is compared byte-for-byte.
func (d Document) Raw() string {
	return strings.Join(d, "\n")
}

// Spans holds the number of lines each page contributed to the flattened document.
type Spans []int

// Total is the number of lines across all pages.
func (s Spans) Total() int {
	n := 0
	for _, span := range s {
		n += span
	}
	return n
}

// Offset returns the global (0-based) index of the first line of page (1-based).
func (s Spans) Offset(page int) int {
	n := 0
	for i := 0; i < page-1 && i < len(s); i++ {
		n += s[i]
	}
	return n
}

// Resolve maps a 1-based global line number to a 1-based page and the line number within that page.
// The first page whose cumulative span reaches line wins, so empty pages are skipped.
// A line past the end resolves to the last page with in-page line 0.
func (s Spans) Resolve(line int) (page, lineInPage int) {
	cum := 0
	for i, span := range s {
		if cum+span >= line {
			return i + 1, line - cum
		}
		cum += span
	}
	return len(s), 0
}

// Flatten splits every page into lines and concatenates them, recording each page's span.
func Flatten(doc Document) ([]string, Spans) {
	spans := make(Spans, len(doc))
	var lines []string
	for i, page := range doc {
		pageLines := SplitLines(page)
		spans[i] = len(pageLines)
		lines = append(lines, pageLines...)
	}
	return lines, spans
}

// SplitLines splits s on universal line boundaries. A trailing terminator does not produce an
// empty final line and "\r\n" counts as one boundary.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if !isLineBreak(rs[i]) {
			continue
		}
		lines = append(lines, string(rs[start:i]))
		if rs[i] == '\r' && i+1 < len(rs) && rs[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	if start < len(rs) {
		lines = append(lines, string(rs[start:]))
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
