// Package document extracts per-page text, the info dictionary and the page count of a PDF.
package document

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"rsc.io/pdf"
)

// Document is the extraction of one PDF file.
type Document struct {
	Path      string
	Pages     []string
	Metadata  map[string]string
	PageCount int
}

// Backend loads documents. Implementations must return an error, never panic, on unreadable input.
type Backend interface {
	Load(path string) (*Document, error)
}

// PDFBackend extracts text with rsc.io/pdf.
type PDFBackend struct{}

func NewPDFBackend() *PDFBackend {
	return &PDFBackend{}
}

// Load opens path, extracts every page and closes the file on all paths.
func (b *PDFBackend) Load(path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	// rsc.io/pdf panics on malformed objects.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("failed to parse %s: %v", path, r)
		}
	}()

	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	n := r.NumPage()
	doc = &Document{
		Path:      path,
		Pages:     make([]string, 0, n),
		Metadata:  infoDict(r.Trailer().Key("Info")),
		PageCount: n,
	}
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		doc.Pages = append(doc.Pages, PageText(page.Content().Text))
	}
	return doc, nil
}

func infoDict(info pdf.Value) map[string]string {
	meta := map[string]string{}
	if info.Kind() != pdf.Dict {
		return meta
	}
	for _, key := range info.Keys() {
		v := info.Key(key)
		switch v.Kind() {
		case pdf.String:
			meta[key] = v.Text()
		case pdf.Name:
			meta[key] = v.Name()
		default:
			meta[key] = v.String()
		}
	}
	return meta
}

// PageText assembles positioned glyph runs into lines. Runs whose baselines lie within half a
// font size of each other form one line, lines run top to bottom and runs within a line left
// to right. A horizontal gap wider than a fifth of the font size inserts a space. Every line,
// including the last, ends with "\n".
func PageText(runs []pdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines [][]pdf.Text
	for _, t := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1][0].Y-t.Y) <= lineTolerance(lines[n-1][0], t) {
			lines[n-1] = append(lines[n-1], t)
			continue
		}
		lines = append(lines, []pdf.Text{t})
	}

	var sb strings.Builder
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		var lb strings.Builder
		for k, t := range line {
			if k > 0 {
				prev := line[k-1]
				gap := t.X - (prev.X + prev.W)
				if gap > fontSize(t)*0.2 && !strings.HasSuffix(lb.String(), " ") && !strings.HasPrefix(t.S, " ") {
					lb.WriteByte(' ')
				}
			}
			lb.WriteString(t.S)
		}
		sb.WriteString(strings.TrimRight(lb.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func lineTolerance(a, b pdf.Text) float64 {
	return math.Max(fontSize(a), fontSize(b)) * 0.5
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize <= 0 {
		return 1
	}
	return t.FontSize
}

// PageCounter returns the number of pages without extracting text.
type PageCounter interface {
	PageCount(path string) (int, error)
}

func (b *PDFBackend) PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			n = 0
			err = fmt.Errorf("failed to parse %s: %v", path, r)
		}
	}()

	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return r.NumPage(), nil
}
