// Package structure counts ruled tables on each page of a PDF.
package structure

import (
	"fmt"
	"math"
	"os"
	"sort"

	"rsc.io/pdf"
)

// Extractor returns the number of tables found on every page, in page order.
type Extractor interface {
	TablesPerPage(path string) ([]int, error)
}

// GridDetector finds tables drawn as rectangles: cell borders or thin ruling bars that touch
// each other and span at least MinRows rows and MinCols columns.
type GridDetector struct {
	// Tolerance for treating edges as aligned or rectangles as touching, in points.
	Tolerance float64
	MinRows   int
	MinCols   int
	// MaxAreaRatio drops rectangles covering more than this share of the page (backgrounds).
	MaxAreaRatio float64
}

func NewGridDetector() *GridDetector {
	return &GridDetector{
		Tolerance:    3.0,
		MinRows:      2,
		MinCols:      2,
		MaxAreaRatio: 0.5,
	}
}

// TablesPerPage opens path and counts the tables of each page. The file is closed on all paths.
func (d *GridDetector) TablesPerPage(path string) (counts []int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			counts = nil
			err = fmt.Errorf("failed to read structure of %s: %v", path, r)
		}
	}()

	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	counts = make([]int, r.NumPage())
	for i := range counts {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		counts[i] = d.Count(page.Content().Rect, pageArea(page.V.Key("MediaBox")))
	}
	return counts, nil
}

func pageArea(box pdf.Value) float64 {
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return 0
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	return math.Abs(w * h)
}

// Count returns the number of tables formed by rects. pageArea may be 0 when unknown.
func (d *GridDetector) Count(rects []pdf.Rect, pageArea float64) int {
	var boxes []pdf.Rect
	for _, r := range rects {
		r = normalize(r)
		if pageArea > 0 && area(r) > pageArea*d.MaxAreaRatio {
			continue
		}
		boxes = append(boxes, r)
	}

	groups := d.connect(boxes)
	tables := 0
	for _, g := range groups {
		var xs, ys []float64
		for _, idx := range g {
			b := boxes[idx]
			xs = append(xs, b.Min.X, b.Max.X)
			ys = append(ys, b.Min.Y, b.Max.Y)
		}
		cols := len(cluster(xs, d.Tolerance)) - 1
		rows := len(cluster(ys, d.Tolerance)) - 1
		if cols >= d.MinCols && rows >= d.MinRows {
			tables++
		}
	}
	return tables
}

// connect groups rectangles that touch within Tolerance (union-find).
func (d *GridDetector) connect(boxes []pdf.Rect) [][]int {
	parent := make([]int, len(boxes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if d.touch(boxes[i], boxes[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	byRoot := map[int][]int{}
	var roots []int
	for i := range boxes {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	groups := make([][]int, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, byRoot[r])
	}
	return groups
}

func (d *GridDetector) touch(a, b pdf.Rect) bool {
	t := d.Tolerance
	return a.Min.X-t <= b.Max.X && b.Min.X-t <= a.Max.X &&
		a.Min.Y-t <= b.Max.Y && b.Min.Y-t <= a.Max.Y
}

// cluster collapses values closer than tol into one representative.
func cluster(values []float64, tol float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out := []float64{sorted[0]}
	for _, v := range sorted[1:] {
		if v-out[len(out)-1] > tol {
			out = append(out, v)
		}
	}
	return out
}

func normalize(r pdf.Rect) pdf.Rect {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func area(r pdf.Rect) float64 {
	return (r.Max.X - r.Min.X) * (r.Max.Y - r.Min.Y)
}
