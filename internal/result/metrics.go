package result

import "github.com/Delete1994/PDF-Compare/internal/textdiff"

// Pair holds one value per document.
type Pair[T any] struct {
	Left      T    `json:"pdf1"`
	Right     T    `json:"pdf2"`
	Identical bool `json:"identical"`
}

func NewPair[T comparable](left, right T) Pair[T] {
	return Pair[T]{Left: left, Right: right, Identical: left == right}
}

type BasicMetrics struct {
	FileSize Pair[int64] `json:"file_size"`
	// PageCount is nil when page counts could not be determined.
	PageCount *Pair[int] `json:"page_count,omitempty"`
}

func (BasicMetrics) method() Method { return BasicInfo }

type TextMetrics struct {
	Similarity float64          `json:"similarity"`
	Statistics textdiff.Stats   `json:"statistics"`
	Entries    []textdiff.Entry `json:"detailed_differences,omitempty"`
	Preview    []string         `json:"diff_preview,omitempty"`
}

func (TextMetrics) method() Method { return Text }

type PageSimilarity struct {
	Page            int     `json:"page"`
	Similarity      float64 `json:"similarity"`
	DifferentPixels int     `json:"different_pixels"`
	TotalPixels     int     `json:"total_pixels"`
}

type VisualMetrics struct {
	OverallSimilarity float64          `json:"overall_similarity"`
	PageCount         int              `json:"page_count"`
	DPI               int              `json:"dpi"`
	Pages             []PageSimilarity `json:"page_similarities"`
}

func (VisualMetrics) method() Method { return Visual }

type PageTables struct {
	Page      int  `json:"page"`
	Left      int  `json:"tables_pdf1"`
	Right     int  `json:"tables_pdf2"`
	Identical bool `json:"identical"`
}

type StructureMetrics struct {
	PageCount Pair[int]    `json:"page_count"`
	Tables    []PageTables `json:"tables"`
}

func (StructureMetrics) method() Method { return Structure }

type MetadataMetrics struct {
	FileHash Pair[string]            `json:"file_hash"`
	Fields   map[string]Pair[string] `json:"metadata"`
}

func (MetadataMetrics) method() Method { return Metadata }
