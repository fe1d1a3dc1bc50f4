package textdiff

import "github.com/sergi/go-diff/diffmatchpatch"

// SegmentOp marks a character run of an intra-line diff.
type SegmentOp int

const (
	SegmentEqual SegmentOp = iota
	SegmentDelete
	SegmentInsert
)

type Segment struct {
	Op   SegmentOp
	Text string
}

// Inline computes a character-level diff between a removed line and the line that replaced it.
func Inline(removed, added string) []Segment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(removed, added, false))
	out := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		seg := Segment{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			seg.Op = SegmentDelete
		case diffmatchpatch.DiffInsert:
			seg.Op = SegmentInsert
		default:
			seg.Op = SegmentEqual
		}
		out = append(out, seg)
	}
	return out
}

// Pairs matches the i-th removed line of each change block with the i-th added line of the
// same block. Unmatched lines are left out.
func Pairs(entries []Entry) map[int]int {
	removed := map[int][]int{}
	added := map[int][]int{}
	for idx, e := range entries {
		if e.Kind == Removed {
			removed[e.Block] = append(removed[e.Block], idx)
		} else {
			added[e.Block] = append(added[e.Block], idx)
		}
	}
	pairs := map[int]int{}
	for block, rs := range removed {
		as := added[block]
		for k := 0; k < len(rs) && k < len(as); k++ {
			pairs[rs[k]] = as[k]
		}
	}
	return pairs
}
