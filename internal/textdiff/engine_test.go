package textdiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSingleLineChange(t *testing.T) {
	res := Compare(Document{"A\nB\nC"}, Document{"A\nX\nC"}, DefaultOptions())

	want := []Entry{
		{
			Kind: Removed, Content: "B", Page: 1, LineInPage: 2, GlobalLine: 2, Side: Left,
			Context: Context{Before: []string{"A"}, After: []string{"C"}},
		},
		{
			Kind: Added, Content: "X", Page: 1, LineInPage: 2, GlobalLine: 2, Side: Right,
			Context: Context{Before: []string{"A"}, After: []string{"C"}},
		},
	}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, res.Identical)
	assert.Equal(t, 1, res.Stats.LinesAdded)
	assert.Equal(t, 1, res.Stats.LinesRemoved)
	assert.Equal(t, 2, res.Stats.TotalChanges)
	assert.Equal(t, 3, res.Stats.LineCountLeft)
	assert.Equal(t, 5, res.Stats.CharCountRight)
	assert.Empty(t, res.Preview)
}

func TestCompareIdentical(t *testing.T) {
	doc := Document{"first page\nline two\n", "", "third page\n"}
	res := Compare(doc, doc, DefaultOptions())

	assert.True(t, res.Identical)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Stats.TotalChanges)
	assert.Empty(t, res.Preview)
}

func TestCompareRawDifferenceWithoutLineChange(t *testing.T) {
	// Same lines, different trailing terminator: no entries but not byte-identical.
	res := Compare(Document{"a\nb"}, Document{"a\nb\n"}, DefaultOptions())
	assert.Empty(t, res.Entries)
	assert.False(t, res.Identical)
}

func TestCompareRemovesBeforeAdds(t *testing.T) {
	left := Document{"A\nB1\nB2\nC"}
	right := Document{"A\nX1\nX2\nC"}
	res := Compare(left, right, DefaultOptions())

	var got []string
	for _, e := range res.Entries {
		got = append(got, e.Kind.String()+":"+e.Content)
	}
	assert.Equal(t, []string{"removed:B1", "removed:B2", "added:X1", "added:X2"}, got)
	for _, e := range res.Entries {
		assert.Equal(t, 0, e.Block)
	}
}

func TestCompareAcrossPages(t *testing.T) {
	left := Document{"p1 l1\np1 l2\n", "", "p3 l1\np3 l2\np3 l3\n"}
	right := Document{"p1 l1\np1 l2\n", "p3 l1\nchanged\np3 l3\n", "extra\n"}
	res := Compare(left, right, DefaultOptions())

	require.Len(t, res.Entries, 3)

	removed := res.Entries[0]
	assert.Equal(t, Removed, removed.Kind)
	assert.Equal(t, "p3 l2", removed.Content)
	assert.Equal(t, 3, removed.Page, "empty page 2 contributes no lines")
	assert.Equal(t, 2, removed.LineInPage)
	assert.Equal(t, 4, removed.GlobalLine)

	added := res.Entries[1]
	assert.Equal(t, "changed", added.Content)
	assert.Equal(t, 2, added.Page)
	assert.Equal(t, 2, added.LineInPage)

	extra := res.Entries[2]
	assert.Equal(t, "extra", extra.Content)
	assert.Equal(t, 3, extra.Page)
	assert.Equal(t, 1, extra.LineInPage)
	assert.Equal(t, 1, extra.Block)
}

func TestCompareResolutionInvariant(t *testing.T) {
	left := Document{"a\nb\nc", "d\ne", "", "f"}
	right := Document{"a\nc", "x\ny\nz\ne", "f\ng\n"}
	res := Compare(left, right, DefaultOptions())
	require.NotEmpty(t, res.Entries)

	_, leftSpans := Flatten(left)
	_, rightSpans := Flatten(right)
	for _, e := range res.Entries {
		spans := leftSpans
		if e.Side == Right {
			spans = rightSpans
		}
		assert.GreaterOrEqual(t, e.LineInPage, 0)
		assert.GreaterOrEqual(t, spans.Offset(e.Page)+spans[e.Page-1], e.GlobalLine)
	}
}

func TestCompareSwapSides(t *testing.T) {
	left := Document{"alpha\nbeta\ngamma\ndelta"}
	right := Document{"alpha\nBETA\ngamma\ndelta\nepsilon"}

	forward := Compare(left, right, DefaultOptions())
	backward := Compare(right, left, DefaultOptions())

	type key struct {
		kind    Kind
		content string
	}
	flip := func(k Kind) Kind {
		if k == Added {
			return Removed
		}
		return Added
	}
	got := map[key]int{}
	for _, e := range forward.Entries {
		got[key{flip(e.Kind), e.Content}]++
	}
	want := map[key]int{}
	for _, e := range backward.Entries {
		want[key{e.Kind, e.Content}]++
	}
	assert.Equal(t, want, got)

	// With equal-cost alignments the chosen lines can differ, the counts cannot.
	ambiguousF := Compare(Document{"A\nB"}, Document{"B\nA"}, DefaultOptions())
	ambiguousB := Compare(Document{"B\nA"}, Document{"A\nB"}, DefaultOptions())
	assert.Equal(t, ambiguousF.Stats.LinesAdded, ambiguousB.Stats.LinesRemoved)
	assert.Equal(t, ambiguousF.Stats.LinesRemoved, ambiguousB.Stats.LinesAdded)
}

func TestCompareContextClamped(t *testing.T) {
	res := Compare(Document{"one\ntwo\nthree\nfour\nfive"}, Document{"ONE\ntwo\nthree\nfour\nfive"}, DefaultOptions())
	require.Len(t, res.Entries, 2)
	assert.Empty(t, res.Entries[0].Context.Before)
	assert.Equal(t, []string{"two", "three"}, res.Entries[0].Context.After)

	opts := DefaultOptions()
	opts.ContextLines = 0
	res = Compare(Document{"a\nb\nc"}, Document{"a\nb\nC"}, opts)
	require.Len(t, res.Entries, 2)
	assert.Empty(t, res.Entries[1].Context.Before)
	assert.Empty(t, res.Entries[1].Context.After)
}

func TestComparePreviewMode(t *testing.T) {
	var a, b []string
	for i := 0; i < 40; i++ {
		a = append(a, "line")
		b = append(b, "other")
	}
	opts := DefaultOptions()
	opts.Detailed = false
	opts.LeftName = "a.pdf"
	opts.RightName = "b.pdf"
	res := Compare(Document{strings.Join(a, "\n")}, Document{strings.Join(b, "\n")}, opts)

	assert.Empty(t, res.Entries)
	assert.False(t, res.Identical)
	require.Len(t, res.Preview, 20)
	assert.Equal(t, "--- a.pdf", res.Preview[0])
	assert.Equal(t, "+++ b.pdf", res.Preview[1])
	assert.True(t, strings.HasPrefix(res.Preview[2], "@@"))
	assert.Equal(t, 40, res.Stats.LinesAdded)
	assert.Equal(t, 40, res.Stats.LinesRemoved)
}

func TestCompareEmptyDocuments(t *testing.T) {
	res := Compare(nil, nil, DefaultOptions())
	assert.True(t, res.Identical)

	res = Compare(nil, Document{"new"}, DefaultOptions())
	require.Len(t, res.Entries, 1)
	assert.Equal(t, Added, res.Entries[0].Kind)
	assert.Equal(t, 1, res.Entries[0].Page)
	assert.Equal(t, 1, res.Entries[0].LineInPage)
}

func TestPairs(t *testing.T) {
	res := Compare(Document{"a\nb\nc\nd"}, Document{"a\nB\nc\nD\nE"}, DefaultOptions())
	pairs := Pairs(res.Entries)
	require.Len(t, pairs, 2)
	for r, a := range pairs {
		assert.Equal(t, Removed, res.Entries[r].Kind)
		assert.Equal(t, Added, res.Entries[a].Kind)
		assert.Equal(t, res.Entries[r].Block, res.Entries[a].Block)
	}
}

func TestInline(t *testing.T) {
	segs := Inline("total: 100 EUR", "total: 120 EUR")
	var del, ins, eq strings.Builder
	for _, s := range segs {
		switch s.Op {
		case SegmentDelete:
			del.WriteString(s.Text)
		case SegmentInsert:
			ins.WriteString(s.Text)
		default:
			eq.WriteString(s.Text)
		}
	}
	assert.Equal(t, "0", del.String())
	assert.Equal(t, "2", ins.String())
	assert.Contains(t, eq.String(), "total: 1")
}
