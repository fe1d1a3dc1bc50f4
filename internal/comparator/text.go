package comparator

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/document"
	"github.com/Delete1994/PDF-Compare/internal/result"
	"github.com/Delete1994/PDF-Compare/internal/similarity"
	"github.com/Delete1994/PDF-Compare/internal/textdiff"
)

// Text diffs the extracted page text line by line and scores overall similarity.
type Text struct {
	Docs    document.Backend
	Options textdiff.Options
	Log     logrus.FieldLogger
}

func (c *Text) Method() result.Method { return result.Text }

func (c *Text) Capability() capability.Capability { return capability.Text }

func (c *Text) Compare(_ context.Context, left, right string, caps capability.Registry) result.MethodResult {
	if !gated(c, caps) {
		return result.Unavailable(c.Method())
	}

	ld, err := c.Docs.Load(left)
	if err != nil {
		return result.Failed(c.Method(), "text comparison failed: %v", err)
	}
	rd, err := c.Docs.Load(right)
	if err != nil {
		return result.Failed(c.Method(), "text comparison failed: %v", err)
	}

	opts := c.Options
	opts.LeftName = filepath.Base(left)
	opts.RightName = filepath.Base(right)

	lp, rp := textdiff.Document(ld.Pages), textdiff.Document(rd.Pages)
	diff := textdiff.Compare(lp, rp, opts)
	metrics := result.TextMetrics{
		Similarity: similarity.Ratio(lp.Raw(), rp.Raw()),
		Statistics: diff.Stats,
		Entries:    diff.Entries,
		Preview:    diff.Preview,
	}

	c.Log.WithFields(logrus.Fields{
		"method":        c.Method(),
		"identical":     diff.Identical,
		"total_changes": diff.Stats.TotalChanges,
		"similarity":    metrics.Similarity,
	}).Debug("text compared")
	return result.OK(c.Method(), diff.Identical, metrics)
}
