package comparator

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/document"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// BasicInfo compares file sizes and, when the text backend is usable, page counts.
type BasicInfo struct {
	Pages document.PageCounter
	Log   logrus.FieldLogger
}

func (c *BasicInfo) Method() result.Method { return result.BasicInfo }

func (c *BasicInfo) Capability() capability.Capability { return "" }

func (c *BasicInfo) Compare(_ context.Context, left, right string, caps capability.Registry) result.MethodResult {
	ls, err := os.Stat(left)
	if err != nil {
		return result.Failed(c.Method(), "basic info comparison failed: %v", err)
	}
	rs, err := os.Stat(right)
	if err != nil {
		return result.Failed(c.Method(), "basic info comparison failed: %v", err)
	}

	metrics := result.BasicMetrics{FileSize: result.NewPair(ls.Size(), rs.Size())}
	identical := metrics.FileSize.Identical

	if c.Pages != nil && caps.Available(capability.Text) {
		lp, err := c.Pages.PageCount(left)
		if err != nil {
			return result.Failed(c.Method(), "basic info comparison failed: %v", err)
		}
		rp, err := c.Pages.PageCount(right)
		if err != nil {
			return result.Failed(c.Method(), "basic info comparison failed: %v", err)
		}
		pc := result.NewPair(lp, rp)
		metrics.PageCount = &pc
		identical = identical && pc.Identical
	}

	c.Log.WithFields(logrus.Fields{"method": c.Method(), "identical": identical}).Debug("basic info compared")
	return result.OK(c.Method(), identical, metrics)
}
