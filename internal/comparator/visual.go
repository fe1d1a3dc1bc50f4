package comparator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/render"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// DefaultVisualThreshold is the overall similarity a visual comparison must exceed.
const DefaultVisualThreshold = 0.999

// Visual rasterizes both documents and counts differing pixel channels page by page.
type Visual struct {
	Renderer  render.Renderer
	DPI       int
	Threshold float64
	Log       logrus.FieldLogger
}

func (c *Visual) Method() result.Method { return result.Visual }

func (c *Visual) Capability() capability.Capability { return capability.Visual }

func (c *Visual) Compare(ctx context.Context, left, right string, caps capability.Registry) result.MethodResult {
	if !gated(c, caps) {
		return result.Unavailable(c.Method())
	}
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultVisualThreshold
	}

	limgs, err := c.Renderer.Render(ctx, left, c.DPI)
	if err != nil {
		return result.Failed(c.Method(), "visual comparison failed: %v", err)
	}
	rimgs, err := c.Renderer.Render(ctx, right, c.DPI)
	if err != nil {
		return result.Failed(c.Method(), "visual comparison failed: %v", err)
	}
	if len(limgs) != len(rimgs) {
		return result.Failed(c.Method(), "page count mismatch: %d vs %d", len(limgs), len(rimgs))
	}
	if len(limgs) == 0 {
		return result.Failed(c.Method(), "visual comparison failed: no pages rendered")
	}

	metrics := result.VisualMetrics{PageCount: len(limgs), DPI: c.DPI}
	var sum float64
	for i := range limgs {
		diff, total := render.PixelDiff(limgs[i], rimgs[i])
		sim := 1.0
		if total > 0 {
			sim = 1 - float64(diff)/float64(total)
		}
		sum += sim
		metrics.Pages = append(metrics.Pages, result.PageSimilarity{
			Page:            i + 1,
			Similarity:      sim,
			DifferentPixels: diff,
			TotalPixels:     total,
		})
	}
	metrics.OverallSimilarity = sum / float64(len(limgs))
	identical := metrics.OverallSimilarity > threshold

	c.Log.WithFields(logrus.Fields{
		"method":     c.Method(),
		"pages":      metrics.PageCount,
		"similarity": metrics.OverallSimilarity,
	}).Debug("visual compared")
	return result.OK(c.Method(), identical, metrics)
}
