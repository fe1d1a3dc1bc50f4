package comparator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/document"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// Metadata compares whole-file digests and the document info dictionaries key by key.
// Only the dictionary decides the verdict; the digest is reported alongside.
type Metadata struct {
	Docs document.Backend
	Log  logrus.FieldLogger
}

func (c *Metadata) Method() result.Method { return result.Metadata }

func (c *Metadata) Capability() capability.Capability { return capability.Metadata }

func (c *Metadata) Compare(_ context.Context, left, right string, caps capability.Registry) result.MethodResult {
	if !gated(c, caps) {
		return result.Unavailable(c.Method())
	}

	ld, err := c.Docs.Load(left)
	if err != nil {
		return result.Failed(c.Method(), "metadata comparison failed: %v", err)
	}
	rd, err := c.Docs.Load(right)
	if err != nil {
		return result.Failed(c.Method(), "metadata comparison failed: %v", err)
	}
	lh, err := fileDigest(left)
	if err != nil {
		return result.Failed(c.Method(), "metadata comparison failed: %v", err)
	}
	rh, err := fileDigest(right)
	if err != nil {
		return result.Failed(c.Method(), "metadata comparison failed: %v", err)
	}

	metrics := result.MetadataMetrics{
		FileHash: result.NewPair(lh, rh),
		Fields:   map[string]result.Pair[string]{},
	}
	identical := true
	for key := range ld.Metadata {
		metrics.Fields[key] = result.NewPair(ld.Metadata[key], rd.Metadata[key])
	}
	for key := range rd.Metadata {
		if _, seen := metrics.Fields[key]; !seen {
			metrics.Fields[key] = result.NewPair(ld.Metadata[key], rd.Metadata[key])
		}
	}
	for _, f := range metrics.Fields {
		identical = identical && f.Identical
	}

	c.Log.WithFields(logrus.Fields{
		"method":    c.Method(),
		"keys":      len(metrics.Fields),
		"identical": identical,
	}).Debug("metadata compared")
	return result.OK(c.Method(), identical, metrics)
}
