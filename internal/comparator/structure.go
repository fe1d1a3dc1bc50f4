package comparator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/result"
	"github.com/Delete1994/PDF-Compare/internal/structure"
)

// Structure compares page counts and the number of tables on each shared page.
type Structure struct {
	Tables structure.Extractor
	Log    logrus.FieldLogger
}

func (c *Structure) Method() result.Method { return result.Structure }

func (c *Structure) Capability() capability.Capability { return capability.Structure }

func (c *Structure) Compare(_ context.Context, left, right string, caps capability.Registry) result.MethodResult {
	if !gated(c, caps) {
		return result.Unavailable(c.Method())
	}

	lt, err := c.Tables.TablesPerPage(left)
	if err != nil {
		return result.Failed(c.Method(), "structure analysis failed: %v", err)
	}
	rt, err := c.Tables.TablesPerPage(right)
	if err != nil {
		return result.Failed(c.Method(), "structure analysis failed: %v", err)
	}

	metrics := result.StructureMetrics{PageCount: result.NewPair(len(lt), len(rt))}
	identical := metrics.PageCount.Identical
	for i := 0; i < min(len(lt), len(rt)); i++ {
		pt := result.PageTables{Page: i + 1, Left: lt[i], Right: rt[i], Identical: lt[i] == rt[i]}
		metrics.Tables = append(metrics.Tables, pt)
		identical = identical && pt.Identical
	}

	c.Log.WithFields(logrus.Fields{"method": c.Method(), "identical": identical}).Debug("structure compared")
	return result.OK(c.Method(), identical, metrics)
}
