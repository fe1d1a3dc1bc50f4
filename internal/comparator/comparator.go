// Package comparator holds one comparator per comparison method. Every comparator returns
// exactly one result.MethodResult and never an error: backend failures become Failed results.
package comparator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// Comparator compares two files along one dimension.
type Comparator interface {
	Method() result.Method
	// Capability gating the method; empty when the method always runs.
	Capability() capability.Capability
	Compare(ctx context.Context, left, right string, caps capability.Registry) result.MethodResult
}

func gated(c Comparator, caps capability.Registry) bool {
	return c.Capability() == "" || caps.Available(c.Capability())
}

// fileDigest returns the hex SHA-256 of the whole file.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
