package render

import (
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPixelDiffIdentical(t *testing.T) {
	a := solid(10, 10, color.White)
	diff, total := PixelDiff(a, solid(10, 10, color.White))
	assert.Zero(t, diff)
	assert.Equal(t, 300, total)
}

func TestPixelDiffCountsChannels(t *testing.T) {
	a := solid(4, 4, color.White)
	b := solid(4, 4, color.White)
	b.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255}) // two channels differ
	b.Set(3, 3, color.Black)                             // three channels differ

	diff, total := PixelDiff(a, b)
	assert.Equal(t, 5, diff)
	assert.Equal(t, 48, total)
}

func TestPixelDiffResizesSecond(t *testing.T) {
	a := solid(20, 10, color.White)
	b := solid(40, 20, color.White)
	diff, total := PixelDiff(a, b)
	assert.Zero(t, diff)
	assert.Equal(t, 20*10*3, total)
}

func TestPixelDiffNonZeroOrigin(t *testing.T) {
	a := solid(6, 6, color.Black).SubImage(image.Rect(2, 2, 6, 6))
	diff, total := PixelDiff(a, solid(4, 4, color.Black))
	assert.Zero(t, diff)
	assert.Equal(t, 48, total)
}

func TestResize(t *testing.T) {
	out := Resize(solid(8, 8, color.Black), 3, 5)
	assert.Equal(t, image.Rect(0, 0, 3, 5), out.Bounds())
}

func TestPageFilesOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page-10.png", "page-02.png", "page-1.png", "other.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	files, err := pageFiles(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"page-1.png", "page-02.png", "page-10.png"}, names)
}

func TestPopplerMissingBinary(t *testing.T) {
	log := logrus.New()
	log.Out = io.Discard
	p := NewPoppler("definitely-not-pdftoppm", log)
	_, err := p.Render(context.Background(), "x.pdf", 72)
	assert.Error(t, err)
}
