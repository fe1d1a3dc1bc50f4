// Package render rasterizes PDF pages through poppler's pdftoppm and compares bitmaps.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Renderer turns every page of a PDF into a raster image.
type Renderer interface {
	Render(ctx context.Context, path string, dpi int) ([]image.Image, error)
}

// Poppler shells out to pdftoppm.
type Poppler struct {
	Bin string
	Log logrus.FieldLogger
}

func NewPoppler(bin string, log logrus.FieldLogger) *Poppler {
	if bin == "" {
		bin = "pdftoppm"
	}
	return &Poppler{Bin: bin, Log: log}
}

// Render writes PNGs to a scratch directory, decodes them in page order and removes the
// directory before returning.
func (p *Poppler) Render(ctx context.Context, path string, dpi int) ([]image.Image, error) {
	dir, err := os.MkdirTemp("", "pdfcompare-render-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render directory: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Bin, "-r", strconv.Itoa(dpi), "-png", path, prefix)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed on %s: %w: %s", p.Bin, path, err, strings.TrimSpace(stderr.String()))
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}
	p.Log.WithFields(logrus.Fields{"file": path, "pages": len(files), "dpi": dpi}).Debug("rendered pages")

	images := make([]image.Image, 0, len(files))
	for _, name := range files {
		img, err := decodePNG(name)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// pageFiles lists page-N.png files sorted by N. pdftoppm zero-pads N to the width of the page count.
func pageFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	type numbered struct {
		n    int
		path string
	}
	pages := make([]numbered, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "page-"), ".png")
		n, err := strconv.Atoi(base)
		if err != nil {
			continue
		}
		pages = append(pages, numbered{n, m})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.path
	}
	return out, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rendered page: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Resize scales img to w x h.
func Resize(img image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// PixelDiff compares the RGB channels of a and b value by value. b is resized to a's
// dimensions first when they differ. total is the number of channel values compared.
func PixelDiff(a, b image.Image) (different, total int) {
	ab := a.Bounds()
	if b.Bounds().Dx() != ab.Dx() || b.Bounds().Dy() != ab.Dy() {
		b = Resize(b, ab.Dx(), ab.Dy())
	}
	na, nb := toNRGBA(a), toNRGBA(b)
	w, h := ab.Dx(), ab.Dy()
	for y := 0; y < h; y++ {
		ra := na.Pix[y*na.Stride : y*na.Stride+w*4]
		rb := nb.Pix[y*nb.Stride : y*nb.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			for c := 0; c < 3; c++ {
				if ra[x+c] != rb[x+c] {
					different++
				}
			}
		}
	}
	return different, w * h * 3
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
