// Package media normalizes uploaded images before they are stored.
package media

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 400
	DefaultQuality   = 90
)

// Canonical output format of Normalize.
const (
	CanonicalExt         = ".jpg"
	CanonicalContentType = "image/jpeg"
)

type Normalizer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func NewNormalizer(maxWidth, maxHeight, quality int) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Normalizer{MaxWidth: maxWidth, MaxHeight: maxHeight, Quality: quality}
}

// Normalize decodes data, flattens transparency onto white, shrinks it to fit
// the configured bounds and re-encodes it as JPEG. When any step fails the
// input is returned unchanged.
func (n *Normalizer) Normalize(data []byte) []byte {
	out, err := n.normalize(data)
	if err != nil {
		return data
	}
	return out
}

func (n *Normalizer) normalize(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.Overlay(canvas, src, image.Pt(0, 0), 1.0)

	var resized image.Image = flat
	if bounds.Dx() > n.MaxWidth || bounds.Dy() > n.MaxHeight {
		resized = imaging.Fit(flat, n.MaxWidth, n.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(n.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
