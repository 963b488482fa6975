package compose

import (
	"image"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontMu    sync.Mutex
	parsedTTF *opentype.Font
	faceCache = map[float64]font.Face{}
)

// faceForSize returns a Go Regular face at the requested pixel size. Faces
// are cached; sizes repeat constantly while a text draft is previewed.
func faceForSize(size float64) font.Face {
	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f
	}
	if parsedTTF == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Fatalf("parse font: %v", err)
		}
		parsedTTF = f
	}
	face, err := opentype.NewFace(parsedTTF, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	faceCache[size] = face
	return face
}

// drawText renders text with its baseline starting at anchor.
func drawText(dst *image.RGBA, anchor image.Point, text string, size float64, src image.Image) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: faceForSize(size),
		Dot:  fixed.P(anchor.X, anchor.Y),
	}
	d.DrawString(text)
}
