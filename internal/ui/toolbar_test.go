package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/scrann/internal/tools"
)

func TestLayoutToolbarRegionsDoNotOverlap(t *testing.T) {
	l := layoutToolbar(tools.Pen)
	if l.toolRows.Empty() || l.paletteGrid.Empty() || l.widthRows.Empty() {
		t.Fatalf("pen layout missing regions: %+v", l)
	}
	if l.toolRows.Overlaps(l.paletteGrid) || l.paletteGrid.Overlaps(l.widthRows) {
		t.Fatalf("regions overlap: %+v", l)
	}
	if !l.sizeRows.Empty() {
		t.Fatal("pen layout should not offer text sizes")
	}
}

func TestLayoutToolbarPerTool(t *testing.T) {
	if l := layoutToolbar(tools.Text); l.sizeRows.Empty() || !l.widthRows.Empty() {
		t.Fatalf("text layout = %+v", l)
	}
	if l := layoutToolbar(tools.Crop); !l.sizeRows.Empty() || !l.widthRows.Empty() {
		t.Fatalf("crop layout = %+v", l)
	}
}

func TestColorIndexOfGrowsPalette(t *testing.T) {
	before := len(palette)
	if idx := colorIndexOf(palette[3]); idx != 3 {
		t.Fatalf("known color idx = %d, want 3", idx)
	}
	if len(palette) != before {
		t.Fatal("lookup of known color grew the palette")
	}
	idx := colorIndexOf(color.RGBA{17, 34, 51, 255})
	if idx != before {
		t.Fatalf("new color idx = %d, want %d", idx, before)
	}
	palette = palette[:before]
}

func TestFitZoomPicksLimitingAxis(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	z := fitZoom(img, toolbarWidth+100, titleHeight+bottomHeight+100)
	if z != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", z)
	}
}
