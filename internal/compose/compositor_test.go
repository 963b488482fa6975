package compose

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/scrann/internal/engine"
)

func whiteSession(w, h int) *engine.Session {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return engine.NewSession(img)
}

func red() engine.Style {
	return engine.Style{Color: color.RGBA{255, 0, 0, 255}, Width: 3}
}

func commitStroke(t *testing.T, s *engine.Session, pts ...image.Point) engine.ID {
	t.Helper()
	id, err := s.BeginStroke(pts[0], red())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	for _, p := range pts[1:] {
		if err := s.Extend(p); err != nil {
			t.Fatalf("extend: %v", err)
		}
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return id
}

func commitCrop(t *testing.T, s *engine.Session, r image.Rectangle) {
	t.Helper()
	if _, err := s.BeginCrop(r.Min); err != nil {
		t.Fatalf("begin crop: %v", err)
	}
	if err := s.Extend(r.Max); err != nil {
		t.Fatalf("extend crop: %v", err)
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("commit crop: %v", err)
	}
}

func imagesEqual(a, b *image.RGBA) bool {
	if !a.Bounds().Eq(b.Bounds()) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestPreviewMatchesCanvasDimensions(t *testing.T) {
	s := whiteSession(100, 100)
	c := New(s)
	if got := c.Preview().Bounds(); !got.Eq(s.Bounds()) {
		t.Fatalf("preview bounds %v, want %v", got, s.Bounds())
	}
}

func TestFinalWithoutCropKeepsDimensions(t *testing.T) {
	s := whiteSession(100, 100)
	commitStroke(t, s, image.Pt(10, 10), image.Pt(30, 30))
	c := New(s)
	out := c.Final(ExportOptions{})
	if !out.Bounds().Eq(s.Bounds()) {
		t.Fatalf("final bounds %v, want %v", out.Bounds(), s.Bounds())
	}
	if out.RGBAAt(20, 20) != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("stroke not rendered at (20,20): %v", out.RGBAAt(20, 20))
	}
}

func TestFinalAppliesCrop(t *testing.T) {
	s := whiteSession(100, 100)
	commitStroke(t, s, image.Pt(10, 10), image.Pt(30, 30))
	commitStroke(t, s, image.Pt(50, 50), image.Pt(80, 80))
	crop := image.Rect(10, 10, 50, 50)
	commitCrop(t, s, crop)
	c := New(s)

	out := c.Final(ExportOptions{})
	if out.Bounds().Dx() != crop.Dx() || out.Bounds().Dy() != crop.Dy() {
		t.Fatalf("cropped bounds %v, want %dx%d", out.Bounds(), crop.Dx(), crop.Dy())
	}
	// Pixel content must equal the corresponding sub-rectangle of the full
	// composite. Rebuild the full composite without the crop region.
	s2 := whiteSession(100, 100)
	commitStroke(t, s2, image.Pt(10, 10), image.Pt(30, 30))
	commitStroke(t, s2, image.Pt(50, 50), image.Pt(80, 80))
	full := New(s2).Final(ExportOptions{})
	for y := 0; y < crop.Dy(); y++ {
		for x := 0; x < crop.Dx(); x++ {
			if out.RGBAAt(x, y) != full.RGBAAt(crop.Min.X+x, crop.Min.Y+y) {
				t.Fatalf("pixel (%d,%d) differs from full composite", x, y)
			}
		}
	}
}

func TestPreviewIgnoresCrop(t *testing.T) {
	s := whiteSession(100, 100)
	commitCrop(t, s, image.Rect(10, 10, 50, 50))
	c := New(s)
	if got := c.Preview().Bounds(); !got.Eq(s.Bounds()) {
		t.Fatalf("preview was cropped to %v", got)
	}
}

func TestDraftNeverInFinal(t *testing.T) {
	s := whiteSession(100, 100)
	if _, err := s.BeginStroke(image.Pt(10, 10), red()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.Extend(image.Pt(40, 40)); err != nil {
		t.Fatalf("extend: %v", err)
	}
	c := New(s)
	// Warm the preview cache with the draft visible, then check the export
	// path is unaffected by it.
	prev := c.Preview()
	if prev.RGBAAt(25, 25) != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("draft not visible in preview: %v", prev.RGBAAt(25, 25))
	}
	out := c.Final(ExportOptions{})
	if out.RGBAAt(25, 25) != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("draft leaked into final export: %v", out.RGBAAt(25, 25))
	}
}

func TestUndoRestoresBlankPreview(t *testing.T) {
	s := whiteSession(100, 100)
	c := New(s)
	blank := cloneCanvas(c.Preview())
	id := commitStroke(t, s, image.Pt(10, 10), image.Pt(20, 20), image.Pt(30, 10))
	if imagesEqual(c.Preview(), blank) {
		t.Fatal("stroke did not change the preview")
	}
	if err := s.Remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !imagesEqual(c.Preview(), blank) {
		t.Fatal("preview after removal does not equal the blank canvas")
	}
}

func TestPreviewCacheInvalidation(t *testing.T) {
	s := whiteSession(50, 50)
	c := New(s)
	p1 := c.Preview()
	p2 := c.Preview()
	if p1 != p2 {
		t.Fatal("unchanged session re-rendered the preview")
	}
	commitStroke(t, s, image.Pt(1, 1), image.Pt(10, 10))
	if c.Preview() == p1 {
		t.Fatal("mutation did not invalidate the preview cache")
	}
}

func TestSmoothingDoesNotAlterStoredPoints(t *testing.T) {
	s := whiteSession(100, 100)
	style := red()
	style.Smooth = true
	id, _ := s.BeginStroke(image.Pt(10, 10), style)
	_ = s.Extend(image.Pt(50, 80))
	_ = s.Extend(image.Pt(90, 10))
	_, _ = s.Commit()
	_ = id

	c := New(s)
	c.Preview()
	st := s.Annotations()[0].(*engine.Stroke)
	want := []image.Point{{10, 10}, {50, 80}, {90, 10}}
	if len(st.Points) != len(want) {
		t.Fatalf("render altered point count: %d", len(st.Points))
	}
	for i := range want {
		if st.Points[i] != want[i] {
			t.Fatalf("render altered point %d: %v", i, st.Points[i])
		}
	}
}

func TestSmoothPathEndpoints(t *testing.T) {
	pts := []image.Point{{0, 0}, {10, 20}, {20, 0}}
	out := smoothPath(pts)
	if len(out) <= len(pts) {
		t.Fatalf("smoothing added no points: %d", len(out))
	}
	if out[0] != pts[0] || out[len(out)-1] != pts[len(pts)-1] {
		t.Fatalf("smoothing moved endpoints: %v .. %v", out[0], out[len(out)-1])
	}
}

func TestShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(5, 5, color.RGBA{R: 255, A: 255})
	out := applyShadow(img, ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5})
	want := image.Rect(0, 0, 22, 20)
	if !out.Bounds().Eq(want) {
		t.Fatalf("shadow bounds %v, want %v", out.Bounds(), want)
	}
}

func TestShadowDisabledPassesThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if out := applyShadow(img, ShadowOptions{Opacity: 0}); out != img {
		t.Fatal("zero-opacity shadow should return the input")
	}
}
