package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		img.SetRGBA(x, 4, color.RGBA{R: 255, A: 255})
	}
	return img
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", FormatPNG, true},
		{"PNG", FormatPNG, true},
		{" bmp ", FormatBMP, true},
		{"pdf", FormatPDF, true},
		{"jpeg", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseFormat(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
			continue
		}
		var ufe *UnsupportedFormatError
		if !errors.As(err, &ufe) {
			t.Errorf("ParseFormat(%q) error = %v, want UnsupportedFormatError", tc.in, err)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	if f, err := FormatForPath("shot.bmp"); err != nil || f != FormatBMP {
		t.Fatalf("FormatForPath(shot.bmp) = %v, %v", f, err)
	}
	if f, err := FormatForPath("shot"); err != nil || f != FormatPNG {
		t.Fatalf("extensionless path should default to PNG, got %v, %v", f, err)
	}
	if _, err := FormatForPath("shot.gif"); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	src := testImage()
	if err := Encode(&buf, src, FormatPNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dec.Bounds().Eq(src.Bounds()) {
		t.Fatalf("bounds %v, want %v", dec.Bounds(), src.Bounds())
	}
}

func TestEncodeBMPRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	src := testImage()
	if err := Encode(&buf, src, FormatBMP); err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dec.Bounds().Eq(src.Bounds()) {
		t.Fatalf("bounds %v, want %v", dec.Bounds(), src.Bounds())
	}
}

func TestEncodePDFProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(), FormatPDF); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var ufe *UnsupportedFormatError
	err := Encode(&bytes.Buffer{}, testImage(), Format("webp"))
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SaveFile(path, testImage()); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("saved file is not a valid PNG: %v", err)
	}
}

func TestSaveFileUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tiff")
	var ufe *UnsupportedFormatError
	if err := SaveFile(path, testImage()); !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("failed save left a file behind")
	}
}
