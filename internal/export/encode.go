// Package export turns a composited raster into bytes for a destination.
// It owns the encoding formats; file dialogs and clipboard plumbing live
// with the callers.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
	FormatPDF Format = "pdf"
)

// UnsupportedFormatError reports a format name the exporter does not
// recognize.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// FormatForPath infers the encoding from the file extension. A missing
// extension defaults to PNG; an unknown one is an error.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return FormatPNG, nil
	}
	return ParseFormat(ext)
}

// Encode writes img to w in the requested format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPDF:
		return encodePDF(w, img)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// encodePDF embeds the raster as a lossless PNG on a single page sized to
// the image at 96 DPI.
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("cannot encode empty image")
	}
	const pxToPt = 72.0 / 96.0
	wd := float64(b.Dx()) * pxToPt
	ht := float64(b.Dy()) * pxToPt

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf page image: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("composite", opts, &buf)
	pdf.ImageOptions("composite", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SaveFile encodes img to path, inferring the format from the extension.
// Errors leave no partial file behind on encode failure where possible and
// never touch the in-memory model, so a retry is always safe.
func SaveFile(path string, img image.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
