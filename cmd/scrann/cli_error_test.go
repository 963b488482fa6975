package main

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/scrann/internal/capture"
	"github.com/example/scrann/internal/config"
	"github.com/example/scrann/internal/notify"
)

func testRoot() *root {
	return &root{
		program:  "scrann",
		config:   config.New(),
		notifier: notify.New(notify.DefaultPreferences()),
	}
}

func TestAnnotateRunCaptureError(t *testing.T) {
	sentinel := errors.New("denied")
	restore := capture.SetProviderForTests(func(bool) (*image.RGBA, error) { return nil, sentinel })
	t.Cleanup(restore)

	cmd := &annotateCmd{mode: "capture-screen", root: testRoot()}
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestAnnotateUnknownMode(t *testing.T) {
	cmd := &annotateCmd{mode: "capture-moon", root: testRoot()}
	var uerr *UsageError
	if err := cmd.Run(); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseDrawClipboardRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-from-clipboard", "pen", "0", "0", "5", "5"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawRejectsUnknownOperation(t *testing.T) {
	_, err := parseDrawCmd([]string{"-file", "in.png", "sparkle", "1", "2"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown operation") {
		t.Fatalf("expected unknown operation error, got %v", err)
	}
}

func TestParseDrawRejectsOddPenCoords(t *testing.T) {
	_, err := parseDrawCmd([]string{"-file", "in.png", "pen", "0", "0", "5"}, nil)
	if err == nil || !strings.Contains(err.Error(), "even number") {
		t.Fatalf("expected coordinate count error, got %v", err)
	}
}

func TestDrawRunWritesCroppedOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, image.Rect(0, 0, 40, 30))

	cmd, err := parseDrawCmd([]string{
		"-file", in, "-output", out, "-color", "blue",
		"rect", "2", "2", "12", "12",
		"--", "crop", "0", "0", "20", "15",
	}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	dec, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := dec.Bounds().Size(); got != image.Pt(20, 15) {
		t.Fatalf("output size %v, want (20,15)", got)
	}
}

func writePNG(t *testing.T, path string, r image.Rectangle) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(r)); err != nil {
		t.Fatal(err)
	}
}
