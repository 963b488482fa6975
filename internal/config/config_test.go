package config

import (
	"image/color"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# scrann config
stroke_color = #00FF00
stroke_width = 5
smoothing = true
history_depth = 20
save_dir = /tmp/shots
format = bmp

[shadow]
enabled = true
radius = 12
offset_x = 4
offset_y = 8
opacity = 0.4

[notify]
save = false
copy = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.StrokeColor != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("stroke color %v", cfg.StrokeColor)
	}
	if cfg.StrokeWidth != 5 {
		t.Errorf("stroke width %d, want 5", cfg.StrokeWidth)
	}
	if !cfg.Smoothing {
		t.Error("smoothing should be true")
	}
	if cfg.HistoryDepth != 20 {
		t.Errorf("history depth %d, want 20", cfg.HistoryDepth)
	}
	if cfg.SaveDir != "/tmp/shots" {
		t.Errorf("save_dir %q", cfg.SaveDir)
	}
	if cfg.Format != "bmp" {
		t.Errorf("format %q, want bmp", cfg.Format)
	}
	if !cfg.Shadow.Enabled || cfg.Shadow.Radius != 12 || cfg.Shadow.OffsetX != 4 ||
		cfg.Shadow.OffsetY != 8 || cfg.Shadow.Opacity != 0.4 {
		t.Errorf("shadow %+v", cfg.Shadow)
	}
	if cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("notify %+v", cfg.Notify)
	}
}

func TestParseDefaultsOnEmptyInput(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	def := New()
	if *cfg != *def {
		t.Errorf("empty input produced %+v, want defaults %+v", cfg, def)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("stroke_color = red")); err == nil {
		t.Fatal("expected error for non-hex color")
	}
	if _, err := Parse(strings.NewReader("stroke_color = #FF00")); err == nil {
		t.Fatal("expected error for short hex color")
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.StrokeColor = color.RGBA{18, 52, 86, 255}
	cfg.StrokeWidth = 7
	cfg.Smoothing = true
	cfg.HistoryDepth = 10
	cfg.SaveDir = "/home/user/shots"
	cfg.Format = "pdf"
	cfg.Shadow.Enabled = true

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("circular parse failed: %v", err)
	}
	if *cfg != *cfg2 {
		t.Errorf("round trip changed config:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestParseColorWithAlpha(t *testing.T) {
	col, err := ParseColor("#11223380")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if col != (color.RGBA{0x11, 0x22, 0x33, 0x80}) {
		t.Errorf("unexpected color %v", col)
	}
}
