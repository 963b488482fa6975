// Package config holds the static style configuration read at session
// start: stroke appearance, smoothing, undo depth, and export defaults.
// The on-disk format is a small rc file of key = value lines with optional
// [section] headers.
package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Shadow holds the optional export drop-shadow settings.
type Shadow struct {
	Enabled bool
	Radius  int
	OffsetX int
	OffsetY int
	Opacity float64
}

// Notify enables desktop notifications per event.
type Notify struct {
	Save bool
	Copy bool
}

// Config is the application configuration.
type Config struct {
	StrokeColor  color.RGBA
	StrokeWidth  int
	Smoothing    bool
	HistoryDepth int
	SaveDir      string
	Format       string
	Shadow       Shadow
	Notify       Notify
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		StrokeColor:  color.RGBA{255, 0, 0, 255},
		StrokeWidth:  3,
		Smoothing:    false,
		HistoryDepth: 50,
		Format:       "png",
		Shadow: Shadow{
			Enabled: false,
			Radius:  24,
			OffsetX: 16,
			OffsetY: 16,
			Opacity: 0.55,
		},
		Notify: Notify{Save: true, Copy: true},
	}
}

// String implements fmt.Stringer and returns the configuration in RC
// format, suitable for writing back to disk.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "stroke_color = %s\n", colorToHex(c.StrokeColor))
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.StrokeWidth)
	fmt.Fprintf(&sb, "smoothing = %v\n", c.Smoothing)
	fmt.Fprintf(&sb, "history_depth = %d\n", c.HistoryDepth)
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	sb.WriteString("\n[shadow]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Shadow.Enabled)
	fmt.Fprintf(&sb, "radius = %d\n", c.Shadow.Radius)
	fmt.Fprintf(&sb, "offset_x = %d\n", c.Shadow.OffsetX)
	fmt.Fprintf(&sb, "offset_y = %d\n", c.Shadow.OffsetY)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Shadow.Opacity)
	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	return sb.String()
}

func colorToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
