package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader. Unknown keys are ignored so
// old binaries tolerate config written by newer ones.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "shadow":
			err = setShadowField(&cfg.Shadow, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("config key %s: %w", key, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "stroke_color":
		col, err := ParseColor(value)
		if err != nil {
			return err
		}
		cfg.StrokeColor = col
	case "stroke_width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 {
			n = 1
		}
		cfg.StrokeWidth = n
	case "smoothing":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		cfg.Smoothing = b
	case "history_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.HistoryDepth = n
	case "save_dir":
		cfg.SaveDir = value
	case "format":
		cfg.Format = strings.ToLower(value)
	}
	return nil
}

func setShadowField(s *Shadow, key, value string) error {
	switch key {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		s.Enabled = b
	case "radius":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		s.Radius = n
	case "offset_x":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		s.OffsetX = n
	case "offset_y":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		s.OffsetY = n
	case "opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		s.Opacity = f
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "save":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		n.Save = b
	case "copy":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		n.Copy = b
	}
	return nil
}

// ParseColor parses a #RRGGBB or #RRGGBBAA hex color string.
func ParseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
