package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/scrann/internal/clipboard"
	"github.com/example/scrann/internal/compose"
	"github.com/example/scrann/internal/config"
	"github.com/example/scrann/internal/engine"
	"github.com/example/scrann/internal/export"
)

// drawCmd applies scripted annotations to an image without opening a window.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         int
	smooth        bool
	textSize      float64
	shadow        bool
	ops           []drawOp
	*root
	fs *flag.FlagSet
}

type drawOp struct {
	name   string
	coords []int
	text   string
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		return config.ParseColor(spec)
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "red", "stroke color name or hex value")
	fs.IntVar(&d.width, "width", 2, "stroke width in pixels")
	fs.BoolVar(&d.smooth, "smooth", false, "smooth freehand strokes")
	fs.Float64Var(&d.textSize, "text-size", 16, "text size in points")
	fs.BoolVar(&d.shadow, "shadow", false, "apply a drop shadow to the output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	col, err := parseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.color = col

	if d.fromClipboard && d.file != "" {
		return nil, fmt.Errorf("-from-clipboard cannot be used together with -file")
	}
	if !d.fromClipboard && d.file == "" {
		return nil, &UsageError{of: d}
	}
	if d.output == "" {
		if d.fromClipboard && !d.toClipboard {
			return nil, fmt.Errorf("output file is required when reading from the clipboard")
		}
		d.output = d.file
	}

	d.ops, err = parseDrawOps(fs.Args())
	if err != nil {
		return nil, err
	}
	if len(d.ops) == 0 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

// parseDrawOps splits the positional arguments into operations. Consecutive
// operations are separated by "--".
func parseDrawOps(args []string) ([]drawOp, error) {
	var ops []drawOp
	for len(args) > 0 {
		end := len(args)
		for i, a := range args {
			if a == "--" {
				end = i
				break
			}
		}
		part := args[:end]
		if end < len(args) {
			args = args[end+1:]
		} else {
			args = nil
		}
		if len(part) == 0 {
			continue
		}
		op, err := parseDrawOp(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseDrawOp(part []string) (drawOp, error) {
	op := drawOp{name: strings.ToLower(part[0])}
	rest := part[1:]
	switch op.name {
	case "pen":
		coords, err := expectInts(rest, len(rest), op.name)
		if err != nil {
			return drawOp{}, err
		}
		if len(coords) < 4 || len(coords)%2 != 0 {
			return drawOp{}, fmt.Errorf("pen needs an even number of coordinates, at least two points")
		}
		op.coords = coords
	case "line", "arrow", "rect", "ellipse", "crop":
		coords, err := expectInts(rest, 4, op.name)
		if err != nil {
			return drawOp{}, err
		}
		op.coords = coords
	case "text":
		if len(rest) < 3 {
			return drawOp{}, fmt.Errorf("text needs x, y and a string")
		}
		coords, err := expectInts(rest[:2], 2, op.name)
		if err != nil {
			return drawOp{}, err
		}
		op.coords = coords
		op.text = strings.Join(rest[2:], " ")
	default:
		return drawOp{}, fmt.Errorf("unknown operation %q", op.name)
	}
	return op, nil
}

func expectInts(args []string, n int, op string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s needs %d coordinates, got %d", op, n, len(args))
	}
	out := make([]int, 0, n)
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid coordinate %q", op, a)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *drawCmd) Run() error {
	var img *image.RGBA
	if d.fromClipboard {
		dec, err := clipboard.ReadImage()
		if err != nil {
			return fmt.Errorf("failed to read clipboard: %w", err)
		}
		img = image.NewRGBA(dec.Bounds())
		draw.Draw(img, img.Bounds(), dec, dec.Bounds().Min, draw.Src)
	} else {
		var err error
		img, err = loadImage(d.file)
		if err != nil {
			return err
		}
	}

	session := engine.NewSession(img)
	style := engine.Style{Color: d.color, Width: d.width, Smooth: d.smooth}
	for _, op := range d.ops {
		if err := applyDrawOp(session, op, style, d.textSize); err != nil {
			return fmt.Errorf("%s: %w", op.name, err)
		}
	}

	var opts compose.ExportOptions
	if d.shadow {
		sh := compose.DefaultShadowOptions()
		opts.Shadow = &sh
	}
	final := compose.New(session).Final(opts)

	if d.output != "" {
		if err := export.SaveFile(d.output, final); err != nil {
			return err
		}
		d.root.notifier.Save(d.output)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(final); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		d.root.notifier.Copy("image")
	}
	return nil
}

func applyDrawOp(s *engine.Session, op drawOp, style engine.Style, textSize float64) error {
	switch op.name {
	case "pen":
		if _, err := s.BeginStroke(image.Pt(op.coords[0], op.coords[1]), style); err != nil {
			return err
		}
		for i := 2; i < len(op.coords); i += 2 {
			if err := s.Extend(image.Pt(op.coords[i], op.coords[i+1])); err != nil {
				return err
			}
		}
	case "line", "arrow", "rect", "ellipse":
		kind := map[string]engine.ShapeKind{
			"line":    engine.ShapeLine,
			"arrow":   engine.ShapeArrow,
			"rect":    engine.ShapeRect,
			"ellipse": engine.ShapeEllipse,
		}[op.name]
		if _, err := s.BeginShape(kind, image.Pt(op.coords[0], op.coords[1]), style); err != nil {
			return err
		}
		if err := s.Extend(image.Pt(op.coords[2], op.coords[3])); err != nil {
			return err
		}
	case "text":
		if _, err := s.BeginText(image.Pt(op.coords[0], op.coords[1]), textSize, style.Color); err != nil {
			return err
		}
		if err := s.SetDraftText(op.text); err != nil {
			return err
		}
	case "crop":
		if _, err := s.BeginCrop(image.Pt(op.coords[0], op.coords[1])); err != nil {
			return err
		}
		if err := s.Extend(image.Pt(op.coords[2], op.coords[3])); err != nil {
			return err
		}
	}
	_, err := s.Commit()
	return err
}
