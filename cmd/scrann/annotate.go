package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/example/scrann/internal/capture"
	"github.com/example/scrann/internal/compose"
	"github.com/example/scrann/internal/engine"
	"github.com/example/scrann/internal/history"
	"github.com/example/scrann/internal/tools"
	"github.com/example/scrann/internal/ui"
)

// annotateCmd opens the annotation window over a captured or loaded image.
type annotateCmd struct {
	mode   string
	file   string
	output string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate (open-file mode)")
	fs.StringVar(&a.output, "output", "", "output file path; defaults to a timestamped name in save_dir")
	if len(args) < 1 {
		return nil, &UsageError{of: a}
	}
	a.mode = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	var img *image.RGBA
	switch a.mode {
	case "capture-screen":
		var err error
		img, err = capture.Screen()
		if err != nil {
			return fmt.Errorf("failed to capture screen: %w", err)
		}
	case "capture-region":
		var err error
		img, err = capture.Region()
		if err != nil {
			return fmt.Errorf("failed to capture region: %w", err)
		}
	case "open-file":
		if a.file == "" {
			return &UsageError{of: a}
		}
		var err error
		img, err = loadImage(a.file)
		if err != nil {
			return err
		}
	default:
		return &UsageError{of: a}
	}

	cfg := a.root.config
	output := a.output
	if output == "" {
		name := fmt.Sprintf("scrann-%s.%s", time.Now().Format("20060102-150405"), cfg.Format)
		output = filepath.Join(cfg.SaveDir, name)
	}

	session := engine.NewSession(img)
	hist := history.New(cfg.HistoryDepth)
	machine := tools.NewMachine(session, hist, engine.Style{
		Color:  cfg.StrokeColor,
		Width:  cfg.StrokeWidth,
		Smooth: cfg.Smoothing,
	})
	machine.SelectTool(tools.Pen)
	comp := compose.New(session)

	opts := []ui.Option{
		ui.WithOutput(output),
		ui.WithNotifier(a.root.notifier),
	}
	if cfg.Shadow.Enabled {
		opts = append(opts, ui.WithShadow(compose.ShadowOptions{
			Radius:  cfg.Shadow.Radius,
			Offset:  image.Pt(cfg.Shadow.OffsetX, cfg.Shadow.OffsetY),
			Opacity: cfg.Shadow.Opacity,
		}))
	}
	ui.New(session, machine, comp, opts...).Run()
	return nil
}

func loadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	img := image.NewRGBA(dec.Bounds())
	draw.Draw(img, img.Bounds(), dec, dec.Bounds().Min, draw.Src)
	return img, nil
}
