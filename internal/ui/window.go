// Package ui runs the annotation window. It owns no canvas state of its
// own: pointer and keyboard events are fed to the tool machine and every
// frame is rendered from the compositor's preview.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"
	"unicode"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/scrann/internal/clipboard"
	"github.com/example/scrann/internal/compose"
	"github.com/example/scrann/internal/engine"
	"github.com/example/scrann/internal/export"
	"github.com/example/scrann/internal/notify"
	"github.com/example/scrann/internal/tools"
)

// Window hosts an annotation session in a shiny window.
type Window struct {
	session *engine.Session
	machine *tools.Machine
	comp    *compose.Compositor

	output   string
	shadow   *compose.ShadowOptions
	notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Window during creation.
type Option func(*Window)

// WithOutput sets the file path used by the save shortcut.
func WithOutput(path string) Option { return func(w *Window) { w.output = path } }

// WithShadow enables the drop shadow on saved and copied composites.
func WithShadow(opts compose.ShadowOptions) Option {
	return func(w *Window) { w.shadow = &opts }
}

// WithNotifier sets the notifier used after save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// New creates a Window over an existing session, machine and compositor.
func New(s *engine.Session, m *tools.Machine, c *compose.Compositor, opts ...Option) *Window {
	w := &Window{session: s, machine: m, comp: c, output: "scrann.png"}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run executes the UI loop using shiny's driver. It does not return until
// the window closes.
func (w *Window) Run() { driver.Main(w.main) }

func (w *Window) notifyClose() {
	w.closeOnce.Do(func() {
		if w.onClose != nil {
			w.onClose()
		}
	})
}

// frame carries everything drawFrame needs so the event loop and renderer
// share no other state.
type frame struct {
	width, height int
	zoom          float64
	offset        image.Point
	tool          tools.Kind
	colorIdx      int
	widthIdx      int
	sizeIdx       int
	hover         hoverState
	textEntry     bool
	draftText     string
	draftAnchor   image.Point
	message       string
	messageUntil  time.Time
}

func (w *Window) main(s screen.Screen) {
	canvas := w.session.Canvas()

	// Widen the toolbar when a label would otherwise clip.
	meas := &font.Drawer{Face: basicfont.Face7x13}
	max := meas.MeasureString("Scrann").Ceil() + 8
	for _, tb := range toolButtons {
		if lw := meas.MeasureString(tb.label).Ceil() + 8; lw > max {
			max = lw
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}

	width := canvas.Bounds().Dx() + toolbarWidth
	height := canvas.Bounds().Dy() + titleHeight + bottomHeight
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Scrann"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer win.Release()
	defer w.notifyClose()

	st := w.machine.Style()
	colorIdx := colorIndexOf(st.Color)
	widthIdx := widthIndexOf(st.Width)
	sizeIdx := 1 // 16pt
	w.machine.SetTextSize(textSizes[sizeIdx])
	if w.machine.Tool() == tools.Pen && w.machine.State() == tools.Idle {
		w.machine.SelectTool(tools.Pen)
	}

	zoom := fitZoom(canvas, width, height)
	var offset image.Point
	hover := noHover()
	var shortcuts []shortcut
	var message string
	var messageUntil time.Time

	repaint := func() { win.Send(paint.Event{}) }
	say := func(text string) {
		message = text
		messageUntil = time.Now().Add(2 * time.Second)
		log.Print(text)
	}

	doSave := func() {
		img := w.comp.Final(compose.ExportOptions{Shadow: w.shadow})
		if err := export.SaveFile(w.output, img); err != nil {
			log.Printf("save: %v", err)
			say(fmt.Sprintf("save failed: %v", err))
			return
		}
		say(fmt.Sprintf("saved %s", w.output))
		if w.notifier != nil {
			w.notifier.Save(w.output)
		}
	}
	doCopy := func() {
		img := w.comp.Final(compose.ExportOptions{Shadow: w.shadow})
		if err := clipboard.WriteImage(img); err != nil {
			log.Printf("copy: %v", err)
			say(fmt.Sprintf("copy failed: %v", err))
			return
		}
		say("image copied to clipboard")
		if w.notifier != nil {
			w.notifier.Copy("image")
		}
	}

	actions := map[string]func(){
		"undo": func() {
			if !w.machine.Undo() {
				say("nothing to undo")
			}
		},
		"redo": func() {
			if !w.machine.Redo() {
				say("nothing to redo")
			}
		},
		"save":     doSave,
		"copy":     doCopy,
		"cancel":   func() { w.machine.Cancel() },
		"textdone": func() { w.machine.FinishText() },
		"zoom": func() {
			zoom *= 1.25
		},
		"quit": nil, // handled in the loop so it can return
	}

	// image coordinates for a window point
	toCanvas := func(x, y int) image.Point {
		base := imageRect(canvas, zoom)
		return image.Point{
			X: int((float64(x)-float64(base.Min.X))/zoom) - offset.X,
			Y: int((float64(y)-float64(base.Min.Y))/zoom) - offset.Y,
		}
	}

	snapshot := func() frame {
		f := frame{
			width:        width,
			height:       height,
			zoom:         zoom,
			offset:       offset,
			tool:         w.machine.Tool(),
			colorIdx:     colorIdx,
			widthIdx:     widthIdx,
			sizeIdx:      sizeIdx,
			hover:        hover,
			textEntry:    w.machine.State() == tools.TextEntry,
			message:      message,
			messageUntil: messageUntil,
		}
		if f.textEntry {
			if tb, ok := w.session.Draft().(*engine.TextBlock); ok {
				f.draftText = tb.Text
				f.draftAnchor = tb.Anchor
			}
		}
		return f
	}

	for {
		e := win.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			repaint()
		case paint.Event:
			shortcuts = w.drawFrame(s, win, snapshot())
		case mouse.Event:
			px, py := int(e.X), int(e.Y)
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				repaint()
				continue
			}
			if py >= height-bottomHeight {
				hover.shortcut = -1
				for i, sc := range shortcuts {
					if (image.Point{px, py}).In(sc.rect) {
						hover.shortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							if sc.action == "quit" {
								return
							}
							if fn := actions[sc.action]; fn != nil {
								fn()
							}
						}
						break
					}
				}
				repaint()
				continue
			}
			if px < toolbarWidth && py >= titleHeight {
				w.handleToolbar(e, &colorIdx, &widthIdx, &sizeIdx, &hover)
				repaint()
				continue
			}
			if py < titleHeight {
				continue
			}

			hover = noHover()
			p := toCanvas(px, py)
			switch e.Direction {
			case mouse.DirPress:
				if e.Button == mouse.ButtonLeft {
					w.machine.PointerDown(p)
					repaint()
				}
			case mouse.DirNone:
				if w.machine.State() == tools.Gesture {
					w.machine.PointerMove(p)
					repaint()
				}
			case mouse.DirRelease:
				if e.Button == mouse.ButtonLeft {
					w.machine.PointerUp(p)
					repaint()
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if w.machine.State() == tools.TextEntry {
				switch e.Code {
				case key.CodeReturnEnter:
					w.machine.FinishText()
				case key.CodeEscape:
					w.machine.Cancel()
				case key.CodeDeleteBackspace:
					w.machine.BackspaceText()
				default:
					if e.Rune > 0 {
						w.machine.AppendText(string(e.Rune))
					}
				}
				repaint()
				continue
			}
			if e.Modifiers&key.ModControl != 0 {
				switch unicode.ToLower(e.Rune) {
				case 'z':
					if e.Modifiers&key.ModShift != 0 {
						actions["redo"]()
					} else {
						actions["undo"]()
					}
					repaint()
				case 'y':
					actions["redo"]()
					repaint()
				case 's':
					doSave()
					repaint()
				case 'c':
					doCopy()
					repaint()
				}
				continue
			}
			switch unicode.ToLower(e.Rune) {
			case 'p':
				w.machine.SelectTool(tools.Pen)
				repaint()
			case 'x':
				w.machine.SelectTool(tools.Rect)
				repaint()
			case 'o':
				w.machine.SelectTool(tools.Ellipse)
				repaint()
			case 'l':
				w.machine.SelectTool(tools.Line)
				repaint()
			case 'a':
				w.machine.SelectTool(tools.Arrow)
				repaint()
			case 't':
				w.machine.SelectTool(tools.Text)
				repaint()
			case 'c':
				w.machine.SelectTool(tools.Crop)
				repaint()
			case 'g':
				st := w.machine.Style()
				st.Smooth = !st.Smooth
				w.machine.SetStyle(st)
				if st.Smooth {
					say("pen smoothing on")
				} else {
					say("pen smoothing off")
				}
				repaint()
			case 'q':
				return
			case '+', '=':
				zoom *= 1.25
				repaint()
			case '-':
				zoom /= 1.25
				if zoom < 0.1 {
					zoom = 0.1
				}
				repaint()
			case -1:
				switch e.Code {
				case key.CodeEscape:
					w.machine.Cancel()
					repaint()
				case key.CodeLeftArrow:
					offset.X -= 10
					repaint()
				case key.CodeRightArrow:
					offset.X += 10
					repaint()
				case key.CodeUpArrow:
					offset.Y -= 10
					repaint()
				case key.CodeDownArrow:
					offset.Y += 10
					repaint()
				}
			}
		}
	}
}

// handleToolbar resolves a mouse event over the toolbar strip into a tool,
// color, width or text size selection.
func (w *Window) handleToolbar(e mouse.Event, colorIdx, widthIdx, sizeIdx *int, hover *hoverState) {
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	p := image.Point{int(e.X), int(e.Y)}
	*hover = noHover()

	l := layoutToolbar(w.machine.Tool())
	if p.In(l.toolRows) {
		idx := (p.Y - l.toolRows.Min.Y) / 24
		if idx >= 0 && idx < len(toolButtons) {
			hover.tool = idx
			if press {
				w.machine.SelectTool(toolButtons[idx].tool)
			}
		}
		return
	}
	if p.In(l.paletteGrid) {
		col := (p.X - l.paletteGrid.Min.X) / 18
		row := (p.Y - l.paletteGrid.Min.Y) / 18
		idx := row*l.paletteCols + col
		if idx >= 0 && idx < len(palette) {
			hover.palette = idx
			if press {
				*colorIdx = idx
				st := w.machine.Style()
				st.Color = palette[idx]
				w.machine.SetStyle(st)
			}
		}
		return
	}
	if !l.widthRows.Empty() && p.In(l.widthRows) {
		idx := (p.Y - l.widthRows.Min.Y) / 16
		if idx >= 0 && idx < len(widths) {
			hover.width = idx
			if press {
				*widthIdx = idx
				st := w.machine.Style()
				st.Width = widths[idx]
				w.machine.SetStyle(st)
			}
		}
		return
	}
	if !l.sizeRows.Empty() && p.In(l.sizeRows) {
		idx := (p.Y - l.sizeRows.Min.Y) / 24
		if idx >= 0 && idx < len(textSizes) {
			hover.textSize = idx
			if press {
				*sizeIdx = idx
				w.machine.SetTextSize(textSizes[idx])
			}
		}
	}
}

func (w *Window) drawFrame(s screen.Screen, win screen.Window, f frame) []shortcut {
	b, err := s.NewBuffer(image.Point{f.width, f.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return nil
	}
	defer b.Release()

	dst := b.RGBA()
	drawBackdrop(dst)

	preview := w.comp.Preview()
	base := imageRect(preview, f.zoom)
	panned := base.Add(image.Pt(int(float64(f.offset.X)*f.zoom), int(float64(f.offset.Y)*f.zoom)))
	xdraw.NearestNeighbor.Scale(dst, panned, preview, preview.Bounds(), draw.Over, nil)

	drawTitle(dst)
	drawToolbar(dst, f.tool, f.colorIdx, f.widthIdx, f.sizeIdx, f.hover)
	shortcuts := drawShortcuts(dst, f.width, f.height, f.textEntry, f.zoom, f.hover.shortcut)

	if f.textEntry {
		// The preview already shows the draft text; overlay just the caret.
		face := textFaces[f.sizeIdx]
		adv := (&font.Drawer{Face: face}).MeasureString(f.draftText).Ceil()
		cx := panned.Min.X + int(float64(f.draftAnchor.X+adv)*f.zoom)
		cy := panned.Min.Y + int(float64(f.draftAnchor.Y)*f.zoom)
		ascent := face.Metrics().Ascent.Ceil()
		caret := image.Rect(cx, cy-int(float64(ascent)*f.zoom), cx+2, cy)
		draw.Draw(dst, caret, image.Black, image.Point{}, draw.Src)
	}

	if f.message != "" && time.Now().Before(f.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
		wmsg := d.MeasureString(f.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (f.width - wmsg) / 2
		py := (f.height-ascent-descent)/2 + ascent
		box := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, box, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		outlineRect(dst, box, color.Black)
		d.Dot = fixed.P(px, py)
		d.DrawString(f.message)
	}

	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
	return shortcuts
}
