package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/scrann/internal/tools"
)

const (
	titleHeight  = 24
	bottomHeight = 24
)

var toolbarWidth = 48

type toolButton struct {
	label string
	tool  tools.Kind
}

var toolButtons = []toolButton{
	{label: "P:Pen", tool: tools.Pen},
	{label: "X:Rect", tool: tools.Rect},
	{label: "O:Ellipse", tool: tools.Ellipse},
	{label: "L:Line", tool: tools.Line},
	{label: "A:Arrow", tool: tools.Arrow},
	{label: "T:Text", tool: tools.Text},
	{label: "C:Crop", tool: tools.Crop},
}

var (
	palette = []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{128, 0, 0, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
		{128, 128, 0, 255},
		{0, 128, 128, 255},
		{128, 0, 128, 255},
		{192, 192, 192, 255},
		{128, 128, 128, 255},
	}
	widths    = []int{1, 2, 3, 4, 6, 8}
	textSizes = []float64{12, 16, 20, 24, 32}
)

var checkerLight = color.RGBA{220, 220, 220, 255}
var checkerDark = color.RGBA{192, 192, 192, 255}
var chromeFill = color.RGBA{220, 220, 220, 255}

var messageFace font.Face
var textFaces []font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	for _, sz := range textSizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sz, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Fatalf("font face: %v", err)
		}
		textFaces = append(textFaces, face)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// colorIndexOf returns the palette index matching col, growing the palette
// when the configured color is not a stock entry.
func colorIndexOf(col color.RGBA) int {
	for i, c := range palette {
		if c == col {
			return i
		}
	}
	palette = append(palette, col)
	return len(palette) - 1
}

// widthIndexOf returns the width slot matching w, growing the list and
// keeping it sorted is not worth it for one config value, so an unknown
// width is appended.
func widthIndexOf(w int) int {
	for i, v := range widths {
		if v == w {
			return i
		}
	}
	widths = append(widths, w)
	return len(widths) - 1
}

func fitZoom(img *image.RGBA, winW, winH int) float64 {
	availW := winW - toolbarWidth
	availH := winH - titleHeight - bottomHeight
	zx := float64(availW) / float64(img.Bounds().Dx())
	zy := float64(availH) / float64(img.Bounds().Dy())
	if zx < zy {
		return zx
	}
	return zy
}

// imageRect anchors the canvas just below the title bar so its position is
// stable across zoom changes.
func imageRect(img *image.RGBA, zoom float64) image.Rectangle {
	w := int(float64(img.Bounds().Dx()) * zoom)
	h := int(float64(img.Bounds().Dy()) * zoom)
	return image.Rect(toolbarWidth, titleHeight, toolbarWidth+w, titleHeight+h)
}

var (
	backdropMu    sync.Mutex
	backdropCache *image.RGBA
)

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	backdropMu.Lock()
	if backdropCache == nil || backdropCache.Bounds() != b {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, backdropCache.Bounds(), 8, checkerLight, checkerDark)
	}
	cached := backdropCache
	backdropMu.Unlock()
	draw.Draw(dst, b, cached, image.Point{}, draw.Src)
}

func drawTitle(dst *image.RGBA) {
	draw.Draw(dst, image.Rect(0, 0, dst.Bounds().Dx(), titleHeight),
		&image.Uniform{chromeFill}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("Scrann")
}

func buttonFill(selected, hovered bool) color.RGBA {
	switch {
	case selected:
		return color.RGBA{150, 150, 150, 255}
	case hovered:
		return color.RGBA{180, 180, 180, 255}
	default:
		return color.RGBA{200, 200, 200, 255}
	}
}

func outlineRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, col)
		dst.Set(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, col)
		dst.Set(r.Max.X-1, y, col)
	}
}

// toolbarLayout fixes where each toolbar region lands so hit testing in the
// event loop and drawing stay in agreement.
type toolbarLayout struct {
	toolRows    image.Rectangle
	paletteGrid image.Rectangle
	paletteCols int
	widthRows   image.Rectangle
	sizeRows    image.Rectangle
}

func layoutToolbar(tool tools.Kind) toolbarLayout {
	var l toolbarLayout
	y := titleHeight
	l.toolRows = image.Rect(0, y, toolbarWidth, y+len(toolButtons)*24)
	y = l.toolRows.Max.Y + 4

	l.paletteCols = toolbarWidth / 18
	if l.paletteCols < 1 {
		l.paletteCols = 1
	}
	rows := (len(palette) + l.paletteCols - 1) / l.paletteCols
	l.paletteGrid = image.Rect(4, y, 4+l.paletteCols*18, y+rows*18)
	y = l.paletteGrid.Max.Y + 4

	switch tool {
	case tools.Text:
		l.sizeRows = image.Rect(0, y, toolbarWidth, y+len(textSizes)*24)
	case tools.Crop:
		// crop has no stroke width
	default:
		l.widthRows = image.Rect(0, y, toolbarWidth, y+len(widths)*16)
	}
	return l
}

type hoverState struct {
	tool     int
	palette  int
	width    int
	textSize int
	shortcut int
}

func noHover() hoverState {
	return hoverState{tool: -1, palette: -1, width: -1, textSize: -1, shortcut: -1}
}

func drawToolbar(dst *image.RGBA, tool tools.Kind, colorIdx, widthIdx, sizeIdx int, hover hoverState) {
	winH := dst.Bounds().Dy()
	draw.Draw(dst, image.Rect(0, titleHeight, toolbarWidth, winH-bottomHeight),
		&image.Uniform{chromeFill}, image.Point{}, draw.Src)

	l := layoutToolbar(tool)
	for i, tb := range toolButtons {
		r := image.Rect(0, l.toolRows.Min.Y+i*24, toolbarWidth, l.toolRows.Min.Y+(i+1)*24)
		draw.Draw(dst, r, &image.Uniform{buttonFill(tb.tool == tool, i == hover.tool)}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
			Dot: fixed.P(r.Min.X+4, r.Min.Y+16)}
		d.DrawString(tb.label)
	}

	for i, c := range palette {
		cx := l.paletteGrid.Min.X + (i%l.paletteCols)*18
		cy := l.paletteGrid.Min.Y + (i/l.paletteCols)*18
		cell := image.Rect(cx+1, cy+1, cx+17, cy+17)
		draw.Draw(dst, cell, &image.Uniform{c}, image.Point{}, draw.Src)
		if i == colorIdx {
			outlineRect(dst, cell.Inset(-1), color.Black)
		} else if i == hover.palette {
			outlineRect(dst, cell.Inset(-1), color.RGBA{90, 90, 90, 255})
		}
	}

	if !l.widthRows.Empty() {
		for i, w := range widths {
			r := image.Rect(0, l.widthRows.Min.Y+i*16, toolbarWidth, l.widthRows.Min.Y+(i+1)*16)
			draw.Draw(dst, r, &image.Uniform{buttonFill(i == widthIdx, i == hover.width)}, image.Point{}, draw.Src)
			mid := (r.Min.Y + r.Max.Y) / 2
			bar := image.Rect(r.Min.X+6, mid-w/2, r.Max.X-6, mid-w/2+w)
			draw.Draw(dst, bar, image.Black, image.Point{}, draw.Src)
		}
	}

	if !l.sizeRows.Empty() {
		for i, sz := range textSizes {
			r := image.Rect(0, l.sizeRows.Min.Y+i*24, toolbarWidth, l.sizeRows.Min.Y+(i+1)*24)
			draw.Draw(dst, r, &image.Uniform{buttonFill(i == sizeIdx, i == hover.textSize)}, image.Point{}, draw.Src)
			d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
				Dot: fixed.P(r.Min.X+4, r.Min.Y+16)}
			d.DrawString(fmt.Sprintf("%.0fpt", sz))
		}
	}
}

type shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

// drawShortcuts renders the bottom help strip and records the clickable
// rectangle of each entry for hit testing.
func drawShortcuts(dst *image.RGBA, width, height int, textMode bool, zoom float64, hover int) []shortcut {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{chromeFill}, image.Point{}, draw.Src)

	var list []shortcut
	if textMode {
		list = []shortcut{
			{label: "Enter:place", action: "textdone"},
			{label: "Esc:cancel", action: "cancel"},
		}
	} else {
		list = []shortcut{
			{label: "^Z:undo", action: "undo"},
			{label: "^Y:redo", action: "redo"},
			{label: "^C:copy", action: "copy"},
			{label: "^S:save", action: "save"},
			{label: fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), action: "zoom"},
			{label: "Esc:cancel", action: "cancel"},
			{label: "Q:quit", action: "quit"},
		}
	}

	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range list {
		sc := &list[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		fill := color.RGBA{200, 200, 200, 255}
		if i == hover {
			fill = color.RGBA{180, 180, 180, 255}
		}
		draw.Draw(dst, sc.rect, &image.Uniform{fill}, image.Point{}, draw.Src)
		outlineRect(dst, sc.rect, color.Black)
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
			Dot: fixed.P(sc.rect.Min.X+2, sc.rect.Min.Y+14)}
		d.DrawString(sc.label)
		x = sc.rect.Max.X + 8
	}
	return list
}
