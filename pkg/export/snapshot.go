// Package export writes the chart to files: static SVG and PNG snapshots
// and a self-contained interactive HTML page.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
)

// Format is an output file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned for formats other than svg, png and html.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat normalises a format name such as ".SVG".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatSVG, FormatPNG, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want svg, png or html)", ErrUnsupportedFormat, s)
}

// InferFormat picks the format from the path extension, defaulting to svg.
func InferFormat(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatSVG
}

var (
	colorBackdrop = color.RGBA{255, 255, 255, 255}
	colorAxis     = color.RGBA{0, 0, 0, 255}
	colorTick     = color.RGBA{68, 68, 68, 255}
	colorActive   = color.RGBA{0, 0, 0, 255}
	colorInactive = color.RGBA{170, 170, 170, 255}
	colorLabel    = color.RGBA{0, 0, 0, 255}
)

const tickSize = 6

// SnapshotOptions controls a static export.
type SnapshotOptions struct {
	Path   string      // Output path; format inferred from extension when Format is empty
	Format Format      // svg or png
	Scene  chart.Scene // Frame to draw
	Title  string      // Optional document title
}

// SaveSnapshot renders opts.Scene to an SVG or PNG file.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Export)()

	if opts.Path == "" {
		return errors.New("output path is required")
	}
	if len(opts.Scene.Markers) == 0 {
		return chart.ErrNoRecords
	}
	format := opts.Format
	if format == "" {
		format = InferFormat(opts.Path)
		if filepath.Ext(opts.Path) == "" {
			opts.Path += "." + string(format)
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return fmt.Errorf("%w %q for snapshots (want svg or png)", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if format == FormatPNG {
		return renderPNG(opts.Path, opts.Scene)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, opts.Scene, opts.Title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSVG draws scene as an SVG document.
func WriteSVG(w io.Writer, scene chart.Scene, title string) error {
	l := scene.Layout
	width, height := iround(l.Width), iround(l.Height)
	pw, ph := iround(l.PlotWidth()), iround(l.PlotHeight())

	canvas := svg.New(w)
	canvas.Start(width, height)
	if title != "" {
		canvas.Title(title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+css(colorBackdrop))
	canvas.Translate(iround(l.Margin.Left), iround(l.Margin.Top))

	// axes
	axisStyle := fmt.Sprintf("stroke:%s;stroke-width:1", css(colorAxis))
	tickText := fmt.Sprintf("fill:%s;font-size:10px;font-family:sans-serif", css(colorTick))
	canvas.Line(0, ph, pw, ph, axisStyle)
	for _, t := range scene.XAxis.Scale.MajorTicks() {
		x := iround(t.Pos)
		canvas.Line(x, ph, x, ph+tickSize, axisStyle)
		canvas.Text(x, ph+tickSize+12, t.Label, tickText+";text-anchor:middle")
	}
	canvas.Line(0, 0, 0, ph, axisStyle)
	for _, t := range scene.YAxis.Scale.MajorTicks() {
		y := iround(t.Pos)
		canvas.Line(-tickSize, y, 0, y, axisStyle)
		canvas.Text(-tickSize-3, y+3, t.Label, tickText+";text-anchor:end")
	}

	// markers, then labels on top
	fill := css(markerColor(scene.Style.MarkerFill))
	for _, m := range scene.Markers {
		canvas.Circle(iround(m.X), iround(m.Y), iround(m.R),
			fmt.Sprintf("fill:%s;opacity:%g", fill, scene.Style.MarkerOpacity))
	}
	labelStyle := fmt.Sprintf("fill:%s;font-size:%gpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:central",
		css(colorLabel), scene.Style.LabelFontSize)
	for _, pl := range scene.Labels {
		canvas.Text(iround(pl.X), iround(pl.Y), pl.Text, labelStyle)
	}

	// axis selectors
	for _, s := range scene.Selectors {
		st := fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;text-anchor:middle", css(colorInactive))
		if s.Active {
			st = fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;text-anchor:middle;font-weight:bold", css(colorActive))
		}
		if s.Rotated {
			canvas.TranslateRotate(iround(s.X), iround(s.Y), -90)
			canvas.Text(0, 0, s.Title, st)
			canvas.Gend()
			continue
		}
		canvas.Text(iround(s.X), iround(s.Y), s.Title, st)
	}

	canvas.Gend()
	canvas.End()
	return nil
}

// RenderImage draws scene onto a gg context sized to the layout.
func RenderImage(scene chart.Scene) *gg.Context {
	l := scene.Layout
	dc := gg.NewContext(iround(l.Width), iround(l.Height))
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	ox, oy := l.Margin.Left, l.Margin.Top
	pw, ph := l.PlotWidth(), l.PlotHeight()

	dc.SetColor(colorAxis)
	dc.SetLineWidth(1)
	dc.DrawLine(ox, oy+ph, ox+pw, oy+ph)
	dc.DrawLine(ox, oy, ox, oy+ph)
	dc.Stroke()
	for _, t := range scene.XAxis.Scale.MajorTicks() {
		dc.SetColor(colorAxis)
		dc.DrawLine(ox+t.Pos, oy+ph, ox+t.Pos, oy+ph+tickSize)
		dc.Stroke()
		dc.SetColor(colorTick)
		dc.DrawStringAnchored(t.Label, ox+t.Pos, oy+ph+tickSize+8, 0.5, 0.5)
	}
	for _, t := range scene.YAxis.Scale.MajorTicks() {
		dc.SetColor(colorAxis)
		dc.DrawLine(ox-tickSize, oy+t.Pos, ox, oy+t.Pos)
		dc.Stroke()
		dc.SetColor(colorTick)
		dc.DrawStringAnchored(t.Label, ox-tickSize-3, oy+t.Pos, 1, 0.5)
	}

	fill := markerColor(scene.Style.MarkerFill)
	for _, m := range scene.Markers {
		dc.SetRGBA(float64(fill.R)/255, float64(fill.G)/255, float64(fill.B)/255, scene.Style.MarkerOpacity)
		dc.DrawCircle(ox+m.X, oy+m.Y, m.R)
		dc.Fill()
	}
	dc.SetColor(colorLabel)
	for _, pl := range scene.Labels {
		dc.DrawStringAnchored(pl.Text, ox+pl.X, oy+pl.Y, 0.5, 0.5)
	}

	for _, s := range scene.Selectors {
		dc.SetColor(colorInactive)
		if s.Active {
			dc.SetColor(colorActive)
		}
		x, y := ox+s.X, oy+s.Y
		if s.Rotated {
			dc.Push()
			dc.RotateAbout(gg.Radians(-90), x, y)
			dc.DrawStringAnchored(s.Title, x, y, 0.5, 0.5)
			dc.Pop()
			continue
		}
		dc.DrawStringAnchored(s.Title, x, y, 0.5, 0.5)
	}
	return dc
}

func renderPNG(path string, scene chart.Scene) error {
	return RenderImage(scene).SavePNG(path)
}

// WritePNG encodes scene as PNG to w.
func WritePNG(w io.Writer, scene chart.Scene) error {
	return RenderImage(scene).EncodePNG(w)
}

// markerColor resolves an SVG colour name or #rrggbb hex value; unknown
// values fall back to pink.
func markerColor(name string) color.RGBA {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	var r, g, b uint8
	if len(name) == 7 && name[0] == '#' {
		if _, err := fmt.Sscanf(name, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}
		}
	}
	return colornames.Pink
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func iround(v float64) int {
	return int(math.Round(v))
}
