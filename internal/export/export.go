// Package export renders a scene to markup and raster image files.
package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/icogen/playground/internal/document"
)

const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultQuality = 95
	DefaultName    = "svg-editor"

	maxDimension = 4096
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrBadDimensions = errors.New("invalid export dimensions")
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	default:
		return "image/svg+xml"
	}
}

func (f Format) Extension() string {
	return string(f)
}

// Options controls the output size and the visible region of the scene.
// Zero values select the defaults.
type Options struct {
	Width    int
	Height   int
	Viewport document.Viewport
	Title    string
	Decimals int
	Quality  int
}

func (o Options) normalized() (Options, error) {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 || o.Width > maxDimension || o.Height > maxDimension {
		return o, fmt.Errorf("%w: %dx%d", ErrBadDimensions, o.Width, o.Height)
	}
	if o.Viewport.Zoom == 0 {
		o.Viewport = document.DefaultViewport()
	}
	o.Viewport = o.Viewport.WithZoom(o.Viewport.Zoom)
	if o.Decimals <= 0 {
		o.Decimals = 2
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o, nil
}

// ViewBox returns the scene region visible through the viewport at the given
// output size: the pan offset negated, scaled by the zoom.
func ViewBox(vp document.Viewport, width, height int) (minX, minY, w, h float64) {
	return -vp.PanX, -vp.PanY, float64(width) / vp.Zoom, float64(height) / vp.Zoom
}

// WriteSVG writes the scene as a standalone svg document. Only the shapes are
// written; editor decoration such as the grid never reaches the output.
func WriteSVG(w io.Writer, scene document.Scene, opts Options) error {
	opts, err := opts.normalized()
	if err != nil {
		return err
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Decimals = opts.Decimals

	minX, minY, vw, vh := ViewBox(opts.Viewport, opts.Width, opts.Height)
	canvas.Startview(float64(opts.Width), float64(opts.Height), minX, minY, vw, vh)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	for _, s := range scene {
		writeShape(canvas, s)
	}
	canvas.End()
	return ew.err
}

// SVG returns the scene as svg markup.
func SVG(scene document.Scene, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, scene, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeShape(canvas *svg.SVG, s document.Shape) {
	attrs := []string{
		attr("id", s.ID),
		attr("fill", s.Fill),
		attr("stroke", s.Stroke),
		attr("stroke-width", strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64)),
	}
	switch s.Type {
	case document.ShapeRect:
		canvas.Rect(s.X, s.Y, s.Width, s.Height, attrs...)
	case document.ShapeCircle:
		canvas.Circle(s.X, s.Y, s.Radius, attrs...)
	case document.ShapeText:
		canvas.Text(s.X, s.Y, s.Content, attrs...)
	case document.ShapePath:
		canvas.Path(escape(s.PathData), attrs...)
	}
}

func attr(name, value string) string {
	return name + `="` + escape(value) + `"`
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Raster renders the scene to a png or jpg image of opts.Width by opts.Height
// pixels. Text is not rasterized. Jpg output is flattened onto white.
func Raster(scene document.Scene, format Format, opts Options) ([]byte, error) {
	if format != FormatPNG && format != FormatJPG {
		return nil, fmt.Errorf("%w: %q is not a raster format", ErrUnknownFormat, format)
	}
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}

	markup, err := SVG(document.Map(scene, rasterPaint), opts)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("read rendered markup: %w", err)
	}

	w, h := opts.Width, opts.Height
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	switch format {
	case FormatJPG:
		flat := imaging.Overlay(imaging.New(w, h, color.White), img, image.Pt(0, 0), 1.0)
		err = imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	default:
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// rasterPaint swaps paint the rasterizer cannot parse, such as "transparent",
// for "none".
func rasterPaint(s document.Shape) document.Shape {
	if _, err := oksvg.ParseSVGColor(s.Fill); err != nil {
		s.Fill = "none"
	}
	if _, err := oksvg.ParseSVGColor(s.Stroke); err != nil {
		s.Stroke = "none"
	}
	return s
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
