// Package importer turns externally generated vector markup into scene shapes.
package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/icogen/playground/internal/document"
)

// IDPrefix is prepended to the child index to form the id of imported shapes.
const IDPrefix = "generated-"

var (
	ErrNoMarkup = errors.New("no svg markup found")

	fencePattern  = regexp.MustCompile("```svg|```")
	svgPattern    = regexp.MustCompile(`(?s)<svg[^>]*>.*</svg>`)
	numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// StripFences removes markdown code fences and any decoration around the
// outermost svg element. Input without an svg element is returned trimmed.
func StripFences(markup string) string {
	s := fencePattern.ReplaceAllString(markup, "")
	start := strings.Index(s, "<svg")
	end := strings.LastIndex(s, "</svg>")
	if start >= 0 && end > start {
		s = s[start : end+len("</svg>")]
	}
	return strings.TrimSpace(s)
}

// LooksLikeSVG reports whether text contains a complete svg element.
func LooksLikeSVG(text string) bool {
	return svgPattern.MatchString(text)
}

// Parse reads the direct children of the root element in document order.
// Rect, circle, text and path children become shapes with id
// "generated-<index>", where index counts every child element, skipped ones
// included. Missing paint attributes fall back to defaults.
//
// On malformed input Parse returns the shapes read before the error.
func Parse(markup string, defaults document.Style) ([]document.Shape, error) {
	src := StripFences(markup)
	if src == "" {
		return nil, ErrNoMarkup
	}

	d := xml.NewDecoder(strings.NewReader(src))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel

	if _, err := rootElement(d); err != nil {
		return nil, err
	}

	defaults = defaults.Normalized()
	shapes := []document.Shape{}
	index := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return shapes, nil
		}
		if err != nil {
			return shapes, fmt.Errorf("parse markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			text, err := textContent(d)
			if err != nil {
				return shapes, fmt.Errorf("parse %s element: %w", t.Name.Local, err)
			}
			if shape, ok := toShape(IDPrefix+strconv.Itoa(index), t, text, defaults); ok {
				shapes = append(shapes, shape)
			}
			index++
		case xml.EndElement:
			// Closing tag of the root.
			return shapes, nil
		}
	}
}

// Import is Parse without the error: malformed markup yields whatever shapes
// could be read, possibly none.
func Import(markup string, defaults document.Style) []document.Shape {
	shapes, _ := Parse(markup, defaults)
	if shapes == nil {
		shapes = []document.Shape{}
	}
	return shapes
}

func rootElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return xml.StartElement{}, ErrNoMarkup
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("parse markup: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// textContent consumes the rest of the current element and returns the
// concatenated character data of it and its descendants.
func textContent(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

func toShape(id string, el xml.StartElement, text string, defaults document.Style) (document.Shape, bool) {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		attrs[strings.ToLower(a.Name.Local)] = a.Value
	}
	first := func(names ...string) string {
		for _, n := range names {
			if v := attrs[n]; v != "" {
				return v
			}
		}
		return ""
	}

	style := document.Style{
		Fill:        orDefault(attrs["fill"], defaults.Fill),
		Stroke:      orDefault(attrs["stroke"], defaults.Stroke),
		StrokeWidth: parseNumber(attrs["stroke-width"], defaults.StrokeWidth),
	}
	x := parseNumber(first("x", "cx"), 0)
	y := parseNumber(first("y", "cy"), 0)

	switch strings.ToLower(el.Name.Local) {
	case "rect":
		return document.NewRect(id, x, y, parseNumber(attrs["width"], 0), parseNumber(attrs["height"], 0), style), true
	case "circle":
		return document.NewCircle(id, x, y, parseNumber(attrs["r"], 0), style), true
	case "text":
		return document.NewText(id, x, y, text, style), true
	case "path":
		return document.NewPath(id, x, y, attrs["d"], style), true
	default:
		return document.Shape{}, false
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseNumber reads the leading number of s, so "12px" is 12. Anything
// without a numeric prefix yields def.
func parseNumber(s string, def float64) float64 {
	m := numberPattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return def
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return def
	}
	return v
}
