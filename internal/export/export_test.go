package export

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/importer"
)

func testScene() document.Scene {
	style := document.Style{Fill: "#ff0000", Stroke: "#000000", StrokeWidth: 2}
	return document.Scene{
		document.NewRect("r", 10, 10, 100, 50, style),
		document.NewCircle("c", 200, 200, 40, document.Style{Fill: document.Transparent, Stroke: "#0000ff", StrokeWidth: 1}),
		document.NewText("t", 20, 300, `Tom & "Jerry" <3`, style),
		document.NewPath("p", 0, 0, "M0 0 L10 10", style),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, "PNG": FormatPNG, "jpg": FormatJPG, "jpeg": FormatJPG} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, "image/jpeg", FormatJPG.ContentType())
	assert.Equal(t, "svg", FormatSVG.Extension())
}

func TestSVG_Elements(t *testing.T) {
	out, err := SVG(testScene(), Options{Title: "demo"})
	require.NoError(t, err)
	markup := string(out)

	assert.Contains(t, markup, `viewBox="0.00 0.00 800.00 600.00"`)
	assert.Contains(t, markup, `<rect x="10.00" y="10.00" width="100.00" height="50.00" id="r" fill="#ff0000"`)
	assert.Contains(t, markup, `<circle cx="200.00" cy="200.00" r="40.00" id="c" fill="transparent"`)
	assert.Contains(t, markup, `Tom &amp; &#34;Jerry&#34; &lt;3</text>`)
	assert.Contains(t, markup, `<path d="M0 0 L10 10"`)
	assert.Contains(t, markup, `<title>demo</title>`)
	assert.NotContains(t, markup, "<g")
}

func TestSVG_ViewBoxFollowsViewport(t *testing.T) {
	out, err := SVG(nil, Options{Width: 800, Height: 600, Viewport: document.Viewport{Zoom: 2, PanX: 10, PanY: -20}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `viewBox="-10.00 20.00 400.00 300.00"`)
}

func TestSVG_RoundTripsThroughImporter(t *testing.T) {
	scene := testScene()[:2]
	out, err := SVG(scene, Options{})
	require.NoError(t, err)

	shapes := importer.Import(string(out), document.DefaultStyle())
	require.Len(t, shapes, 2)
	assert.Equal(t, scene[0].Width, shapes[0].Width)
	assert.Equal(t, scene[1].Radius, shapes[1].Radius)
	assert.Equal(t, document.Transparent, shapes[1].Fill)
}

func TestSVG_BadDimensions(t *testing.T) {
	_, err := SVG(nil, Options{Width: -1})
	assert.ErrorIs(t, err, ErrBadDimensions)
}

func TestRaster(t *testing.T) {
	for _, format := range []Format{FormatPNG, FormatJPG} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Raster(testScene(), format, Options{Width: 320, Height: 240})
			require.NoError(t, err)

			img, name, err := image.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, strings.Replace(string(format), "jpg", "jpeg", 1), name)
			assert.Equal(t, 320, img.Bounds().Dx())
			assert.Equal(t, 240, img.Bounds().Dy())

			// Inside the red rectangle.
			r, g, b, _ := img.At(20, 15).RGBA()
			assert.Greater(t, r, uint32(0xc000))
			assert.Less(t, g, uint32(0x4000))
			assert.Less(t, b, uint32(0x4000))
		})
	}
}

func TestRaster_RejectsSVG(t *testing.T) {
	_, err := Raster(nil, FormatSVG, Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
