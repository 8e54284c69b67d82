package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/export"
	"github.com/icogen/playground/internal/importer"
)

func main() {
	var (
		inputFile = flag.String("i", "", "Input file path (default: stdin)")
		format    = flag.String("f", "", "Format (svg, png, jpg, json) - inferred from -o if not specified")
		output    = flag.String("o", "", "Output file path (default: stdout)")
		width     = flag.Int("w", export.DefaultWidth, "Output width in pixels")
		height    = flag.Int("h", export.DefaultHeight, "Output height in pixels")
		quality   = flag.Int("q", export.DefaultQuality, "JPEG quality (1-100)")
	)

	flag.Parse()

	content, err := readInput(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	shapes, err := importer.Parse(string(content), document.DefaultStyle())
	if err != nil {
		if len(shapes) == 0 {
			fmt.Fprintf(os.Stderr, "Error importing markup: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Warning: partial import (%d shapes): %v\n", len(shapes), err)
	}
	scene := document.ReplaceAll(nil, shapes)

	name := *format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(*output), ".")
	}
	if name == "" {
		name = "svg"
	}

	data, err := convert(scene, name, export.Options{
		Width:   *width,
		Height:  *height,
		Quality: *quality,
		Title:   title(*inputFile),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting: %v\n", err)
		os.Exit(1)
	}

	// Output result
	if *output != "" {
		if err := os.WriteFile(*output, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Converted %d shapes to %s\n", len(scene), *output)
		return
	}
	os.Stdout.Write(data)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func title(path string) string {
	if path == "" || path == "-" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func convert(scene document.Scene, name string, opts export.Options) ([]byte, error) {
	if name == "json" {
		return json.MarshalIndent(scene, "", "  ")
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	if format == export.FormatSVG {
		return export.SVG(scene, opts)
	}
	return export.Raster(scene, format, opts)
}
