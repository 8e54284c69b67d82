package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/typeid"
)

const maxRequestSize = 5 << 20 // 5MB

// Request is the body of an export call.
type Request struct {
	Name     string             `json:"name"`
	Shapes   document.Scene     `json:"shapes"`
	Viewport *document.Viewport `json:"viewport,omitempty"`
	Width    int                `json:"width,omitempty"`
	Height   int                `json:"height,omitempty"`
	Quality  int                `json:"quality,omitempty"`
}

type Handler struct {
	width  int
	height int
}

// NewHandler creates an export handler using width x height for requests
// that do not specify a size.
func NewHandler(width, height int) *Handler {
	return &Handler{width: width, height: height}
}

// Export handles POST /export/{format} and streams the rendered file back as
// an attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	format, err := ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, "invalid format: must be svg, png, or jpg", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Shapes.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := Options{
		Width:   req.Width,
		Height:  req.Height,
		Title:   req.Name,
		Quality: req.Quality,
	}
	if opts.Width == 0 {
		opts.Width = h.width
	}
	if opts.Height == 0 {
		opts.Height = h.height
	}
	if req.Viewport != nil {
		opts.Viewport = *req.Viewport
	}

	exportID := typeid.NewExportID()
	slog.Info("export started", "id", exportID, "format", format, "shapes", len(req.Shapes))

	var data []byte
	if format == FormatSVG {
		data, err = SVG(req.Shapes, opts)
	} else {
		data, err = Raster(req.Shapes, format, opts)
	}
	if err != nil {
		if errors.Is(err, ErrBadDimensions) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("export failed", "id", exportID, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, SanitizeName(req.Name), format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)

	slog.Info("export complete", "id", exportID, "format", format, "size", len(data))
}

// SanitizeName reduces name to a safe file stem. An empty name becomes DefaultName.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
