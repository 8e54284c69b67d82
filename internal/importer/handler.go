package importer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/icogen/playground/internal/document"
)

// ImportResponse is returned from the import endpoint.
type ImportResponse struct {
	Shapes  []document.Shape `json:"shapes"`
	Count   int              `json:"count"`
	Name    string           `json:"name,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

// Handler serves the markup import endpoint.
type Handler struct {
	maxBytes int64
}

// NewHandler creates an import handler that accepts uploads up to maxBytes.
func NewHandler(maxBytes int64) *Handler {
	return &Handler{maxBytes: maxBytes}
}

// Import handles POST /import. The markup is either the "file" field of a
// multipart form or the raw request body. Optional "fill", "stroke" and
// "strokeWidth" values replace the default paint for attributes the markup omits.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var (
		markup []byte
		name   string
		err    error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large"})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
			return
		}
		defer file.Close()
		name = header.Filename
		markup, err = io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read file"})
			return
		}
	} else {
		markup, err = io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body too large"})
			return
		}
	}

	shapes, err := Parse(string(markup), styleFromRequest(r))
	if errors.Is(err, ErrNoMarkup) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := ImportResponse{Shapes: shapes, Count: len(shapes), Name: name}
	if resp.Shapes == nil {
		resp.Shapes = []document.Shape{}
	}
	if err != nil {
		slog.Warn("partial import", "error", err, "shapes", len(shapes))
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func styleFromRequest(r *http.Request) document.Style {
	style := document.DefaultStyle()
	if v := r.FormValue("fill"); v != "" {
		style.Fill = v
	}
	if v := r.FormValue("stroke"); v != "" {
		style.Stroke = v
	}
	if v := r.FormValue("strokeWidth"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			style.StrokeWidth = f
		}
	}
	return style.Normalized()
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
