package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/icogen/playground/internal/document"
	"github.com/icogen/playground/internal/importer"
)

type Request struct {
	Prompt string          `json:"prompt"`
	Style  *document.Style `json:"style,omitempty"`
}

type Response struct {
	Markup string           `json:"markup"`
	Shapes []document.Shape `json:"shapes"`
}

type Handler struct {
	gen Generator
}

func NewHandler(gen Generator) *Handler {
	return &Handler{gen: gen}
}

// Generate handles POST /generate. The markup is returned together with the
// shapes it imports to, using the request style for missing paint.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	markup, err := h.gen.Generate(r.Context(), req.Prompt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	style := document.DefaultStyle()
	if req.Style != nil {
		style = req.Style.Normalized()
	}
	writeJSON(w, http.StatusOK, Response{
		Markup: markup,
		Shapes: importer.Import(markup, style),
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyPrompt):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	case errors.Is(err, ErrGenerationFailed):
		slog.Warn("generation failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "generator timed out"})
	default:
		slog.Error("generator error", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "generator unavailable"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
