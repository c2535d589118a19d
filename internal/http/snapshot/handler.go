package snapshot

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fiado/internal/snapshot"
)

type Handler struct {
	svc *snapshot.Service
}

func NewHandler(svc *snapshot.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.export)
	r.Post("/", h.importSnapshot)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Export(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="fiado-backup.json"`)

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("failed to encode snapshot", "error", err)
	}
}

type importResponse struct {
	Clients int `json:"clients"`
	Charges int `json:"charges"`
}

func (h *Handler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	clients, charges, err := h.svc.Import(r.Context(), r.Body)
	if err != nil {
		if errors.Is(err, snapshot.ErrFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importResponse{Clients: clients, Charges: charges}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
