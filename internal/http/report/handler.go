package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/ledger"
	"fiado/internal/report"
)

type Handler struct {
	clients *client.Service
	charges *charge.Service
	ledger  *ledger.Service
}

func NewHandler(clients *client.Service, charges *charge.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{clients: clients, charges: charges, ledger: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
}

// monthly reconciles charge states first, so the report never shows an
// active charge that has already rolled into a past month.
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	if _, err := h.ledger.ReconcileAll(r.Context(), time.Now()); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	charges, err := h.charges.List(r.Context(), charge.ListFilter{})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	clients, err := h.clients.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	months := report.Build(charges, clients)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(months)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type totalsResponse struct {
	Original  int64 `json:"original"`
	Paid      int64 `json:"paid"`
	Remaining int64 `json:"remaining"`
}

type entryResponse struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"client_id"`
	ClientName  string        `json:"client_name"`
	Amount      int64         `json:"amount"`
	AmountPaid  int64         `json:"amount_paid"`
	Remaining   int64         `json:"remaining"`
	Description string        `json:"description,omitempty"`
	Status      charge.Status `json:"status"`
}

type dayResponse struct {
	Date    string          `json:"date"`
	Totals  totalsResponse  `json:"totals"`
	Entries []entryResponse `json:"entries"`
}

type monthResponse struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Totals totalsResponse `json:"totals"`
	Days   []dayResponse  `json:"days"`
}

func toTotals(t report.Totals) totalsResponse {
	return totalsResponse{Original: t.Original, Paid: t.Paid, Remaining: t.Remaining}
}

func toResponse(months []report.Month) []monthResponse {
	resp := make([]monthResponse, len(months))

	for i, m := range months {
		mr := monthResponse{
			Year:   m.Year,
			Month:  int(m.Month),
			Totals: toTotals(m.Totals),
			Days:   make([]dayResponse, len(m.Days)),
		}

		for j, d := range m.Days {
			dr := dayResponse{
				Date:    d.Date.Format(time.DateOnly),
				Totals:  toTotals(d.Totals),
				Entries: make([]entryResponse, len(d.Entries)),
			}

			for k, e := range d.Entries {
				dr.Entries[k] = entryResponse{
					ID:          e.Charge.ID,
					ClientID:    e.Charge.ClientID,
					ClientName:  e.ClientName,
					Amount:      e.Charge.Amount,
					AmountPaid:  e.Charge.AmountPaid,
					Remaining:   e.Charge.Remaining(),
					Description: e.Charge.Description,
					Status:      e.Charge.Status,
				}
			}

			mr.Days[j] = dr
		}

		resp[i] = mr
	}

	return resp
}
