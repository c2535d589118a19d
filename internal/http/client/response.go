package client

import (
	"time"

	"github.com/google/uuid"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/ledger"
)

type clientResponse struct {
	ID        uuid.UUID `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type clientDebtResponse struct {
	clientResponse
	Debt int64 `json:"debt"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		LastName:  c.LastName,
		FirstName: c.FirstName,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func toListResponse(listed []ledger.ClientDebt) []clientDebtResponse {
	resp := make([]clientDebtResponse, len(listed))
	for i, cd := range listed {
		resp[i] = clientDebtResponse{
			clientResponse: toResponse(cd.Client),
			Debt:           cd.Debt,
		}
	}

	return resp
}

type settledChargeResponse struct {
	ID         uuid.UUID     `json:"id"`
	Amount     int64         `json:"amount"`
	AmountPaid int64         `json:"amount_paid"`
	Remaining  int64         `json:"remaining"`
	Date       string        `json:"date"`
	Status     charge.Status `json:"status"`
}

func toSettlementResponse(touched []*charge.Charge) []settledChargeResponse {
	resp := make([]settledChargeResponse, len(touched))
	for i, ch := range touched {
		resp[i] = settledChargeResponse{
			ID:         ch.ID,
			Amount:     ch.Amount,
			AmountPaid: ch.AmountPaid,
			Remaining:  ch.Remaining(),
			Date:       ch.Date.Format(time.DateOnly),
			Status:     ch.Status,
		}
	}

	return resp
}
