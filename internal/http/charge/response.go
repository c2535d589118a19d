package charge

import (
	"time"

	"github.com/google/uuid"

	"fiado/internal/charge"
)

type chargeResponse struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"client_id"`
	Amount      int64         `json:"amount"`
	AmountPaid  int64         `json:"amount_paid"`
	Remaining   int64         `json:"remaining"`
	Description string        `json:"description,omitempty"`
	Date        string        `json:"date"`
	Status      charge.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toResponse(ch *charge.Charge) chargeResponse {
	return chargeResponse{
		ID:          ch.ID,
		ClientID:    ch.ClientID,
		Amount:      ch.Amount,
		AmountPaid:  ch.AmountPaid,
		Remaining:   ch.Remaining(),
		Description: ch.Description,
		Date:        ch.Date.Format(time.DateOnly),
		Status:      ch.Status,
		CreatedAt:   ch.CreatedAt,
	}
}

func toResponseList(charges []*charge.Charge) []chargeResponse {
	resp := make([]chargeResponse, len(charges))
	for i, ch := range charges {
		resp[i] = toResponse(ch)
	}

	return resp
}
