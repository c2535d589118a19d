// Package report builds the month/day rollups for the reporting view. It is
// a read-only projection over the charge collection.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"fiado/internal/charge"
	"fiado/internal/client"
)

// UnknownClient is the display name used when a charge references a client
// record that no longer exists.
const UnknownClient = "unknown"

type Totals struct {
	Original  int64
	Paid      int64
	Remaining int64
}

func (t *Totals) add(c *charge.Charge) {
	t.Original += c.Amount
	t.Paid += c.AmountPaid
	t.Remaining += c.Remaining()
}

// Entry is one charge with its resolved client display name.
type Entry struct {
	Charge     *charge.Charge
	ClientName string
}

// Day rolls up all charges incurred on one calendar day.
type Day struct {
	Date    time.Time
	Totals  Totals
	Entries []Entry
}

// Month rolls up one calendar month, most recent days first.
type Month struct {
	Year   int
	Month  time.Month
	Totals Totals
	Days   []Day
}

// Build groups charges by calendar month and day, both descending (most
// recent first). The input is not mutated.
func Build(charges []*charge.Charge, clients []*client.Client) []Month {
	names := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.DisplayName()
	}

	ordered := make([]*charge.Charge, len(charges))
	copy(ordered, charges)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	var months []Month

	for _, ch := range ordered {
		y, m := ch.Date.Year(), ch.Date.Month()

		if len(months) == 0 || months[len(months)-1].Year != y || months[len(months)-1].Month != m {
			months = append(months, Month{Year: y, Month: m})
		}

		month := &months[len(months)-1]
		month.Totals.add(ch)

		if len(month.Days) == 0 || !month.Days[len(month.Days)-1].Date.Equal(ch.Date) {
			month.Days = append(month.Days, Day{Date: ch.Date})
		}

		day := &month.Days[len(month.Days)-1]
		day.Totals.add(ch)

		name, ok := names[ch.ClientID]
		if !ok {
			name = UnknownClient
		}

		day.Entries = append(day.Entries, Entry{Charge: ch, ClientName: name})
	}

	return months
}
