package reports

import (
	"fmt"

	"github.com/mmynk/railstats/internal/models"
)

// snapshotBuilder assembles a Snapshot by hand. Callers add passengers and
// trains in the order the stores would return them.
type snapshotBuilder struct {
	snap models.Snapshot
	next int
}

func (b *snapshotBuilder) passenger(id, first, last string, flags models.DiscountFlags) *snapshotBuilder {
	b.snap.Passengers = append(b.snap.Passengers, models.Passenger{
		ID:         id,
		FirstName:  first,
		LastName:   last,
		Passport:   "PP-" + id,
		IsStudent:  flags.IsStudent,
		IsMilitary: flags.IsMilitary,
		IsKid:      flags.IsKid,
	})
	return b
}

func (b *snapshotBuilder) train(id, number, from, to string) *snapshotBuilder {
	b.snap.Trains = append(b.snap.Trains, models.Train{
		ID:          id,
		TrainNumber: number,
		BeginPoint:  from,
		EndPoint:    to,
	})
	return b
}

// tickets adds n tickets of one class at the given final price each.
func (b *snapshotBuilder) tickets(passengerID, trainID string, class models.TicketClass, price float64, n int) *snapshotBuilder {
	for i := 0; i < n; i++ {
		b.next++
		b.snap.Tickets = append(b.snap.Tickets, models.Ticket{
			ID:          fmt.Sprintf("t%d", b.next),
			PassengerID: passengerID,
			TrainID:     trainID,
			Class:       class,
			BaseFare:    price,
			Price:       price,
		})
	}
	return b
}

func (b *snapshotBuilder) build() *models.Snapshot {
	return &b.snap
}

func findRow(rows []Row, key, value string) Row {
	for _, r := range rows {
		if r.String(key) == value {
			return r
		}
	}
	return nil
}
