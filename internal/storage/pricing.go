package storage

import (
	"fmt"
	"strconv"

	"github.com/mmynk/railstats/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ticketsPriced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "railstats_tickets_priced_total",
	Help: "Ticket writes priced, by class and whether a discount applied.",
}, []string{"class", "discounted"})

// Pricer turns a base fare and a passenger's eligibility into a final price.
type Pricer func(baseFare float64, flags models.DiscountFlags) float64

// PriceTicket validates t and sets its final price from its base fare and the
// owning passenger's flags. Both store implementations call it on every ticket
// write so that the price column is never written from anything but BaseFare.
func PriceTicket(t *models.Ticket, passenger *models.Passenger, pricer Pricer) error {
	if t.Class == "" {
		t.Class = models.ClassPlazkart
	}
	if !t.Class.Valid() {
		return fmt.Errorf("%w: unknown class %q", ErrInvalidTicket, t.Class)
	}
	if t.BaseFare < 0 {
		return fmt.Errorf("%w: base fare %.2f is negative", ErrInvalidTicket, t.BaseFare)
	}
	t.Price = pricer(t.BaseFare, passenger.Flags())
	ticketsPriced.WithLabelValues(string(t.Class), strconv.FormatBool(t.Price < t.BaseFare)).Inc()
	return nil
}
