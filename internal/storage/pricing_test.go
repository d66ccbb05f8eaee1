package storage

import (
	"errors"
	"testing"

	"github.com/mmynk/railstats/internal/models"
)

func halfPrice(baseFare float64, flags models.DiscountFlags) float64 {
	if flags.IsStudent {
		return baseFare / 2
	}
	return baseFare
}

func TestPriceTicket(t *testing.T) {
	student := &models.Passenger{IsStudent: true}

	t.Run("prices from base fare", func(t *testing.T) {
		ticket := &models.Ticket{Class: models.ClassKupe, BaseFare: 100, Price: 10}
		if err := PriceTicket(ticket, student, halfPrice); err != nil {
			t.Fatalf("PriceTicket failed: %v", err)
		}
		if ticket.Price != 50 {
			t.Errorf("price = %v, want 50", ticket.Price)
		}
	})

	t.Run("empty class defaults to plazkart", func(t *testing.T) {
		ticket := &models.Ticket{BaseFare: 100}
		if err := PriceTicket(ticket, student, halfPrice); err != nil {
			t.Fatalf("PriceTicket failed: %v", err)
		}
		if ticket.Class != models.ClassPlazkart {
			t.Errorf("class = %q, want %q", ticket.Class, models.ClassPlazkart)
		}
	})

	t.Run("unknown class is rejected", func(t *testing.T) {
		ticket := &models.Ticket{Class: "XX", BaseFare: 100}
		err := PriceTicket(ticket, student, halfPrice)
		if !errors.Is(err, ErrInvalidTicket) {
			t.Errorf("expected ErrInvalidTicket, got %v", err)
		}
	})

	t.Run("negative base fare is rejected", func(t *testing.T) {
		ticket := &models.Ticket{Class: models.ClassLux, BaseFare: -1}
		err := PriceTicket(ticket, student, halfPrice)
		if !errors.Is(err, ErrInvalidTicket) {
			t.Errorf("expected ErrInvalidTicket, got %v", err)
		}
	})
}
