package models

import (
	"fmt"
	"strings"
)

// TicketClass is the carriage class of a ticket.
// The stored value is a two-letter code.
type TicketClass string

const (
	ClassPlazkart TicketClass = "PL"
	ClassKupe     TicketClass = "KP"
	ClassLux      TicketClass = "LX"
)

// TicketClasses lists every class in the fixed reporting order.
var TicketClasses = []TicketClass{ClassPlazkart, ClassKupe, ClassLux}

// Label returns the human-readable class name.
func (c TicketClass) Label() string {
	switch c {
	case ClassPlazkart:
		return "Plazkart"
	case ClassKupe:
		return "Kupe"
	case ClassLux:
		return "Lux"
	default:
		return string(c)
	}
}

// Valid reports whether c belongs to the closed set of classes.
func (c TicketClass) Valid() bool {
	switch c {
	case ClassPlazkart, ClassKupe, ClassLux:
		return true
	}
	return false
}

// ParseTicketClass accepts either a class code ("LX") or a label ("Lux"),
// case-insensitively. An empty string yields the default class, Plazkart.
func ParseTicketClass(s string) (TicketClass, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClassPlazkart, nil
	}
	for _, c := range TicketClasses {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown ticket class %q", s)
}

// Ticket is one passenger's seat on one train.
type Ticket struct {
	// ID is the unique identifier for the ticket (UUID format).
	ID string

	PassengerID string
	TrainID     string

	Class TicketClass

	// BaseFare is the price before any eligibility discount.
	BaseFare float64

	// Price is the final, discounted price. It is always derived from BaseFare.
	Price float64

	// DatePurchased is the Unix timestamp of creation. It never changes.
	DatePurchased int64
}
