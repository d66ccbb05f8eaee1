package service

import (
	"strings"

	"github.com/mmynk/railstats/internal/models"
)

// Wire shapes of the entities. Field names follow the report rows.

type passengerDTO struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Passport   string `json:"passport"`
	IsMilitary bool   `json:"is_military"`
	IsStudent  bool   `json:"is_student"`
	IsKid      bool   `json:"is_kid"`
}

func toPassengerDTO(p *models.Passenger) passengerDTO {
	return passengerDTO{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Passport:   p.Passport,
		IsMilitary: p.IsMilitary,
		IsStudent:  p.IsStudent,
		IsKid:      p.IsKid,
	}
}

// passengerPatch carries the fields a caller sent; nil means unchanged.
type passengerPatch struct {
	ID         string  `json:"id"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Passport   *string `json:"passport"`
	IsMilitary *bool   `json:"is_military"`
	IsStudent  *bool   `json:"is_student"`
	IsKid      *bool   `json:"is_kid"`
}

func (p passengerPatch) apply(dst *models.Passenger) {
	setString(&dst.FirstName, p.FirstName)
	setString(&dst.LastName, p.LastName)
	setString(&dst.Passport, p.Passport)
	setBool(&dst.IsMilitary, p.IsMilitary)
	setBool(&dst.IsStudent, p.IsStudent)
	setBool(&dst.IsKid, p.IsKid)
}

type trainDTO struct {
	ID          string `json:"id"`
	TrainNumber string `json:"train_number"`
	BeginPoint  string `json:"begin_point"`
	EndPoint    string `json:"end_point"`
	Route       string `json:"route"`
}

func toTrainDTO(t *models.Train) trainDTO {
	return trainDTO{
		ID:          t.ID,
		TrainNumber: t.TrainNumber,
		BeginPoint:  t.BeginPoint,
		EndPoint:    t.EndPoint,
		Route:       t.Route(),
	}
}

type trainPatch struct {
	ID          string  `json:"id"`
	TrainNumber *string `json:"train_number"`
	BeginPoint  *string `json:"begin_point"`
	EndPoint    *string `json:"end_point"`
}

func (p trainPatch) apply(dst *models.Train) {
	setTrimmed(&dst.TrainNumber, p.TrainNumber)
	setTrimmed(&dst.BeginPoint, p.BeginPoint)
	setTrimmed(&dst.EndPoint, p.EndPoint)
}

type ticketDTO struct {
	ID              string  `json:"id"`
	PassengerID     string  `json:"passenger_id"`
	TrainID         string  `json:"train_id"`
	TicketType      string  `json:"ticket_type"`
	TicketTypeLabel string  `json:"ticket_type_label"`
	BaseFare        float64 `json:"base_fare"`
	Price           float64 `json:"price"`
	DatePurchased   int64   `json:"date_purchased"`
}

func toTicketDTO(t *models.Ticket) ticketDTO {
	return ticketDTO{
		ID:              t.ID,
		PassengerID:     t.PassengerID,
		TrainID:         t.TrainID,
		TicketType:      string(t.Class),
		TicketTypeLabel: t.Class.Label(),
		BaseFare:        t.BaseFare,
		Price:           t.Price,
		DatePurchased:   t.DatePurchased,
	}
}

// ticketPatch is both the create and the update request. A caller may send
// the pre-discount amount as "price"; base_fare wins when both are present.
// The final price is never taken from the request.
type ticketPatch struct {
	ID          string   `json:"id"`
	PassengerID *string  `json:"passenger_id"`
	TrainID     *string  `json:"train_id"`
	TicketType  *string  `json:"ticket_type"`
	BaseFare    *float64 `json:"base_fare"`
	Price       *float64 `json:"price"`
}

func (p ticketPatch) fare() *float64 {
	if p.BaseFare != nil {
		return p.BaseFare
	}
	return p.Price
}

func (p ticketPatch) apply(dst *models.Ticket) error {
	setString(&dst.PassengerID, p.PassengerID)
	setString(&dst.TrainID, p.TrainID)
	if p.TicketType != nil {
		class, err := models.ParseTicketClass(*p.TicketType)
		if err != nil {
			return invalidArgument("%v", err)
		}
		dst.Class = class
	}
	if fare := p.fare(); fare != nil {
		dst.BaseFare = *fare
	}
	return nil
}

type idRequest struct {
	ID string `json:"id"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// setTrimmed is setString for values compared verbatim by the reports.
func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
