package models

// Snapshot is a point-in-time copy of every passenger, train and ticket.
// Reports are pure functions of a Snapshot.
type Snapshot struct {
	// Passengers are ordered by last name, then first name.
	Passengers []Passenger

	// Trains are ordered by train number.
	Trains []Train

	// Tickets are ordered newest purchase first.
	Tickets []Ticket
}

// PassengerIndex maps passenger ID to its position in s.Passengers.
func (s *Snapshot) PassengerIndex() map[string]int {
	idx := make(map[string]int, len(s.Passengers))
	for i, p := range s.Passengers {
		idx[p.ID] = i
	}
	return idx
}

// TrainIndex maps train ID to its position in s.Trains.
func (s *Snapshot) TrainIndex() map[string]int {
	idx := make(map[string]int, len(s.Trains))
	for i, t := range s.Trains {
		idx[t.ID] = i
	}
	return idx
}
