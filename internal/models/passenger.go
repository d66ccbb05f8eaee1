package models

// Passenger is a person tickets are sold to.
type Passenger struct {
	// ID is the unique identifier for the passenger (UUID format).
	ID string

	FirstName string
	LastName  string

	// Passport is unique across all passengers.
	Passport string

	IsMilitary bool
	IsStudent  bool
	IsKid      bool
}

// DiscountFlags are the eligibility flags pricing looks at.
type DiscountFlags struct {
	IsStudent  bool
	IsMilitary bool
	IsKid      bool
}

// Flags returns the passenger's discount eligibility.
func (p *Passenger) Flags() DiscountFlags {
	return DiscountFlags{
		IsStudent:  p.IsStudent,
		IsMilitary: p.IsMilitary,
		IsKid:      p.IsKid,
	}
}

// FullName returns "First Last".
func (p *Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}
