package models

import "fmt"

// Train is a numbered service running from BeginPoint to EndPoint.
type Train struct {
	// ID is the unique identifier for the train (UUID format).
	ID string

	// TrainNumber is unique across all trains (e.g. "743K").
	TrainNumber string

	BeginPoint string
	EndPoint   string
}

// Route returns the "from -> to" label used by route reports.
func (t *Train) Route() string {
	return fmt.Sprintf("%s -> %s", orUnknown(t.BeginPoint), orUnknown(t.EndPoint))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
