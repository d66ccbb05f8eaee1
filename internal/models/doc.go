// Package models defines the core domain models for railstats.
//
// # Entities
//
//   - Passenger: a traveller with three independent discount eligibility flags
//   - Train: a numbered service between a departure and an arrival point
//   - Ticket: one passenger on one train, with a class, a base fare and a final price
//   - User: an operator account allowed to change records
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers, so records stay flat and copyable
//  2. A ticket keeps its base fare next to its final price; pricing always starts
//     from the base fare so repeated updates cannot compound discounts
//  3. Snapshot is the unit the reporting layer reads: all three collections as of
//     a single point in time
package models
