package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Tickets reference passengers and trains with ON DELETE CASCADE, so removing
// either one removes its tickets too.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS passengers (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    passport TEXT NOT NULL UNIQUE,
    is_military INTEGER NOT NULL DEFAULT 0,
    is_student INTEGER NOT NULL DEFAULT 0,
    is_kid INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS trains (
    id TEXT PRIMARY KEY,
    train_number TEXT NOT NULL UNIQUE,
    begin_point TEXT NOT NULL DEFAULT '',
    end_point TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tickets (
    id TEXT PRIMARY KEY,
    passenger_id TEXT NOT NULL,
    train_id TEXT NOT NULL,
    ticket_type TEXT NOT NULL DEFAULT 'PL' CHECK (ticket_type IN ('PL', 'KP', 'LX')),
    base_fare REAL NOT NULL CHECK (base_fare >= 0),
    price REAL NOT NULL CHECK (price >= 0),
    date_purchased INTEGER NOT NULL,
    FOREIGN KEY (passenger_id) REFERENCES passengers(id) ON DELETE CASCADE,
    FOREIGN KEY (train_id) REFERENCES trains(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_tickets_passenger_id ON tickets(passenger_id);
CREATE INDEX IF NOT EXISTS idx_tickets_train_id ON tickets(train_id);
CREATE INDEX IF NOT EXISTS idx_passengers_name ON passengers(last_name, first_name);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
