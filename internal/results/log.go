// Package results keeps the per-chat history of rolled numbers. Rows are
// append-only; the read side returns the newest entries first, bounded by
// the configured window.
package results

import (
	"fmt"

	"github.com/google/uuid"

	"gram-bot/internal/database"
	"gram-bot/internal/roulette"
)

// Outcome is one rolled number in a chat.
type Outcome struct {
	ID     string
	ChatID int64
	Number int
	TS     int64 // unix milliseconds
}

// Color returns the wheel color of the outcome.
func (o Outcome) Color() roulette.Color {
	return roulette.ColorOf(o.Number)
}

type Log struct {
	db     database.Database
	window int
}

func New(db database.Database, window int) *Log {
	return &Log{db: db, window: window}
}

// Append records a rolled number for a chat.
func (l *Log) Append(chatID int64, number int, ts int64) error {
	_, err := l.db.Exec(l.db.Rebind(
		"INSERT INTO results (id, chat_id, number, ts) VALUES (?, ?, ?, ?)"),
		uuid.NewString(), chatID, number, ts)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// Recent returns up to the configured window of outcomes for the chat,
// newest first. An empty slice means no spins yet.
func (l *Log) Recent(chatID int64) ([]Outcome, error) {
	rows, err := l.db.Query(l.db.Rebind(
		"SELECT id, chat_id, number, ts FROM results WHERE chat_id = ? ORDER BY ts DESC LIMIT ?"),
		chatID, l.window)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.ID, &o.ChatID, &o.Number, &o.TS); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
