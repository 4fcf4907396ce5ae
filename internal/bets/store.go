// Package bets holds the active-bet store: at most one pending bet per
// (chat, user) pair, plus the snapshot of the last settled bet used by the
// repeat action.
package bets

import (
	"database/sql"
	"errors"
	"fmt"

	"gram-bot/internal/database"
	"gram-bot/internal/roulette"
)

var (
	// ErrNoActiveBet means there is no pending bet for the key.
	ErrNoActiveBet = errors.New("no active bet")
	// ErrBetPending means a bet is already pending for the key. Placement
	// never overwrites a held stake.
	ErrBetPending = errors.New("a bet is already pending")
	// ErrNoLastBet means there is nothing to repeat.
	ErrNoLastBet = errors.New("no previous bet to repeat")
)

// Bet is a pending wager. The stake has already left the user's balance.
type Bet struct {
	ChatID     int64
	UserID     int64
	Amount     int64
	Covered    []int
	Text       string
	PlacedTS   int64 // unix seconds
	LastPlayTS int64 // unix seconds of the last spin attempt, 0 if none
}

// LastBet is the snapshot written at settlement, used to reconstruct a
// repeat bet without scraping rendered messages.
type LastBet struct {
	Amount  int64
	Covered []int
	Text    string
}

type Store struct {
	db database.Database
}

func New(db database.Database) *Store {
	return &Store{db: db}
}

// Place records a pending bet. The caller must have debited the stake
// first. Fails with ErrBetPending if the key already holds a bet.
func (s *Store) Place(b *Bet) error {
	res, err := s.db.Exec(s.db.Rebind(
		`INSERT INTO bets (chat_id, user_id, amount, covered, original_text, placed_ts, last_play_ts)
		 VALUES (?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(chat_id, user_id) DO NOTHING`),
		b.ChatID, b.UserID, b.Amount, roulette.EncodeCovered(b.Covered), b.Text, b.PlacedTS)
	if err != nil {
		return fmt.Errorf("place bet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBetPending
	}
	return nil
}

// Get returns the pending bet for the key, or ErrNoActiveBet.
func (s *Store) Get(chatID, userID int64) (*Bet, error) {
	b := &Bet{ChatID: chatID, UserID: userID}
	var covered string
	err := s.db.QueryRow(s.db.Rebind(
		`SELECT amount, covered, original_text, placed_ts, last_play_ts
		 FROM bets WHERE chat_id = ? AND user_id = ?`),
		chatID, userID).Scan(&b.Amount, &covered, &b.Text, &b.PlacedTS, &b.LastPlayTS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveBet
	}
	if err != nil {
		return nil, fmt.Errorf("get bet: %w", err)
	}
	b.Covered, err = roulette.DecodeCovered(covered)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Double doubles the pending bet's amount without touching placed_ts, so
// cooldown progress is preserved. The caller debits the difference first.
func (s *Store) Double(chatID, userID int64) error {
	res, err := s.db.Exec(s.db.Rebind(
		"UPDATE bets SET amount = amount * 2 WHERE chat_id = ? AND user_id = ?"),
		chatID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoActiveBet
	}
	return nil
}

// TouchPlay stamps the last spin attempt for the anti-spam throttle.
func (s *Store) TouchPlay(chatID, userID, ts int64) error {
	_, err := s.db.Exec(s.db.Rebind(
		"UPDATE bets SET last_play_ts = ? WHERE chat_id = ? AND user_id = ?"),
		ts, chatID, userID)
	return err
}

// Settle consumes the pending bet exactly once: in a single transaction it
// deletes the bet row, writes the last-bet snapshot and credits the payout.
// A concurrent settlement loses the delete race and gets ErrNoActiveBet,
// so a bet can never pay twice.
func (s *Store) Settle(chatID, userID, payout, settledTS int64) (*Bet, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := &Bet{ChatID: chatID, UserID: userID}
	var covered string
	err = tx.QueryRow(s.db.Rebind(
		`SELECT amount, covered, original_text, placed_ts, last_play_ts
		 FROM bets WHERE chat_id = ? AND user_id = ?`),
		chatID, userID).Scan(&b.Amount, &covered, &b.Text, &b.PlacedTS, &b.LastPlayTS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveBet
	}
	if err != nil {
		return nil, err
	}
	if b.Covered, err = roulette.DecodeCovered(covered); err != nil {
		return nil, err
	}

	res, err := tx.Exec(s.db.Rebind(
		"DELETE FROM bets WHERE chat_id = ? AND user_id = ?"), chatID, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoActiveBet
	}

	if _, err := tx.Exec(s.db.Rebind(
		`INSERT INTO last_bets (chat_id, user_id, amount, covered, original_text, settled_ts)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id, user_id) DO UPDATE SET
			amount = excluded.amount,
			covered = excluded.covered,
			original_text = excluded.original_text,
			settled_ts = excluded.settled_ts`),
		chatID, userID, b.Amount, covered, b.Text, settledTS); err != nil {
		return nil, err
	}

	if payout > 0 {
		if _, err := tx.Exec(s.db.Rebind(
			"UPDATE users SET balance = balance + ? WHERE id = ?"), payout, userID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// Last returns the snapshot of the most recently settled bet for the key.
func (s *Store) Last(chatID, userID int64) (*LastBet, error) {
	lb := &LastBet{}
	var covered string
	err := s.db.QueryRow(s.db.Rebind(
		`SELECT amount, covered, original_text FROM last_bets
		 WHERE chat_id = ? AND user_id = ?`),
		chatID, userID).Scan(&lb.Amount, &covered, &lb.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoLastBet
	}
	if err != nil {
		return nil, fmt.Errorf("get last bet: %w", err)
	}
	if lb.Covered, err = roulette.DecodeCovered(covered); err != nil {
		return nil, err
	}
	return lb, nil
}
