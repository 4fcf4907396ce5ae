// Package ledger owns per-user balances. Accounts are created lazily at
// zero and never deleted; every mutation is a single guarded SQL statement
// so concurrent operations on one user cannot tear a balance.
package ledger

import (
	"errors"
	"fmt"

	"gram-bot/internal/database"
)

// ErrInsufficientFunds is returned by Debit when the stake exceeds the
// balance. Nothing is mutated in that case.
var ErrInsufficientFunds = errors.New("insufficient funds")

// BonusWaitError reports how long until the periodic bonus unlocks.
type BonusWaitError struct {
	Seconds int64
}

func (e *BonusWaitError) Error() string {
	return fmt.Sprintf("bonus not available for another %ds", e.Seconds)
}

type Ledger struct {
	db database.Database
}

func New(db database.Database) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) ensure(userID int64) error {
	_, err := l.db.Exec(l.db.Rebind(
		"INSERT INTO users (id) VALUES (?) ON CONFLICT(id) DO NOTHING"), userID)
	return err
}

// Balance returns the user's balance, creating the account at 0 if absent.
func (l *Ledger) Balance(userID int64) (int64, error) {
	if err := l.ensure(userID); err != nil {
		return 0, err
	}
	var balance int64
	err := l.db.QueryRow(l.db.Rebind(
		"SELECT balance FROM users WHERE id = ?"), userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Credit adds amount to the user's balance. Persisted immediately.
func (l *Ledger) Credit(userID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	if err := l.ensure(userID); err != nil {
		return err
	}
	_, err := l.db.Exec(l.db.Rebind(
		"UPDATE users SET balance = balance + ? WHERE id = ?"), amount, userID)
	return err
}

// Debit removes amount from the user's balance. The balance guard is part
// of the statement, so check-and-debit is atomic; on underflow nothing
// changes and ErrInsufficientFunds is returned.
func (l *Ledger) Debit(userID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	if err := l.ensure(userID); err != nil {
		return err
	}
	res, err := l.db.Exec(l.db.Rebind(
		"UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ?"),
		amount, userID, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// SetBalance is the admin override. Unconditional.
func (l *Ledger) SetBalance(userID, value int64) error {
	if value < 0 {
		return fmt.Errorf("balance cannot be negative, got %d", value)
	}
	if err := l.ensure(userID); err != nil {
		return err
	}
	_, err := l.db.Exec(l.db.Rebind(
		"UPDATE users SET balance = ? WHERE id = ?"), value, userID)
	return err
}

// ClaimBonus credits amount iff at least cooldownSec have passed since the
// previous claim, boundary inclusive. The gate and the credit are one
// statement; a losing racer sees a BonusWaitError.
func (l *Ledger) ClaimBonus(userID, amount, cooldownSec, now int64) error {
	if err := l.ensure(userID); err != nil {
		return err
	}
	res, err := l.db.Exec(l.db.Rebind(
		`UPDATE users SET balance = balance + ?, last_bonus_ts = ?
		 WHERE id = ? AND ? - last_bonus_ts >= ?`),
		amount, now, userID, now, cooldownSec)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		_, remaining, err := l.BonusAvailable(userID, cooldownSec, now)
		if err != nil {
			return err
		}
		return &BonusWaitError{Seconds: remaining}
	}
	return nil
}

// BonusAvailable reports whether the bonus can be claimed now and, if not,
// the seconds remaining.
func (l *Ledger) BonusAvailable(userID, cooldownSec, now int64) (bool, int64, error) {
	if err := l.ensure(userID); err != nil {
		return false, 0, err
	}
	var last int64
	err := l.db.QueryRow(l.db.Rebind(
		"SELECT last_bonus_ts FROM users WHERE id = ?"), userID).Scan(&last)
	if err != nil {
		return false, 0, err
	}
	if now-last >= cooldownSec {
		return true, 0, nil
	}
	return false, cooldownSec - (now - last), nil
}
