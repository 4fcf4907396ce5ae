// Package game is the wager/settlement engine: it ties the parser, ledger,
// bet store and result log together and owns the cooldown state machine.
// All operations are serialized per (chat, user) pair, so a pending bet is
// resolved exactly once.
package game

import (
	"time"

	"github.com/rs/zerolog"

	"gram-bot/internal/bets"
	"gram-bot/internal/ledger"
	"gram-bot/internal/pkg/lock"
	"gram-bot/internal/results"
	"gram-bot/internal/roulette"
	"gram-bot/pkg/config"
)

// Placed is the accepted-bet event.
type Placed struct {
	Amount      int64
	Description string
}

// SpinResult is the settlement event for one resolved bet.
type SpinResult struct {
	Rolled      int
	Color       roulette.Color
	Stake       int64
	Description string
	Payout      int64
	Balance     int64
}

type Service struct {
	cfg     config.GameConfig
	ledger  *ledger.Ledger
	bets    *bets.Store
	results *results.Log
	locks   *lock.KeyedLock
	roll    RollFunc
	now     func() time.Time
	log     zerolog.Logger
}

func New(cfg config.GameConfig, led *ledger.Ledger, store *bets.Store, resultLog *results.Log, logger zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		ledger:  led,
		bets:    store,
		results: resultLog,
		locks:   lock.New(),
		roll:    CryptoRoll,
		now:     time.Now,
		log:     logger,
	}
}

// PlaceBet parses the wager expression, holds the stake and records the
// pending bet. Rejections leave balance and store untouched; in
// particular, a pending bet is never overwritten.
func (s *Service) PlaceBet(chatID, userID int64, raw string) (*Placed, error) {
	bet, err := roulette.Parse(raw, s.cfg.MaxTargets)
	if err != nil {
		return nil, err
	}

	key := lock.BetKey(chatID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	return s.place(chatID, userID, bet.Amount, bet.Covered, bet.Text)
}

// place holds the stake and records the bet. Callers hold the bet key lock.
func (s *Service) place(chatID, userID, amount int64, covered []int, text string) (*Placed, error) {
	if _, err := s.bets.Get(chatID, userID); err == nil {
		return nil, bets.ErrBetPending
	} else if err != bets.ErrNoActiveBet {
		return nil, err
	}

	if err := s.ledger.Debit(userID, amount); err != nil {
		return nil, err
	}

	if err := s.bets.Place(&bets.Bet{
		ChatID:   chatID,
		UserID:   userID,
		Amount:   amount,
		Covered:  covered,
		Text:     text,
		PlacedTS: s.now().Unix(),
	}); err != nil {
		// The stake was held; give it back before failing.
		if crErr := s.ledger.Credit(userID, amount); crErr != nil {
			s.log.Error().Err(crErr).Int64("user_id", userID).Int64("amount", amount).
				Msg("refund after failed placement did not land")
		}
		return nil, err
	}

	s.log.Info().Int64("chat_id", chatID).Int64("user_id", userID).
		Int64("amount", amount).Str("targets", text).Msg("bet placed")

	return &Placed{Amount: amount, Description: text}, nil
}

// Spin resolves the pending bet: draw, payout, credit, clear. Only allowed
// once the cooldown since placement has elapsed.
func (s *Service) Spin(chatID, userID int64) (*SpinResult, error) {
	key := lock.BetKey(chatID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	bet, err := s.bets.Get(chatID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	nowSec := now.Unix()

	if bet.LastPlayTS != 0 && nowSec-bet.LastPlayTS < 1 {
		return nil, ErrTooSoon
	}
	if err := s.bets.TouchPlay(chatID, userID, nowSec); err != nil {
		return nil, err
	}

	cooldown := int64(s.cfg.SpinCooldownSeconds)
	if elapsed := nowSec - bet.PlacedTS; elapsed < cooldown {
		return nil, &CooldownError{Seconds: cooldown - elapsed}
	}

	rolled, err := s.roll(roulette.WheelSize)
	if err != nil {
		return nil, err
	}
	payout := roulette.Payout(bet.Amount, bet.Covered, rolled, s.cfg.PayoutBase)

	settled, err := s.bets.Settle(chatID, userID, payout, nowSec)
	if err != nil {
		return nil, err
	}

	if err := s.results.Append(chatID, rolled, now.UnixMilli()); err != nil {
		// The settlement is already durable; losing one history row is
		// not worth failing the spin over.
		s.log.Error().Err(err).Int64("chat_id", chatID).Msg("result log append failed")
	}

	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("chat_id", chatID).Int64("user_id", userID).
		Int("rolled", rolled).Int64("stake", settled.Amount).Int64("payout", payout).
		Msg("bet settled")

	return &SpinResult{
		Rolled:      rolled,
		Color:       roulette.ColorOf(rolled),
		Stake:       settled.Amount,
		Description: settled.Text,
		Payout:      payout,
		Balance:     balance,
	}, nil
}

// Double raises the pending bet's stake by its current amount. Cooldown
// progress is kept.
func (s *Service) Double(chatID, userID int64) (int64, error) {
	key := lock.BetKey(chatID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	bet, err := s.bets.Get(chatID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.ledger.Debit(userID, bet.Amount); err != nil {
		return 0, err
	}
	if err := s.bets.Double(chatID, userID); err != nil {
		if crErr := s.ledger.Credit(userID, bet.Amount); crErr != nil {
			s.log.Error().Err(crErr).Int64("user_id", userID).Msg("refund after failed double did not land")
		}
		return 0, err
	}
	return bet.Amount * 2, nil
}

// Repeat places a fresh bet identical to the last settled one, subject to
// the normal placement rules.
func (s *Service) Repeat(chatID, userID int64) (*Placed, error) {
	key := lock.BetKey(chatID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	last, err := s.bets.Last(chatID, userID)
	if err != nil {
		return nil, err
	}
	return s.place(chatID, userID, last.Amount, last.Covered, last.Text)
}

// Balance reports the user's balance, creating the account if needed.
func (s *Service) Balance(userID int64) (int64, error) {
	return s.ledger.Balance(userID)
}

// ClaimBonus grants the periodic bonus if its cooldown has passed.
func (s *Service) ClaimBonus(userID int64) (int64, error) {
	key := lock.UserKey(userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	cooldown := int64(s.cfg.BonusCooldown() / time.Second)
	if err := s.ledger.ClaimBonus(userID, s.cfg.BonusAmount, cooldown, s.now().Unix()); err != nil {
		return 0, err
	}
	s.log.Info().Int64("user_id", userID).Int64("amount", s.cfg.BonusAmount).Msg("bonus granted")
	return s.cfg.BonusAmount, nil
}

// BonusAvailable reports whether the bonus is claimable and, if not, the
// seconds remaining.
func (s *Service) BonusAvailable(userID int64) (bool, int64, error) {
	cooldown := int64(s.cfg.BonusCooldown() / time.Second)
	return s.ledger.BonusAvailable(userID, cooldown, s.now().Unix())
}

// AdminCredit adds funds unconditionally. Authorization is the caller's
// responsibility.
func (s *Service) AdminCredit(userID, amount int64) error {
	if err := s.ledger.Credit(userID, amount); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Int64("amount", amount).Msg("admin credit")
	return nil
}

// AdminReset zeroes the user's balance.
func (s *Service) AdminReset(userID int64) error {
	if err := s.ledger.SetBalance(userID, 0); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("admin reset")
	return nil
}

// Recent returns the chat's recent outcomes, newest first.
func (s *Service) Recent(chatID int64) ([]results.Outcome, error) {
	return s.results.Recent(chatID)
}
