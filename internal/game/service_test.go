package game

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gram-bot/internal/bets"
	"gram-bot/internal/database"
	"gram-bot/internal/ledger"
	"gram-bot/internal/results"
	"gram-bot/internal/roulette"
	"gram-bot/pkg/config"
)

const (
	testChat = int64(-100)
	testUser = int64(7)
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc   *Service
	led   *ledger.Ledger
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(database.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.GameConfig{
		CurrencyName:        "GRAM",
		BonusAmount:         2500,
		BonusCooldownHours:  24,
		SpinCooldownSeconds: 10,
		MaxTargets:          16,
		ResultsWindow:       10,
		PayoutBase:          36,
	}

	led := ledger.New(db)
	svc := New(cfg, led, bets.New(db), results.New(db, cfg.ResultsWindow), zerolog.Nop())

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc.now = clock.now
	svc.roll = fixedRoll(0)

	return &fixture{svc: svc, led: led, clock: clock}
}

func fixedRoll(n int) RollFunc {
	return func(int) (int, error) { return n, nil }
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.led.Balance(testUser)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

func TestPlaceAndSpinWin(t *testing.T) {
	f := newFixture(t)
	if err := f.led.Credit(testUser, 10000); err != nil {
		t.Fatalf("seed: %v", err)
	}

	placed, err := f.svc.PlaceBet(testChat, testUser, "2500 0")
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if placed.Amount != 2500 || placed.Description != "0" {
		t.Errorf("placed = %+v", placed)
	}
	if got := f.balance(t); got != 7500 {
		t.Errorf("balance after placement = %d, want 7500", got)
	}

	f.clock.advance(10 * time.Second)
	res, err := f.svc.Spin(testChat, testUser)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if res.Rolled != 0 || res.Color != roulette.Green {
		t.Errorf("rolled %d %s, want 0 green", res.Rolled, res.Color)
	}
	if res.Payout != 90000 {
		t.Errorf("payout = %d, want 90000", res.Payout)
	}
	if res.Balance != 97500 {
		t.Errorf("balance = %d, want 97500", res.Balance)
	}

	outcomes, err := f.svc.Recent(testChat)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Number != 0 {
		t.Errorf("history = %+v", outcomes)
	}
}

func TestSpinCooldownAndThrottle(t *testing.T) {
	f := newFixture(t)
	if err := f.led.Credit(testUser, 10000); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "100 0"); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	var cd *CooldownError
	_, err := f.svc.Spin(testChat, testUser)
	if !errors.As(err, &cd) {
		t.Fatalf("immediate spin = %v, want CooldownError", err)
	}
	if cd.Seconds != 10 {
		t.Errorf("remaining = %d, want 10", cd.Seconds)
	}

	// A second attempt within the same second is dropped silently.
	if _, err := f.svc.Spin(testChat, testUser); !errors.Is(err, ErrTooSoon) {
		t.Fatalf("spam spin = %v, want ErrTooSoon", err)
	}

	f.clock.advance(time.Second)
	_, err = f.svc.Spin(testChat, testUser)
	if !errors.As(err, &cd) {
		t.Fatalf("spin at +1s = %v, want CooldownError", err)
	}
	if cd.Seconds != 9 {
		t.Errorf("remaining = %d, want 9", cd.Seconds)
	}

	// Cooldown attempts do not consume the bet.
	f.clock.advance(9 * time.Second)
	f.svc.roll = fixedRoll(17)
	res, err := f.svc.Spin(testChat, testUser)
	if err != nil {
		t.Fatalf("spin after cooldown: %v", err)
	}
	if res.Payout != 0 {
		t.Errorf("payout = %d, want 0 on a miss", res.Payout)
	}
	if res.Balance != 9900 {
		t.Errorf("balance = %d, want 9900", res.Balance)
	}
}

func TestSpinWithoutBet(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Spin(testChat, testUser); !errors.Is(err, bets.ErrNoActiveBet) {
		t.Fatalf("Spin = %v, want ErrNoActiveBet", err)
	}
}

func TestPlaceWhilePending(t *testing.T) {
	f := newFixture(t)
	if err := f.led.Credit(testUser, 10000); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "100 0"); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "200 1"); !errors.Is(err, bets.ErrBetPending) {
		t.Fatalf("second PlaceBet = %v, want ErrBetPending", err)
	}
	// The rejected bet held nothing.
	if got := f.balance(t); got != 9900 {
		t.Errorf("balance = %d, want 9900", got)
	}
}

func TestPlaceRejections(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.PlaceBet(testChat, testUser, "abc 5"); !errors.Is(err, roulette.ErrInvalid) {
		t.Errorf("invalid expression = %v, want ErrInvalid", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "2500 0"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("broke user = %v, want ErrInsufficientFunds", err)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestDoubleKeepsCooldownProgress(t *testing.T) {
	f := newFixture(t)
	if err := f.led.Credit(testUser, 10000); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "2500 0"); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	f.clock.advance(5 * time.Second)
	amount, err := f.svc.Double(testChat, testUser)
	if err != nil {
		t.Fatalf("Double: %v", err)
	}
	if amount != 5000 {
		t.Errorf("doubled amount = %d, want 5000", amount)
	}
	if got := f.balance(t); got != 5000 {
		t.Errorf("balance = %d, want 5000", got)
	}

	// Cooldown still counts from the original placement.
	f.clock.advance(5 * time.Second)
	res, err := f.svc.Spin(testChat, testUser)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if res.Stake != 5000 || res.Payout != 180000 {
		t.Errorf("stake %d payout %d, want 5000 and 180000", res.Stake, res.Payout)
	}
}

func TestDoubleRejections(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Double(testChat, testUser); !errors.Is(err, bets.ErrNoActiveBet) {
		t.Errorf("Double without bet = %v, want ErrNoActiveBet", err)
	}

	if err := f.led.Credit(testUser, 100); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "100 0"); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if _, err := f.svc.Double(testChat, testUser); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("broke Double = %v, want ErrInsufficientFunds", err)
	}
}

func TestRepeat(t *testing.T) {
	f := newFixture(t)
	if err := f.led.Credit(testUser, 10000); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.PlaceBet(testChat, testUser, "2500 к"); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	f.clock.advance(10 * time.Second)
	f.svc.roll = fixedRoll(2)
	if _, err := f.svc.Spin(testChat, testUser); err != nil {
		t.Fatalf("Spin: %v", err)
	}

	placed, err := f.svc.Repeat(testChat, testUser)
	if err != nil {
		t.Fatalf("Repeat: %v", err)
	}
	if placed.Amount != 2500 || placed.Description != "к" {
		t.Errorf("repeated = %+v", placed)
	}
	if got := f.balance(t); got != 5000 {
		t.Errorf("balance = %d, want 5000", got)
	}

	if _, err := f.svc.Repeat(testChat, testUser); !errors.Is(err, bets.ErrBetPending) {
		t.Errorf("Repeat while pending = %v, want ErrBetPending", err)
	}
}

func TestRepeatWithoutHistory(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Repeat(testChat, testUser); !errors.Is(err, bets.ErrNoLastBet) {
		t.Fatalf("Repeat = %v, want ErrNoLastBet", err)
	}
}

func TestBonusCycle(t *testing.T) {
	f := newFixture(t)

	amount, err := f.svc.ClaimBonus(testUser)
	if err != nil {
		t.Fatalf("ClaimBonus: %v", err)
	}
	if amount != 2500 {
		t.Errorf("bonus = %d, want 2500", amount)
	}
	if got := f.balance(t); got != 2500 {
		t.Errorf("balance = %d, want 2500", got)
	}

	var wait *ledger.BonusWaitError
	if _, err := f.svc.ClaimBonus(testUser); !errors.As(err, &wait) {
		t.Fatalf("second claim = %v, want BonusWaitError", err)
	}

	ok, remaining, err := f.svc.BonusAvailable(testUser)
	if err != nil {
		t.Fatalf("BonusAvailable: %v", err)
	}
	if ok || remaining != 86400 {
		t.Errorf("available=%v remaining=%d, want false 86400", ok, remaining)
	}

	f.clock.advance(24 * time.Hour)
	if _, err := f.svc.ClaimBonus(testUser); err != nil {
		t.Fatalf("claim after cooldown: %v", err)
	}
	if got := f.balance(t); got != 5000 {
		t.Errorf("balance = %d, want 5000", got)
	}
}

func TestAdminOperations(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.AdminCredit(testUser, 500); err != nil {
		t.Fatalf("AdminCredit: %v", err)
	}
	if got := f.balance(t); got != 500 {
		t.Errorf("balance = %d, want 500", got)
	}
	if err := f.svc.AdminReset(testUser); err != nil {
		t.Fatalf("AdminReset: %v", err)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}
