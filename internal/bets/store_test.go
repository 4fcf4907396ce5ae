package bets

import (
	"errors"
	"testing"

	"gram-bot/internal/database"
)

func testStore(t *testing.T) (*Store, database.Database) {
	t.Helper()
	db, err := database.New(database.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func sampleBet() *Bet {
	return &Bet{
		ChatID:   -100,
		UserID:   7,
		Amount:   2500,
		Covered:  []int{0},
		Text:     "0",
		PlacedTS: 1_700_000_000,
	}
}

func TestPlaceAndGet(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}

	got, err := s.Get(-100, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount != 2500 || got.Text != "0" || got.PlacedTS != 1_700_000_000 {
		t.Errorf("got %+v", got)
	}
	if len(got.Covered) != 1 || got.Covered[0] != 0 {
		t.Errorf("covered = %v, want [0]", got.Covered)
	}
	if got.LastPlayTS != 0 {
		t.Errorf("fresh bet last_play_ts = %d, want 0", got.LastPlayTS)
	}
}

func TestPlaceRejectsSecondBet(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := s.Place(sampleBet()); !errors.Is(err, ErrBetPending) {
		t.Fatalf("second Place = %v, want ErrBetPending", err)
	}

	// Same user in another chat is a separate key.
	other := sampleBet()
	other.ChatID = -200
	if err := s.Place(other); err != nil {
		t.Fatalf("Place in another chat: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	s, _ := testStore(t)
	if _, err := s.Get(1, 2); !errors.Is(err, ErrNoActiveBet) {
		t.Fatalf("Get = %v, want ErrNoActiveBet", err)
	}
}

func TestDoubleKeepsPlacedTS(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := s.Double(-100, 7); err != nil {
		t.Fatalf("Double: %v", err)
	}
	got, err := s.Get(-100, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount != 5000 {
		t.Errorf("amount = %d, want 5000", got.Amount)
	}
	if got.PlacedTS != 1_700_000_000 {
		t.Errorf("placed_ts changed to %d", got.PlacedTS)
	}

	if err := s.Double(1, 2); !errors.Is(err, ErrNoActiveBet) {
		t.Errorf("Double without bet = %v, want ErrNoActiveBet", err)
	}
}

func TestTouchPlay(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := s.TouchPlay(-100, 7, 1_700_000_005); err != nil {
		t.Fatalf("TouchPlay: %v", err)
	}
	got, _ := s.Get(-100, 7)
	if got.LastPlayTS != 1_700_000_005 {
		t.Errorf("last_play_ts = %d, want 1700000005", got.LastPlayTS)
	}
}

func TestSettle(t *testing.T) {
	s, db := testStore(t)
	if _, err := db.Exec("INSERT INTO users (id, balance) VALUES (7, 100)"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}

	settled, err := s.Settle(-100, 7, 90000, 1_700_000_010)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if settled.Amount != 2500 || settled.Text != "0" {
		t.Errorf("settled = %+v", settled)
	}

	// Bet is consumed.
	if _, err := s.Get(-100, 7); !errors.Is(err, ErrNoActiveBet) {
		t.Errorf("Get after settle = %v, want ErrNoActiveBet", err)
	}

	// Payout landed in the same transaction.
	var balance int64
	if err := db.QueryRow("SELECT balance FROM users WHERE id = 7").Scan(&balance); err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 90100 {
		t.Errorf("balance = %d, want 90100", balance)
	}

	// Snapshot is there for the repeat action.
	last, err := s.Last(-100, 7)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Amount != 2500 || last.Text != "0" {
		t.Errorf("last = %+v", last)
	}
}

func TestSettleOnlyOnce(t *testing.T) {
	s, db := testStore(t)
	if _, err := db.Exec("INSERT INTO users (id, balance) VALUES (7, 0)"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := s.Settle(-100, 7, 100, 1); err != nil {
		t.Fatalf("first Settle: %v", err)
	}
	if _, err := s.Settle(-100, 7, 100, 2); !errors.Is(err, ErrNoActiveBet) {
		t.Fatalf("second Settle = %v, want ErrNoActiveBet", err)
	}
	var balance int64
	if err := db.QueryRow("SELECT balance FROM users WHERE id = 7").Scan(&balance); err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Errorf("balance = %d, bet paid more than once", balance)
	}
}

func TestSettleLoss(t *testing.T) {
	s, db := testStore(t)
	if _, err := db.Exec("INSERT INTO users (id, balance) VALUES (7, 500)"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := s.Settle(-100, 7, 0, 1); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	var balance int64
	if err := db.QueryRow("SELECT balance FROM users WHERE id = 7").Scan(&balance); err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Errorf("losing settle moved balance to %d", balance)
	}
}

func TestLastOverwritten(t *testing.T) {
	s, db := testStore(t)
	if _, err := db.Exec("INSERT INTO users (id, balance) VALUES (7, 0)"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := s.Place(sampleBet()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := s.Settle(-100, 7, 0, 1); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	second := sampleBet()
	second.Amount = 999
	second.Covered = []int{1, 2, 3}
	second.Text = "1-3"
	if err := s.Place(second); err != nil {
		t.Fatalf("Place second: %v", err)
	}
	if _, err := s.Settle(-100, 7, 0, 2); err != nil {
		t.Fatalf("Settle second: %v", err)
	}

	last, err := s.Last(-100, 7)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Amount != 999 || last.Text != "1-3" || len(last.Covered) != 3 {
		t.Errorf("last = %+v, want the newer snapshot", last)
	}
}

func TestLastMissing(t *testing.T) {
	s, _ := testStore(t)
	if _, err := s.Last(1, 2); !errors.Is(err, ErrNoLastBet) {
		t.Fatalf("Last = %v, want ErrNoLastBet", err)
	}
}
