package game

import "testing"

func TestCryptoRollInRange(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v, err := CryptoRoll(37)
		if err != nil {
			t.Fatalf("CryptoRoll: %v", err)
		}
		if v < 0 || v > 36 {
			t.Fatalf("roll %d out of range", v)
		}
		seen[v] = true
	}
	// 500 draws over 37 slots leaving most unseen would be astronomical.
	if len(seen) < 20 {
		t.Errorf("only %d distinct values in 500 draws", len(seen))
	}
}
