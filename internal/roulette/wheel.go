// Package roulette holds the wheel constants, the wager grammar and the
// payout rule. Everything here is pure; persistence and timing live in the
// engine.
package roulette

// European wheel, numbers 0-36.
const (
	MinNumber = 0
	MaxNumber = 36
	WheelSize = MaxNumber - MinNumber + 1
)

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf reports the color of a rolled number: 0 is green, the fixed
// 18-member set is red, everything else is black.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

// covered sets for the color bets, built once at init.
var (
	redSet   []int
	blackSet []int
	greenSet = []int{0}
)

func init() {
	for n := 1; n <= MaxNumber; n++ {
		if redNumbers[n] {
			redSet = append(redSet, n)
		} else {
			blackSet = append(blackSet, n)
		}
	}
}
