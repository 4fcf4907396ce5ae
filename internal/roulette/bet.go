package roulette

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Amount bounds for a wager: nine digits at most.
const (
	MinAmount = 1
	MaxAmount = 999_999_999
)

// ErrInvalid is the sentinel for every malformed wager expression.
// Callers match it with errors.Is; the wrapped message carries the reason.
var ErrInvalid = errors.New("invalid bet")

// Bet is a parsed wager: the staked amount and the set of numbers it wins
// on. Text keeps the normalized target expression for display and repeat.
type Bet struct {
	Amount  int64
	Covered []int
	Text    string
}

// Covers reports whether the bet wins on the given number.
func (b *Bet) Covers(n int) bool {
	for _, c := range b.Covered {
		if c == n {
			return true
		}
	}
	return false
}

var colorAliases = map[string]Color{
	"к": Red, "красное": Red, "red": Red, "r": Red,
	"ч": Black, "черное": Black, "чёрное": Black, "black": Black, "b": Black,
	"з": Green, "зелёное": Green, "зеленое": Green, "green": Green, "g": Green, "0green": Green,
}

func colorSet(c Color) []int {
	switch c {
	case Red:
		return redSet
	case Black:
		return blackSet
	default:
		return greenSet
	}
}

// Parse turns a raw wager expression into a Bet.
//
// Grammar (case-insensitive, whitespace-normalized):
//
//	<amount> <target> [<target> ...]
//
// where a target is a single number (0-36), an inclusive range "a-b", or a
// color alias (red/black/green and their short and Russian forms). Targets
// are unioned; at most maxTargets are accepted. Any malformed token rejects
// the whole expression.
func Parse(raw string, maxTargets int) (*Bet, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: need an amount and at least one target", ErrInvalid)
	}

	amount, err := parseAmount(fields[0])
	if err != nil {
		return nil, err
	}

	targets := fields[1:]
	if len(targets) > maxTargets {
		return nil, fmt.Errorf("%w: at most %d targets", ErrInvalid, maxTargets)
	}

	covered := make(map[int]bool)
	for _, t := range targets {
		nums, err := parseTarget(t)
		if err != nil {
			return nil, err
		}
		for _, n := range nums {
			covered[n] = true
		}
	}
	if len(covered) == 0 {
		return nil, fmt.Errorf("%w: empty covered set", ErrInvalid)
	}

	set := make([]int, 0, len(covered))
	for n := range covered {
		set = append(set, n)
	}
	sort.Ints(set)

	return &Bet{
		Amount:  amount,
		Covered: set,
		Text:    strings.Join(targets, " "),
	}, nil
}

func parseAmount(s string) (int64, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: amount %q is not a number", ErrInvalid, s)
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < MinAmount || v > MaxAmount {
		return 0, fmt.Errorf("%w: amount %q out of range", ErrInvalid, s)
	}
	return v, nil
}

func parseTarget(t string) ([]int, error) {
	if c, ok := colorAliases[t]; ok {
		return colorSet(c), nil
	}

	if a, b, ok := strings.Cut(t, "-"); ok {
		lo, err1 := parseNumber(a)
		hi, err2 := parseNumber(b)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: bad range %q", ErrInvalid, t)
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		nums := make([]int, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			nums = append(nums, n)
		}
		return nums, nil
	}

	n, err := parseNumber(t)
	if err != nil {
		return nil, fmt.Errorf("%w: bad target %q", ErrInvalid, t)
	}
	return []int{n}, nil
}

func parseNumber(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, ErrInvalid
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinNumber || n > MaxNumber {
		return 0, ErrInvalid
	}
	return n, nil
}

// EncodeCovered serializes a covered set for storage ("1,2,3").
func EncodeCovered(covered []int) string {
	parts := make([]string, len(covered))
	for i, n := range covered {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// DecodeCovered is the inverse of EncodeCovered.
func DecodeCovered(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty covered set")
	}
	parts := strings.Split(s, ",")
	covered := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < MinNumber || n > MaxNumber {
			return nil, fmt.Errorf("bad covered set %q", s)
		}
		covered = append(covered, n)
	}
	return covered, nil
}
