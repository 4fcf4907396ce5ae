package game

import (
	"errors"
	"fmt"
)

// CooldownError means the spin was requested before the post-placement
// delay elapsed. The bet stays pending.
type CooldownError struct {
	Seconds int64
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown not elapsed, %ds remaining", e.Seconds)
}

// ErrTooSoon is the silent anti-spam rejection for spin attempts arriving
// less than a second after the previous one. Handlers drop it without
// replying.
var ErrTooSoon = errors.New("spin attempt throttled")
