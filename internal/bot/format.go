package bot

import (
	"fmt"
	"strings"

	"gram-bot/internal/game"
	"gram-bot/internal/results"
	"gram-bot/internal/roulette"
)

// fmtInt renders an amount with thin-space thousands separators, the way
// balances are shown in chat: 1 234 567.
func fmtInt(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		return "-" + out
	}
	return out
}

func colorEmoji(c roulette.Color) string {
	switch c {
	case roulette.Red:
		return "🔴"
	case roulette.Black:
		return "⚫️"
	default:
		return "🟢"
	}
}

func formatBalance(currency string, balance int64) string {
	return fmt.Sprintf("💰 Баланс: %s %s", fmtInt(balance), currency)
}

func formatPlaced(currency string, amount int64, description string) string {
	return fmt.Sprintf("🎰 Ставка принята: %s %s на %s\nНапишите «го», чтобы крутить.",
		fmtInt(amount), currency, description)
}

func formatSpin(currency string, r *game.SpinResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎡 Выпало: %d %s\n", r.Rolled, colorEmoji(r.Color))
	if r.Payout > 0 {
		fmt.Fprintf(&b, "🎉 Выигрыш: %s %s (ставка %s на %s)\n",
			fmtInt(r.Payout), currency, fmtInt(r.Stake), r.Description)
	} else {
		fmt.Fprintf(&b, "😢 Проигрыш: %s %s (ставка на %s)\n",
			fmtInt(r.Stake), currency, r.Description)
	}
	fmt.Fprintf(&b, "💰 Баланс: %s %s", fmtInt(r.Balance), currency)
	return b.String()
}

// formatHistory renders recent outcomes oldest to newest on one line.
func formatHistory(outcomes []results.Outcome) string {
	if len(outcomes) == 0 {
		return "📜 История пуста"
	}
	parts := make([]string, 0, len(outcomes))
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		parts = append(parts, fmt.Sprintf("%d%s", o.Number, colorEmoji(o.Color())))
	}
	return "📜 " + strings.Join(parts, " ")
}

func formatCooldown(seconds int64) string {
	return fmt.Sprintf("⏰ Колесо ещё крутится, подождите %d сек.", seconds)
}

func formatBonusWait(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("⏰ Бонус будет доступен через %d ч %d мин", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("⏰ Бонус будет доступен через %d мин", m)
	}
	return fmt.Sprintf("⏰ Бонус будет доступен через %d сек", seconds)
}

// Payment packages are display-only, there is no processor behind them.
const donateText = `💎 Пакеты GRAM:
  10 000 — скоро
  50 000 — скоро
  250 000 — скоро`

const helpText = `🎰 Рулетка

Ставка: <сумма> <цель> [<цель> ...]
Цели: число 0-36, диапазон 1-12, цвет (к/ч/з, red/black/green).

Примеры:
  2500 к — на красное
  100 0 — на зеро
  500 1-12 7 — на дюжину и число

«го» — крутить (через 10 сек после ставки)
«б» — баланс
🎁 Бонус — раз в сутки в меню`
