package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	tele "gopkg.in/telebot.v3"

	"gram-bot/internal/bets"
	"gram-bot/internal/game"
	"gram-bot/internal/ledger"
	"gram-bot/internal/roulette"
)

func (b *Bot) onStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	balance, err := b.svc.Balance(sender.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("start: balance")
		return c.Reply("⚠️ Что-то пошло не так, попробуйте позже")
	}
	msg := fmt.Sprintf("🎰 Добро пожаловать в рулетку!\n%s\n\nСтавка: <сумма> <цель>, например «2500 к».",
		formatBalance(b.cfg.Game.CurrencyName, balance))
	return c.Reply(msg, b.menu)
}

// onText dispatches plain chat text: balance words, the spin word, or a
// wager expression. Anything that does not look like a bet is ignored so
// the bot stays quiet in group chatter.
func (b *Bot) onText(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	text := strings.ToLower(strings.TrimSpace(c.Text()))
	switch text {
	case "б", "баланс", "balance":
		balance, err := b.svc.Balance(sender.ID)
		if err != nil {
			b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("balance lookup")
			return nil
		}
		return c.Reply(formatBalance(b.cfg.Game.CurrencyName, balance), b.menu)
	case "го", "go", "крутить":
		return b.spin(c)
	}

	if !looksLikeBet(text) {
		return nil
	}
	return b.placeBet(c, c.Text())
}

// looksLikeBet reports whether the message starts with a digit, the only
// shape a wager expression can take.
func looksLikeBet(text string) bool {
	for _, r := range text {
		return unicode.IsDigit(r)
	}
	return false
}

func (b *Bot) placeBet(c tele.Context, raw string) error {
	sender := c.Sender()
	chat := c.Chat()

	placed, err := b.svc.PlaceBet(chat.ID, sender.ID, raw)
	switch {
	case err == nil:
		return c.Reply(formatPlaced(b.cfg.Game.CurrencyName, placed.Amount, placed.Description), b.doubleMarkup())
	case errors.Is(err, roulette.ErrInvalid):
		return c.Reply("❌ Не понял ставку. Пример: 2500 к")
	case errors.Is(err, bets.ErrBetPending):
		return c.Reply("❌ У вас уже есть ставка. Напишите «го», чтобы крутить.")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return c.Reply(fmt.Sprintf("❌ Недостаточно %s", b.cfg.Game.CurrencyName))
	default:
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("place bet")
		return c.Reply("⚠️ Что-то пошло не так, попробуйте позже")
	}
}

func (b *Bot) spin(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()

	res, err := b.svc.Spin(chat.ID, sender.ID)
	var cd *game.CooldownError
	switch {
	case err == nil:
	case errors.Is(err, bets.ErrNoActiveBet):
		return c.Reply("❌ Сначала сделайте ставку. Пример: 2500 к")
	case errors.Is(err, game.ErrTooSoon):
		return nil
	case errors.As(err, &cd):
		return c.Reply(formatCooldown(cd.Seconds))
	default:
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("spin")
		return c.Reply("⚠️ Что-то пошло не так, попробуйте позже")
	}

	msg := formatSpin(b.cfg.Game.CurrencyName, res)
	if outcomes, err := b.svc.Recent(chat.ID); err == nil {
		msg += "\n" + formatHistory(outcomes)
	}
	return c.Reply(msg, b.repeatMarkup())
}

func (b *Bot) onRepeat(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	placed, err := b.svc.Repeat(chat.ID, sender.ID)
	switch {
	case err == nil:
		if err := c.Respond(&tele.CallbackResponse{Text: "Ставка повторена"}); err != nil {
			b.log.Debug().Err(err).Msg("callback respond")
		}
		return c.Send(formatPlaced(b.cfg.Game.CurrencyName, placed.Amount, placed.Description), b.doubleMarkup())
	case errors.Is(err, bets.ErrNoLastBet):
		return c.Respond(&tele.CallbackResponse{Text: "❌ Нечего повторять", ShowAlert: true})
	case errors.Is(err, bets.ErrBetPending):
		return c.Respond(&tele.CallbackResponse{Text: "❌ У вас уже есть ставка", ShowAlert: true})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("❌ Недостаточно %s", b.cfg.Game.CurrencyName), ShowAlert: true})
	default:
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("repeat bet")
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Ошибка, попробуйте позже", ShowAlert: true})
	}
}

func (b *Bot) onDouble(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	amount, err := b.svc.Double(chat.ID, sender.ID)
	switch {
	case err == nil:
		if err := c.Respond(&tele.CallbackResponse{Text: "Ставка удвоена"}); err != nil {
			b.log.Debug().Err(err).Msg("callback respond")
		}
		return c.Send(fmt.Sprintf("✖️2 Ставка удвоена: %s %s", fmtInt(amount), b.cfg.Game.CurrencyName), b.doubleMarkup())
	case errors.Is(err, bets.ErrNoActiveBet):
		return c.Respond(&tele.CallbackResponse{Text: "❌ Нет активной ставки", ShowAlert: true})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("❌ Недостаточно %s", b.cfg.Game.CurrencyName), ShowAlert: true})
	default:
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("double bet")
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Ошибка, попробуйте позже", ShowAlert: true})
	}
}

func (b *Bot) onProfile(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	balance, err := b.svc.Balance(sender.ID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Ошибка, попробуйте позже", ShowAlert: true})
	}
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		b.log.Debug().Err(err).Msg("callback respond")
	}
	msg := fmt.Sprintf("👤 %s\nID: %d\n%s",
		sender.FirstName, sender.ID, formatBalance(b.cfg.Game.CurrencyName, balance))
	return c.Send(msg)
}

func (b *Bot) onDonate(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	available, remaining, err := b.svc.BonusAvailable(sender.ID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Ошибка, попробуйте позже", ShowAlert: true})
	}
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		b.log.Debug().Err(err).Msg("callback respond")
	}
	if !available {
		return c.Send(donateText + "\n\n" + formatBonusWait(remaining))
	}
	msg := fmt.Sprintf("%s\n\n🎁 Вам доступен бонус: %s %s",
		donateText, fmtInt(b.cfg.Game.BonusAmount), b.cfg.Game.CurrencyName)
	return c.Send(msg, b.bonusMarkup())
}

func (b *Bot) onBonus(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	amount, err := b.svc.ClaimBonus(sender.ID)
	var wait *ledger.BonusWaitError
	switch {
	case err == nil:
		if err := c.Respond(&tele.CallbackResponse{Text: "🎁 Бонус получен!"}); err != nil {
			b.log.Debug().Err(err).Msg("callback respond")
		}
		balance, berr := b.svc.Balance(sender.ID)
		if berr != nil {
			b.log.Error().Err(berr).Int64("user_id", sender.ID).Msg("balance after bonus")
			return nil
		}
		return c.Send(fmt.Sprintf("🎁 +%s %s\n%s",
			fmtInt(amount), b.cfg.Game.CurrencyName,
			formatBalance(b.cfg.Game.CurrencyName, balance)))
	case errors.As(err, &wait):
		return c.Respond(&tele.CallbackResponse{Text: formatBonusWait(wait.Seconds), ShowAlert: true})
	default:
		b.log.Error().Err(err).Int64("user_id", sender.ID).Msg("claim bonus")
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Ошибка, попробуйте позже", ShowAlert: true})
	}
}

func (b *Bot) onHelp(c tele.Context) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		b.log.Debug().Err(err).Msg("callback respond")
	}
	return c.Send(helpText)
}

// onGive credits the replied-to user: /give <amount> as a reply.
func (b *Bot) onGive(c tele.Context) error {
	sender := c.Sender()
	if sender == nil || !b.isAdmin(sender.ID) {
		return nil
	}
	reply := c.Message().ReplyTo
	if reply == nil || reply.Sender == nil {
		return c.Reply("Использование: ответьте на сообщение и напишите /give <сумма>")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Использование: /give <сумма>")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		return c.Reply("❌ Некорректная сумма")
	}
	if err := b.svc.AdminCredit(reply.Sender.ID, amount); err != nil {
		b.log.Error().Err(err).Int64("target", reply.Sender.ID).Msg("admin give")
		return c.Reply("⚠️ Не получилось")
	}
	return c.Reply(fmt.Sprintf("✅ Начислено %s %s пользователю %d",
		fmtInt(amount), b.cfg.Game.CurrencyName, reply.Sender.ID))
}

// onGiveID credits by user id: /giveid <id> <amount>.
func (b *Bot) onGiveID(c tele.Context) error {
	sender := c.Sender()
	if sender == nil || !b.isAdmin(sender.ID) {
		return nil
	}
	args := c.Args()
	if len(args) != 2 {
		return c.Reply("Использование: /giveid <id> <сумма>")
	}
	userID, err1 := strconv.ParseInt(args[0], 10, 64)
	amount, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil || amount <= 0 {
		return c.Reply("❌ Некорректные аргументы")
	}
	if err := b.svc.AdminCredit(userID, amount); err != nil {
		b.log.Error().Err(err).Int64("target", userID).Msg("admin giveid")
		return c.Reply("⚠️ Не получилось")
	}
	return c.Reply(fmt.Sprintf("✅ Начислено %s %s пользователю %d",
		fmtInt(amount), b.cfg.Game.CurrencyName, userID))
}

// onResetID zeroes a balance: /resetid <id>.
func (b *Bot) onResetID(c tele.Context) error {
	sender := c.Sender()
	if sender == nil || !b.isAdmin(sender.ID) {
		return nil
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Reply("Использование: /resetid <id>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ Некорректный id")
	}
	if err := b.svc.AdminReset(userID); err != nil {
		b.log.Error().Err(err).Int64("target", userID).Msg("admin resetid")
		return c.Reply("⚠️ Не получилось")
	}
	return c.Reply(fmt.Sprintf("✅ Баланс пользователя %d обнулён", userID))
}
