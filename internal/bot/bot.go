// Package bot is the Telegram surface: it maps chat commands, wager
// expressions and inline buttons onto the game engine. All money logic
// lives in internal/game; handlers only translate and render.
package bot

import (
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"gram-bot/internal/game"
	"gram-bot/pkg/config"
)

type Bot struct {
	tb  *tele.Bot
	svc *game.Service
	cfg *config.Config
	log zerolog.Logger

	menu      *tele.ReplyMarkup
	btnRepeat tele.Btn
	btnDouble tele.Btn
	btnBonus  tele.Btn
}

func New(cfg *config.Config, svc *game.Service, logger zerolog.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{tb: tb, svc: svc, cfg: cfg, log: logger}
	b.buildKeyboards()
	b.route()
	return b, nil
}

func (b *Bot) buildKeyboards() {
	b.menu = &tele.ReplyMarkup{}
	btnProfile := b.menu.Data("👤 Профиль", "menu_profile")
	btnDonate := b.menu.Data("🎁 Бонус", "menu_donate")
	btnHelp := b.menu.Data("❓ Помощь", "menu_help")
	b.menu.Inline(
		b.menu.Row(btnProfile, btnDonate),
		b.menu.Row(btnHelp),
	)

	markup := &tele.ReplyMarkup{}
	b.btnRepeat = markup.Data("🔁 Повторить", "bet_repeat")
	b.btnDouble = markup.Data("✖️2 Удвоить", "bet_double")
	b.btnBonus = markup.Data("🎁 Забрать бонус", "bonus_claim")

	b.tb.Handle(&btnProfile, b.onProfile)
	b.tb.Handle(&btnDonate, b.onDonate)
	b.tb.Handle(&btnHelp, b.onHelp)
}

func (b *Bot) route() {
	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/give", b.onGive)
	b.tb.Handle("/giveid", b.onGiveID)
	b.tb.Handle("/resetid", b.onResetID)
	b.tb.Handle(tele.OnText, b.onText)

	b.tb.Handle(&b.btnRepeat, b.onRepeat)
	b.tb.Handle(&b.btnDouble, b.onDouble)
	b.tb.Handle(&b.btnBonus, b.onBonus)
}

// Start runs the long poller until Stop is called.
func (b *Bot) Start() {
	b.log.Info().Str("username", b.tb.Me.Username).Msg("bot started")
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.AdminID != 0 && userID == b.cfg.AdminID
}

func (b *Bot) repeatMarkup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(b.btnRepeat))
	return m
}

func (b *Bot) doubleMarkup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(b.btnDouble))
	return m
}

func (b *Bot) bonusMarkup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(b.btnBonus))
	return m
}
