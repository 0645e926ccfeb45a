package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tokenscope/memebot/core/model"
)

// TelegramNotifier posts alerts to the signal channel and process-level
// errors to a separate admin chat. Internal failures never surface on the
// signal channel.
type TelegramNotifier struct {
	api         *tgbotapi.BotAPI
	chatID      int64
	adminChatID int64
}

func NewTelegramNotifier(botToken string, chatID, adminChatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot failed, %v", err)
	}

	return &TelegramNotifier{
		api:         api,
		chatID:      chatID,
		adminChatID: adminChatID,
	}, nil
}

func (n *TelegramNotifier) SendAlert(ctx context.Context, narrative string, tok *model.TokenSnapshot, res *model.ScoreResult) (int, error) {
	msg := tgbotapi.NewMessage(n.chatID, formatAlert(narrative, tok, res))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = makeMarkup(tok)

	sent, err := n.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send alert failed, %v", err)
	}
	return sent.MessageID, nil
}

// SendAdmin reports a process-level fault on the admin path.
func (n *TelegramNotifier) SendAdmin(ctx context.Context, text string) error {
	if n.adminChatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(n.adminChatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send admin message failed, %v", err)
	}
	return nil
}

func formatAlert(narrative string, tok *model.TokenSnapshot, res *model.ScoreResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <b>%s</b> ($%s)\n\n", phaseEmoji(res.Phase), tok.Name, tok.Symbol)
	fmt.Fprintf(&sb, "Phase: %s | Score: %d\n", res.Phase, res.Combined)
	fmt.Fprintf(&sb, "MC: $%.0f | Liq: $%.0f\n", tok.MarketCapUsd, tok.LiquidityUsd)
	fmt.Fprintf(&sb, "5m: %+.1f%% on $%.0f volume (%d buys / %d sells)\n", tok.PriceChange5m, tok.Volume5mUsd, tok.Buys5m, tok.Sells5m)
	fmt.Fprintf(&sb, "Holders: %d | Top10: %.1f%%\n", tok.HolderCount, tok.Top10HoldersPercent)

	if narrative != "" {
		fmt.Fprintf(&sb, "\n%s\n", narrative)
	}

	fmt.Fprintf(&sb, "\n<code>%s</code>", tok.Address)

	return sb.String()
}

func phaseEmoji(phase model.Phase) string {
	switch phase {
	case model.PhaseServed:
		return "🍽"
	case model.PhaseCooking:
		return "🔥"
	case model.PhaseTracking:
		return "👀"
	default:
		return "📡"
	}
}

func makeMarkup(tok *model.TokenSnapshot) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonURL("📊Chart", fmt.Sprintf("https://dexscreener.com/solana/%s", tok.Address)),
		tgbotapi.NewInlineKeyboardButtonURL("🦅Birdeye", fmt.Sprintf("https://birdeye.so/token/%s", tok.Address)),
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
