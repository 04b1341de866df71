package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier шлёт админу сообщение о каждой упавшей конверсии.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier возвращает nil, если токен не задан —
// пайплайн работает и без нотификаций.
func NewTelegramNotifier() *TelegramNotifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil
	}

	chatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("[notify] invalid ADMIN_CHAT_ID: %v", err)
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[notify] telegram init fail: %v", err)
		return nil
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, jobID string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Конверсия упала (%s)\n\nОшибка: %v\n\nДетали: %s",
		jobID,
		err,
		details,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)

	_, sendErr := n.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[notify] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
