package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegramBot создаёт бота. httpClient может быть nil.
func NewTelegramBot(token string, chatID int64, httpClient *http.Client, opts ...telego.BotOption) (*TelegramBot, error) {
	if httpClient != nil {
		opts = append(opts, telego.WithHTTPClient(httpClient))
	}

	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run отправляет уведомления из канала до закрытия канала или отмены ctx.
func (b *TelegramBot) Run(ctx context.Context, reminders <-chan entity.Reminder) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-reminders:
			if !ok {
				return nil
			}
			if err := b.SendReminder(ctx, r); err != nil {
				logger(ctx).Error("failed to send reminder",
					slog.Int64(logx.FieldPoolTestID, r.PoolTestID),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendReminder(ctx context.Context, r entity.Reminder) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatReminder(r),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

// FormatReminder HTML-текст уведомления.
func FormatReminder(r entity.Reminder) string {
	var sb strings.Builder

	switch r.Kind {
	case entity.ReminderAlert:
		fmt.Fprintf(&sb, "⚠️ <b>Pool test %s: readings out of range</b>\n", r.TestDate)
	default:
		fmt.Fprintf(&sb, "🏊 <b>Pool test due today</b> (%s)\n", r.NextTestDate)
		fmt.Fprintf(&sb, "Last test: %s\n", r.TestDate)
	}

	if len(r.OutOfRange) > 0 {
		sb.WriteString("\n")
		for _, item := range r.OutOfRange {
			fmt.Fprintf(&sb, "• %s\n", html.EscapeString(item))
		}
	}

	if r.Kind == entity.ReminderAlert {
		fmt.Fprintf(&sb, "\nNext test: %s", r.NextTestDate)
	}

	return strings.TrimRight(sb.String(), "\n")
}
