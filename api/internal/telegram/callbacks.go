package telegram

import (
	"context"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bfhl/api/internal/bfhl"
)

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.logger().Warn("telegram callback ack", zap.Error(err))
	}
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	cid := cb.Message.Chat.ID

	data := strings.TrimSpace(cb.Data)
	switch {
	case data == "health":
		r.reply(cid, http.StatusOK, bfhl.Health(r.Dispatcher.Identity()))
	case strings.HasPrefix(data, "{"):
		r.dispatch(ctx, cid, []byte(data))
	default:
		r.send(cid, usage)
	}
}
