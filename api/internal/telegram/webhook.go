package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookPath derives a stable, unguessable path from the bot token.
func WebhookPath(token string) string {
	return "/webhook/" + shortHash(token)
}

// RegisterWebhook points Telegram at baseURL + WebhookPath(token).
func RegisterWebhook(bot Sender, token, baseURL string) (string, error) {
	public := strings.TrimRight(baseURL, "/") + WebhookPath(token)
	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return "", err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return "", err
	}
	return public, nil
}

// WebhookHandler decodes updates pushed by Telegram onto updates.
func WebhookHandler(updates chan<- tgbotapi.Update, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var upd tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
			if log != nil {
				log.Warn("webhook: bad update", zap.Error(err))
			}
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		select {
		case updates <- upd:
			w.WriteHeader(http.StatusOK)
		case <-req.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
}

// Consume handles updates until the channel closes or ctx is cancelled.
func (r *Router) Consume(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				r.logger().Info("webhook updates channel closed")
				return
			}
			r.HandleUpdate(ctx, upd)
		}
	}
}

func shortHash(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}
