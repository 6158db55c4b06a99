package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bfhl/api/internal/bfhl"
)

// Sender is the part of *tgbotapi.BotAPI the router needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Router struct {
	Bot        Sender
	Dispatcher *bfhl.Dispatcher
	Log        *zap.Logger
}

const maxMessageLen = 3900

const usage = `Send one of:
/fibonacci 7
/prime 2 3 4 5
/lcm 4 6
/hcf 12 18 24
/ai What is the capital of France?
or a JSON body such as {"lcm": [4, 6]}.
/health reports service status.`

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.HandleCommand(ctx, cid, upd.Message.Command(), upd.Message.CommandArguments())
		return
	}

	text := strings.TrimSpace(upd.Message.Text)
	switch {
	case strings.HasPrefix(text, "{"):
		r.dispatch(ctx, cid, []byte(text))
	case text != "":
		r.send(cid, usage)
	}
}

func (r *Router) HandleCommand(ctx context.Context, cid int64, cmd, args string) {
	switch strings.ToLower(cmd) {
	case "start", "help":
		msg := tgbotapi.NewMessage(cid, usage)
		msg.ReplyMarkup = makeExamplesKeyboard()
		r.sendMessage(msg)
	case "health":
		r.reply(cid, http.StatusOK, bfhl.Health(r.Dispatcher.Identity()))
	case "fibonacci", "prime", "lcm", "hcf", "ai":
		r.dispatch(ctx, cid, BuildBody(cmd, args))
	default:
		r.send(cid, "Unknown command.\n\n"+usage)
	}
}

func (r *Router) dispatch(ctx context.Context, cid int64, body []byte) {
	status, env := r.Dispatcher.Dispatch(ctx, body)
	r.reply(cid, status, env)
}

func (r *Router) reply(cid int64, status int, env bfhl.Envelope) {
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		r.logger().Error("encode envelope", zap.Error(err))
		return
	}
	text := string(b)
	if len(text) > maxMessageLen {
		text = text[:maxMessageLen] + "…"
	}
	msg := tgbotapi.NewMessage(cid, fmt.Sprintf("%s %d\n```\n%s\n```", statusMark(status), status, esc(text)))
	msg.ParseMode = tgbotapi.ModeMarkdown
	r.sendMessage(msg)
}

func statusMark(status int) string {
	if status >= 200 && status < 300 {
		return "✅"
	}
	return "⚠️"
}

func (r *Router) send(chatID int64, text string) {
	r.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
