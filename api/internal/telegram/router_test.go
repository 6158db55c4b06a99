package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfhl/api/internal/bfhl"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type stubAsker struct{}

func (stubAsker) Ask(context.Context, string) (string, error) { return "Paris", nil }

func newRouter() (*Router, *fakeBot) {
	bot := &fakeBot{}
	d := bfhl.NewDispatcher("bot@example.edu", bfhl.Limits{MaxFibonacci: 100}, stubAsker{}, nil)
	return &Router{Bot: bot, Dispatcher: d}, bot
}

func command(text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func TestBuildBody(t *testing.T) {
	tests := []struct{ cmd, args, want string }{
		{"fibonacci", "5", `{"fibonacci":5}`},
		{"fibonacci", "", `{"fibonacci":null}`},
		{"fibonacci", "five", `{"fibonacci":"five"}`},
		{"fibonacci", "1 2", `{"fibonacci":[1,2]}`},
		{"prime", "1 2 3", `{"prime":[1,2,3]}`},
		{"prime", "[1, 2,3]", `{"prime":[1,2,3]}`},
		{"lcm", "4 x", `{"lcm":[4,"x"]}`},
		{"hcf", "", `{"hcf":[]}`},
		{"ai", "  capital of France? ", `{"AI":"capital of France?"}`},
		{"AI", "", `{"AI":""}`},
	}
	for _, tt := range tests {
		assert.JSONEq(t, tt.want, string(BuildBody(tt.cmd, tt.args)), "%s %q", tt.cmd, tt.args)
	}
}

func TestHandleUpdate_Commands(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"/fibonacci 5", []string{"✅ 200", `"data": [`, "3"}},
		{"/prime 1 2 3 4 5 17", []string{"✅ 200", "17"}},
		{"/lcm 4 6", []string{`"data": 12`}},
		{"/hcf 12 18 24", []string{`"data": 6`}},
		{"/ai capital of France?", []string{`"data": "Paris"`}},
		{"/fibonacci -3", []string{"⚠️ 400", "Fibonacci count cannot be negative"}},
		{"/prime x", []string{"⚠️ 422", "Value for 'prime' must be an integer array"}},
		{"/lcm", []string{"⚠️ 400", "Array cannot be empty"}},
		{"/health", []string{"✅ 200", `"official_email": "bot@example.edu"`}},
	}
	for _, tt := range tests {
		r, bot := newRouter()
		r.HandleUpdate(context.Background(), command(tt.text))

		msg := bot.last(t)
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
		for _, w := range tt.want {
			assert.Contains(t, msg.Text, w, tt.text)
		}
	}
}

func TestHandleUpdate_StartShowsExamples(t *testing.T) {
	r, bot := newRouter()
	r.HandleUpdate(context.Background(), command("/start"))

	msg := bot.last(t)
	assert.Contains(t, msg.Text, "/fibonacci")
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, len(examples))
	for _, ex := range examples {
		assert.LessOrEqual(t, len(ex.data), 64, ex.label)
	}
}

func TestHandleUpdate_JSONMessage(t *testing.T) {
	r, bot := newRouter()
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: `{"lcm": [4, 6], "hcf": [2]}`,
		Chat: &tgbotapi.Chat{ID: 7},
	}})

	msg := bot.last(t)
	assert.Contains(t, msg.Text, "⚠️ 400")
	assert.Contains(t, msg.Text, bfhl.MsgKeyCount)
}

func TestHandleUpdate_PlainTextGetsUsage(t *testing.T) {
	r, bot := newRouter()
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "hello",
		Chat: &tgbotapi.Chat{ID: 7},
	}})
	assert.Equal(t, usage, bot.last(t).Text)
}

func TestHandleUpdate_Callback(t *testing.T) {
	r, bot := newRouter()
	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    `{"lcm":[4,6]}`,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}},
	}})

	require.Len(t, bot.requests, 1)
	ack, ok := bot.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb-1", ack.CallbackQueryID)

	msg := bot.last(t)
	assert.Equal(t, int64(9), msg.ChatID)
	assert.Contains(t, msg.Text, `"data": 12`)
}

func TestEscKeepsCodeBlockClosed(t *testing.T) {
	assert.Equal(t, "a'b'c", esc("a`b`c"))
}

func TestRetryDelayFromError(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryDelayFromError(nil))
	assert.Equal(t, 7*time.Second, retryDelayFromError(errors.New("Too Many Requests: retry after 7")))
	assert.Equal(t, 3*time.Second, retryDelayFromError(errors.New("too many requests")))
	assert.Equal(t, 1*time.Second, retryDelayFromError(errors.New("bad gateway")))
}

type scriptedSource struct {
	mu      sync.Mutex
	batches [][]tgbotapi.Update
	offsets []int
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets = append(s.offsets, cfg.Offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

func TestPoll(t *testing.T) {
	r, bot := newRouter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := command("/lcm 4 6")
	first.UpdateID = 10
	second := command("/hcf 12 18")
	second.UpdateID = 11
	src := &scriptedSource{batches: [][]tgbotapi.Update{{first, second}}, cancel: cancel}

	done := make(chan struct{})
	go func() {
		r.Poll(ctx, src)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not stop")
	}

	assert.Equal(t, []int{0, 12}, src.offsets)
	assert.Len(t, bot.sent, 2)
}

func TestWebhookHandlerAndConsume(t *testing.T) {
	r, bot := newRouter()
	updates := make(chan tgbotapi.Update, 1)
	h := WebhookHandler(updates, nil)

	body := `{"update_id": 1, "message": {"message_id": 1, "text": "{\"hcf\": [12, 18]}", "chat": {"id": 5}}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/x", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	close(updates)

	r.Consume(context.Background(), updates)
	msg := bot.last(t)
	assert.Equal(t, int64(5), msg.ChatID)
	assert.Contains(t, msg.Text, `"data": 6`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/x", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterWebhook(t *testing.T) {
	bot := &fakeBot{}
	public, err := RegisterWebhook(bot, "123:abc", "https://bot.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example"+WebhookPath("123:abc"), public)
	assert.Len(t, bot.requests, 1)

	assert.Equal(t, WebhookPath("123:abc"), WebhookPath("123:abc"))
	assert.NotEqual(t, WebhookPath("123:abc"), WebhookPath("123:abd"))
	assert.Len(t, strings.TrimPrefix(WebhookPath("t"), "/webhook/"), 16)
}
