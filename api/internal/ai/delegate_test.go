package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEngine struct {
	text   string
	err    error
	block  bool
	prompt string
	calls  int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Answer the following question in one word: What is the capital city of Maharashtra?",
		Prompt("What is the capital city of Maharashtra?"))
}

func TestFirstWord(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Mumbai", "Mumbai"},
		{"  Mumbai.\n", "Mumbai."},
		{"Mumbai is the capital", "Mumbai"},
		{"\tNew\nDelhi", "New"},
		{"", NoResponse},
		{"   \n\t ", NoResponse},
		{"```\nMumbai\n```", "Mumbai"},
		{"```text\nMumbai\n```", "Mumbai"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstWord(tt.in), "FirstWord(%q)", tt.in)
	}
}

func TestDelegateAsk(t *testing.T) {
	eng := &fakeEngine{text: "Mumbai is the answer"}
	d := NewDelegate(eng, time.Second, nil)

	got, err := d.Ask(context.Background(), "capital of Maharashtra?")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got)
	assert.Equal(t, 1, eng.calls)
	assert.Equal(t, Prompt("capital of Maharashtra?"), eng.prompt)
}

func TestDelegateAsk_Fallback(t *testing.T) {
	d := NewDelegate(&fakeEngine{text: ""}, time.Second, nil)
	got, err := d.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, NoResponse, got)
}

func TestDelegateAsk_FailureIsOpaqueAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	eng := &fakeEngine{err: errors.New("gemini 500: upstream exploded")}
	d := NewDelegate(eng, time.Second, zap.New(core))

	_, err := d.Ask(context.Background(), "q")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "AI Service Unavailable", err.Error())
	assert.NotContains(t, err.Error(), "exploded")
	assert.Equal(t, 1, eng.calls, "no retries")

	entries := logs.FilterMessage("gemini call failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "upstream exploded")
}

func TestDelegateAsk_Timeout(t *testing.T) {
	d := NewDelegate(&fakeEngine{block: true}, 10*time.Millisecond, nil)
	_, err := d.Ask(context.Background(), "q")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestEnginesGet(t *testing.T) {
	rest := &fakeEngine{}
	sdk := &fakeEngine{}
	engs := &Engines{REST: rest, SDK: sdk}

	for _, name := range []string{"", "rest", "HTTP", " rest "} {
		e, err := engs.Get(name)
		require.NoError(t, err, name)
		assert.Same(t, rest, e)
	}
	e, err := engs.Get("sdk")
	require.NoError(t, err)
	assert.Same(t, sdk, e)

	_, err = engs.Get("grpc")
	assert.Error(t, err)

	_, err = (&Engines{REST: rest}).Get("sdk")
	assert.Error(t, err)
}
