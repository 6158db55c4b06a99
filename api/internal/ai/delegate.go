package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bfhl/api/internal/util"
)

// ErrUnavailable is the only failure Ask reports. Upstream detail stays in the logs.
var ErrUnavailable = errors.New("AI Service Unavailable")

// NoResponse is answered when the upstream reply has no extractable word.
const NoResponse = "NoResponse"

const promptPrefix = "Answer the following question in one word: "

func Prompt(question string) string {
	return promptPrefix + question
}

// FirstWord returns the first whitespace-delimited token of text.
func FirstWord(text string) string {
	words := strings.Fields(util.StripCodeFences(text))
	if len(words) == 0 {
		return NoResponse
	}
	return words[0]
}

type Delegate struct {
	engine  Engine
	timeout time.Duration
	log     *zap.Logger
}

func NewDelegate(engine Engine, timeout time.Duration, log *zap.Logger) *Delegate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Delegate{engine: engine, timeout: timeout, log: log}
}

// Ask sends the question upstream once and returns a one-word answer.
func (d *Delegate) Ask(ctx context.Context, question string) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := d.engine.Complete(ctx, Prompt(question))
	if err != nil {
		d.log.Error("gemini call failed",
			zap.String("engine", d.engine.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ErrUnavailable
	}

	answer := FirstWord(text)
	d.log.Debug("gemini answered",
		zap.String("engine", d.engine.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("answer", answer))
	return answer, nil
}
