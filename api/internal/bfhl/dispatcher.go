package bfhl

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bfhl/api/internal/kernel"
)

const MsgInternal = "Internal Server Error"

// Asker answers a question with a single word.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Dispatcher struct {
	identity string
	limits   Limits
	ai       Asker
	log      *zap.Logger
}

func NewDispatcher(identity string, limits Limits, ai Asker, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{identity: identity, limits: limits, ai: ai, log: log}
}

func (d *Dispatcher) Identity() string { return d.identity }

// Dispatch validates body, runs the matching computation and returns the
// HTTP status together with the envelope to write.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) (int, Envelope) {
	q, v := ParseQuery(body, d.limits)
	if v != nil {
		d.log.Debug("request rejected", zap.Int("status", v.Status), zap.String("reason", v.Message))
		return v.Status, Failure(d.identity, v.Message)
	}

	data, err := d.execute(ctx, q)
	if err != nil {
		d.log.Error("request failed", zap.String("key", string(q.Key())), zap.Error(err))
		return http.StatusInternalServerError, Failure(d.identity, MsgInternal)
	}
	return http.StatusOK, Success(d.identity, data)
}

func (d *Dispatcher) execute(ctx context.Context, q Query) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", q.Key(), r)
		}
	}()

	switch q := q.(type) {
	case Fibonacci:
		return kernel.Fibonacci(q.Count), nil
	case PrimeFilter:
		return kernel.FilterPrimes(q.Values), nil
	case LCM:
		return kernel.LCM(q.Values), nil
	case HCF:
		return kernel.HCF(q.Values), nil
	case AIQuery:
		if d.ai == nil {
			return nil, fmt.Errorf("ai delegate is not configured")
		}
		return d.ai.Ask(ctx, q.Question)
	default:
		return nil, fmt.Errorf("unhandled query %T", q)
	}
}
