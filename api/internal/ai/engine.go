package ai

import (
	"context"
	"fmt"
	"strings"
)

// Engine performs a single text-generation call.
// Complete returns the text of the first part of the first candidate, or ""
// when the reply is well-formed but carries no text.
type Engine interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type Engines struct {
	REST Engine
	SDK  Engine
}

func (e *Engines) Get(transport string) (Engine, error) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", "rest", "http":
		eng = e.REST
	case "sdk", "genai":
		eng = e.SDK
	default:
		return nil, fmt.Errorf("unknown gemini transport %q; use 'rest' or 'sdk'", transport)
	}
	if eng == nil {
		return nil, fmt.Errorf("gemini transport %q is not configured", transport)
	}
	return eng, nil
}
