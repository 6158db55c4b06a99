package telegram

import (
	"encoding/json"
	"strings"
	"unicode"

	"bfhl/api/internal/bfhl"
)

// BuildBody turns a chat command into the equivalent /bfhl request body.
// Arguments that are not numbers are passed as strings so the dispatcher
// reports the same type errors the HTTP endpoint would.
func BuildBody(cmd, args string) []byte {
	var (
		key   bfhl.Key
		value json.RawMessage
	)
	switch strings.ToLower(cmd) {
	case "ai":
		key = bfhl.KeyAI
		value = mustJSON(strings.TrimSpace(args))
	case "fibonacci":
		key = bfhl.KeyFibonacci
		fields := splitArgs(args)
		switch len(fields) {
		case 0:
			value = json.RawMessage("null")
		case 1:
			value = literal(fields[0])
		default:
			value = array(fields)
		}
	default:
		key = bfhl.Key(strings.ToLower(cmd))
		value = array(splitArgs(args))
	}
	return mustJSON(map[string]json.RawMessage{string(key): value})
}

func splitArgs(args string) []string {
	args = strings.TrimSpace(args)
	args = strings.TrimPrefix(args, "[")
	args = strings.TrimSuffix(args, "]")
	return strings.FieldsFunc(args, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

func literal(s string) json.RawMessage {
	if s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) && json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return mustJSON(s)
}

func array(fields []string) json.RawMessage {
	xs := make([]json.RawMessage, len(fields))
	for i, f := range fields {
		xs[i] = literal(f)
	}
	return mustJSON(xs)
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
