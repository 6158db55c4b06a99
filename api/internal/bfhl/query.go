package bfhl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
)

type Key string

const (
	KeyFibonacci Key = "fibonacci"
	KeyPrime     Key = "prime"
	KeyLCM       Key = "lcm"
	KeyHCF       Key = "hcf"
	KeyAI        Key = "AI"
)

func (k Key) valid() bool {
	switch k {
	case KeyFibonacci, KeyPrime, KeyLCM, KeyHCF, KeyAI:
		return true
	}
	return false
}

// Query is one parsed request. The set of implementations is closed.
type Query interface {
	Key() Key
	isQuery()
}

type Fibonacci struct{ Count int }
type PrimeFilter struct{ Values []int64 }
type LCM struct{ Values []int64 }
type HCF struct{ Values []int64 }
type AIQuery struct{ Question string }

func (Fibonacci) Key() Key   { return KeyFibonacci }
func (PrimeFilter) Key() Key { return KeyPrime }
func (LCM) Key() Key         { return KeyLCM }
func (HCF) Key() Key         { return KeyHCF }
func (AIQuery) Key() Key     { return KeyAI }

func (Fibonacci) isQuery()   {}
func (PrimeFilter) isQuery() {}
func (LCM) isQuery()         {}
func (HCF) isQuery()         {}
func (AIQuery) isQuery()     {}

// Violation is a client error: a shape (400/422) or domain (400) rule that
// the request body broke.
type Violation struct {
	Status  int
	Message string
}

func (v *Violation) Error() string { return v.Message }

const (
	MsgInvalidJSON   = "Invalid JSON body"
	MsgNotObject     = "Request body must be a JSON object"
	MsgKeyCount      = "Request must contain exactly one key"
	MsgInvalidKey    = "Invalid key provided"
	MsgNegativeCount = "Fibonacci count cannot be negative"
	MsgEmptyArray    = "Array cannot be empty"
	MsgOutOfRange    = "Array values must fit in a signed 64-bit integer"
	MsgEmptyQuestion = "Question cannot be empty"
)

func shape(msg string) *Violation  { return &Violation{Status: http.StatusBadRequest, Message: msg} }
func domain(msg string) *Violation { return &Violation{Status: http.StatusBadRequest, Message: msg} }

func typeViolation(k Key, want string) *Violation {
	return &Violation{
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Value for '%s' must be %s", k, want),
	}
}

type Limits struct {
	// MaxFibonacci caps the requested sequence length.
	MaxFibonacci int
}

// ParseQuery validates body and turns it into a Query. Checks run in a fixed
// order (key count, key name, value type, value domain) and the first
// failing one is reported.
func ParseQuery(body []byte, lim Limits) (Query, *Violation) {
	obj, v := decodeObject(body)
	if v != nil {
		return nil, v
	}
	if len(obj) != 1 {
		return nil, shape(MsgKeyCount)
	}

	var (
		k   Key
		raw json.RawMessage
	)
	for name, val := range obj {
		k, raw = Key(name), val
	}
	if !k.valid() {
		return nil, shape(MsgInvalidKey)
	}

	switch k {
	case KeyFibonacci:
		return parseFibonacci(raw, lim)
	case KeyPrime, KeyLCM, KeyHCF:
		xs, v := parseIntArray(k, raw)
		if v != nil {
			return nil, v
		}
		switch k {
		case KeyPrime:
			return PrimeFilter{Values: xs}, nil
		case KeyLCM:
			return LCM{Values: xs}, nil
		default:
			return HCF{Values: xs}, nil
		}
	default:
		return parseQuestion(raw)
	}
}

func decodeObject(body []byte) (map[string]json.RawMessage, *Violation) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if !json.Valid(body) {
		return nil, shape(MsgInvalidJSON)
	}
	if body[0] != '{' {
		return nil, shape(MsgNotObject)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, shape(MsgInvalidJSON)
	}
	return obj, nil
}

func parseFibonacci(raw json.RawMessage, lim Limits) (Query, *Violation) {
	n, ok := integerLiteral(raw)
	if !ok {
		return nil, typeViolation(KeyFibonacci, "an integer")
	}
	if n.Sign() < 0 {
		return nil, domain(MsgNegativeCount)
	}
	if lim.MaxFibonacci > 0 && n.Cmp(big.NewInt(int64(lim.MaxFibonacci))) > 0 {
		return nil, domain(fmt.Sprintf("Fibonacci count cannot exceed %d", lim.MaxFibonacci))
	}
	if !n.IsInt64() || n.Int64() > int64(maxInt) {
		return nil, domain(fmt.Sprintf("Fibonacci count cannot exceed %d", maxInt))
	}
	return Fibonacci{Count: int(n.Int64())}, nil
}

const maxInt = int(^uint(0) >> 1)

func parseIntArray(k Key, raw json.RawMessage) ([]int64, *Violation) {
	var elems []json.RawMessage
	if firstByte(raw) != '[' || json.Unmarshal(raw, &elems) != nil {
		return nil, typeViolation(k, "an integer array")
	}
	nums := make([]*big.Int, len(elems))
	for i, e := range elems {
		n, ok := integerLiteral(e)
		if !ok {
			return nil, typeViolation(k, "an integer array")
		}
		nums[i] = n
	}
	if len(nums) == 0 {
		return nil, domain(MsgEmptyArray)
	}
	xs := make([]int64, len(nums))
	for i, n := range nums {
		if !n.IsInt64() {
			return nil, domain(MsgOutOfRange)
		}
		xs[i] = n.Int64()
	}
	return xs, nil
}

func parseQuestion(raw json.RawMessage) (Query, *Violation) {
	var q string
	if firstByte(raw) != '"' || json.Unmarshal(raw, &q) != nil {
		return nil, typeViolation(KeyAI, "a string")
	}
	if strings.TrimSpace(q) == "" {
		return nil, domain(MsgEmptyQuestion)
	}
	return AIQuery{Question: q}, nil
}

// integerLiteral accepts a JSON number written without fraction or exponent.
func integerLiteral(raw json.RawMessage) (*big.Int, bool) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || strings.ContainsAny(s, ".eE") {
		return nil, false
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return nil, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	if len(digits) > 1 && digits[0] == '0' {
		return nil, false
	}
	if len(digits) <= 18 {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return big.NewInt(v), true
	}
	n, ok := new(big.Int).SetString(s, 10)
	return n, ok
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
