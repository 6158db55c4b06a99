package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type example struct {
	label string
	data  string // callback payload (at most 64 bytes): a request body, or "health"
}

var examples = []example{
	{"Fibonacci 10", `{"fibonacci":10}`},
	{"Primes 2..13", `{"prime":[2,3,4,5,6,7,8,9,10,11,12,13]}`},
	{"LCM 4, 6", `{"lcm":[4,6]}`},
	{"HCF 12, 18, 24", `{"hcf":[12,18,24]}`},
	{"Health", "health"},
}

func makeExamplesKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ex := range examples {
		btn := tgbotapi.NewInlineKeyboardButtonData(ex.label, ex.data)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// esc keeps text from closing the Markdown code block it is sent in.
func esc(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
