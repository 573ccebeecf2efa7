package keyboards

import (
	"strconv"

	"gopkg.in/telebot.v3"

	"schedule-bot/internal/model"
)

// BuildSlotKeyboard lists time slots four per row under the given callback
// key; the payload is the slot text itself.
func BuildSlotKeyboard(key string, slots []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	week := telebot.Row{}
	for _, slot := range slots {
		week = append(week, markup.Data(slot, key, slot))
		if len(week) == 4 {
			rows = append(rows, week)
			week = telebot.Row{}
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}
	markup.Inline(rows...)
	return markup
}

// BuildEmployeeKeyboard lists employees one per row; payloads carry the ID.
func BuildEmployeeKeyboard(key string, employees []model.Employee) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for _, e := range employees {
		rows = append(rows, markup.Row(markup.Data(e.Name, key, strconv.Itoa(e.ID))))
	}
	markup.Inline(rows...)
	return markup
}

// BuildConfirmKeyboard offers a yes/no pair under distinct callback keys.
func BuildConfirmKeyboard(yesText, yesKey, noText, noKey string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data(yesText, yesKey),
		markup.Data(noText, noKey),
	))
	return markup
}

// BuildPasteChoiceKeyboard is the three-way paste decision.
func BuildPasteChoiceKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Paste all", "paste_all")),
		markup.Row(markup.Data("Paste only conflict-free", "paste_clean")),
		markup.Row(markup.Data("Cancel", "paste_cancel")),
	)
	return markup
}
