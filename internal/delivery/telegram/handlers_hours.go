package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"

	"schedule-bot/internal/delivery/telegram/keyboards"
	"schedule-bot/internal/delivery/telegram/middleware"
	"schedule-bot/pkg/timeutil"
)

func (h *Handler) registerHoursCallbacks() {
	r := h.Router

	r.Register("hours_day", func(c telebot.Context, payload string) error {
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Closed", "hours_closed", payload),
			markup.Data("Set times", "hours_set", payload),
		))
		return middleware.EditOrSend(c, fmt.Sprintf("Store on %ss:", titleCase(payload)), markup)
	})

	r.Register("hours_closed", func(c telebot.Context, payload string) error {
		if err := h.Hours.SetClosed(payload); err != nil {
			return c.Send("Couldn't update store hours: " + err.Error())
		}
		if err := middleware.EditOrSend(c, fmt.Sprintf("%ss are now marked closed. Existing shifts on past %ss stay in the document.", titleCase(payload), titleCase(payload)), nil); err != nil {
			return err
		}
		return h.handleHours(c)
	})

	r.Register("hours_set", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		h.hoursEdit[c.Chat().ID] = &hoursSession{weekday: payload}
		h.mu.Unlock()
		slots, err := timeutil.Slots(pickerOpen, pickerClose, 30)
		if err != nil {
			return err
		}
		return middleware.EditOrSend(c, "Opens at:", keyboards.BuildSlotKeyboard("hours_open", slots))
	})

	r.Register("hours_open", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		sess := h.hoursEdit[c.Chat().ID]
		if sess != nil {
			sess.open = payload
		}
		h.mu.Unlock()
		if sess == nil {
			return nil
		}
		slots, err := timeutil.Slots(pickerOpen, pickerClose, 30)
		if err != nil {
			return err
		}
		var after []string
		for _, slot := range slots {
			if laterThan(slot, payload) {
				after = append(after, slot)
			}
		}
		return middleware.EditOrSend(c, "Closes at:", keyboards.BuildSlotKeyboard("hours_close", after))
	})

	r.Register("hours_close", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		sess := h.hoursEdit[c.Chat().ID]
		delete(h.hoursEdit, c.Chat().ID)
		h.mu.Unlock()
		if sess == nil || sess.open == "" {
			return nil
		}
		if err := h.Hours.SetOpen(sess.weekday, sess.open, payload); err != nil {
			return c.Send("Couldn't update store hours: " + err.Error())
		}
		if err := middleware.EditOrSend(c, fmt.Sprintf("%ss: %s - %s.", titleCase(sess.weekday), sess.open, payload), nil); err != nil {
			return err
		}
		return h.handleHours(c)
	})
}
