package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v3"

	"schedule-bot/internal/delivery/telegram/keyboards"
	"schedule-bot/internal/delivery/telegram/middleware"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

// pickerOpen/pickerClose bound the availability time pickers. Personal
// availability is independent of store hours, so the window is deliberately
// wider than any store day.
const (
	pickerOpen  = "6:00 AM"
	pickerClose = "11:00 PM"
)

func (h *Handler) registerEmployeeCallbacks() {
	r := h.Router

	r.Register("emp_add", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		h.prompts[c.Chat().ID] = &textPrompt{kind: "newemp"}
		h.mu.Unlock()
		return c.Send("Send the new employee's name (First Last).")
	})

	r.Register("emp_view", func(c telebot.Context, payload string) error {
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		return h.showEmployee(c, id)
	})

	r.Register("emp_rename", func(c telebot.Context, payload string) error {
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		h.mu.Lock()
		h.prompts[c.Chat().ID] = &textPrompt{kind: "rename", empID: id}
		h.mu.Unlock()
		return c.Send("Send the new name (First Last).")
	})

	r.Register("emp_del", func(c telebot.Context, payload string) error {
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		emp, err := h.Employees.GetEmployeeByID(id)
		if err != nil {
			return c.Send("Employee not found.")
		}
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Yes, remove", "emp_del_yes", payload),
			markup.Data("Cancel", "emp_view", payload),
		))
		return middleware.EditOrSend(c, fmt.Sprintf("Remove %s? Their scheduled shifts will be removed too.", emp.Name), markup)
	})

	r.Register("emp_del_yes", func(c telebot.Context, payload string) error {
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		removed, err := h.Employees.DeleteEmployee(id)
		if err != nil {
			return c.Send("Couldn't remove employee: " + err.Error())
		}
		return middleware.EditOrSend(c, fmt.Sprintf("Removed. %d scheduled shift(s) went with them.", removed), nil)
	})

	r.Register("emp_timeoff", func(c telebot.Context, payload string) error {
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		h.mu.Lock()
		h.prompts[c.Chat().ID] = &textPrompt{kind: "timeoff", empID: id}
		h.mu.Unlock()
		return c.Send("Send a date like 2025-06-02 for a full day off, or add a range for a partial day: 2025-06-02 9:00 AM - 1:00 PM.")
	})

	r.Register("emp_timeoff_rm", func(c telebot.Context, payload string) error {
		id, index, ok := splitIntPair(payload)
		if !ok {
			return nil
		}
		if err := h.Employees.RemoveTimeOff(id, index); err != nil {
			return c.Send("Couldn't remove entry: " + err.Error())
		}
		return h.showEmployee(c, id)
	})

	r.Register("av_day", func(c telebot.Context, payload string) error {
		id, weekday, ok := splitIDWeekday(payload)
		if !ok {
			return nil
		}
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Day off", "av_off", payload),
			markup.Data("Set hours", "av_hours", payload),
		))
		emp, err := h.Employees.GetEmployeeByID(id)
		if err != nil {
			return c.Send("Employee not found.")
		}
		return middleware.EditOrSend(c, fmt.Sprintf("%s on %ss:", emp.Name, titleCase(weekday)), markup)
	})

	r.Register("av_off", func(c telebot.Context, payload string) error {
		id, weekday, ok := splitIDWeekday(payload)
		if !ok {
			return nil
		}
		if err := h.Employees.SetDayOff(id, weekday); err != nil {
			return c.Send("Couldn't update availability: " + err.Error())
		}
		return h.showEmployee(c, id)
	})

	r.Register("av_hours", func(c telebot.Context, payload string) error {
		id, weekday, ok := splitIDWeekday(payload)
		if !ok {
			return nil
		}
		h.mu.Lock()
		h.availEdit[c.Chat().ID] = &availSession{empID: id, weekday: weekday}
		h.mu.Unlock()
		slots, err := timeutil.Slots(pickerOpen, pickerClose, 30)
		if err != nil {
			return err
		}
		return middleware.EditOrSend(c, "Available from:", keyboards.BuildSlotKeyboard("av_start", slots))
	})

	r.Register("av_start", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		sess := h.availEdit[c.Chat().ID]
		if sess != nil {
			sess.start = payload
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
		return middleware.EditOrSend(c, "Available until:", keyboards.BuildSlotKeyboard("av_end", after))
	})

	r.Register("av_end", func(c telebot.Context, payload string) error {
		h.mu.Lock()
		sess := h.availEdit[c.Chat().ID]
		delete(h.availEdit, c.Chat().ID)
		h.mu.Unlock()
		if sess == nil || sess.start == "" {
			return nil
		}
		if err := h.Employees.SetAvailability(sess.empID, sess.weekday, sess.start, payload); err != nil {
			return c.Send("Couldn't update availability: " + err.Error())
		}
		return h.showEmployee(c, sess.empID)
	})
}

func (h *Handler) showEmployee(c telebot.Context, id int) error {
	emp, err := h.Employees.GetEmployeeByID(id)
	if err != nil {
		return c.Send("Employee not found.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (id %d)\n\nAvailability:\n", emp.Name, emp.ID)
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for _, day := range model.Weekdays {
		window := emp.Availability[day]
		if model.Off(window) {
			fmt.Fprintf(&b, "%s: off\n", titleCase(day))
		} else if len(window) == 2 {
			fmt.Fprintf(&b, "%s: %s - %s\n", titleCase(day), window[0], window[1])
		} else {
			fmt.Fprintf(&b, "%s: (malformed)\n", titleCase(day))
		}
	}
	for i := 0; i < len(model.Weekdays); i += 2 {
		row := telebot.Row{markup.Data(titleCase(model.Weekdays[i]), "av_day", fmt.Sprintf("%d;%s", id, model.Weekdays[i]))}
		if i+1 < len(model.Weekdays) {
			row = append(row, markup.Data(titleCase(model.Weekdays[i+1]), "av_day", fmt.Sprintf("%d;%s", id, model.Weekdays[i+1])))
		}
		rows = append(rows, row)
	}

	if len(emp.RequestedTimeOff) > 0 {
		b.WriteString("\nRequested time off:\n")
		for i, entry := range emp.RequestedTimeOff {
			if entry.Type == model.TimeOffPartial {
				fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, entry.Date, entry.Times)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", i+1, entry.Date)
			}
			rows = append(rows, markup.Row(markup.Data(
				fmt.Sprintf("Remove time off %d", i+1), "emp_timeoff_rm", fmt.Sprintf("%d;%d", id, i))))
		}
	}

	rows = append(rows,
		markup.Row(
			markup.Data("✏ Rename", "emp_rename", strconv.Itoa(id)),
			markup.Data("🏖 Add time off", "emp_timeoff", strconv.Itoa(id)),
		),
		markup.Row(markup.Data("🗑 Remove employee", "emp_del", strconv.Itoa(id))),
	)
	markup.Inline(rows...)
	return middleware.EditOrSend(c, b.String(), markup)
}

func splitIntPair(payload string) (int, int, bool) {
	parts := strings.SplitN(payload, ";", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(parts[0])
	b, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

func splitIDWeekday(payload string) (int, string, bool) {
	parts := strings.SplitN(payload, ";", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}
