package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"schedule-bot/internal/app/service"
	"schedule-bot/internal/delivery/telegram/keyboards"
	"schedule-bot/internal/delivery/telegram/middleware"
	"schedule-bot/internal/delivery/telegram/router"
	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/calendar"
	"schedule-bot/pkg/timeutil"
)

// Handler wires bot commands and callbacks to the services. Per-chat flow
// state (the shift being built, the clipboard, pending paste plans) lives in
// the maps below behind mu; telebot runs handlers concurrently.
type Handler struct {
	Bot       *telebot.Bot
	Schedule  *service.ScheduleService
	Employees *service.EmployeeService
	Hours     *service.StoreHoursService
	Calendar  *calendar.Controller
	Router    *router.CallbackRouter
	Log       *zap.Logger

	mu          sync.Mutex
	sessions    map[int64]*shiftSession
	prompts     map[int64]*textPrompt
	clipboard   map[int64]clipboardEntry
	pastes      map[int64]service.PastePlan
	availEdit   map[int64]*availSession
	hoursEdit   map[int64]*hoursSession
	pendingCopy map[int64]time.Time // chats whose next calendar tap targets a day copy
}

// shiftSession tracks the add/edit flow for one chat. editID is set when the
// flow replaces an existing shift instead of adding one.
type shiftSession struct {
	date     time.Time
	employee string
	start    string
	end      string
	editID   string
}

type clipboardEntry struct {
	source time.Time
	shifts []model.Shift
}

// textPrompt marks that the next plain-text message from a chat is an answer.
type textPrompt struct {
	kind  string // "newemp", "rename", "timeoff"
	empID int
}

type availSession struct {
	empID   int
	weekday string
	start   string
}

type hoursSession struct {
	weekday string
	open    string
}

var (
	btnSchedule  = telebot.Btn{Text: "📅 Schedule"}
	btnEmployees = telebot.Btn{Text: "👥 Employees"}
	btnHours     = telebot.Btn{Text: "🕒 Store Hours"}
)

func (h *Handler) Register() {
	h.sessions = make(map[int64]*shiftSession)
	h.prompts = make(map[int64]*textPrompt)
	h.clipboard = make(map[int64]clipboardEntry)
	h.pastes = make(map[int64]service.PastePlan)
	h.availEdit = make(map[int64]*availSession)
	h.hoursEdit = make(map[int64]*hoursSession)
	h.pendingCopy = make(map[int64]time.Time)

	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/schedule", h.handleSchedule)
	h.Bot.Handle("/employees", h.handleEmployees)
	h.Bot.Handle("/hours", h.handleHours)
	h.Bot.Handle(telebot.OnText, h.handleText)

	h.Calendar.OnDate = h.openDay

	h.registerScheduleCallbacks()
	h.registerEmployeeCallbacks()
	h.registerHoursCallbacks()

	h.Router.CalDelegate = h.Calendar.HandleCallback
	h.Router.Attach(h.Bot)
}

func (h *Handler) handleStart(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnSchedule.Text)),
		markup.Row(markup.Text(btnEmployees.Text)),
		markup.Row(markup.Text(btnHours.Text)),
	)
	return c.Send("Welcome! Pick an action below or use /schedule, /employees, /hours.", markup)
}

func (h *Handler) handleSchedule(c telebot.Context) error {
	title, markup := keyboards.BuildMonthKeyboard(time.Now().Year())
	return c.Send(title, markup)
}

func (h *Handler) handleHours(c telebot.Context) error {
	week, err := h.Hours.WeekHours()
	if err != nil {
		return c.Send("Couldn't load store hours: " + err.Error())
	}
	var b strings.Builder
	b.WriteString("Store hours:\n")
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for _, day := range model.Weekdays {
		if week.Closed(day) {
			fmt.Fprintf(&b, "%s: closed\n", titleCase(day))
		} else {
			fmt.Fprintf(&b, "%s: %s - %s\n", titleCase(day), week[day].Open(), week[day].Close())
		}
		rows = append(rows, markup.Row(markup.Data("Edit "+titleCase(day), "hours_day", day)))
	}
	markup.Inline(rows...)
	return c.Send(b.String(), markup)
}

func (h *Handler) handleEmployees(c telebot.Context) error {
	employees, err := h.Employees.GetAllEmployees()
	if err != nil {
		return c.Send("Couldn't load employees: " + err.Error())
	}
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for _, e := range employees {
		rows = append(rows, markup.Row(markup.Data(e.Name, "emp_view", strconv.Itoa(e.ID))))
	}
	rows = append(rows, markup.Row(markup.Data("➕ Add employee", "emp_add")))
	markup.Inline(rows...)
	if len(employees) == 0 {
		return c.Send("No employees yet.", markup)
	}
	return c.Send("Employees:", markup)
}

// handleText answers whichever prompt is pending for the chat, then falls
// back to the reply-keyboard buttons.
func (h *Handler) handleText(c telebot.Context) error {
	chatID := c.Chat().ID
	h.mu.Lock()
	prompt := h.prompts[chatID]
	delete(h.prompts, chatID)
	h.mu.Unlock()

	if prompt != nil {
		return h.answerPrompt(c, prompt)
	}

	switch c.Text() {
	case btnSchedule.Text:
		return h.handleSchedule(c)
	case btnEmployees.Text:
		return h.handleEmployees(c)
	case btnHours.Text:
		return h.handleHours(c)
	}
	return nil
}

func (h *Handler) answerPrompt(c telebot.Context, prompt *textPrompt) error {
	text := strings.TrimSpace(c.Text())
	switch prompt.kind {
	case "newemp":
		first, last := splitName(text)
		emp, err := h.Employees.CreateEmployee(first, last)
		if err != nil {
			return c.Send("Couldn't add employee: " + err.Error())
		}
		return c.Send(fmt.Sprintf("Added %s (id %d). Availability starts as all days off — open the employee to set it.", emp.Name, emp.ID))
	case "rename":
		first, last := splitName(text)
		emp, err := h.Employees.RenameEmployee(prompt.empID, first, last)
		if err != nil {
			return c.Send("Couldn't rename: " + err.Error())
		}
		return c.Send(fmt.Sprintf("Renamed to %s. Their scheduled shifts now carry the new name.", emp.Name))
	case "timeoff":
		entry, err := parseTimeOffInput(text)
		if err != nil {
			return c.Send(err.Error())
		}
		if err := h.Employees.AddTimeOff(prompt.empID, entry); err != nil {
			return c.Send("Couldn't add time off: " + err.Error())
		}
		return c.Send("Time off recorded.")
	}
	return nil
}

// openDay is the calendar's OnDate target. A chat with a copy pending uses the
// tapped day as the copy target instead of opening it. A closed day is refused
// here, with a clear message, before any scheduling flow can start.
func (h *Handler) openDay(date time.Time, c telebot.Context) error {
	chat := c.Chat().ID
	h.mu.Lock()
	source, copying := h.pendingCopy[chat]
	delete(h.pendingCopy, chat)
	h.mu.Unlock()
	if copying {
		return h.finishDayCopy(c, source, date)
	}

	closed, err := h.Schedule.ClosedOn(date)
	if err != nil {
		return c.Send("Couldn't open day: " + err.Error())
	}
	if closed {
		return middleware.EditOrSend(c, fmt.Sprintf("Store is closed on %s. Cannot schedule.", titleCase(timeutil.WeekdayName(date))), nil)
	}

	chatID := c.Chat().ID
	h.mu.Lock()
	h.sessions[chatID] = &shiftSession{date: date}
	h.mu.Unlock()

	return h.showDay(c, date)
}

func (h *Handler) showDay(c telebot.Context, date time.Time) error {
	shifts, err := h.Schedule.ShiftsOn(date)
	if err != nil {
		return c.Send("Couldn't load shifts: " + err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shifts on %s (%s):\n", timeutil.DateKey(date), titleCase(timeutil.WeekdayName(date)))
	if len(shifts) == 0 {
		b.WriteString("(none)\n")
	}
	markup := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for i, s := range shifts {
		fmt.Fprintf(&b, "%d. %s | %s - %s\n", i+1, s.Employee, s.Start, s.End)
		rows = append(rows, markup.Row(
			markup.Data(fmt.Sprintf("✏ %d", i+1), "shift_edit", s.ID),
			markup.Data(fmt.Sprintf("🗑 %d", i+1), "shift_del", s.ID),
		))
	}
	rows = append(rows,
		markup.Row(markup.Data("➕ Add shift", "day_add")),
		markup.Row(markup.Data("📋 Copy day", "day_copy"), markup.Data("📥 Paste here", "day_paste")),
		markup.Row(markup.Data("📆 Copy to date…", "day_dupe"), markup.Data("🧹 Clear day", "day_clear")),
	)
	markup.Inline(rows...)
	return middleware.EditOrSend(c, b.String(), markup)
}

// session returns the chat's current day context, if a day view is open.
func (h *Handler) session(c telebot.Context) *shiftSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[c.Chat().ID]
}

func (h *Handler) registerScheduleCallbacks() {
	r := h.Router

	r.Register("month_open_day", func(c telebot.Context, payload string) error {
		year, month, ok := splitMonthKey(payload)
		if !ok {
			return nil
		}
		return calendar.SendCalendar(c, year, month)
	})

	r.Register("day_add", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		employees, err := h.Employees.GetAllEmployees()
		if err != nil {
			return c.Send("Couldn't load employees: " + err.Error())
		}
		if len(employees) == 0 {
			return c.Send("No employees to schedule. Add one under 👥 Employees first.")
		}
		return middleware.EditOrSend(c, "Who works this shift?", keyboards.BuildEmployeeKeyboard("pick_emp", employees))
	})

	r.Register("pick_emp", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return nil
		}
		id, err := strconv.Atoi(payload)
		if err != nil {
			return nil
		}
		emp, err := h.Employees.GetEmployeeByID(id)
		if err != nil {
			return c.Send("Employee not found.")
		}
		h.mu.Lock()
		sess.employee = emp.Name
		sess.start, sess.end = "", ""
		h.mu.Unlock()
		return h.askStart(c, sess)
	})

	r.Register("pick_start", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return nil
		}
		h.mu.Lock()
		sess.start = payload
		h.mu.Unlock()

		slots, err := h.Hours.SlotsFor(sess.date)
		if err != nil {
			return c.Send("Couldn't build time choices: " + err.Error())
		}
		// End choices start strictly after the chosen start.
		var after []string
		for _, slot := range slots {
			if laterThan(slot, payload) {
				after = append(after, slot)
			}
		}
		if len(after) == 0 {
			return c.Send("No later closing slot exists — pick an earlier start.")
		}
		return middleware.EditOrSend(c, "Ends at:", keyboards.BuildSlotKeyboard("pick_end", after))
	})

	r.Register("pick_end", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return nil
		}
		h.mu.Lock()
		sess.end = payload
		h.mu.Unlock()
		return h.finishShiftFlow(c, sess)
	})

	r.Register("add_anyway", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil || sess.employee == "" || sess.start == "" || sess.end == "" {
			return nil
		}
		return h.commitShift(c, sess)
	})

	r.Register("add_cancel", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return nil
		}
		h.resetShiftFlow(sess)
		if err := middleware.EditOrSend(c, "Nothing was scheduled.", nil); err != nil {
			return err
		}
		return h.showDay(c, sess.date)
	})

	r.Register("shift_edit", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		shifts, err := h.Schedule.ShiftsOn(sess.date)
		if err != nil {
			return c.Send("Couldn't load shifts: " + err.Error())
		}
		for _, s := range shifts {
			if s.ID == payload {
				h.mu.Lock()
				sess.editID = s.ID
				sess.employee = s.Employee
				sess.start, sess.end = "", ""
				h.mu.Unlock()
				return h.askStart(c, sess)
			}
		}
		return c.Send("That shift is gone — reopen the day.")
	})

	r.Register("shift_del", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		removed, err := h.Schedule.RemoveShift(sess.date, payload)
		if err != nil {
			return c.Send("Couldn't remove shift: " + err.Error())
		}
		if err := c.Send(fmt.Sprintf("Removed shift for %s.", removed.Employee)); err != nil {
			return err
		}
		return h.showDay(c, sess.date)
	})

	r.Register("day_copy", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		shifts, err := h.Schedule.ShiftsOn(sess.date)
		if err != nil {
			return c.Send("Couldn't copy: " + err.Error())
		}
		if len(shifts) == 0 {
			return c.Send("Nothing to copy on this day.")
		}
		h.mu.Lock()
		h.clipboard[c.Chat().ID] = clipboardEntry{source: sess.date, shifts: shifts}
		h.mu.Unlock()
		return c.Send(fmt.Sprintf("Copied %d shift(s). Open another day and press 📥 Paste here.", len(shifts)))
	})

	r.Register("day_paste", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		h.mu.Lock()
		clip, ok := h.clipboard[c.Chat().ID]
		h.mu.Unlock()
		if !ok || len(clip.shifts) == 0 {
			return c.Send("Clipboard is empty — copy a day first.")
		}

		plan, err := h.Schedule.PlanPaste(clip.shifts, sess.date)
		if err != nil {
			if errors.Is(err, domain.ErrStoreClosed) {
				return c.Send("Cannot paste here: " + err.Error())
			}
			return c.Send("Couldn't plan paste: " + err.Error())
		}
		if len(plan.Conflicted) == 0 {
			res, err := h.Schedule.ApplyPaste(plan, false)
			if err != nil {
				return c.Send("Paste failed: " + err.Error())
			}
			if err := c.Send(pasteSummary(res)); err != nil {
				return err
			}
			return h.showDay(c, sess.date)
		}

		h.mu.Lock()
		h.pastes[c.Chat().ID] = plan
		h.mu.Unlock()

		var b strings.Builder
		fmt.Fprintf(&b, "%d shift(s) paste cleanly; %d have conflicts:\n\n", len(plan.Clean), len(plan.Conflicted))
		for _, cs := range plan.Conflicted {
			fmt.Fprintf(&b, "%s %s - %s:\n", cs.Shift.Employee, cs.Shift.Start, cs.Shift.End)
			for _, conflict := range cs.Conflicts {
				fmt.Fprintf(&b, "  • %s\n", conflict)
			}
		}
		b.WriteString("\nWhat should happen?")
		return middleware.EditOrSend(c, b.String(), keyboards.BuildPasteChoiceKeyboard())
	})

	pasteChoice := func(apply, includeConflicted bool) router.HandlerFunc {
		return func(c telebot.Context, payload string) error {
			h.mu.Lock()
			plan, ok := h.pastes[c.Chat().ID]
			delete(h.pastes, c.Chat().ID)
			h.mu.Unlock()
			if !ok {
				return nil
			}
			if !apply {
				return middleware.EditOrSend(c, "Paste cancelled.", nil)
			}
			res, err := h.Schedule.ApplyPaste(plan, includeConflicted)
			if err != nil {
				return c.Send("Paste failed: " + err.Error())
			}
			if err := middleware.EditOrSend(c, pasteSummary(res), nil); err != nil {
				return err
			}
			return h.showDay(c, plan.Target)
		}
	}
	r.Register("paste_all", pasteChoice(true, true))
	r.Register("paste_clean", pasteChoice(true, false))
	r.Register("paste_cancel", pasteChoice(false, false))

	r.Register("day_dupe", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		source := sess.date
		h.mu.Lock()
		h.pendingCopy[c.Chat().ID] = source
		h.mu.Unlock()
		if err := c.Send("Copy " + timeutil.DateKey(source) + " to which day?"); err != nil {
			return err
		}
		return calendar.SendCalendar(c, source.Year(), int(source.Month()))
	})

	r.Register("day_clear", func(c telebot.Context, payload string) error {
		sess := h.session(c)
		if sess == nil {
			return c.Send("Open a day first.")
		}
		n, err := h.Schedule.ClearDay(sess.date)
		if err != nil {
			return c.Send("Couldn't clear day: " + err.Error())
		}
		if err := c.Send(fmt.Sprintf("Deleted %d shift(s).", n)); err != nil {
			return err
		}
		return h.showDay(c, sess.date)
	})
}

// finishDayCopy applies a chat's pending day copy to the tapped target date.
func (h *Handler) finishDayCopy(c telebot.Context, source, target time.Time) error {
	res, err := h.Schedule.CopyDay(source, target)
	if err != nil {
		if errors.Is(err, domain.ErrStoreClosed) {
			return c.Send("Cannot copy: " + err.Error())
		}
		return c.Send("Copy failed: " + err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Copied %d shift(s) to %s", res.Added, timeutil.DateKey(target))
	if res.Skipped > 0 {
		fmt.Fprintf(&b, " (%d duplicate(s) skipped)", res.Skipped)
	}
	b.WriteString(".")
	if len(res.Warnings) > 0 {
		b.WriteString("\n\nApplied despite conflicts:\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "• %s\n", w)
		}
	}
	return middleware.EditOrSend(c, b.String(), nil)
}

// askStart shows the start-time picker built from the day's store hours.
func (h *Handler) askStart(c telebot.Context, sess *shiftSession) error {
	slots, err := h.Hours.SlotsFor(sess.date)
	if err != nil {
		return c.Send("Couldn't build time choices: " + err.Error())
	}
	verb := "starts"
	if sess.editID != "" {
		verb = "now starts"
	}
	return middleware.EditOrSend(c, fmt.Sprintf("%s's shift %s at:", sess.employee, verb), keyboards.BuildSlotKeyboard("pick_start", slots))
}

// finishShiftFlow runs the validator once the candidate is complete. Clean
// candidates commit immediately; conflicted ones need explicit confirmation.
func (h *Handler) finishShiftFlow(c telebot.Context, sess *shiftSession) error {
	conflicts, err := h.Schedule.CheckShift(service.ShiftCandidate{
		Employee:       sess.employee,
		Date:           sess.date,
		Start:          sess.start,
		End:            sess.end,
		ExcludeShiftID: sess.editID,
	})
	if err != nil {
		return c.Send("Validation failed: " + err.Error())
	}
	if len(conflicts) == 0 {
		return h.commitShift(c, sess)
	}

	var b strings.Builder
	b.WriteString("The following conflicts were found:\n\n")
	for _, conflict := range conflicts {
		fmt.Fprintf(&b, "• %s\n", conflict)
	}
	b.WriteString("\nSchedule this shift anyway?")
	return middleware.EditOrSend(c, b.String(), keyboards.BuildConfirmKeyboard("Schedule anyway", "add_anyway", "Cancel", "add_cancel"))
}

func (h *Handler) commitShift(c telebot.Context, sess *shiftSession) error {
	var err error
	if sess.editID != "" {
		err = h.Schedule.EditShift(sess.date, model.Shift{
			ID:       sess.editID,
			Employee: sess.employee,
			Start:    sess.start,
			End:      sess.end,
		})
	} else {
		_, err = h.Schedule.AddShift(sess.date, sess.employee, sess.start, sess.end)
	}
	if err != nil {
		return c.Send("Couldn't save shift: " + err.Error())
	}
	date := sess.date
	h.resetShiftFlow(sess)
	if err := middleware.EditOrSend(c, "Shift saved.", nil); err != nil {
		return err
	}
	return h.showDay(c, date)
}

func (h *Handler) resetShiftFlow(sess *shiftSession) {
	h.mu.Lock()
	sess.employee, sess.start, sess.end, sess.editID = "", "", "", ""
	h.mu.Unlock()
}

func pasteSummary(res service.CopyResult) string {
	if res.Added == 0 && res.Skipped > 0 {
		return "All shifts already exist on the target day."
	}
	s := fmt.Sprintf("Pasted %d shift(s)", res.Added)
	if res.Skipped > 0 {
		s += fmt.Sprintf(" (%d duplicate(s) skipped)", res.Skipped)
	}
	return s + "."
}

func splitName(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// parseTimeOffInput reads "YYYY-MM-DD" for a full day off, or
// "YYYY-MM-DD h:mm AM - h:mm PM" for a partial one.
func parseTimeOffInput(text string) (model.TimeOffEntry, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return model.TimeOffEntry{}, fmt.Errorf("Send a date like 2025-06-02, optionally followed by a time range like 9:00 AM - 1:00 PM.")
	}
	entry := model.TimeOffEntry{Type: model.TimeOffFull, Date: fields[0]}
	if _, err := timeutil.ParseDateKey(entry.Date); err != nil {
		return model.TimeOffEntry{}, fmt.Errorf("%q doesn't look like a YYYY-MM-DD date.", entry.Date)
	}
	if len(fields) > 1 {
		entry.Type = model.TimeOffPartial
		entry.Times = strings.Join(fields[1:], " ")
	}
	return entry, nil
}

func laterThan(a, b string) bool {
	am, err1 := timeutil.ParseClock(a)
	bm, err2 := timeutil.ParseClock(b)
	return err1 == nil && err2 == nil && am > bm
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func splitMonthKey(key string) (int, int, bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
