package telegram

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"schedule-bot/internal/app/service"
	"schedule-bot/internal/repository/jsonfile"
)

// stubContext is the minimal telebot context the day handlers touch.
type stubContext struct {
	telebot.Context
	chat *telebot.Chat
	msgs []string
}

func (c *stubContext) Chat() *telebot.Chat { return c.chat }

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.msgs = append(c.msgs, s)
	}
	return nil
}

func (c *stubContext) Edit(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.msgs = append(c.msgs, s)
	}
	return nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "employees.json"), 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	empRepo := jsonfile.NewEmployeeRepo(store)
	schedRepo := jsonfile.NewScheduleRepo(store)
	hoursRepo := jsonfile.NewStoreHoursRepo(store)
	log := zap.NewNop()
	return &Handler{
		Schedule:    service.NewScheduleService(schedRepo, empRepo, hoursRepo, log),
		Employees:   service.NewEmployeeService(empRepo, log),
		Hours:       service.NewStoreHoursService(hoursRepo, log),
		Log:         log,
		sessions:    make(map[int64]*shiftSession),
		prompts:     make(map[int64]*textPrompt),
		clipboard:   make(map[int64]clipboardEntry),
		pastes:      make(map[int64]service.PastePlan),
		availEdit:   make(map[int64]*availSession),
		hoursEdit:   make(map[int64]*hoursSession),
		pendingCopy: make(map[int64]time.Time),
	}
}

func TestPendingDayCopyIsPerChat(t *testing.T) {
	h := newTestHandler(t)
	emp, err := h.Employees.CreateEmployee("Jane", "Doe")
	require.NoError(t, err)
	require.NoError(t, h.Employees.SetAvailability(emp.ID, "monday", "9:00 AM", "5:00 PM"))

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	wednesday := monday.AddDate(0, 0, 2)
	_, err = h.Schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)

	// Chat 1 arms a copy of Monday.
	h.mu.Lock()
	h.pendingCopy[1] = monday
	h.mu.Unlock()

	// Chat 2 taps Wednesday: it opens normally, nothing is copied.
	ctx2 := &stubContext{chat: &telebot.Chat{ID: 2}}
	require.NoError(t, h.openDay(wednesday, ctx2))
	shifts, err := h.Schedule.ShiftsOn(wednesday)
	require.NoError(t, err)
	assert.Empty(t, shifts)

	// Chat 1 taps Wednesday: its copy lands there.
	ctx1 := &stubContext{chat: &telebot.Chat{ID: 1}}
	require.NoError(t, h.openDay(wednesday, ctx1))
	shifts, err = h.Schedule.ShiftsOn(wednesday)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)

	// One-shot: the next tap from chat 1 opens the day instead of copying again.
	require.NoError(t, h.openDay(wednesday, ctx1))
	shifts, err = h.Schedule.ShiftsOn(wednesday)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestPendingDayCopyRefusesClosedTarget(t *testing.T) {
	h := newTestHandler(t)
	emp, err := h.Employees.CreateEmployee("Jane", "Doe")
	require.NoError(t, err)
	require.NoError(t, h.Employees.SetAvailability(emp.ID, "monday", "9:00 AM", "5:00 PM"))

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	_, err = h.Schedule.AddShift(monday, "Jane Doe", "9:00 AM", "1:00 PM")
	require.NoError(t, err)

	h.mu.Lock()
	h.pendingCopy[1] = monday
	h.mu.Unlock()

	ctx := &stubContext{chat: &telebot.Chat{ID: 1}}
	require.NoError(t, h.openDay(sunday, ctx))
	require.NotEmpty(t, ctx.msgs)
	assert.Contains(t, ctx.msgs[len(ctx.msgs)-1], "Cannot copy")

	shifts, err := h.Schedule.ShiftsOn(sunday)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}
