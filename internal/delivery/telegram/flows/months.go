package flows

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"schedule-bot/internal/app/service"
	"schedule-bot/internal/delivery/telegram/keyboards"
	"schedule-bot/internal/delivery/telegram/router"
)

// RegisterMonths wires the month-level view: picking a month, browsing years,
// and exporting the month to PDF or a spreadsheet. Exports run on the worker
// pool and the file is sent back as a document when ready.
func RegisterMonths(r *router.CallbackRouter, schedule *service.ScheduleService, export *service.ExportService, async *service.AsyncService, exportDir string, log *zap.Logger) {
	r.Register("months_back", func(c telebot.Context, payload string) error {
		year := time.Now().Year()
		if y, _, ok := splitMonth(payload); ok {
			year = y
		}
		title, markup := keyboards.BuildMonthKeyboard(year)
		if err := c.Edit(title, markup); err != nil {
			return c.Send(title, markup)
		}
		return nil
	})

	r.Register("month_prev", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		title, markup := keyboards.BuildMonthKeyboard(y - 1)
		if err := c.Edit(title, markup); err != nil {
			return c.Send(title, markup)
		}
		return nil
	})

	r.Register("month_next", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		title, markup := keyboards.BuildMonthKeyboard(y + 1)
		if err := c.Edit(title, markup); err != nil {
			return c.Send(title, markup)
		}
		return nil
	})

	r.Register("pick_month", func(c telebot.Context, payload string) error {
		year, month, ok := splitMonth(payload)
		if !ok {
			return nil
		}
		days, err := schedule.MonthShifts(payload)
		if err != nil {
			return c.Send("Couldn't load the month: " + err.Error())
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Schedule for %04d-%02d\n", year, month)
		if len(days) == 0 {
			b.WriteString("No shifts yet.\n")
		} else {
			keys := make([]string, 0, len(days))
			total := 0
			for k, shifts := range days {
				keys = append(keys, k)
				total += len(shifts)
			}
			sort.Strings(keys)
			fmt.Fprintf(&b, "%d shift(s) across %d day(s):\n", total, len(keys))
			for _, k := range keys {
				fmt.Fprintf(&b, "%s: %d shift(s)\n", k, len(days[k]))
			}
		}

		markup := &telebot.ReplyMarkup{}
		markup.Inline(
			markup.Row(markup.Data("📅 Open a day", "month_open_day", payload)),
			markup.Row(
				markup.Data("🖨 Export PDF", "export_pdf", payload),
				markup.Data("📊 Export XLSX", "export_xlsx", payload),
			),
			markup.Row(markup.Data("← Months", "months_back", payload)),
		)
		if err := c.Edit(b.String(), markup); err != nil {
			return c.Send(b.String(), markup)
		}
		return nil
	})

	runExport := func(kind string, render func(year, month int, path string) error) router.HandlerFunc {
		return func(c telebot.Context, payload string) error {
			year, month, ok := splitMonth(payload)
			if !ok {
				return nil
			}
			path := filepath.Join(exportDir, fmt.Sprintf("schedule-%s.%s", payload, kind))
			if err := c.Send("Exporting " + payload + "…"); err != nil {
				return err
			}
			bot := c.Bot()
			chat := c.Chat()
			async.Fire(func() (any, error) {
				return nil, render(year, month, path)
			}, func(_ any, err error) {
				if err != nil {
					log.Warn("export failed", zap.String("month", payload), zap.Error(err))
					_, _ = bot.Send(chat, "Export failed: "+err.Error())
					return
				}
				doc := &telebot.Document{
					File:     telebot.FromDisk(path),
					FileName: filepath.Base(path),
				}
				if _, err := bot.Send(chat, doc); err != nil {
					log.Warn("export delivery failed", zap.String("path", path), zap.Error(err))
					_, _ = bot.Send(chat, "Export saved to "+path+" but sending it failed: "+err.Error())
				}
			})
			return nil
		}
	}
	r.Register("export_pdf", runExport("pdf", export.MonthPDF))
	r.Register("export_xlsx", runExport("xlsx", export.MonthXLSX))
}

func splitMonth(key string) (int, int, bool) {
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
