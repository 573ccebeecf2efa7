package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schedule-bot/internal/domain"
	"schedule-bot/internal/model"
	"schedule-bot/pkg/timeutil"
)

// ExportService renders one month of the schedule to a PDF calendar grid or a
// spreadsheet. Closed days and out-of-month cells are shaded so they read at a
// glance; shift text steps down in size to stay inside a fixed cell.
type ExportService struct {
	Shifts    domain.ScheduleRepo
	Employees domain.EmployeeRepo
	Hours     domain.StoreHoursRepo
	Log       *zap.Logger
}

func NewExportService(shifts domain.ScheduleRepo, employees domain.EmployeeRepo, hours domain.StoreHoursRepo, log *zap.Logger) *ExportService {
	return &ExportService{Shifts: shifts, Employees: employees, Hours: hours, Log: log}
}

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// monthGrid returns 6 weeks of day numbers, Sunday first, zero for cells
// outside the month.
func monthGrid(year, month int) [6][7]int {
	var grid [6][7]int
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	col := int(first.Weekday()) // Sunday == 0
	row := 0
	for day := 1; day <= timeutil.DaysInMonth(year, month); day++ {
		grid[row][col] = day
		col++
		if col == 7 {
			col = 0
			row++
		}
	}
	return grid
}

// shiftLabel renders a shift as "First 9-1:30", preferring the roster's first
// name and falling back to the first token of the stored display name.
func shiftLabel(s model.Shift, employees []model.Employee) string {
	name := ""
	for _, e := range employees {
		if e.Name == s.Employee {
			name = e.FirstName
			break
		}
	}
	if name == "" {
		if fields := strings.Fields(s.Employee); len(fields) > 0 {
			name = fields[0]
		}
	}
	return fmt.Sprintf("%s %s-%s", name, compactClock(s.Start), compactClock(s.End))
}

func compactClock(clock string) string {
	m, err := timeutil.ParseClock(clock)
	if err != nil {
		return clock
	}
	return timeutil.FormatClockShort(m)
}

// MonthPDF writes the month calendar to path.
func (s *ExportService) MonthPDF(year, month int, path string) error {
	monthKey := fmt.Sprintf("%04d-%02d", year, month)
	days, err := s.Shifts.MonthShifts(monthKey)
	if err != nil {
		return err
	}
	employees, err := s.Employees.GetAllEmployees()
	if err != nil {
		return err
	}
	hours, err := s.Hours.WeekHours()
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	title := fmt.Sprintf("Work Schedule - %s %d", time.Month(month).String(), year)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(pageW/2-pdf.GetStringWidth(title)/2, 40, title)

	const (
		marginX = 36.0
		gridTop = 78.0
		cellH   = 105.0
	)
	cellW := (pageW - 2*marginX) / 7

	pdf.SetFont("Helvetica", "B", 10)
	for i, wd := range weekdayHeaders {
		pdf.Text(marginX+float64(i)*cellW+4, gridTop-6, wd)
	}

	grid := monthGrid(year, month)
	for r := 0; r < 6; r++ {
		for c := 0; c < 7; c++ {
			x := marginX + float64(c)*cellW
			y := gridTop + float64(r)*cellH
			day := grid[r][c]

			if day == 0 {
				pdf.SetFillColor(211, 211, 211)
				pdf.Rect(x, y, cellW, cellH, "FD")
				continue
			}

			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if hours.Closed(timeutil.WeekdayName(date)) {
				pdf.SetFillColor(240, 240, 240)
				pdf.Rect(x, y, cellW, cellH, "FD")
			} else {
				pdf.Rect(x, y, cellW, cellH, "D")
			}

			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(x+4, y+14, fmt.Sprintf("%d", day))

			shifts := days[timeutil.DateKey(date)]
			if len(shifts) == 0 {
				continue
			}
			labels := make([]string, len(shifts))
			for i, shift := range shifts {
				labels[i] = shiftLabel(shift, employees)
			}
			s.renderCellLabels(pdf, labels, x, y, cellW, cellH)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	s.Log.Info("month exported to pdf", zap.String("month", monthKey), zap.String("path", path))
	return nil
}

// renderCellLabels fits shift lines into one calendar cell, stepping the font
// from 8pt down to 6pt and ending with "+N more" when lines still overflow.
func (s *ExportService) renderCellLabels(pdf *fpdf.Fpdf, labels []string, x, y, cellW, cellH float64) {
	const padX = 6.0
	maxTextW := cellW - padX - 4
	textTop := y + 28
	bottom := y + cellH - 6

	var size float64
	var lines []string
	for _, candidate := range []float64{8, 7.5, 6} {
		size = candidate
		pdf.SetFont("Helvetica", "", size)
		lines = lines[:0]
		for _, label := range labels {
			lines = append(lines, wrapToWidth(pdf, label, maxTextW)...)
		}
		if float64(len(lines))*size*1.2 <= bottom-textTop {
			break
		}
	}

	lineH := size * 1.2
	maxLines := int((bottom - textTop) / lineH)
	if maxLines < 1 {
		maxLines = 1
	}
	shown := len(lines)
	if shown > maxLines {
		shown = maxLines - 1
		if shown < 0 {
			shown = 0
		}
	}
	yText := textTop
	for _, line := range lines[:shown] {
		pdf.Text(x+padX, yText, line)
		yText += lineH
	}
	if rest := len(lines) - shown; rest > 0 {
		pdf.Text(x+padX, yText, fmt.Sprintf("+%d more", rest))
	}
}

// wrapToWidth breaks text into lines no wider than maxW at the current font,
// splitting over-long single words by character.
func wrapToWidth(pdf *fpdf.Fpdf, text string, maxW float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if pdf.GetStringWidth(test) <= maxW {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		if pdf.GetStringWidth(word) <= maxW {
			current = word
			continue
		}
		chunk := ""
		for _, ch := range word {
			if pdf.GetStringWidth(chunk+string(ch)) <= maxW {
				chunk += string(ch)
			} else {
				if chunk != "" {
					lines = append(lines, chunk)
				}
				chunk = string(ch)
			}
		}
		current = chunk
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// MonthXLSX writes the month calendar to a spreadsheet, one sheet named after
// the month key, closed and out-of-month cells shaded.
func (s *ExportService) MonthXLSX(year, month int, path string) error {
	monthKey := fmt.Sprintf("%04d-%02d", year, month)
	days, err := s.Shifts.MonthShifts(monthKey)
	if err != nil {
		return err
	}
	employees, err := s.Employees.GetAllEmployees()
	if err != nil {
		return err
	}
	hours, err := s.Hours.WeekHours()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := monthKey
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"BFBFBF"}},
	})
	if err != nil {
		return err
	}
	shadedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return err
	}
	dayStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return err
	}

	for i, wd := range weekdayHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, wd)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	_ = f.SetColWidth(sheet, "A", "G", 24)

	grid := monthGrid(year, month)
	for r := 0; r < 6; r++ {
		row := r + 2
		_ = f.SetRowHeight(sheet, row, 90)
		for c := 0; c < 7; c++ {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			day := grid[r][c]
			if day == 0 {
				f.SetCellStyle(sheet, cell, cell, shadedStyle)
				continue
			}
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			lines := []string{fmt.Sprintf("%d", day)}
			for _, shift := range days[timeutil.DateKey(date)] {
				lines = append(lines, shiftLabel(shift, employees))
			}
			f.SetCellValue(sheet, cell, strings.Join(lines, "\n"))
			if hours.Closed(timeutil.WeekdayName(date)) {
				f.SetCellStyle(sheet, cell, cell, shadedStyle)
			} else {
				f.SetCellStyle(sheet, cell, cell, dayStyle)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	s.Log.Info("month exported to spreadsheet", zap.String("month", monthKey), zap.String("path", path))
	return nil
}
