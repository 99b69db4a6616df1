package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-dashboard/internal/dashboard"
)

const sheetName = "Dashboard"

// заголовки фиксированных колонок; в CSV-фолбэке колонка заметок
// исторически называется короче — см. dashboard_csv.go
var xlsxLeadHeader = []string{"№", "Ism", "Daraja", "Qo'shimcha izoh"}

// DashboardWorkbook — xlsx-выгрузка отфильтрованной сетки: жирная шапка,
// автофильтр, эвристическая ширина колонок.
func DashboardWorkbook(view *dashboard.ExportView) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := append(append([]string{}, xlsxLeadHeader...), lessonTitles(view)...)
	for col, h := range header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	rows := viewRows(view)
	for r, row := range rows {
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// шапка: жирный шрифт + автофильтр
	end := colName(len(header)) + "1"
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", end, bold)
	}
	_ = f.AutoFilter(sheetName, "A1:"+end, nil)

	// ширина по длине заголовка и первых строк
	for c := 1; c <= len(header); c++ {
		maxim := len([]rune(header[c-1]))
		for r := 0; r < minim(50, len(rows)); r++ {
			if c <= len(rows[r]) {
				if l := len([]rune(rows[r][c-1])); l > maxim {
					maxim = l
				}
			}
		}
		w := float64(maxim) * 1.1
		if w < 6 {
			w = 6
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func lessonTitles(view *dashboard.ExportView) []string {
	titles := make([]string, 0, len(view.Lessons))
	for _, l := range view.Lessons {
		titles = append(titles, l.Title)
	}
	return titles
}

func viewRows(view *dashboard.ExportView) [][]string {
	rows := make([][]string, 0, len(view.Rows))
	for i, r := range view.Rows {
		row := []string{
			strconv.Itoa(i + 1),
			r.Student.Name,
			string(r.Student.Level),
			r.Student.Note,
		}
		row = append(row, r.Cells...)
		rows = append(rows, row)
	}
	return rows
}

// helpers

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
