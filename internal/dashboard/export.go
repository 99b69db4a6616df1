package dashboard

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"github.com/Spok95/school-dashboard/internal/models"
)

// ExportView — отфильтрованная сетка для выгрузки: остаются только уроки
// и ученики, у которых есть хоть одна непустая ячейка.
type ExportView struct {
	Lessons []models.Lesson
	Rows    []ExportRow
}

type ExportRow struct {
	Student models.Student
	Cells   []string // по одной на каждый оставшийся урок
}

// BuildExportView — читает полную сетку и сжимает её до наблюдаемых данных.
// Сначала отбрасываются пустые колонки, затем — ученики без данных в
// оставшихся колонках; строки идут по возрастанию id.
func BuildExportView(ctx context.Context, database *sql.DB) (*ExportView, error) {
	state, err := GetState(ctx, database)
	if err != nil {
		return nil, err
	}
	return buildExportView(state), nil
}

func buildExportView(state *State) *ExportView {
	var allStudents []models.Student
	for _, level := range models.Levels {
		allStudents = append(allStudents, state.Students[level]...)
	}
	// общий порядок экспорта — по id, без группировки по уровням
	sort.Slice(allStudents, func(i, j int) bool { return allStudents[i].ID < allStudents[j].ID })

	var lessons []models.Lesson
	for _, l := range state.Lessons {
		if lessonHasData(state, l, allStudents) {
			lessons = append(lessons, l)
		}
	}

	var rows []ExportRow
	for _, s := range allStudents {
		cells := make([]string, 0, len(lessons))
		hasData := false
		for _, l := range lessons {
			f := state.EffectiveCell(s.ID, l.ID)
			if f.HasData() {
				hasData = true
			}
			cells = append(cells, RenderCell(f))
		}
		if hasData {
			rows = append(rows, ExportRow{Student: s, Cells: cells})
		}
	}
	return &ExportView{Lessons: lessons, Rows: rows}
}

func lessonHasData(state *State, lesson models.Lesson, students []models.Student) bool {
	for _, s := range students {
		if state.EffectiveCell(s.ID, lesson.ID).HasData() {
			return true
		}
	}
	return false
}

// RenderCell — человекочитаемое содержимое ячейки: символ посещаемости,
// балл, отметка о домашке и свободный текст, через " / ".
func RenderCell(f models.RecordFields) string {
	var parts []string
	if sym := AttendanceSymbol(f.Attendance); sym != "" {
		parts = append(parts, sym)
	}
	if f.TestScore > 0 {
		parts = append(parts, strconv.Itoa(f.TestScore))
	}
	if f.Homework {
		parts = append(parts, "✓")
	}
	if f.Extra != "" {
		parts = append(parts, f.Extra)
	}
	return strings.Join(parts, " / ")
}

// AttendanceSymbol — отображение кода посещаемости: "+" был, "−"
// уважительная причина; пропуск сознательно печатается пустым.
func AttendanceSymbol(code string) string {
	switch code {
	case models.AttendancePresent:
		return "+"
	case models.AttendanceExcused:
		return "−"
	default:
		return ""
	}
}
