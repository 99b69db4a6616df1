package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/models"
)

// State — полная сетка в том виде, в котором её ждёт фронт.
// В records попадают только реально существующие ячейки; отсутствующая
// пара (ученик, урок) читается как ячейка по умолчанию.
type State struct {
	Lessons  []models.Lesson                           `json:"lessons"`
	Students map[models.Level][]models.Student         `json:"students"`
	Records  map[string]map[string]models.RecordFields `json:"records"`
}

// EffectiveCell — значение ячейки с учётом неявного дефолта.
func (s *State) EffectiveCell(studentID, lessonID int64) models.RecordFields {
	if byLesson, ok := s.Records[strconv.FormatInt(studentID, 10)]; ok {
		if f, ok := byLesson[strconv.FormatInt(lessonID, 10)]; ok {
			return f
		}
	}
	return models.DefaultRecordFields()
}

// GetState — сидинг плюс проекция одним снапшотом: всё в одной транзакции,
// чтобы уроки, ученики и записи были согласованы между собой.
func GetState(ctx context.Context, database *sql.DB) (*State, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin state tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := db.SeedDashboard(ctx, tx); err != nil {
		return nil, err
	}

	state, err := loadState(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit state tx: %w", err)
	}
	return state, nil
}

func loadState(ctx context.Context, q db.Querier) (*State, error) {
	lessons, err := db.ListLessons(ctx, q)
	if err != nil {
		return nil, err
	}
	students, err := db.ListStudents(ctx, q)
	if err != nil {
		return nil, err
	}
	records, err := db.ListRecords(ctx, q)
	if err != nil {
		return nil, err
	}

	byLevel := make(map[models.Level][]models.Student, len(models.Levels))
	for _, level := range models.Levels {
		byLevel[level] = []models.Student{}
	}
	for _, s := range students {
		byLevel[s.Level] = append(byLevel[s.Level], s)
	}

	recMap := make(map[string]map[string]models.RecordFields)
	for _, r := range records {
		sid := strconv.FormatInt(r.StudentID, 10)
		lid := strconv.FormatInt(r.LessonID, 10)
		if recMap[sid] == nil {
			recMap[sid] = make(map[string]models.RecordFields)
		}
		recMap[sid][lid] = r.RecordFields
	}

	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return &State{Lessons: lessons, Students: byLevel, Records: recMap}, nil
}
