package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Spok95/school-dashboard/internal/db"
)

// Save — сверка клиентского состояния с базой. Всё или ничего: любая
// ошибка валидации откатывает транзакцию целиком.
func Save(ctx context.Context, database *sql.DB, payload SavePayload) error {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := applyRecords(ctx, tx, payload.Records); err != nil {
		return err
	}
	if err := applyStudents(ctx, tx, payload.Students); err != nil {
		return err
	}
	if err := applyLessons(ctx, tx, payload.Lessons); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

func applyRecords(ctx context.Context, q db.Querier, records map[string]map[string]RecordPatch) error {
	for sidRaw, byLesson := range records {
		sid, err := strconv.ParseInt(sidRaw, 10, 64)
		if err != nil {
			return &ValidationError{Field: "records", Reason: "bad student id " + sidRaw}
		}
		for lidRaw, patch := range byLesson {
			lid, err := strconv.ParseInt(lidRaw, 10, 64)
			if err != nil {
				return &ValidationError{Field: "records", Reason: "bad lesson id " + lidRaw}
			}
			if err := validateStruct(patch); err != nil {
				return err
			}

			rec, err := db.GetOrCreateRecord(ctx, q, sid, lid)
			if err != nil {
				return err
			}

			// частичное обновление: трогаем только присланные поля
			fields := rec.RecordFields
			if patch.Attendance.Set {
				fields.Attendance = patch.Attendance.Code
			}
			if patch.Homework != nil {
				fields.Homework = *patch.Homework
			}
			if patch.Extra != nil {
				fields.Extra = *patch.Extra
			}
			if patch.TestScore != nil {
				fields.TestScore = *patch.TestScore
			}
			if err := db.UpdateRecord(ctx, q, rec.ID, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyStudents(ctx context.Context, q db.Querier, students []StudentPatch) error {
	for _, s := range students {
		if s.ID == nil {
			continue
		}
		if err := validateStruct(s); err != nil {
			return err
		}
		// имя и заметка перезаписываются целиком; отсутствующее значение — пустая строка
		if err := db.UpdateStudentInfo(ctx, q, *s.ID, strDefault(s.Name), strDefault(s.Note)); err != nil {
			return err
		}
	}
	return nil
}

func applyLessons(ctx context.Context, q db.Querier, lessons []LessonPatch) error {
	for _, l := range lessons {
		if l.ID == nil {
			continue
		}
		// невалидная дата молча превращается в null — это осознанная лояльность
		date := parseISODate(l.Date)
		if err := db.SetLessonDate(ctx, q, *l.ID, date); err != nil {
			return err
		}
	}
	return nil
}

func strDefault(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseISODate(raw *string) *string {
	if raw == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil
	}
	v := t.Format("2006-01-02")
	return &v
}
