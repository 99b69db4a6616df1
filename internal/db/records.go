package db

import (
	"context"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/models"
)

func ListRecords(ctx context.Context, q Querier) ([]models.Record, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, student_id, lesson_id, attendance, homework, extra, test_score
FROM records`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []models.Record
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.StudentID, &r.LessonID, &r.Attendance, &r.Homework, &r.Extra, &r.TestScore); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// GetOrCreateRecord — запись по паре (student, lesson) с дефолтами.
// Гонку двух создателей разрешает уникальный констрейнт: INSERT с
// ON CONFLICT DO NOTHING, затем безусловный SELECT.
func GetOrCreateRecord(ctx context.Context, q Querier, studentID, lessonID int64) (models.Record, error) {
	_, err := q.ExecContext(ctx, `
INSERT INTO records (student_id, lesson_id)
VALUES ($1, $2)
ON CONFLICT (student_id, lesson_id) DO NOTHING`, studentID, lessonID)
	if err != nil {
		return models.Record{}, fmt.Errorf("insert record (%d,%d): %w", studentID, lessonID, err)
	}

	var r models.Record
	err = q.QueryRowContext(ctx, `
SELECT id, student_id, lesson_id, attendance, homework, extra, test_score
FROM records WHERE student_id = $1 AND lesson_id = $2`, studentID, lessonID).
		Scan(&r.ID, &r.StudentID, &r.LessonID, &r.Attendance, &r.Homework, &r.Extra, &r.TestScore)
	if err != nil {
		return models.Record{}, fmt.Errorf("select record (%d,%d): %w", studentID, lessonID, err)
	}
	return r, nil
}

func UpdateRecord(ctx context.Context, q Querier, id int64, f models.RecordFields) error {
	_, err := q.ExecContext(ctx, `
UPDATE records SET attendance = $2, homework = $3, extra = $4, test_score = $5
WHERE id = $1`, id, f.Attendance, f.Homework, f.Extra, f.TestScore)
	if err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	return nil
}

func DeleteAllRecords(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}
	return nil
}
