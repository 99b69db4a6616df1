package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/models"
)

// ListStudents — все ученики по возрастанию id; группировка по уровням
// делается вызывающим кодом.
func ListStudents(ctx context.Context, q Querier) ([]models.Student, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, name, level, note, to_char(joined_at, 'YYYY-MM-DD')
FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Level, &s.Note, &s.JoinedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func CountStudentsInLevel(ctx context.Context, q Querier, level models.Level) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM students WHERE level = $1`, level).Scan(&n); err != nil {
		return 0, fmt.Errorf("count students %s: %w", level, err)
	}
	return n, nil
}

func CreateStudent(ctx context.Context, q Querier, level models.Level) (models.Student, error) {
	s := models.Student{Level: level}
	err := q.QueryRowContext(ctx, `
INSERT INTO students (name, level, note)
VALUES ('', $1, '')
RETURNING id, to_char(joined_at, 'YYYY-MM-DD')`, level).Scan(&s.ID, &s.JoinedAt)
	if err != nil {
		return models.Student{}, fmt.Errorf("create student: %w", err)
	}
	return s, nil
}

// DeleteLastStudentInLevel — удаляет самого «свежего» (максимальный id)
// ученика уровня вместе с его записями. Возвращает false, если уровень пуст.
func DeleteLastStudentInLevel(ctx context.Context, q Querier, level models.Level) (bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
SELECT id FROM students WHERE level = $1 ORDER BY id DESC LIMIT 1`, level).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("last student in %s: %w", level, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM records WHERE student_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete student records: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return true, nil
}

// UpdateStudentInfo — полная перезапись имени и заметки (не частичный merge).
func UpdateStudentInfo(ctx context.Context, q Querier, id int64, name, note string) error {
	if _, err := q.ExecContext(ctx, `UPDATE students SET name = $2, note = $3 WHERE id = $1`, id, name, note); err != nil {
		return fmt.Errorf("update student %d: %w", id, err)
	}
	return nil
}

// ClearStudentInfo — сброс имён и заметок у всех учеников.
func ClearStudentInfo(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, `UPDATE students SET name = '', note = ''`); err != nil {
		return fmt.Errorf("clear student info: %w", err)
	}
	return nil
}
