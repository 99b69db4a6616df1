package db

import (
	"context"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/models"
)

func CountLessons(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM lessons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return n, nil
}

// ListLessons — уроки в порядке отображения (ord, затем id).
func ListLessons(ctx context.Context, q Querier) ([]models.Lesson, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, title, ord, to_char(date, 'YYYY-MM-DD')
FROM lessons ORDER BY ord, id`)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Order, &l.Date); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// CreateLesson — добавляет урок с датой "сегодня" (по часам БД).
func CreateLesson(ctx context.Context, q Querier, title string, ord int) (models.Lesson, error) {
	l := models.Lesson{Title: title, Order: ord}
	err := q.QueryRowContext(ctx, `
INSERT INTO lessons (title, ord, date)
VALUES ($1, $2, CURRENT_DATE)
RETURNING id, to_char(date, 'YYYY-MM-DD')`, title, ord).Scan(&l.ID, &l.Date)
	if err != nil {
		return models.Lesson{}, fmt.Errorf("create lesson: %w", err)
	}
	return l, nil
}

// LastLesson — кандидат на удаление: максимальный ord, при равенстве — id.
func LastLesson(ctx context.Context, q Querier) (*models.Lesson, error) {
	row := q.QueryRowContext(ctx, `
SELECT id, title, ord, to_char(date, 'YYYY-MM-DD')
FROM lessons ORDER BY ord DESC, id DESC LIMIT 1`)
	var l models.Lesson
	if err := row.Scan(&l.ID, &l.Title, &l.Order, &l.Date); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLesson — удаляет урок вместе с записями (явно, не полагаясь на каскад).
func DeleteLesson(ctx context.Context, q Querier, id int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM records WHERE lesson_id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson records: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// SetLessonDate — перезаписывает дату урока; nil очищает её.
func SetLessonDate(ctx context.Context, q Querier, id int64, date *string) error {
	if _, err := q.ExecContext(ctx, `UPDATE lessons SET date = $2::date WHERE id = $1`, id, date); err != nil {
		return fmt.Errorf("set lesson date: %w", err)
	}
	return nil
}
