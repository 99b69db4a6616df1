package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/models"
)

// MinLessons — меньше этого количества колонок не оставляем.
const MinLessons = 3

// MinStudentsPerLevel — нижняя граница на удаление строк: во всех уровнях
// ровно 1, независимо от количества при сидинге.
const MinStudentsPerLevel = 1

// Статусы структурных операций. Упор в пол — не ошибка, а штатный исход.
const (
	StatusRemoved    = "removed"
	StatusMinReached = "min_reached"
	StatusNoop       = "noop"
)

type RemoveResult struct {
	Status string `json:"status"`
	Min    int    `json:"min,omitempty"`
}

// AddLesson — добавляет колонку в хвост: ord = текущее количество,
// заголовок от нового порядкового номера, дата — сегодня.
func AddLesson(ctx context.Context, database *sql.DB) (models.Lesson, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return models.Lesson{}, fmt.Errorf("begin add lesson tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	count, err := db.CountLessons(ctx, tx)
	if err != nil {
		return models.Lesson{}, err
	}
	lesson, err := db.CreateLesson(ctx, tx, fmt.Sprintf("%d-dars", count+1), count)
	if err != nil {
		return models.Lesson{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Lesson{}, fmt.Errorf("commit add lesson tx: %w", err)
	}
	return lesson, nil
}

// RemoveLesson — снимает последнюю колонку (максимальный ord, при
// равенстве — id) вместе с её записями, пока не упёрлись в минимум.
func RemoveLesson(ctx context.Context, database *sql.DB) (RemoveResult, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return RemoveResult{}, fmt.Errorf("begin remove lesson tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	count, err := db.CountLessons(ctx, tx)
	if err != nil {
		return RemoveResult{}, err
	}
	if count <= MinLessons {
		return RemoveResult{Status: StatusMinReached, Min: MinLessons}, nil
	}
	last, err := db.LastLesson(ctx, tx)
	if errors.Is(err, sql.ErrNoRows) {
		return RemoveResult{Status: StatusNoop}, nil
	}
	if err != nil {
		return RemoveResult{}, err
	}
	if err := db.DeleteLesson(ctx, tx, last.ID); err != nil {
		return RemoveResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return RemoveResult{}, fmt.Errorf("commit remove lesson tx: %w", err)
	}
	return RemoveResult{Status: StatusRemoved}, nil
}

// ErrInvalidLevel возвращается при неизвестном уровне; клиенту уходит 400
// со списком допустимых значений.
type ErrInvalidLevel struct {
	Got string
}

func (e *ErrInvalidLevel) Error() string {
	return fmt.Sprintf("invalid level %q", e.Got)
}

// AddStudent — новая пустая строка в указанном уровне.
func AddStudent(ctx context.Context, database *sql.DB, levelRaw string) (models.Student, error) {
	level, ok := models.ParseLevel(levelRaw)
	if !ok {
		return models.Student{}, &ErrInvalidLevel{Got: levelRaw}
	}
	return db.CreateStudent(ctx, database, level)
}

// RemoveStudent — удаляет самую свежую строку уровня. Пустой уровень —
// no-op; последний оставшийся ученик не удаляется.
func RemoveStudent(ctx context.Context, database *sql.DB, levelRaw string) (RemoveResult, error) {
	level, ok := models.ParseLevel(levelRaw)
	if !ok {
		return RemoveResult{}, &ErrInvalidLevel{Got: levelRaw}
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return RemoveResult{}, fmt.Errorf("begin remove student tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	count, err := db.CountStudentsInLevel(ctx, tx, level)
	if err != nil {
		return RemoveResult{}, err
	}
	switch {
	case count == 0:
		return RemoveResult{Status: StatusNoop}, nil
	case count <= MinStudentsPerLevel:
		return RemoveResult{Status: StatusMinReached, Min: MinStudentsPerLevel}, nil
	}

	deleted, err := db.DeleteLastStudentInLevel(ctx, tx, level)
	if err != nil {
		return RemoveResult{}, err
	}
	if !deleted {
		return RemoveResult{Status: StatusNoop}, nil
	}
	if err := tx.Commit(); err != nil {
		return RemoveResult{}, fmt.Errorf("commit remove student tx: %w", err)
	}
	return RemoveResult{Status: StatusRemoved}, nil
}
