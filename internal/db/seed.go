package db

import (
	"context"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/models"
)

// SeedLessonCount — сколько уроков создаём при первом обращении.
const SeedLessonCount = 24

// SeedDashboard — ленивое наполнение сетки при первом чтении состояния.
// Уроки создаются, только если их нет совсем; каждый уровень досеивается
// независимо и только с нуля. Повторные вызовы ничего не меняют.
//
// Вызывается внутри транзакции чтения; advisory-lock защищает от двойного
// сидинга при одновременных первых запросах.
func SeedDashboard(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('dashboard_seed'))`); err != nil {
		return fmt.Errorf("seed lock: %w", err)
	}

	n, err := CountLessons(ctx, q)
	if err != nil {
		return err
	}
	if n == 0 {
		for i := 0; i < SeedLessonCount; i++ {
			if _, err := CreateLesson(ctx, q, fmt.Sprintf("%d-dars", i+1), i); err != nil {
				return err
			}
		}
	}

	for _, level := range models.Levels {
		cnt, err := CountStudentsInLevel(ctx, q, level)
		if err != nil {
			return err
		}
		if cnt > 0 {
			continue
		}
		for i := 0; i < models.SeedCounts[level]; i++ {
			if _, err := CreateStudent(ctx, q, level); err != nil {
				return fmt.Errorf("seed level %s: %w", level, err)
			}
		}
	}
	return nil
}
