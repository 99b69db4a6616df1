package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/db"
)

// ClearAll — необратимый полный сброс: удаляет все записи и чистит имена
// и заметки учеников. Сами строки, колонки и уровни остаются на месте.
func ClearAll(ctx context.Context, database *sql.DB) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := db.DeleteAllRecords(ctx, tx); err != nil {
		return err
	}
	if err := db.ClearStudentInfo(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear tx: %w", err)
	}
	return nil
}
