package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/school-dashboard/internal/metrics"
)

// StartDBPing — фоновая проверка живости базы; latency уходит в prometheus.
func StartDBPing(runner *Runner, database *sql.DB, interval time.Duration) {
	runner.Every(interval, "db_ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(pingCtx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})
}
