package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
)

// timeFilter returns the WHERE clause and its argument for a time range
// ending now. TimeRangeAll yields no filter.
func timeFilter(tr models.TimeRange) (string, []any) {
	cutoff, ok := tr.Cutoff(time.Now())
	if !ok {
		return "", nil
	}
	return sqlSinceClause, []any{cutoff.UTC().Format(timestampLayout)}
}

// GetQueryStats returns totals for the queries logged within the time range.
func (db *DB) GetQueryStats(tr models.TimeRange) (*models.QueryStats, error) {
	filter, args := timeFilter(tr)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(record_count), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM query_log
		%s
	`, filter)

	stats := &models.QueryStats{ByTechnology: make(map[string]int)}
	err := db.QueryRowContext(context.Background(), query, args...).Scan(
		&stats.TotalQueries,
		&stats.FailedQueries,
		&stats.TotalRecords,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	techQuery := fmt.Sprintf(`
		SELECT technology, COUNT(*)
		FROM query_log
		%s
		GROUP BY technology
	`, filter)

	rows, err := db.QueryContext(context.Background(), techQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query technology counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tech string
		var count int
		if err := rows.Scan(&tech, &count); err != nil {
			return nil, fmt.Errorf("failed to scan technology count: %w", err)
		}
		stats.ByTechnology[tech] = count
	}

	return stats, rows.Err()
}

// GetDailyQueryCounts returns per-day query and failure counts, oldest first.
func (db *DB) GetDailyQueryCounts(tr models.TimeRange) ([]models.DailyQueryCount, error) {
	filter, args := timeFilter(tr)

	query := fmt.Sprintf(`
		SELECT
			date(timestamp) as day,
			COUNT(*),
			SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END)
		FROM query_log
		%s
		GROUP BY day
		ORDER BY day ASC
	`, filter)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []models.DailyQueryCount
	for rows.Next() {
		var day string
		var failures sql.NullInt64
		var c models.DailyQueryCount

		if err := rows.Scan(&day, &c.Count, &failures); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		if t, err := time.Parse("2006-01-02", day); err == nil {
			c.Date = t
		}
		c.Failures = int(failures.Int64)

		counts = append(counts, c)
	}

	return counts, rows.Err()
}
