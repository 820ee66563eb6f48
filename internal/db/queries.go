package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
)

var timeFormats = []string{
	timestampLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InsertQueryLog records an executed query. A zero timestamp means now.
func (db *DB) InsertQueryLog(entry *models.QueryLogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("query log entry has no id")
	}

	query := `
		INSERT INTO query_log (
			id, timestamp, technology, start_date, end_date, element, site,
			kpis, row_limit, outcome, status_code, error, duration_ms, record_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	kpis, err := json.Marshal(entry.KPIs)
	if err != nil {
		return fmt.Errorf("failed to encode kpis: %w", err)
	}

	_, err = db.ExecContext(context.Background(), query,
		entry.ID,
		entry.Timestamp.UTC().Format(timestampLayout),
		entry.Technology,
		entry.StartDate,
		entry.EndDate,
		nullString(entry.Element),
		nullString(entry.Site),
		string(kpis),
		entry.Limit,
		string(entry.Outcome),
		entry.StatusCode,
		nullString(entry.Error),
		entry.DurationMs,
		entry.RecordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query log entry: %w", err)
	}

	return nil
}

// GetRecentQueries returns the most recent log entries, newest first.
func (db *DB) GetRecentQueries(limit int) ([]models.QueryLogEntry, error) {
	query := `
		SELECT id, timestamp, technology, start_date, end_date, element, site,
			   kpis, row_limit, outcome, status_code, error, duration_ms, record_count
		FROM query_log
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent queries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var entries []models.QueryLogEntry
	for rows.Next() {
		var e models.QueryLogEntry
		var ts, kpis, outcome string
		var element, site, errStr sql.NullString
		var recordCount sql.NullInt64

		err := rows.Scan(
			&e.ID,
			&ts,
			&e.Technology,
			&e.StartDate,
			&e.EndDate,
			&element,
			&site,
			&kpis,
			&e.Limit,
			&outcome,
			&e.StatusCode,
			&errStr,
			&e.DurationMs,
			&recordCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query log entry: %w", err)
		}

		if t, ok := parseTimeString(ts); ok {
			e.Timestamp = t
		}
		if err := json.Unmarshal([]byte(kpis), &e.KPIs); err != nil {
			logger.Warn("invalid kpis column", "id", e.ID, "error", err)
		}
		e.Element = element.String
		e.Site = site.String
		e.Error = errStr.String
		e.Outcome = models.Outcome(outcome)
		e.RecordCount = int(recordCount.Int64)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// PruneQueryLog deletes entries older than the given age and returns how many were removed.
func (db *DB) PruneQueryLog(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC().Format(timestampLayout)

	result, err := db.ExecContext(context.Background(),
		"DELETE FROM query_log WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune query log: %w", err)
	}

	return result.RowsAffected()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
