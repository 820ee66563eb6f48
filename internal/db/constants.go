package db

const (
	// sqlSinceClause keeps query_log rows logged at or after a formatted cutoff.
	sqlSinceClause = "WHERE timestamp >= ?"

	// timestampLayout is how query_log stores UTC timestamps; it sorts lexically.
	timestampLayout = "2006-01-02 15:04:05"
)
