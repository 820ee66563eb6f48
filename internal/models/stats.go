package models

// QueryStats represents aggregated query log statistics for a time range.
type QueryStats struct {
	ByTechnology  map[string]int
	TotalQueries  int
	FailedQueries int
	TotalRecords  int64
	AvgDurationMs float64
}

// SuccessRate returns the percentage of queries that completed, or 0 when none ran.
func (s *QueryStats) SuccessRate() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.TotalQueries-s.FailedQueries) / float64(s.TotalQueries) * 100
}
