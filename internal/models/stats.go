package models

import "time"

// RowError records a single per-row failure captured during a parse run.
type RowError struct {
	Row     int64  `json:"row" csv:"row"`
	Column  int    `json:"column,omitempty" csv:"column"`
	Message string `json:"message" csv:"message"`
	Code    string `json:"code" csv:"code"`
}

// ParserStats aggregates the counters of a parse run.
//
// StartTime is fixed when the adapter is constructed; EndTime is read
// at the moment stats are requested, so a ParserStats value is only a
// final snapshot once the stream is known to have finished.
type ParserStats struct {
	BytesProcessed int64      `json:"bytesProcessed"`
	RowsProcessed  int64      `json:"rowsProcessed"`
	Errors         []RowError `json:"errors"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	// PeakMemoryUsage is optional; 0 when the engine does not track it.
	PeakMemoryUsage int64  `json:"peakMemoryUsage,omitempty"`
	Format          string `json:"format"`
}
