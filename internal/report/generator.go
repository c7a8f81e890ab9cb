// Package report renders a parse run's statistics and per-row errors
// as JSON or CSV for operators and downstream tooling.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"

	"tabstream/internal/logging"
	"tabstream/internal/models"
)

// RunReport summarizes one parse run against one source file.
type RunReport struct {
	Source         string            `json:"source"`
	Format         string            `json:"format"`
	BytesProcessed int64             `json:"bytesProcessed"`
	RowsProcessed  int64             `json:"rowsProcessed"`
	ErrorCount     int               `json:"errorCount"`
	Duration       string            `json:"duration"`
	Errors         []models.RowError `json:"errors,omitempty"`
}

// errorRecord is the flat row shape written to CSV reports.
type errorRecord struct {
	Source  string `csv:"source"`
	Format  string `csv:"format"`
	Row     int64  `csv:"row"`
	Column  int    `csv:"column"`
	Code    string `csv:"code"`
	Message string `csv:"message"`
}

// Generator renders run reports.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a report generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{
		logger: logger.WithField(logging.FieldComponent, "report"),
	}
}

// Build assembles the report for one run from the adapter's stats.
func (g *Generator) Build(source string, stats models.ParserStats) RunReport {
	return RunReport{
		Source:         source,
		Format:         stats.Format,
		BytesProcessed: stats.BytesProcessed,
		RowsProcessed:  stats.RowsProcessed,
		ErrorCount:     len(stats.Errors),
		Duration:       stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond).String(),
		Errors:         stats.Errors,
	}
}

// Render renders the report in the requested format ("json" or "csv").
// CSV output is one record per row error, prefixed by source and format
// so reports from several runs can be concatenated.
func (g *Generator) Render(rep RunReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.renderJSON(rep)
	case "csv":
		return g.renderCSV(rep)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) renderJSON(rep RunReport) ([]byte, error) {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) renderCSV(rep RunReport) ([]byte, error) {
	records := make([]errorRecord, 0, len(rep.Errors))
	for _, e := range rep.Errors {
		records = append(records, errorRecord{
			Source:  rep.Source,
			Format:  rep.Format,
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
		})
	}

	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return out, nil
}
