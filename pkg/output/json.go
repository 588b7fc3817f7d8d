package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/okriens/mirrormate/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Events accumulate during the run and the full document is written
// once at Complete, so the output is always a single valid object.
type JSONFormatter struct {
	writer io.Writer
	events []JSONEvent
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONPairData represents pair-related event data
type JSONPairData struct {
	Index          int    `json:"index"`
	Total          int    `json:"total"`
	Source         string `json:"source"`
	Dest           string `json:"dest"`
	ExitCode       int    `json:"exit_code"`
	Classification string `json:"classification,omitempty"`
	LogPath        string `json:"log_path,omitempty"`
	Error          string `json:"error,omitempty"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	RunID      string `json:"run_id"`
	DryRun     bool   `json:"dry_run"`
	Duration   string `json:"duration"`
	DurationMs int64  `json:"duration_ms"`
	Succeeded  int    `json:"succeeded"`
	Warned     int    `json:"warned"`
	Failed     int    `json:"failed"`
	ExitCode   int    `json:"exit_code"`
}

type jsonDocument struct {
	Events []JSONEvent    `json:"events"`
	Report JSONReportData `json:"report"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONFormatter{writer: writer}
}

// Start records the run start event
func (f *JSONFormatter) Start(totalPairs int) error {
	f.append("start", map[string]int{"total_pairs": totalPairs})
	return nil
}

// PairStart records a pair start event
func (f *JSONFormatter) PairStart(index, total int, pair models.MigrationPair) error {
	f.append("pair_start", JSONPairData{
		Index:  index,
		Total:  total,
		Source: pair.Source,
		Dest:   pair.Dest,
	})
	return nil
}

// PairResult records a pair result event
func (f *JSONFormatter) PairResult(index, total int, outcome models.Outcome) error {
	f.append("pair_result", JSONPairData{
		Index:          index,
		Total:          total,
		Source:         outcome.Pair.Source,
		Dest:           outcome.Pair.Dest,
		ExitCode:       outcome.ExitCode,
		Classification: string(outcome.Classification),
		LogPath:        outcome.LogPath,
		Error:          outcome.Err,
	})
	return nil
}

// Complete writes the accumulated document
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	doc := jsonDocument{
		Events: f.events,
		Report: JSONReportData{
			RunID:      report.RunID,
			DryRun:     report.DryRun,
			Duration:   report.Duration.String(),
			DurationMs: report.Duration.Milliseconds(),
			Succeeded:  report.Succeeded,
			Warned:     report.Warned,
			Failed:     report.Failed,
			ExitCode:   report.ExitCode(),
		},
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Error records a run-level error event
func (f *JSONFormatter) Error(err error) error {
	f.append("error", map[string]string{"error": err.Error()})
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) append(eventType string, data any) {
	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Data:      data,
	})
}
