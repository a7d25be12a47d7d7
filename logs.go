package relclass

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// MetricsFile is the name of the primary metrics log inside a result directory
	MetricsFile string = "prf.txt"

	// AnalysisFile is the name of the analysis log inside a result directory
	AnalysisFile string = "analysis.txt"

	// TimeFormat is the layout of the timestamps in both logs
	TimeFormat string = "2006-01-02 15:04:05.000000"
)

// separator ends each block of the analysis log
var separator = strings.Repeat("-", 80)

// Logs holds the two append-only text logs of a run. The metrics log gets a line for every
// status update and every epoch; the analysis log gets a block for every new best epoch.
type Logs struct {
	metrics  io.Writer
	analysis io.Writer

	metricsName  string
	analysisName string

	closers []io.Closer
}

// NewLogs wraps two existing writers.
func NewLogs(metrics, analysis io.Writer) *Logs {
	return &Logs{
		metrics:      metrics,
		analysis:     analysis,
		metricsName:  MetricsFile,
		analysisName: AnalysisFile,
	}
}

// OpenLogs opens (creating if needed) the metrics and analysis logs inside dir for appending.
// Failures are returned as ResourceErrors.
func OpenLogs(fs afero.Fs, dir string) (*Logs, error) {
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, NewResourceError("create log directory", dir, err)
	}

	l := &Logs{
		metricsName:  filepath.Join(dir, MetricsFile),
		analysisName: filepath.Join(dir, AnalysisFile),
	}

	open := func(path string) (afero.File, error) {
		f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, NewResourceError("open log", path, err)
		}
		l.closers = append(l.closers, f)
		return f, nil
	}

	var err error
	if l.metrics, err = open(l.metricsName); err != nil {
		return nil, err
	}

	if l.analysis, err = open(l.analysisName); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// Close closes any files opened by OpenLogs, returning the first error.
func (l *Logs) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = NewResourceError("close log", "", err)
		}
	}

	l.closers = nil
	return first
}

// WriteResult appends the line for a status or test Result to the metrics log.
func (l *Logs) WriteResult(r Result) error {
	if _, err := io.WriteString(l.metrics, FormatResult(r)+"\n"); err != nil {
		return NewResourceError("append to metrics log", l.metricsName, err)
	}
	return nil
}

// WriteAnalysis appends the block for a new best epoch to the analysis log: the epoch's summary
// line, one line per relation class, the misclassified examples and a separator.
func (l *Logs) WriteAnalysis(r Result, relations Lookup, wrong []WrongInstance) error {
	var sb strings.Builder

	sb.WriteString(FormatResult(r))
	sb.WriteByte('\n')

	if r.Summary != nil {
		for _, row := range r.Summary.Rows {
			sb.WriteString(FormatRelation(row, relations.Name(row.Class)))
			sb.WriteByte('\n')
		}
	}

	for _, w := range wrong {
		sb.WriteString(w.String())
		sb.WriteByte('\n')
	}

	sb.WriteString(separator)
	sb.WriteByte('\n')

	if _, err := io.WriteString(l.analysis, sb.String()); err != nil {
		return NewResourceError("append to analysis log", l.analysisName, err)
	}
	return nil
}

func pct(x float64) float64 {
	return x * 100
}

// FormatResult gives the log line for a Result, without a trailing newline. Status lines include
// the batch index; test lines don't.
func FormatResult(r Result) string {
	ts := r.Time.Format(TimeFormat)
	if r.Phase == Training {
		return fmt.Sprintf("%s: %s epoch: %3d, batch: %4d, loss: %.3f, p: %.3f%%, r: %.3f%%, f1: %.3f%%",
			r.Phase, ts, r.Epoch, r.Batch, r.Loss, pct(r.PRF.Precision), pct(r.PRF.Recall), pct(r.PRF.F1))
	}

	return fmt.Sprintf("%s: %s epoch: %3d, loss: %.3f, p: %.3f%%, r: %.3f%%, f1: %.3f%%",
		r.Phase, ts, r.Epoch, r.Loss, pct(r.PRF.Precision), pct(r.PRF.Recall), pct(r.PRF.F1))
}

// FormatRelation gives the analysis log line for a single class, without a trailing newline.
func FormatRelation(row ConfusionRow, name string) string {
	return fmt.Sprintf("rel: %2d_%-6s, p: %.3f%%, r: %.3f%%, f1: %.3f%%",
		row.Class, name, pct(row.Precision), pct(row.Recall), pct(row.F1))
}
