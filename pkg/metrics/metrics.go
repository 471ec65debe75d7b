// Package metrics exposes Prometheus instrumentation for log parsing and the
// catalog.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the tool
type Metrics struct {
	// Parse metrics
	parsesTotal      *prometheus.CounterVec
	parseDuration    prometheus.Histogram
	parseErrorsTotal *prometheus.CounterVec
	recordsTotal     *prometheus.CounterVec
	bytesParsedTotal prometheus.Counter
	entriesLastParse prometheus.Gauge

	// Catalog metrics
	catalogOperationsTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		parsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wpilog_parses_total",
				Help: "Total number of log parses",
			},
			[]string{"status"},
		),

		parseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wpilog_parse_duration_seconds",
				Help:    "Log parse duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
		),

		parseErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wpilog_parse_errors_total",
				Help: "Total number of failed parses by error kind",
			},
			[]string{"kind"},
		),

		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wpilog_records_total",
				Help: "Total number of records framed by kind",
			},
			[]string{"kind"},
		),

		bytesParsedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wpilog_bytes_parsed_total",
				Help: "Total number of input bytes handed to the parser",
			},
		),

		entriesLastParse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wpilog_entries",
				Help: "Number of entries in the most recently parsed log",
			},
		),

		catalogOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wpilog_catalog_operations_total",
				Help: "Total number of catalog operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// ObserveParse records one parse. It satisfies wpilog.Observer.
func (m *Metrics) ObserveParse(stats wpilog.Stats, elapsed time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
		m.parseErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
	}

	m.parsesTotal.WithLabelValues(status).Inc()
	m.parseDuration.Observe(elapsed.Seconds())
	m.bytesParsedTotal.Add(float64(stats.Bytes))
	m.recordsTotal.WithLabelValues("control").Add(float64(stats.ControlRecords))
	m.recordsTotal.WithLabelValues("data").Add(float64(stats.DataRecords))
	m.recordsTotal.WithLabelValues("orphan").Add(float64(stats.Orphans))
	if err == nil {
		m.entriesLastParse.Set(float64(stats.Entries))
	}
}

// RecordCatalogOperation records a catalog operation
func (m *Metrics) RecordCatalogOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.catalogOperationsTotal.WithLabelValues(operation, status).Inc()
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{codec.ErrBadMagic, "bad_magic"},
	{codec.ErrUnsupportedVersion, "unsupported_version"},
	{codec.ErrTruncatedData, "truncated_data"},
	{codec.ErrTruncatedRecord, "truncated_record"},
	{codec.ErrTrailingBytes, "trailing_bytes"},
	{codec.ErrUnknownControlType, "unknown_control_type"},
	{codec.ErrInvalidUTF8, "invalid_utf8"},
	{wpilog.ErrDuplicateEntryName, "duplicate_entry_name"},
	{wpilog.ErrOrphanRecord, "orphan_record"},
}

// ErrorKind returns a stable label for a parse error. Fast policy panics
// mask their cause and are labeled as assertion failures.
func ErrorKind(err error) string {
	if errors.IsAssertionFailure(err) {
		return "assertion_failure"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "other"
}

var _ wpilog.Observer = (*Metrics)(nil)
