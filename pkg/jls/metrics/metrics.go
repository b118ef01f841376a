// Package metrics exposes a prometheus registry for the JLS writer and
// reader, modeled on the teacher's pkg/metrics Registry + Record* method
// pattern (github.com/dd0wney/cluso-graphdb's pkg/metrics/metrics.go),
// adapted from HTTP/storage/query counters to chunk- and sample-level
// counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every JLS-specific prometheus collector. It is safe for
// concurrent use (prometheus collectors are), though the writer/reader
// themselves are single-threaded per spec.md §5.
type Registry struct {
	ChunksWritten     *prometheus.CounterVec
	BytesWritten      *prometheus.CounterVec
	SummaryEmissions  *prometheus.CounterVec
	ChunksRead        *prometheus.CounterVec
	BytesRead         *prometheus.CounterVec
	ReaderSeeks       prometheus.Counter
	ReaderSeekEntries prometheus.Histogram
}

// NewRegistry builds and registers a fresh Registry against reg. Passing
// nil uses prometheus.NewRegistry() (an isolated registry, so tests and
// multiple open files don't collide on global default-registry metric
// names).
func NewRegistry(reg prometheus.Registerer) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Registry{
		ChunksWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "writer",
			Name:      "chunks_written_total",
			Help:      "Chunks written, by tag.",
		}, []string{"tag"}),
		BytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "writer",
			Name:      "bytes_written_total",
			Help:      "Payload bytes written, by tag.",
		}, []string{"tag"}),
		SummaryEmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "writer",
			Name:      "summary_emissions_total",
			Help:      "Summary/index chunk emissions, by level.",
		}, []string{"level"}),
		ChunksRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "reader",
			Name:      "chunks_read_total",
			Help:      "Chunks read, by tag.",
		}, []string{"tag"}),
		BytesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "reader",
			Name:      "bytes_read_total",
			Help:      "Payload bytes read, by tag.",
		}, []string{"tag"}),
		ReaderSeeks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jls",
			Subsystem: "reader",
			Name:      "seeks_total",
			Help:      "Seek operations performed.",
		}),
		ReaderSeekEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jls",
			Subsystem: "reader",
			Name:      "seek_descent_levels",
			Help:      "Number of pyramid levels descended per seek.",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
	}
	reg.MustRegister(r.ChunksWritten, r.BytesWritten, r.SummaryEmissions, r.ChunksRead, r.BytesRead, r.ReaderSeeks, r.ReaderSeekEntries)
	return r
}

// RecordChunkWritten increments the writer-side counters for one chunk.
func (r *Registry) RecordChunkWritten(tag string, payloadLen int) {
	if r == nil {
		return
	}
	r.ChunksWritten.WithLabelValues(tag).Inc()
	r.BytesWritten.WithLabelValues(tag).Add(float64(payloadLen))
}

// RecordSummaryEmission increments the summary-emission counter for level.
func (r *Registry) RecordSummaryEmission(level int) {
	if r == nil {
		return
	}
	r.SummaryEmissions.WithLabelValues(levelLabel(level)).Inc()
}

// RecordChunkRead increments the reader-side counters for one chunk.
func (r *Registry) RecordChunkRead(tag string, payloadLen int) {
	if r == nil {
		return
	}
	r.ChunksRead.WithLabelValues(tag).Inc()
	r.BytesRead.WithLabelValues(tag).Add(float64(payloadLen))
}

// RecordSeek records one Seek call descending through descentLevels
// pyramid levels.
func (r *Registry) RecordSeek(descentLevels int) {
	if r == nil {
		return
	}
	r.ReaderSeeks.Inc()
	r.ReaderSeekEntries.Observe(float64(descentLevels))
}

func levelLabel(level int) string {
	const digits = "0123456789abcdef"
	if level < 0 || level >= len(digits) {
		return "?"
	}
	return string(digits[level])
}
