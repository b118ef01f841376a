// Package jls is the public entry point (spec.md §2/§4.6): it wraps the
// writer and reader cores behind a small, stable surface so callers never
// import pkg/jls/writer or pkg/jls/reader directly.
package jls

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlsvalidate"
	"github.com/jetperch/jls-go/pkg/jls/metrics"
	"github.com/jetperch/jls-go/pkg/jls/reader"
	"github.com/jetperch/jls-go/pkg/jls/writer"
)

// WriterOption configures Create. The zero-value configuration (no
// metrics, no compression) is always valid.
type WriterOption func(*writer.Config)

// WithWriterMetrics registers writer-side counters against reg.
func WithWriterMetrics(reg *metrics.Registry) WriterOption {
	return func(c *writer.Config) { c.Metrics = reg }
}

// WithCompression installs a summary-chunk compression hook (see
// jlssnappy.Hook for the one this repo ships).
func WithCompression(hook writer.CompressionHook) WriterOption {
	return func(c *writer.Config) { c.Compression = hook }
}

// ReaderOption configures Open.
type ReaderOption func(*reader.Config)

// WithReaderMetrics registers reader-side counters against reg.
func WithReaderMetrics(reg *metrics.Registry) ReaderOption {
	return func(c *reader.Config) { c.Metrics = reg }
}

// Writer is the public JLS writer handle.
type Writer struct {
	inner *writer.Writer
}

// Create creates path and returns a Writer ready to accept source/signal
// definitions and samples.
func Create(path string, opts ...WriterOption) (*Writer, error) {
	var cfg writer.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	w, err := writer.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{inner: w}, nil
}

// SourceDef validates and defines a source descriptor.
func (w *Writer) SourceDef(src directory.SourceDef) error {
	if err := jlsvalidate.Source(src); err != nil {
		return err
	}
	return w.inner.SourceDef(src)
}

// SignalDef validates and defines a signal descriptor.
func (w *Writer) SignalDef(sig directory.SignalDef) error {
	if err := jlsvalidate.Signal(sig); err != nil {
		return err
	}
	return w.inner.SignalDef(sig)
}

// FSRF32 appends fixed-sample-rate float32 samples.
func (w *Writer) FSRF32(signalID uint16, sampleID uint64, data []float32) error {
	return w.inner.FSRF32(signalID, sampleID, data)
}

// VSRF32 is not supported; see writer.VSRF32.
func (w *Writer) VSRF32(signalID uint16, timestamps []uint64, data []float32) error {
	return w.inner.VSRF32(signalID, timestamps, data)
}

// Annotation appends an annotation chunk.
func (w *Writer) Annotation(signalID uint16, timestamp uint64, annotationType directory.AnnotationType, storageType directory.StorageType, body []byte) error {
	return w.inner.Annotation(signalID, timestamp, annotationType, storageType, body)
}

// UTC appends a UTC anchor.
func (w *Writer) UTC(signalID uint16, sampleID uint64, utc int64) error {
	return w.inner.UTC(signalID, sampleID, utc)
}

// UserData appends an application-defined chunk.
func (w *Writer) UserData(storageType directory.StorageType, payload []byte) error {
	return w.inner.UserData(storageType, payload)
}

// Close flushes trailing buffers and closes the file.
func (w *Writer) Close() error {
	return w.inner.Close()
}

// Reader is the public JLS reader handle.
type Reader struct {
	inner *reader.Reader
}

// Open opens path read-only and rebuilds the source/signal directory.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	var cfg reader.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	r, err := reader.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{inner: r}, nil
}

// Sources returns every defined source descriptor in id order.
func (r *Reader) Sources() []directory.SourceDef { return r.inner.Sources() }

// Signals returns every defined signal descriptor in id order.
func (r *Reader) Signals() []directory.SignalDef { return r.inner.Signals() }

// FSRLength returns signal_id's total sample count.
func (r *Reader) FSRLength(signalID uint16) (uint64, error) {
	return r.inner.FSRLength(signalID)
}

// Seek descends to targetLevel at sampleID and returns the chunk offset.
func (r *Reader) Seek(signalID uint16, targetLevel uint8, sampleID uint64) (uint64, error) {
	return r.inner.Seek(signalID, targetLevel, sampleID)
}

// FSRF32 reads len(out) samples starting at startSampleID.
func (r *Reader) FSRF32(signalID uint16, startSampleID uint64, out []float32) error {
	return r.inner.FSRF32(signalID, startSampleID, out)
}

// FSRLevelCount returns the number of populated summary-pyramid levels.
func (r *Reader) FSRLevelCount(signalID uint16) (int, error) {
	return r.inner.FSRLevelCount(signalID)
}

// FSRStatistics returns bucketed range statistics; see reader.FSRStatistics.
func (r *Reader) FSRStatistics(signalID uint16, startSampleID, sampleCount uint64, statsCount uint32) ([]reader.StatsEntry, error) {
	return r.inner.FSRStatistics(signalID, startSampleID, sampleCount, statsCount)
}

// UserDataReset rewinds the user-data cursor.
func (r *Reader) UserDataReset() { r.inner.UserDataReset() }

// UserDataNext advances the user-data cursor and returns the next entry.
func (r *Reader) UserDataNext() (reader.UserDataEntry, error) { return r.inner.UserDataNext() }

// UserDataPrev retreats the user-data cursor and returns the previous entry.
func (r *Reader) UserDataPrev() (reader.UserDataEntry, error) { return r.inner.UserDataPrev() }

// AnnotationNext is not supported; see reader.AnnotationNext.
func (r *Reader) AnnotationNext(signalID uint16) error { return r.inner.AnnotationNext(signalID) }

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.inner.Close()
}
