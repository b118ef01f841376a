package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNilRegistryRecordMethodsAreNoOps(t *testing.T) {
	var r *Registry
	r.RecordChunkWritten("source_def", 10)
	r.RecordSummaryEmission(2)
	r.RecordChunkRead("fsr_data", 10)
	r.RecordSeek(3)
}

func TestNewRegistryUsesIsolatedRegistryByDefault(t *testing.T) {
	r1 := NewRegistry(nil)
	r2 := NewRegistry(nil)
	r1.RecordChunkWritten("source_def", 5)
	r2.RecordChunkWritten("source_def", 7)

	v := counterValue(t, r1.ChunksWritten.WithLabelValues("source_def"))
	if v != 1 {
		t.Errorf("r1 chunks_written = %v, want 1 (registries must not share state)", v)
	}
}

func TestRecordChunkWrittenIncrementsBothCounters(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())
	r.RecordChunkWritten("fsr_data", 100)
	r.RecordChunkWritten("fsr_data", 50)

	if v := counterValue(t, r.ChunksWritten.WithLabelValues("fsr_data")); v != 2 {
		t.Errorf("ChunksWritten = %v, want 2", v)
	}
	if v := counterValue(t, r.BytesWritten.WithLabelValues("fsr_data")); v != 150 {
		t.Errorf("BytesWritten = %v, want 150", v)
	}
}

func TestRecordSeekObservesDescentHistogram(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())
	r.RecordSeek(3)
	r.RecordSeek(5)

	m := &dto.Metric{}
	if err := r.ReaderSeekEntries.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Histogram.GetSampleCount() != 2 {
		t.Errorf("histogram sample count = %d, want 2", m.Histogram.GetSampleCount())
	}
	if v := counterValue(t, r.ReaderSeeks); v != 2 {
		t.Errorf("ReaderSeeks = %v, want 2", v)
	}
}

func TestLevelLabelOutOfRange(t *testing.T) {
	if got := levelLabel(-1); got != "?" {
		t.Errorf("levelLabel(-1) = %q, want \"?\"", got)
	}
	if got := levelLabel(99); got != "?" {
		t.Errorf("levelLabel(99) = %q, want \"?\"", got)
	}
	if got := levelLabel(2); got != "2" {
		t.Errorf("levelLabel(2) = %q, want \"2\"", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.Counter.GetValue()
}
