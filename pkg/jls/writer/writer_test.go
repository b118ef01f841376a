package writer

import (
	"path/filepath"
	"testing"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

func openTest(t *testing.T) *Writer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "w.jls")
	w, err := Open(path, Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOpenWritesReservedSourceAndSignalZero(t *testing.T) {
	w := openTest(t)
	if !w.sourceDefined[0] {
		t.Error("source 0 should be defined by Open")
	}
	if w.signals[0] == nil {
		t.Error("signal 0 should be defined by Open")
	}
}

func TestSourceDefRejectsOutOfRangeID(t *testing.T) {
	w := openTest(t)
	err := w.SourceDef(directory.SourceDef{SourceID: uint16(directory.SourceCount), Name: "x"})
	if !jlserr.Is(err, jlserr.ParameterInvalid) {
		t.Errorf("SourceDef(out of range) = %v, want PARAMETER_INVALID", err)
	}
}

func TestSourceDefRejectsDuplicate(t *testing.T) {
	w := openTest(t)
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "a"}); err != nil {
		t.Fatalf("first SourceDef: %v", err)
	}
	err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "b"})
	if !jlserr.Is(err, jlserr.AlreadyExists) {
		t.Errorf("duplicate SourceDef = %v, want ALREADY_EXISTS", err)
	}
}

func TestSourceDefRejectsReservedSourceZero(t *testing.T) {
	w := openTest(t)
	err := w.SourceDef(directory.SourceDef{SourceID: 0, Name: "dup"})
	if !jlserr.Is(err, jlserr.AlreadyExists) {
		t.Errorf("redefining source 0 = %v, want ALREADY_EXISTS", err)
	}
}

func TestSignalDefRequiresDefinedSource(t *testing.T) {
	w := openTest(t)
	err := w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 9, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
	})
	if !jlserr.Is(err, jlserr.NotFound) {
		t.Errorf("SignalDef with an undefined source = %v, want NOT_FOUND", err)
	}
}

func TestSignalDefRejectsFSRWithoutSampleRate(t *testing.T) {
	w := openTest(t)
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}); err != nil {
		t.Fatalf("SourceDef: %v", err)
	}
	err := w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SamplesPerData: 4, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
	})
	if !jlserr.Is(err, jlserr.ParameterInvalid) {
		t.Errorf("FSR SignalDef with sample_rate 0 = %v, want PARAMETER_INVALID", err)
	}
}

func TestSignalDefRaisesBelowFloorValuesInsteadOfRejecting(t *testing.T) {
	w := openTest(t)
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}); err != nil {
		t.Fatalf("SourceDef: %v", err)
	}
	sig := directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, EntriesPerSummary: 1, SummaryDecimateFactor: 1,
	}
	if err := w.SignalDef(sig); err != nil {
		t.Fatalf("SignalDef with below-floor values should be raised, not rejected: %v", err)
	}
	got := w.signals[1]
	if got.def.EntriesPerSummary != minEntriesPerSummary {
		t.Errorf("EntriesPerSummary = %d, want floor %d", got.def.EntriesPerSummary, minEntriesPerSummary)
	}
	if got.def.SummaryDecimateFactor != minSummaryDecimateFactor {
		t.Errorf("SummaryDecimateFactor = %d, want floor %d", got.def.SummaryDecimateFactor, minSummaryDecimateFactor)
	}
}

func TestFSRF32RejectsUnknownSignal(t *testing.T) {
	w := openTest(t)
	err := w.FSRF32(42, 0, []float32{1, 2, 3})
	if !jlserr.Is(err, jlserr.NotFound) {
		t.Errorf("FSRF32 on an undefined signal = %v, want NOT_FOUND", err)
	}
}

func TestFSRF32FlushesDataChunksAcrossMultipleCalls(t *testing.T) {
	w := openTest(t)
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}); err != nil {
		t.Fatalf("SourceDef: %v", err)
	}
	if err := w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
	}); err != nil {
		t.Fatalf("SignalDef: %v", err)
	}

	// Three calls totalling 10 samples at samples_per_data=4: partial
	// buffers must carry correctly across FSRF32 call boundaries.
	if err := w.FSRF32(1, 0, []float32{1, 2, 3}); err != nil {
		t.Fatalf("FSRF32 #1: %v", err)
	}
	if err := w.FSRF32(1, 3, []float32{4, 5, 6, 7}); err != nil {
		t.Fatalf("FSRF32 #2: %v", err)
	}
	if err := w.FSRF32(1, 7, []float32{8, 9, 10}); err != nil {
		t.Fatalf("FSRF32 #3: %v", err)
	}

	ts := w.signals[1].tracks[directory.TrackTypeFSR]
	if len(ts.sampleBuf) != 2 {
		t.Errorf("trailing sampleBuf len = %d, want 2 (10 samples %% 4)", len(ts.sampleBuf))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.jls")
	w, err := Open(path, Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestCloseFlushesPartialTailAsShortChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tail.jls")
	w, err := Open(path, Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}); err != nil {
		t.Fatalf("SourceDef: %v", err)
	}
	if err := w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
	}); err != nil {
		t.Fatalf("SignalDef: %v", err)
	}
	if err := w.FSRF32(1, 0, []float32{1, 2, 3}); err != nil {
		t.Fatalf("FSRF32: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

type countingCompression struct {
	calls int
}

func (c *countingCompression) Compress(src []byte) ([]byte, bool) {
	c.calls++
	return src, true
}

func TestCompressionHookRunsOnlyOnSummaryChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compress.jls")
	hook := &countingCompression{}
	w, err := Open(path, Config{Compression: hook})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}); err != nil {
		t.Fatalf("SourceDef: %v", err)
	}
	if err := w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 1000, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
	}); err != nil {
		t.Fatalf("SignalDef: %v", err)
	}
	buf := make([]float32, 4000) // exactly one level-1 summary flush
	for i := range buf {
		buf[i] = float32(i)
	}
	if err := w.FSRF32(1, 0, buf); err != nil {
		t.Fatalf("FSRF32: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if hook.calls == 0 {
		t.Error("compression hook should have run at least once for the level-1 summary flush")
	}
	if hook.calls >= 1000 {
		t.Errorf("compression hook ran %d times; it must skip the 1000 level-0 data chunks", hook.calls)
	}
}
