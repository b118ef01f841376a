package jls

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlssnappy"
)

// triangleWave reproduces cmd/jls-performance's generator: period 1000,
// amplitude +/-1.
func triangleWave(sampleID uint64) float32 {
	idx := sampleID % 1000
	v := float32(-1 + 2*float64(idx)/500)
	if v > 1 {
		v = 2 - v
	}
	return v
}

// TestGenerateAndReadTriangleWave covers a generate-then-profile round
// trip: write a triangle wave, reopen, and check both fsr_length and a few
// sample values land back exactly.
func TestGenerateAndReadTriangleWave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "bench"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID:              1,
		SourceID:              1,
		SignalType:            directory.SignalTypeFSR,
		DataType:              directory.DataTypeF32,
		SampleRate:            1000,
		SamplesPerData:        4,
		SampleDecimateFactor:  10,
		EntriesPerSummary:     1000,
		SummaryDecimateFactor: 10,
		Name:                  "triangle",
	}))

	const length = 4500
	buf := make([]float32, length)
	for i := range buf {
		buf[i] = triangleWave(uint64(i))
	}
	require.NoError(t, w.FSRF32(1, 0, buf))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.FSRLength(1)
	require.NoError(t, err)
	require.EqualValues(t, length, got)

	levels, err := r.FSRLevelCount(1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, levels, 2, "4500 samples at 4/chunk should have flushed at least one level-1 summary")

	out := make([]float32, length)
	require.NoError(t, r.FSRF32(1, 0, out))
	for i := range out {
		if out[i] != buf[i] {
			t.Fatalf("sample %d = %v, want %v", i, out[i], buf[i])
		}
	}
}

// TestSourcesAndSignalsSurviveReopen covers non-sequential ids (sources 1
// and 3, signals 1 and 5) and checks Sources()/Signals() come back in id
// order with every descriptor field intact.
func TestSourcesAndSignalsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 3, Name: "second", Vendor: "acme"}))
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "first", Vendor: "acme"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 5, SourceID: 3, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "second-signal",
	}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "first-signal",
	}))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	sources := r.Sources()
	require.Len(t, sources, 3) // the reserved source 0 plus 1 and 3
	require.Equal(t, uint16(0), sources[0].SourceID)
	require.Equal(t, uint16(1), sources[1].SourceID)
	require.Equal(t, "first", sources[1].Name)
	require.Equal(t, uint16(3), sources[2].SourceID)
	require.Equal(t, "second", sources[2].Name)

	signals := r.Signals()
	require.Len(t, signals, 3) // the reserved signal 0 plus 1 and 5
	require.Equal(t, uint16(0), signals[0].SignalID)
	require.Equal(t, uint16(1), signals[1].SignalID)
	require.Equal(t, "first-signal", signals[1].Name)
	require.Equal(t, uint16(1), signals[1].SourceID)
	require.Equal(t, uint16(5), signals[2].SignalID)
	require.Equal(t, "second-signal", signals[2].Name)
	require.Equal(t, uint16(3), signals[2].SourceID)
}

// TestUserDataForwardIteration covers three user-data chunks, one of each
// storage type, checking iteration order matches write order.
func TestUserDataForwardIteration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.UserData(directory.StorageTypeBinary, []byte{0x01, 0x02, 0x03}))
	require.NoError(t, w.UserData(directory.StorageTypeString, []byte("hello")))
	require.NoError(t, w.UserData(directory.StorageTypeJSON, []byte(`{"a":1}`)))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	want := []struct {
		storageType directory.StorageType
		payload     string
	}{
		{directory.StorageTypeBinary, string([]byte{0x01, 0x02, 0x03})},
		{directory.StorageTypeString, "hello"},
		{directory.StorageTypeJSON, `{"a":1}`},
	}
	for i, w := range want {
		entry, err := r.UserDataNext()
		require.NoErrorf(t, err, "entry %d", i)
		require.Equal(t, w.storageType, entry.StorageType)
		require.Equal(t, w.payload, string(entry.Payload))
	}
	_, err = r.UserDataNext()
	require.Error(t, err, "iteration should end with Empty after the third entry")
}

// TestFSRStatisticsBucketsCoverRange writes enough samples to populate a
// level-1 summary and checks FSRStatistics returns reductions in
// chronological order, each with min <= mean <= max.
func TestFSRStatisticsBucketsCoverRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 1000, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "ramp",
	}))

	const length = 8000
	buf := make([]float32, length)
	for i := range buf {
		buf[i] = float32(i)
	}
	require.NoError(t, w.FSRF32(1, 0, buf))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	entries, err := r.FSRStatistics(1, 0, length, 4)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		require.Less(t, entries[i-1].StartSampleID, entries[i].StartSampleID, "buckets should be chronological")
	}
	for _, e := range entries {
		require.LessOrEqual(t, e.Min, e.Mean)
		require.LessOrEqual(t, e.Mean, e.Max)
	}
}

// TestCompressionHookRoundTrip wires jlssnappy.Hook in and checks that the
// file it writes still reopens with the right length and bit-identical raw
// samples.
func TestCompressionHookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.jls")

	w, err := Create(path, WithCompression(jlssnappy.Hook{}))
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 1000, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "s1",
	}))
	buf := make([]float32, 4000)
	for i := range buf {
		buf[i] = float32(math.Sin(float64(i)))
	}
	require.NoError(t, w.FSRF32(1, 0, buf))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	length, err := r.FSRLength(1)
	require.NoError(t, err)
	require.EqualValues(t, 4000, length)

	out := make([]float32, 4000)
	require.NoError(t, r.FSRF32(1, 0, out))
	for i := range out {
		if out[i] != buf[i] {
			t.Fatalf("sample %d = %v, want %v", i, out[i], buf[i])
		}
	}
}

// TestVSRWriteAndAnnotationReadAreStubbed checks the two explicitly
// unsupported operations spec.md leaves no ground truth for.
func TestVSRWriteAndAnnotationReadAreStubbed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vsr.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeVSR, DataType: directory.DataTypeF32,
		SamplesPerData: 1, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "irregular",
	}))
	err = w.VSRF32(1, []uint64{0, 5, 9}, []float32{1, 2, 3})
	require.Error(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	err = r.AnnotationNext(1)
	require.Error(t, err)
}

// TestAnnotationAndUTCWrite covers the two sample-level metadata tracks
// every FSR signal owns.
func TestAnnotationAndUTCWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.jls")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SourceDef(directory.SourceDef{SourceID: 1, Name: "s"}))
	require.NoError(t, w.SignalDef(directory.SignalDef{
		SignalID: 1, SourceID: 1, SignalType: directory.SignalTypeFSR, DataType: directory.DataTypeF32,
		SampleRate: 100, SamplesPerData: 4, SampleDecimateFactor: 10, EntriesPerSummary: 1000, SummaryDecimateFactor: 10,
		Name: "s1",
	}))
	require.NoError(t, w.Annotation(1, 0, directory.AnnotationTypeUser, directory.StorageTypeString, []byte("marker")))
	require.NoError(t, w.UTC(1, 0, 1700000000))
	require.NoError(t, w.Close())
}
