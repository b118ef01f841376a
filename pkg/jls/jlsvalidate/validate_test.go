package jlsvalidate

import (
	"testing"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

func TestSourceRequiresName(t *testing.T) {
	err := Source(directory.SourceDef{})
	if !jlserr.Is(err, jlserr.ParameterInvalid) {
		t.Errorf("Source({}) = %v, want PARAMETER_INVALID", err)
	}
	if err := Source(directory.SourceDef{Name: "ok"}); err != nil {
		t.Errorf("Source with a name should validate: %v", err)
	}
}

func TestSourceNameLengthLimit(t *testing.T) {
	long := make([]byte, 257)
	for i := range long {
		long[i] = 'x'
	}
	err := Source(directory.SourceDef{Name: string(long)})
	if !jlserr.Is(err, jlserr.ParameterInvalid) {
		t.Errorf("a 257-byte name should fail validation, got %v", err)
	}
}

func TestSignalRequiresNonZeroFields(t *testing.T) {
	err := Signal(directory.SignalDef{Name: "x"})
	if !jlserr.Is(err, jlserr.ParameterInvalid) {
		t.Errorf("Signal with zero samples_per_data/etc should fail, got %v", err)
	}
}

func TestSignalValid(t *testing.T) {
	sig := directory.SignalDef{
		Name:                  "triangle",
		SamplesPerData:        100000,
		SampleDecimateFactor:  100,
		EntriesPerSummary:     20000,
		SummaryDecimateFactor: 100,
	}
	if err := Signal(sig); err != nil {
		t.Errorf("Signal(%+v) = %v, want nil", sig, err)
	}
}
