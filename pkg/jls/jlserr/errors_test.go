package jlserr

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		ParameterInvalid: "PARAMETER_INVALID",
		NotEnoughMemory:  "NOT_ENOUGH_MEMORY",
		AlreadyExists:    "ALREADY_EXISTS",
		NotFound:         "NOT_FOUND",
		NotSupported:     "NOT_SUPPORTED",
		TooBig:           "TOO_BIG",
		Empty:            "EMPTY",
		None:             "NONE",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNewAndKindOf(t *testing.T) {
	err := New("writer.SourceDef", AlreadyExists)
	if KindOf(err) != AlreadyExists {
		t.Errorf("KindOf = %v, want AlreadyExists", KindOf(err))
	}
	if !Is(err, AlreadyExists) {
		t.Error("Is(err, AlreadyExists) = false")
	}
	if Is(err, NotFound) {
		t.Error("Is(err, NotFound) = true")
	}
}

func TestNewfEntity(t *testing.T) {
	err := Newf("writer.SignalDef", NotFound, "signal %d", 7)
	if err.Error() != "writer.SignalDef: NOT_FOUND: signal 7" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapChainsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap("raw.Write", ParameterInvalid, cause)
	if !errors.Is(err, cause) {
		t.Error("Wrap does not chain to its cause via errors.Is")
	}
	if KindOf(err) != ParameterInvalid {
		t.Errorf("KindOf(wrapped) = %v", KindOf(err))
	}
}

func TestSentinelIsMatchesAcrossOps(t *testing.T) {
	a := New("opA", NotFound)
	b := Newf("opB", NotFound, "entity")
	if !errors.Is(a, ErrNotFound) || !errors.Is(b, ErrNotFound) {
		t.Error("errors.Is(_, ErrNotFound) should hold regardless of Op")
	}
}

func TestTooBigCarriesNeeded(t *testing.T) {
	err := TooBigErr("raw.ReadHeaderAndPayload", 4096)
	if KindOf(err) != TooBig {
		t.Fatalf("KindOf = %v, want TooBig", KindOf(err))
	}
	if got := NeededBytes(err); got != 4096 {
		t.Errorf("NeededBytes = %d, want 4096", got)
	}
	if NeededBytes(New("x", Empty)) != 0 {
		t.Error("NeededBytes on a non-TooBig error should be 0")
	}
}

func TestKindOfNil(t *testing.T) {
	if KindOf(nil) != None {
		t.Error("KindOf(nil) should be None")
	}
}
