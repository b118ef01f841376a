package jlssnappy

import (
	"bytes"
	"testing"
)

func TestHookRoundTrip(t *testing.T) {
	var h Hook
	src := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 256)

	compressed, wasCompressed := h.Compress(src)
	if !wasCompressed {
		t.Fatal("Hook.Compress should always report wasCompressed=true")
	}

	got, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Error("Decompress(Compress(src)) != src")
	}
}

func TestHookEmptyPayload(t *testing.T) {
	var h Hook
	compressed, wasCompressed := h.Compress(nil)
	if !wasCompressed {
		t.Fatal("wasCompressed should be true even for an empty payload")
	}
	got, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decompress(Compress(nil)) = %v, want empty", got)
	}
}
