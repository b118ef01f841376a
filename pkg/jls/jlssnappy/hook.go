// Package jlssnappy is the one concrete implementation of
// writer.CompressionHook this repo ships, built on github.com/golang/snappy
// (block format), the same compression library the wider pack reaches for
// WAL/SSTable payloads. spec.md treats compression as an extension point
// with a named hook rather than a mandated algorithm; this package is that
// hook, not part of the core contract.
package jlssnappy

import "github.com/golang/snappy"

// Hook compresses level-≥1 summary chunk payloads with snappy block
// compression. It implements writer.CompressionHook structurally (the
// writer package takes an interface, not this concrete type, to avoid
// importing snappy into the core).
type Hook struct{}

// Compress snappy-encodes src. It always reports wasCompressed=true: block
// snappy never expands small, repetitive reduction-entry payloads enough
// to be worth a size comparison the way general-purpose payloads might
// need.
func (Hook) Compress(src []byte) (data []byte, wasCompressed bool) {
	return snappy.Encode(nil, src), true
}

// Decompress reverses Hook.Compress. The reader calls this only when a
// summary chunk's chunk_meta has the compressed-summary bit set.
func Decompress(compressed []byte) ([]byte, error) {
	return snappy.Decode(nil, compressed)
}
