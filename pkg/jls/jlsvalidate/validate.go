// Package jlsvalidate wraps go-playground/validator struct-tag validation
// for the two descriptor types callers build by hand (SourceDef,
// SignalDef), grounded on the teacher's pkg/validation.Validator wrapper
// around the same library.
package jlsvalidate

import (
	"github.com/go-playground/validator/v10"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Source validates a SourceDef's string-length and required-field
// constraints before it reaches writer.SourceDef.
func Source(src directory.SourceDef) error {
	if err := v.Struct(src); err != nil {
		return jlserr.Wrap("jlsvalidate.Source", jlserr.ParameterInvalid, err)
	}
	return nil
}

// Signal validates a SignalDef's struct-tag constraints before it reaches
// writer.SignalDef. It does not check the floor-raising behavior
// (summary_decimate_factor, entries_per_summary) since the writer applies
// those itself and logs when it does.
func Signal(sig directory.SignalDef) error {
	if err := v.Struct(sig); err != nil {
		return jlserr.Wrap("jlsvalidate.Signal", jlserr.ParameterInvalid, err)
	}
	return nil
}
