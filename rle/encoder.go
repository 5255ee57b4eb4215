// Package rle implements the run-length encoder that
// turns a kernel's byte-wise match mask into the disjoint, ascending
// snapshot.Filter slice a FilterCollection requires.
package rle

import "github.com/squalr-core/scanengine/snapshot"

// RangeAdjustor trims a matched run to recover true element alignment
// before it is emitted as a filter, returning how many bytes to drop
// from the run's head and tail. It is consulted only for overlapping
// periodic/staggered kernels; every other plan passes a
// nil adjustor.
type RangeAdjustor func(run []byte) (headTrim, tailTrim int)

// Encoder accumulates per-element match/no-match calls into filters,
// tracking the run currently in progress as (current_run_base,
// current_run_length, produced_filters[]).
// An Encoder is built once per input filter being scanned; data is
// that filter's current_values slice (so Encoder can pass run bytes to
// adjustor without the caller separately slicing it out for every
// finalize).
type Encoder struct {
	filterBase uintptr
	data       []byte
	unitSize   int
	adjustor   RangeAdjustor

	offset   int
	runStart int
	inRun    bool

	filters []snapshot.Filter
}

// NewEncoder builds an Encoder for one input filter. unitSize is the
// minimum size (in bytes) a produced filter must have to hold at least
// one aligned element — runs shorter than this are dropped per §4.F's
// "minimum size filtering" variant. adjustor may be nil.
func NewEncoder(filterBase uintptr, data []byte, unitSize int, adjustor RangeAdjustor) *Encoder {
	return &Encoder{filterBase: filterBase, data: data, unitSize: unitSize, adjustor: adjustor}
}

// EncodeRange extends the current run by n bytes, opening a new run at
// the current cursor position if none is open.
func (e *Encoder) EncodeRange(n int) {
	if n <= 0 {
		return
	}
	if !e.inRun {
		e.runStart = e.offset
		e.inRun = true
	}
	e.offset += n
}

// FinalizeCurrentEncode closes the current run — applying the
// adjustor and minimum-size filter, producing a filter if what
// survives is non-empty — then advances the cursor past bytesToSkip.
func (e *Encoder) FinalizeCurrentEncode(bytesToSkip int) {
	if e.inRun {
		start, length := e.runStart, e.offset-e.runStart
		if e.adjustor != nil && length > 0 {
			headTrim, tailTrim := e.adjustor(e.data[start : start+length])
			start += headTrim
			length -= headTrim + tailTrim
		}
		if length >= e.unitSize && length > 0 {
			e.filters = append(e.filters, snapshot.Filter{
				Base: e.filterBase + uintptr(start),
				Size: length,
			})
		}
		e.inRun = false
	}
	if bytesToSkip > 0 {
		e.offset += bytesToSkip
	}
}

// EncodeMask applies the vector mask fast paths to one
// stride-sized match mask: all-0xFF extends the run, all-0x00 closes
// it, and a mixed mask walks bytewise at alignment stride, encoding
// the result of every alignment-th byte.
func (e *Encoder) EncodeMask(mask []byte, alignment int) {
	if alignment <= 0 {
		alignment = 1
	}
	switch {
	case allBytesEqual(mask, 0xFF):
		e.EncodeRange(len(mask))
	case allBytesEqual(mask, 0x00):
		e.FinalizeCurrentEncode(len(mask))
	default:
		for i := 0; i < len(mask); i += alignment {
			if mask[i] == 0xFF {
				e.EncodeRange(alignment)
			} else {
				e.FinalizeCurrentEncode(alignment)
			}
		}
	}
}

// Filters closes any still-open run (with no trailing skip) and
// returns the filters produced so far, disjoint and ascending by
// construction (the cursor only ever advances).
func (e *Encoder) Filters() []snapshot.Filter {
	e.FinalizeCurrentEncode(0)
	out := make([]snapshot.Filter, len(e.filters))
	copy(out, e.filters)
	return out
}

func allBytesEqual(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}
