package rle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicRangeAdjustorWorkedExample(t *testing.T) {
	// the worked example: immediate 01 00, periodicity 2,
	// unit size 2, run 00 01 00 01 00 -> head trim 1, tail trim 0.
	adj := NewPeriodicRangeAdjustor(2, 2, []byte{0x01, 0x00})
	run := []byte{0x00, 0x01, 0x00, 0x01, 0x00}
	head, tail := adj(run)
	assert.Equal(t, 1, head)
	assert.Equal(t, 0, tail)
}

func TestPeriodicRangeAdjustorExactPhaseNoTrim(t *testing.T) {
	adj := NewPeriodicRangeAdjustor(2, 2, []byte{0x01, 0x00})
	run := []byte{0x01, 0x00, 0x01, 0x00}
	head, tail := adj(run)
	assert.Equal(t, 0, head)
	assert.Equal(t, 0, tail)
}

func TestPeriodicRangeAdjustorConstantPeriodOne(t *testing.T) {
	adj := NewPeriodicRangeAdjustor(1, 4, []byte{0x09, 0x09, 0x09, 0x09})
	run := []byte{0x09, 0x09, 0x09, 0x09, 0x09, 0x09}
	head, tail := adj(run)
	assert.Equal(t, 0, head)
	assert.Equal(t, 2, tail) // 6 bytes trims to 4 (one whole element)
}

func TestPeriodicRangeAdjustorTrimsTailToWholeElement(t *testing.T) {
	adj := NewPeriodicRangeAdjustor(2, 2, []byte{0x01, 0x00})
	run := []byte{0x01, 0x00, 0x01} // 3 bytes in-phase from head 0, only 2 usable
	head, tail := adj(run)
	assert.Equal(t, 0, head)
	assert.Equal(t, 1, tail)
}
