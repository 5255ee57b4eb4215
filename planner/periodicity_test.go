package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicityAllSame(t *testing.T) {
	assert.Equal(t, 1, Periodicity([]byte{9, 9, 9, 9}, 4))
}

func TestPeriodicityTwoByte(t *testing.T) {
	assert.Equal(t, 2, Periodicity([]byte{1, 2, 1, 2}, 4))
}

func TestPeriodicityFourByte(t *testing.T) {
	assert.Equal(t, 4, Periodicity([]byte{1, 2, 3, 4}, 4))
}

func TestPeriodicityEightByteFallsBackToUnitSize(t *testing.T) {
	assert.Equal(t, 8, Periodicity([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 8))
}

func TestPeriodicitySmallUnitSize(t *testing.T) {
	assert.Equal(t, 1, Periodicity([]byte{5}, 1))
}
