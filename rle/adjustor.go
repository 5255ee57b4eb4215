package rle

// NewPeriodicRangeAdjustor builds the RangeAdjustor an overlapping
// periodic/staggered kernel passes to its Encoder. Such kernels flag a
// byte as a "hit" whenever it matches the immediate's repeating
// pattern at *any* phase, so a matched run can start up to
// periodicity-1 bytes before the first address that is actually a
// whole, unit_size-aligned element. The adjustor finds the smallest
// head trim that puts the run in phase with immediate, then trims the
// tail down to a whole number of unitSize-byte elements.
//
// Worked example: immediate = {0x01, 0x00},
// periodicity 2, unitSize 2, run = {0x00, 0x01, 0x00, 0x01, 0x00} (5
// bytes). Phase 0 fails (run[0]=0x00 != immediate[0]=0x01); phase 1
// succeeds for the whole run, leaving 4 usable bytes (already a
// multiple of unitSize) — head trim 1, tail trim 0.
func NewPeriodicRangeAdjustor(periodicity, unitSize int, immediate []byte) RangeAdjustor {
	return func(run []byte) (int, int) {
		for h := 0; h < periodicity && h < len(run); h++ {
			if len(run)-h < unitSize {
				continue
			}
			if !inPhase(run, h, immediate, periodicity) {
				continue
			}
			usable := len(run) - h
			usable -= usable % unitSize
			return h, len(run) - h - usable
		}
		// No phase offset recovers a whole element; drop the run
		// entirely rather than emit a misaligned filter.
		return len(run), 0
	}
}

func inPhase(run []byte, head int, immediate []byte, periodicity int) bool {
	for i := head; i < len(run); i++ {
		if run[i] != immediate[(i-head)%periodicity] {
			return false
		}
	}
	return true
}
