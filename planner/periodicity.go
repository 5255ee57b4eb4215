package planner

// Periodicity returns the smallest p in {1, 2, 4, 8} such that p <=
// len(immediate) and immediate[i] == immediate[i%p] for every i.
// unitSize is always one
// of {1,2,4,8} for the discrete types this is called for, and p==
// unitSize is always a trivially satisfying fallback (every byte
// equals itself at i%unitSize==i), so this never returns 0.
func Periodicity(immediate []byte, unitSize int) int {
	for _, p := range []int{1, 2, 4, 8} {
		if p > unitSize {
			break
		}
		if hasPeriod(immediate[:unitSize], p) {
			return p
		}
	}
	return unitSize
}

func hasPeriod(b []byte, p int) bool {
	for i := range b {
		if b[i] != b[i%p] {
			return false
		}
	}
	return true
}
