package compare

import (
	"github.com/squalr-core/scanengine/datatype"
)

// Provider implements datatype.KernelProvider, the capability-set
// contract a Registry delegates to. It holds no state: every
// ScalarCompareFn/VectorCompareFn it returns is a pure closure over
// its params,.
type Provider struct{}

// NewProvider constructs the comparison kernel library's provider.
// Wire it in with datatype.New(compare.NewProvider()).
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) ScalarCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.ScalarParams) (datatype.ScalarCompareFn, bool) {
	return scalarCompareFnFor(dt, tag, params)
}

func (p *Provider) VectorCompareFn(dt *datatype.DataType, tag datatype.CompareTag, params datatype.VectorParams, lanes int) (datatype.VectorCompareFn, bool) {
	return vectorCompareFn(dt, tag, params, lanes)
}
