// See doc.go for documentation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/log"

	"github.com/squalr-core/scanengine/compare"
	"github.com/squalr-core/scanengine/datatype"
	"github.com/squalr-core/scanengine/dispatch"
	"github.com/squalr-core/scanengine/memquery"
	"github.com/squalr-core/scanengine/planner"
	"github.com/squalr-core/scanengine/session"
	"github.com/squalr-core/scanengine/value"
)

var (
	size        = flag.Int("size", 64*1024, "Size in bytes of the synthetic buffer to scan")
	typeID      = flag.String("type", datatype.IDu32, "Scalar data type to scan (u8, u16, u32, u64, i8, i16, i32, i64, f32, f64)")
	modulus     = flag.Int("modulus", 5, "The buffer is seeded with a repeating 0..modulus-1 counter, one value per unit stride")
	valueFlag   = flag.String("value", "1", "Decimal immediate the first scan searches for with Equal")
	next        = flag.String("next", "", "Second-pass constraint: a decimal immediate (Equal), or one of changed/unchanged/increased/decreased; empty skips the second pass")
	parallelism = flag.Int("parallelism", 0, "Filters processed concurrently per collection; 0 = runtime.NumCPU()")
	validate    = flag.Bool("validate", false, "Shadow every specialized kernel result against the scalar kernel and a purity checksum")
)

func scanbenchUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = scanbenchUsage
	flag.Parse()

	reg := datatype.New(compare.NewProvider())
	ref := datatype.NewScalarRef(*typeID)
	dt := reg.Get(*typeID)
	if dt == nil || dt.Variable {
		log.Fatalf("scanbench: %q is not a scalar data type", *typeID)
	}
	alignment := datatype.DefaultAlignment(dt)

	buf := seedBuffer(dt.UnitSizeInBytes, *size, *modulus)

	fake := memquery.NewFake()
	fake.AddPage(memquery.Region{Base: 0x10000, Size: len(buf), Protection: memquery.ProtectRead | memquery.ProtectWrite}, buf)

	par := *parallelism
	if par < 1 {
		par = runtime.NumCPU()
	}
	d := &dispatch.Dispatcher{
		Registry:    reg,
		Plans:       planner.NewCache(reg),
		Parallelism: par,
		Validate:    *validate,
		Strict:      *validate,
	}
	coord := session.NewCoordinator(reg, fake, d)
	coord.OnUpdate = func(u session.ScanResultsUpdated) {
		log.Printf("scanbench: scan complete, %d region(s), %d surviving filter(s)", u.RegionCount, u.TotalFilterCount)
	}

	ctx := context.Background()
	if err := coord.Attach(ctx, memquery.FakeProcess{Pid: os.Getpid()}); err != nil {
		log.Fatalf("scanbench: attach: %v", err)
	}
	defer coord.Detach() // nolint: errcheck

	firstConstraint, err := immediateConstraint(reg, ref, *valueFlag)
	if err != nil {
		log.Fatalf("scanbench: parsing -value: %v", err)
	}
	if err := coord.NewScan(ctx, ref, alignment, []dispatch.Constraint{firstConstraint}); err != nil {
		log.Fatalf("scanbench: new scan: %v", err)
	}
	fmt.Printf("new scan:  %d surviving filter(s)\n", coord.Snapshot().TotalFilterCount())
	if err := coord.LastScanReadErrors(); err != nil {
		log.Printf("scanbench: some regions were dropped: %v", err)
	}

	if *next == "" {
		return
	}
	nextConstraint, err := parseNextConstraint(reg, ref, *next)
	if err != nil {
		log.Fatalf("scanbench: parsing -next: %v", err)
	}
	if err := coord.NextScan(ctx, []dispatch.Constraint{nextConstraint}); err != nil {
		log.Fatalf("scanbench: next scan: %v", err)
	}
	fmt.Printf("next scan: %d surviving filter(s)\n", coord.Snapshot().TotalFilterCount())
}

// seedBuffer fills a unitSize*count-aligned buffer with a repeating
// 0..modulus-1 counter, one value per unit stride, so an Equal scan for
// any value in [0, modulus) has roughly size/modulus/unitSize hits.
func seedBuffer(unitSize, size, modulus int) []byte {
	if modulus < 1 {
		modulus = 1
	}
	count := size / unitSize
	buf := make([]byte, count*unitSize)
	for i := 0; i < count; i++ {
		n := uint64(i % modulus)
		off := i * unitSize
		for b := 0; b < unitSize; b++ {
			buf[off+b] = byte(n >> (8 * uint(b)))
		}
	}
	return buf
}

func immediateConstraint(reg *datatype.Registry, ref datatype.DataTypeRef, text string) (dispatch.Constraint, error) {
	av := value.NewAnonymous(value.FormatDecimal, text)
	dv, err := value.Deanonymize(reg, ref, av)
	if err != nil {
		return dispatch.Constraint{}, err
	}
	return dispatch.Constraint{Tag: datatype.CompareEqual, Immediate: dv.Bytes}, nil
}

func parseNextConstraint(reg *datatype.Registry, ref datatype.DataTypeRef, text string) (dispatch.Constraint, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "changed":
		return dispatch.Constraint{Tag: datatype.CompareChanged}, nil
	case "unchanged":
		return dispatch.Constraint{Tag: datatype.CompareUnchanged}, nil
	case "increased":
		return dispatch.Constraint{Tag: datatype.CompareIncreased}, nil
	case "decreased":
		return dispatch.Constraint{Tag: datatype.CompareDecreased}, nil
	default:
		return immediateConstraint(reg, ref, text)
	}
}
