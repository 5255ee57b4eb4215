// Package datatype implements the scan engine's data type registry: the
// closed set of built-in primitive and composite types that values in a
// target process can be interpreted as, along with the metadata (size,
// signedness, endianness, supported comparisons and display formats)
// needed by the rest of the engine to plan and execute a scan.
package datatype

// Endianness describes the byte order a DataType's bytes are stored in.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

// DisplayFormat is a textual rendering a DataType may support for its
// values. Not every type supports every format (e.g. a float has no
// binary rendering).
type DisplayFormat uint8

const (
	FormatDecimal DisplayFormat = iota
	FormatHexadecimal
	FormatBinary
	FormatAddress
	FormatString
)

// Kind distinguishes the broad families of built-in type, used by the
// planner to decide whether periodicity-based vectorization applies.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindBool
	KindString
	KindByteArray
)

// DataType is a uniquely identified value kind. Built-in instances are
// registered once at package init and never mutated afterward, so they
// may be read without synchronization from any number of concurrent
// scan workers.
type DataType struct {
	// ID is the type's unique identifier, e.g. "u32" or "f64_be".
	ID string
	// UnitSizeInBytes is the fixed size of one element of this type.
	// Zero for variable-length types (string, byte array), whose actual
	// size is carried per-value by DataTypeRef metadata.
	UnitSizeInBytes int
	Kind            Kind
	Signed          bool
	Endian          Endianness
	// Comparisons is the set of ScanCompareType tags this type supports.
	// Membership here is what the registry's *_fn factories consult to
	// decide whether to return a kernel or none.
	Comparisons map[CompareTag]bool
	// DisplayFormats lists the textual renderings supported for values
	// of this type.
	DisplayFormats []DisplayFormat
	// Variable is true for types whose size is not implied by ID alone
	// (string, byte array) and must be supplied by a DataTypeRef's
	// metadata.
	Variable bool
}

// CompareTag names one member of the ScanCompareType union.
// It is deliberately a flat tag rather than three separate enums (one
// per family) because the registry's capability-set lookup keys on a
// single flat identifier, matching the closure-table design in
// original_source's symbol_registry.rs.
type CompareTag uint8

const (
	CompareEqual CompareTag = iota
	CompareNotEqual
	CompareGreaterThan
	CompareGreaterThanOrEqual
	CompareLessThan
	CompareLessThanOrEqual

	CompareChanged
	CompareUnchanged
	CompareIncreased
	CompareDecreased

	CompareIncreasedByX
	CompareDecreasedByX
	CompareMultipliedByX
	CompareDividedByX
	CompareModuloByX
	CompareShiftLeftByX
	CompareShiftRightByX
	CompareLogicalAndByX
	CompareLogicalOrByX
	CompareLogicalXorByX
)

// Family reports which of the three ScanCompareType families a tag
// belongs to.
type Family uint8

const (
	FamilyImmediate Family = iota
	FamilyRelative
	FamilyDelta
)

func (c CompareTag) Family() Family {
	switch {
	case c <= CompareLessThanOrEqual:
		return FamilyImmediate
	case c <= CompareDecreased:
		return FamilyRelative
	default:
		return FamilyDelta
	}
}

// Tolerance is a floating-point equality/delta tolerance, one of six
// fixed choices.
type Tolerance float64

const (
	Tolerance1e1 Tolerance = 1e-1
	Tolerance1e2 Tolerance = 1e-2
	Tolerance1e3 Tolerance = 1e-3
	Tolerance1e4 Tolerance = 1e-4
	Tolerance1e5 Tolerance = 1e-5
	// ToleranceEpsilon uses machine epsilon for float32/float64
	// comparisons; the kernel picks the right epsilon for its element
	// width.
	ToleranceEpsilon Tolerance = 0
)

// MemoryAlignment is the candidate-address stride, one of {1,2,4,8}.
type MemoryAlignment uint8

const (
	Align1 MemoryAlignment = 1
	Align2 MemoryAlignment = 2
	Align4 MemoryAlignment = 4
	Align8 MemoryAlignment = 8
)

// DefaultAlignment returns the alignment equal to the type's unit size,
// which is the default ("Default equals the data type's
// unit size").
func DefaultAlignment(dt *DataType) MemoryAlignment {
	switch dt.UnitSizeInBytes {
	case 1:
		return Align1
	case 2:
		return Align2
	case 4:
		return Align4
	case 8:
		return Align8
	default:
		// Variable-length types (string, byte array) default to
		// byte-granular alignment; the planner treats them specially.
		return Align1
	}
}
