package datatype

// Built-in identifiers for the registry's fixed set of scalar,
// byte-array, and string data types.
const (
	IDu8         = "u8"
	IDu16        = "u16"
	IDu16be      = "u16_be"
	IDu32        = "u32"
	IDu32be      = "u32_be"
	IDu64        = "u64"
	IDu64be      = "u64_be"
	IDi8         = "i8"
	IDi16        = "i16"
	IDi16be      = "i16_be"
	IDi32        = "i32"
	IDi32be      = "i32_be"
	IDi64        = "i64"
	IDi64be      = "i64_be"
	IDf32        = "f32"
	IDf32be      = "f32_be"
	IDf64        = "f64"
	IDf64be      = "f64_be"
	IDbool8      = "bool8"
	IDbool32     = "bool32"
	IDstringUTF8 = "string_utf8"
	IDbyteArray  = "byte_array"
)

var immediateSet = map[CompareTag]bool{
	CompareEqual: true, CompareNotEqual: true,
	CompareGreaterThan: true, CompareGreaterThanOrEqual: true,
	CompareLessThan: true, CompareLessThanOrEqual: true,
}

var relativeSet = map[CompareTag]bool{
	CompareChanged: true, CompareUnchanged: true,
	CompareIncreased: true, CompareDecreased: true,
}

var integerDeltaSet = map[CompareTag]bool{
	CompareIncreasedByX: true, CompareDecreasedByX: true,
	CompareMultipliedByX: true, CompareDividedByX: true,
	CompareModuloByX: true, CompareShiftLeftByX: true,
	CompareShiftRightByX: true, CompareLogicalAndByX: true,
	CompareLogicalOrByX: true, CompareLogicalXorByX: true,
}

var floatDeltaSet = map[CompareTag]bool{
	CompareIncreasedByX: true, CompareDecreasedByX: true,
	CompareMultipliedByX: true, CompareDividedByX: true,
	CompareModuloByX: true,
}

// byteArrayDeltaSet restricts byte-array delta support to the
// element-wise wrapping arithmetic family ("Byte-array
// scans define only Equal/NotEqual/Changed/Unchanged and element-wise
// wrapping delta ops").
var byteArrayDeltaSet = map[CompareTag]bool{
	CompareIncreasedByX: true, CompareDecreasedByX: true,
	CompareLogicalAndByX: true, CompareLogicalOrByX: true,
	CompareLogicalXorByX: true,
}

func union(sets ...map[CompareTag]bool) map[CompareTag]bool {
	out := map[CompareTag]bool{}
	for _, s := range sets {
		for k, v := range s {
			if v {
				out[k] = true
			}
		}
	}
	return out
}

func integerComparisons() map[CompareTag]bool {
	return union(immediateSet, relativeSet, integerDeltaSet)
}

func floatComparisons() map[CompareTag]bool {
	return union(immediateSet, relativeSet, floatDeltaSet)
}

func boolComparisons() map[CompareTag]bool {
	return union(map[CompareTag]bool{CompareEqual: true, CompareNotEqual: true}, relativeSet)
}

// byteArrayComparisons is intentionally narrow: byte arrays support
// only equality, changed/unchanged, ordering comparisons, and the
// delta forms in byteArrayDeltaSet — other operators are undefined and
// are rejected at plan time. Greater/Less
// forms are supported but use a non-standard
// "all-elements-greater/less" semantics (not lexicographic) documented
// on the comparison kernels themselves — see the open
// question, preserved here deliberately.
func byteArrayComparisons() map[CompareTag]bool {
	return union(map[CompareTag]bool{
		CompareEqual: true, CompareNotEqual: true,
		CompareGreaterThan: true, CompareGreaterThanOrEqual: true,
		CompareLessThan: true, CompareLessThanOrEqual: true,
		CompareChanged: true, CompareUnchanged: true,
	}, byteArrayDeltaSet)
}

var builtins map[string]*DataType

func init() {
	builtins = map[string]*DataType{}
	reg := func(dt *DataType) {
		builtins[dt.ID] = dt
	}

	intFormats := []DisplayFormat{FormatDecimal, FormatHexadecimal, FormatBinary, FormatAddress}
	floatFormats := []DisplayFormat{FormatDecimal, FormatHexadecimal}

	reg(&DataType{ID: IDu8, UnitSizeInBytes: 1, Kind: KindInteger, Signed: false, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu16, UnitSizeInBytes: 2, Kind: KindInteger, Signed: false, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu16be, UnitSizeInBytes: 2, Kind: KindInteger, Signed: false, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu32, UnitSizeInBytes: 4, Kind: KindInteger, Signed: false, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu32be, UnitSizeInBytes: 4, Kind: KindInteger, Signed: false, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu64, UnitSizeInBytes: 8, Kind: KindInteger, Signed: false, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDu64be, UnitSizeInBytes: 8, Kind: KindInteger, Signed: false, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})

	reg(&DataType{ID: IDi8, UnitSizeInBytes: 1, Kind: KindInteger, Signed: true, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi16, UnitSizeInBytes: 2, Kind: KindInteger, Signed: true, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi16be, UnitSizeInBytes: 2, Kind: KindInteger, Signed: true, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi32, UnitSizeInBytes: 4, Kind: KindInteger, Signed: true, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi32be, UnitSizeInBytes: 4, Kind: KindInteger, Signed: true, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi64, UnitSizeInBytes: 8, Kind: KindInteger, Signed: true, Endian: LittleEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})
	reg(&DataType{ID: IDi64be, UnitSizeInBytes: 8, Kind: KindInteger, Signed: true, Endian: BigEndian, Comparisons: integerComparisons(), DisplayFormats: intFormats})

	reg(&DataType{ID: IDf32, UnitSizeInBytes: 4, Kind: KindFloat, Signed: true, Endian: LittleEndian, Comparisons: floatComparisons(), DisplayFormats: floatFormats})
	reg(&DataType{ID: IDf32be, UnitSizeInBytes: 4, Kind: KindFloat, Signed: true, Endian: BigEndian, Comparisons: floatComparisons(), DisplayFormats: floatFormats})
	reg(&DataType{ID: IDf64, UnitSizeInBytes: 8, Kind: KindFloat, Signed: true, Endian: LittleEndian, Comparisons: floatComparisons(), DisplayFormats: floatFormats})
	reg(&DataType{ID: IDf64be, UnitSizeInBytes: 8, Kind: KindFloat, Signed: true, Endian: BigEndian, Comparisons: floatComparisons(), DisplayFormats: floatFormats})

	reg(&DataType{ID: IDbool8, UnitSizeInBytes: 1, Kind: KindBool, Signed: false, Endian: LittleEndian, Comparisons: boolComparisons(), DisplayFormats: []DisplayFormat{FormatDecimal}})
	reg(&DataType{ID: IDbool32, UnitSizeInBytes: 4, Kind: KindBool, Signed: false, Endian: LittleEndian, Comparisons: boolComparisons(), DisplayFormats: []DisplayFormat{FormatDecimal}})

	reg(&DataType{ID: IDstringUTF8, UnitSizeInBytes: 0, Kind: KindString, Variable: true, Endian: LittleEndian, Comparisons: byteArrayComparisons(), DisplayFormats: []DisplayFormat{FormatString}})
	reg(&DataType{ID: IDbyteArray, UnitSizeInBytes: 0, Kind: KindByteArray, Variable: true, Endian: LittleEndian, Comparisons: byteArrayComparisons(), DisplayFormats: []DisplayFormat{FormatHexadecimal}})
}

// lookupBuiltin returns the built-in DataType for id, or nil.
func lookupBuiltin(id string) *DataType {
	return builtins[id]
}
