package datatype

// RefMetadata carries the extra information a DataTypeRef needs
// beyond its identifier so that references survive serialization even
// as the registry's set of registered types changes — a DataTypeRef
// is a string id, never a pointer into the registry, so cyclic or
// stale references can't dangle.
type RefMetadata struct {
	// ContainerLength is the element count for byte_array refs.
	ContainerLength int
	// StringLength is the byte length for string_utf8 refs.
	StringLength int
	// StringEncoding names the text encoding for string refs (only
	// "utf8" is implemented; the field exists so additional encodings
	// can be added without changing the DataTypeRef shape).
	StringEncoding string
}

// DataTypeRef is a serializable reference to a DataType: an
// identifier plus whatever metadata that identifier's kind requires.
// A DataTypeRef whose ID is not registered is simply invalid; every
// registry query on it fails cleanly (returns zero values / errors)
// rather than panicking, since the registry's set of registered types
// can change while references to it are still held.
type DataTypeRef struct {
	ID       string
	Metadata RefMetadata
}

// NewScalarRef builds a ref to one of the built-in fixed-size types.
func NewScalarRef(id string) DataTypeRef {
	return DataTypeRef{ID: id}
}

// NewByteArrayRef builds a ref to a fixed-length byte array.
func NewByteArrayRef(length int) DataTypeRef {
	return DataTypeRef{ID: IDbyteArray, Metadata: RefMetadata{ContainerLength: length}}
}

// NewStringRef builds a ref to a fixed-length UTF-8 string.
func NewStringRef(length int) DataTypeRef {
	return DataTypeRef{ID: IDstringUTF8, Metadata: RefMetadata{StringLength: length, StringEncoding: "utf8"}}
}

// SymbolicStructDefinition describes a composite (user-registered)
// type as an ordered sequence of named fields, each itself a
// DataTypeRef. Composite types do not participate in comparison
// kernels directly — a scan targets a single field's ref — but the
// registry tracks them so tools built on the engine can resolve
// "struct.field" style paths outside the core (out of scope here; see
// the pointer-path-resolution Non-goal).
type SymbolicStructDefinition struct {
	Name   string
	Fields []StructField
}

// StructField is one member of a SymbolicStructDefinition.
type StructField struct {
	Name       string
	Ref        DataTypeRef
	ByteOffset int
}

// SizeInBytes returns the total size of the struct, assuming fields do
// not overlap, or -1 if any field's ref cannot be sized (variable
// length without metadata, or unregistered).
func (s *SymbolicStructDefinition) SizeInBytes(reg *Registry) int {
	max := 0
	for _, f := range s.Fields {
		sz := reg.UnitSizeInBytes(f.Ref)
		if sz <= 0 {
			return -1
		}
		end := f.ByteOffset + sz
		if end > max {
			max = end
		}
	}
	return max
}
