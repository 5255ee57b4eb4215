package datatype

import "errors"

// ErrInvalidDataTypeRef is the sentinel behind the InvalidDataTypeRef
// error kind: a DataTypeRef whose identifier is not registered, or
// whose metadata is inconsistent with its kind. Registry.ValidateRef
// (whose error the planner returns unchanged) and value.Serialize wrap
// it with fmt.Errorf("...: %w", ...) so callers can test with
// errors.Is(err, datatype.ErrInvalidDataTypeRef). The planner's own
// unsupported-comparison errors are grailbio errors.E values instead.
var ErrInvalidDataTypeRef = errors.New("invalid data type reference")
