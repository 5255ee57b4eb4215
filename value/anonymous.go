// Package value implements anonymous (untyped, user-typed) literals
// and their deanonymization into registry-validated DataValues, using
// a textual format tag to pick the parse.
package value

import (
	"fmt"
)

// Format names the syntax an AnonymousValue's Text is written in.
type Format uint8

const (
	FormatBool Format = iota
	FormatString
	FormatBinary
	FormatDecimal
	FormatHexadecimal
	FormatAddress
	FormatDataTypeRef
	FormatEnumeration
)

// AnonymousValue is an untyped literal: a format tag plus the raw text
// the user typed. It carries no notion of which DataType it will
// ultimately be interpreted as — that binding happens in Deanonymize.
type AnonymousValue struct {
	Format Format
	Text   string
}

// ParseError is a structured parse failure: it
// distinguishes a malformed literal from one that parsed but doesn't
// fit the target type from one whose format simply cannot produce the
// target kind.
type ParseError struct {
	Reason ParseErrorReason
	Format Format
	Target string
	Text   string
}

// ParseErrorReason classifies why deanonymization failed.
type ParseErrorReason uint8

const (
	ReasonBadFormat ParseErrorReason = iota
	ReasonOutOfRange
	ReasonTypeMismatch
)

func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonBadFormat:
		return fmt.Sprintf("value: %q is not a valid %v literal", e.Text, e.Format)
	case ReasonOutOfRange:
		return fmt.Sprintf("value: %q is out of range for %s", e.Text, e.Target)
	default:
		return fmt.Sprintf("value: format %v cannot produce type %s", e.Format, e.Target)
	}
}

func (f Format) String() string {
	switch f {
	case FormatBool:
		return "bool"
	case FormatString:
		return "string"
	case FormatBinary:
		return "binary"
	case FormatDecimal:
		return "decimal"
	case FormatHexadecimal:
		return "hexadecimal"
	case FormatAddress:
		return "address"
	case FormatDataTypeRef:
		return "data-type-ref"
	case FormatEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// NewAnonymous constructs an AnonymousValue. It performs no parsing;
// Deanonymize does.
func NewAnonymous(format Format, text string) AnonymousValue {
	return AnonymousValue{Format: format, Text: text}
}
