package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/squalr-core/scanengine/datatype"
)

// Deanonymize parses av.Text according to av.Format and packs it into
// the byte layout ref's registered DataType requires. It is
// registry-directed: the target type's signedness,
// endianness, and unit size all come from reg, never from the
// AnonymousValue itself.
func Deanonymize(reg *datatype.Registry, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	if err := reg.ValidateRef(ref); err != nil {
		return datatype.DataValue{}, err
	}
	dt := reg.Get(ref.ID)

	switch dt.Kind {
	case datatype.KindByteArray:
		return deanonymizeByteArray(reg, ref, av)
	case datatype.KindString:
		return deanonymizeString(reg, ref, av)
	case datatype.KindBool:
		return deanonymizeBool(dt, ref, av)
	case datatype.KindFloat:
		return deanonymizeFloat(dt, ref, av)
	default:
		return deanonymizeInteger(dt, ref, av)
	}
}

func bigEndian(dt *datatype.DataType) bool { return dt.Endian == datatype.BigEndian }

func putUint(dt *datatype.DataType, buf []byte, v uint64) {
	if bigEndian(dt) {
		switch dt.UnitSizeInBytes {
		case 2:
			binary.BigEndian.PutUint16(buf, uint16(v))
		case 4:
			binary.BigEndian.PutUint32(buf, uint32(v))
		case 8:
			binary.BigEndian.PutUint64(buf, v)
		default:
			buf[0] = byte(v)
		}
		return
	}
	switch dt.UnitSizeInBytes {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	default:
		buf[0] = byte(v)
	}
}

func deanonymizeInteger(dt *datatype.DataType, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	text := strings.TrimSpace(av.Text)
	bits := dt.UnitSizeInBytes * 8

	var raw uint64
	var err error
	switch av.Format {
	case FormatDecimal:
		if dt.Signed {
			var s int64
			s, err = strconv.ParseInt(text, 10, bits)
			raw = uint64(s)
		} else {
			raw, err = strconv.ParseUint(text, 10, bits)
		}
	case FormatHexadecimal, FormatAddress:
		raw, err = strconv.ParseUint(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, bits)
	case FormatBinary:
		raw, err = strconv.ParseUint(strings.TrimPrefix(text, "0b"), 2, bits)
	default:
		return datatype.DataValue{}, &ParseError{Reason: ReasonTypeMismatch, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	if err != nil {
		reason := ReasonBadFormat
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			reason = ReasonOutOfRange
		}
		return datatype.DataValue{}, &ParseError{Reason: reason, Format: av.Format, Target: ref.ID, Text: av.Text}
	}

	buf := make([]byte, dt.UnitSizeInBytes)
	putUint(dt, buf, raw)
	return datatype.DataValue{Ref: ref, Bytes: buf}, nil
}

func deanonymizeFloat(dt *datatype.DataType, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	if av.Format != FormatDecimal {
		return datatype.DataValue{}, &ParseError{Reason: ReasonTypeMismatch, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(av.Text), dt.UnitSizeInBytes*8)
	if err != nil {
		return datatype.DataValue{}, &ParseError{Reason: ReasonBadFormat, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	buf := make([]byte, dt.UnitSizeInBytes)
	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian(dt) {
		order = binary.BigEndian
	}
	if dt.UnitSizeInBytes == 4 {
		order.PutUint32(buf, math.Float32bits(float32(f)))
	} else {
		order.PutUint64(buf, math.Float64bits(f))
	}
	return datatype.DataValue{Ref: ref, Bytes: buf}, nil
}

func deanonymizeBool(dt *datatype.DataType, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	text := strings.ToLower(strings.TrimSpace(av.Text))
	var b bool
	switch text {
	case "true", "1":
		b = true
	case "false", "0":
		b = false
	default:
		return datatype.DataValue{}, &ParseError{Reason: ReasonBadFormat, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	buf := make([]byte, dt.UnitSizeInBytes)
	if b {
		buf[0] = 1
	}
	return datatype.DataValue{Ref: ref, Bytes: buf}, nil
}

func deanonymizeString(reg *datatype.Registry, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	if av.Format != FormatString {
		return datatype.DataValue{}, &ParseError{Reason: ReasonTypeMismatch, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	text := av.Text
	if strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	want := ref.Metadata.StringLength
	raw := []byte(text)
	if len(raw) > want {
		return datatype.DataValue{}, &ParseError{Reason: ReasonOutOfRange, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	buf := make([]byte, want)
	copy(buf, raw)
	return datatype.DataValue{Ref: ref, Bytes: buf}, nil
}

func deanonymizeByteArray(reg *datatype.Registry, ref datatype.DataTypeRef, av AnonymousValue) (datatype.DataValue, error) {
	if av.Format != FormatBinary && av.Format != FormatHexadecimal {
		// byte-array literals are whitespace-separated hex octets;
		// the declared format may be binary, hexadecimal or
		// data-type-ref, since callers may tag free-form
		// "DE AD BE EF" text as any of them.
		if av.Format != FormatDataTypeRef {
			return datatype.DataValue{}, &ParseError{Reason: ReasonTypeMismatch, Format: av.Format, Target: ref.ID, Text: av.Text}
		}
	}
	fields := strings.Fields(av.Text)
	want := ref.Metadata.ContainerLength
	if len(fields) != want {
		return datatype.DataValue{}, &ParseError{Reason: ReasonOutOfRange, Format: av.Format, Target: ref.ID, Text: av.Text}
	}
	buf := make([]byte, want)
	for i, f := range fields {
		b, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 8)
		if err != nil {
			return datatype.DataValue{}, &ParseError{Reason: ReasonBadFormat, Format: av.Format, Target: ref.ID, Text: av.Text}
		}
		buf[i] = byte(b)
	}
	return datatype.DataValue{Ref: ref, Bytes: buf}, nil
}

// Serialize renders dv back into the textual format given, the
// inverse of Deanonymize — used to check the round-trip invariant.
func Serialize(reg *datatype.Registry, dv datatype.DataValue, format Format) (string, error) {
	dt := reg.Get(dv.Ref.ID)
	if dt == nil {
		return "", fmt.Errorf("value: %w: %q", datatype.ErrInvalidDataTypeRef, dv.Ref.ID)
	}
	switch dt.Kind {
	case datatype.KindByteArray:
		parts := make([]string, len(dv.Bytes))
		for i, b := range dv.Bytes {
			parts[i] = fmt.Sprintf("%02X", b)
		}
		return strings.Join(parts, " "), nil
	case datatype.KindString:
		return fmt.Sprintf("%q", strings.TrimRight(string(dv.Bytes), "\x00")), nil
	case datatype.KindBool:
		if dv.Bytes[0] != 0 {
			return "true", nil
		}
		return "false", nil
	case datatype.KindFloat:
		order := binary.ByteOrder(binary.LittleEndian)
		if bigEndian(dt) {
			order = binary.BigEndian
		}
		if dt.UnitSizeInBytes == 4 {
			return strconv.FormatFloat(float64(math.Float32frombits(order.Uint32(dv.Bytes))), 'g', -1, 32), nil
		}
		return strconv.FormatFloat(math.Float64frombits(order.Uint64(dv.Bytes)), 'g', -1, 64), nil
	default:
		return serializeInteger(dt, dv, format)
	}
}

func readUint(dt *datatype.DataType, b []byte) uint64 {
	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian(dt) {
		order = binary.BigEndian
	}
	switch dt.UnitSizeInBytes {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}

func serializeInteger(dt *datatype.DataType, dv datatype.DataValue, format Format) (string, error) {
	raw := readUint(dt, dv.Bytes)
	switch format {
	case FormatHexadecimal, FormatAddress:
		return fmt.Sprintf("0x%x", raw), nil
	case FormatBinary:
		return fmt.Sprintf("0b%b", raw), nil
	default:
		if dt.Signed {
			return strconv.FormatInt(signExtend(raw, dt.UnitSizeInBytes*8), 10), nil
		}
		return strconv.FormatUint(raw, 10), nil
	}
}

func signExtend(raw uint64, bits int) int64 {
	shift := 64 - bits
	return int64(raw<<shift) >> shift
}
