package packet

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel values used in place of decoded data
const (
	// RawMissing is the RawHex of a field the buffer is too short for.
	RawMissing = "-"

	// InsufficientData is the Value of a field the buffer is too short for.
	InsufficientData = "<insufficient data>"

	// ShortValue is returned by the value interpreter for a slice shorter
	// than its kind needs. The field loop never passes one.
	ShortValue = "-"
)

// FieldResult is one decoded row of the packet table.
type FieldResult struct {
	Name   string `json:"name"`
	RawHex string `json:"raw"`
	Value  string `json:"value"`
}

// Available reports whether the field was present in the buffer.
func (r FieldResult) Available() bool {
	return r.RawHex != RawMissing
}

// Options tunes a decode call. The zero value decodes the canonical
// layout against the built-in model table.
type Options struct {
	Layout Layout
	Models ModelTable // merged over the built-in table when non-empty
}

func (o Options) models() ModelTable {
	if len(o.Models) == 0 {
		return builtinModels
	}
	return builtinModels.Merge(o.Models)
}

// Context carries the packet-wide values that field interpreters need.
type Context struct {
	Model Model
	Mask  string
}

// Normalize cleans a raw hex string and decodes it. The input is
// lower-cased, every "0x" is removed along with whitespace, and the rest
// must be an even number of hex digits.
func Normalize(raw string) ([]byte, error) {
	clean := strings.ToLower(raw)
	clean = strings.ReplaceAll(clean, "0x", "")
	clean = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, clean)

	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, &MalformedHexError{Input: raw, Cleaned: clean, Err: err}
	}
	return data, nil
}

// Decode decodes a hex-encoded packet using the canonical layout and the
// built-in model table.
func Decode(raw string) (Table, error) {
	return DecodeWith(raw, Options{})
}

// DecodeLayout decodes a hex-encoded packet using the given layout.
func DecodeLayout(raw string, layout Layout) (Table, error) {
	return DecodeWith(raw, Options{Layout: layout})
}

// DecodeWith decodes a hex-encoded packet. The only error is
// *MalformedHexError, in which case the table is nil.
func DecodeWith(raw string, opts Options) (Table, error) {
	data, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return DecodeBytesWith(data, opts), nil
}

// DecodeBytes decodes a packet buffer using the canonical layout.
func DecodeBytes(data []byte) Table {
	return DecodeBytesWith(data, Options{})
}

// DecodeBytesLayout decodes a packet buffer using the given layout.
func DecodeBytesLayout(data []byte, layout Layout) Table {
	return DecodeBytesWith(data, Options{Layout: layout})
}

// DecodeBytesWith runs the field loop over data. It never fails: fields
// that do not fit in data are reported with sentinel values, and the
// result always holds FieldCount rows in canonical order.
func DecodeBytesWith(data []byte, opts Options) Table {
	layout := opts.Layout
	ctx := Context{
		Model: opts.models().Lookup(byteAt(data, layout.Offset+ModelOffset)),
		Mask:  MaskString(byteAt(data, layout.Offset+MaskOffset)),
	}

	table := make(Table, 0, len(fieldTable))
	for _, spec := range fieldTable {
		pos := layout.shift(spec)
		if pos.Start < 0 || len(data) < pos.End {
			table = append(table, FieldResult{
				Name:   spec.Name,
				RawHex: RawMissing,
				Value:  InsufficientData,
			})
			continue
		}

		b := data[pos.Start:pos.End]
		table = append(table, FieldResult{
			Name:   spec.Name,
			RawHex: "0x" + upperHex(b),
			Value:  Interpret(spec, b, ctx),
		})
	}
	return table
}

// Interpret renders the bytes of one field. A field that needs bytes and
// gets none renders as ShortValue.
func Interpret(spec FieldSpec, b []byte, ctx Context) string {
	switch spec.Kind {
	case KindDecimal, KindTemperature, KindPercent:
		if len(b) == 0 {
			return ShortValue
		}
	}

	switch spec.Kind {
	case KindDecimal:
		return strconv.Itoa(int(b[0]))
	case KindHex:
		return upperHex(b) + " (hex)"
	case KindModel:
		return ctx.Model.Name
	case KindTemperature:
		return strconv.Itoa(int(b[0])) + " °C"
	case KindPercent:
		return strconv.Itoa(int(b[0])) + " %"
	case KindMask:
		return ctx.Mask
	case KindValue:
		return interpretValue(b, spec.Index, ctx)
	default:
		panic(fmt.Sprintf("packet: field %q has unhandled kind %v", spec.Name, spec.Kind))
	}
}

// interpretValue decodes a signed little-endian value scaled by 100.
func interpretValue(b []byte, index int, ctx Context) string {
	if len(b) < ValueSize {
		return ShortValue
	}
	raw := int32(binary.LittleEndian.Uint32(b[:ValueSize]))
	s := FormatScaled(raw)
	if MaskBitSet(ctx.Mask, index) {
		return s + " " + ctx.Model.Unit
	}
	return s
}

// FormatScaled formats a raw value as hundredths with two decimals.
func FormatScaled(raw int32) string {
	return strconv.FormatFloat(float64(raw)/100, 'f', 2, 64)
}

// MaskString renders the low six bits of b as binary, MSB first.
func MaskString(b byte) string {
	return fmt.Sprintf("%06b", b&MaskBits)
}

// MaskBitSet reports whether the flag for value index (1-based) is set in
// a mask string. The flag of value_1 is the last character.
func MaskBitSet(mask string, index int) bool {
	if index < 1 || index > len(mask) {
		return false
	}
	return mask[len(mask)-index] == '1'
}

// byteAt returns data[i], or 0x00 when data is too short.
func byteAt(data []byte, i int) byte {
	if i < 0 || i >= len(data) {
		return 0x00
	}
	return data[i]
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
