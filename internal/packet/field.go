package packet

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects how a field's bytes are interpreted.
type Kind int

const (
	KindDecimal     Kind = iota // single byte as decimal
	KindHex                     // uppercase hex with " (hex)" suffix
	KindModel                   // model table lookup
	KindTemperature             // decimal with " °C" suffix
	KindPercent                 // decimal with " %" suffix
	KindMask                    // value mask as 6 binary digits
	KindValue                   // int32 LE / 100, unit when the mask flag is set
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindHex:
		return "hex"
	case KindModel:
		return "model"
	case KindTemperature:
		return "temperature"
	case KindPercent:
		return "percent"
	case KindMask:
		return "mask"
	case KindValue:
		return "value"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field names in canonical order
const (
	FieldLength      = "length"
	FieldManufacture = "manufacture"
	FieldCompany     = "company"
	FieldStructVer   = "struct_ver"
	FieldModel       = "model"
	FieldError       = "error"
	FieldErrorInfo   = "error_info"
	FieldMCUTemp     = "mcu_temp"
	FieldBattery     = "battery"
	FieldValueMask   = "value_mask"
)

// Byte offsets used outside the field loop
const (
	ModelOffset = 5
	MaskOffset  = 10
	ValueSize   = 4
	ValueCount  = 6

	// MaskBits keeps the six value flags of the mask byte.
	MaskBits = 0x3F
)

// FieldSpec describes one offset-delimited region of the packet.
// End is exclusive. Index is the 1-based value number for KindValue
// fields and zero otherwise.
type FieldSpec struct {
	Name  string
	Start int
	End   int
	Kind  Kind
	Index int
}

// Len returns the number of bytes the field spans.
func (s FieldSpec) Len() int {
	return s.End - s.Start
}

// fieldTable is the canonical layout. It is never modified.
var fieldTable = []FieldSpec{
	{Name: FieldLength, Start: 0, End: 1, Kind: KindDecimal},
	{Name: FieldManufacture, Start: 1, End: 2, Kind: KindHex},
	{Name: FieldCompany, Start: 2, End: 4, Kind: KindHex},
	{Name: FieldStructVer, Start: 4, End: 5, Kind: KindHex},
	{Name: FieldModel, Start: 5, End: 6, Kind: KindModel},
	{Name: FieldError, Start: 6, End: 7, Kind: KindHex},
	{Name: FieldErrorInfo, Start: 7, End: 8, Kind: KindHex},
	{Name: FieldMCUTemp, Start: 8, End: 9, Kind: KindTemperature},
	{Name: FieldBattery, Start: 9, End: 10, Kind: KindPercent},
	{Name: FieldValueMask, Start: 10, End: 11, Kind: KindMask},
	{Name: ValueFieldName(1), Start: 11, End: 15, Kind: KindValue, Index: 1},
	{Name: ValueFieldName(2), Start: 15, End: 19, Kind: KindValue, Index: 2},
	{Name: ValueFieldName(3), Start: 19, End: 23, Kind: KindValue, Index: 3},
	{Name: ValueFieldName(4), Start: 23, End: 27, Kind: KindValue, Index: 4},
	{Name: ValueFieldName(5), Start: 27, End: 31, Kind: KindValue, Index: 5},
	{Name: ValueFieldName(6), Start: 31, End: 35, Kind: KindValue, Index: 6},
}

// FieldCount is the number of rows every decode produces.
var FieldCount = len(fieldTable)

// Fields returns a copy of the canonical field table.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// ValueFieldName returns the field name of value n (1-based).
func ValueFieldName(n int) string {
	return fmt.Sprintf("value_%d", n)
}

// ValueIndex returns the 1-based value number encoded in a field name such
// as "value_3". ok is false for any other name.
func ValueIndex(name string) (n int, ok bool) {
	digits, found := strings.CutPrefix(name, "value_")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > ValueCount || name != ValueFieldName(n) {
		return 0, false
	}
	return n, true
}

// Layout positions the payload inside the buffer handed to the decoder.
type Layout struct {
	Name   string
	Offset int // bytes preceding the payload
}

// Predefined layouts.
var (
	// LayoutCanonical expects the payload to start at byte 0.
	LayoutCanonical = Layout{Name: "canonical", Offset: 0}

	// LayoutAdvertising skips a three byte advertising structure
	// preamble in front of the payload.
	LayoutAdvertising = Layout{Name: "advertising", Offset: 3}
)

// Layouts lists the predefined layouts.
func Layouts() []Layout {
	return []Layout{LayoutCanonical, LayoutAdvertising}
}

// LayoutByName returns the predefined layout with the given name.
func LayoutByName(name string) (Layout, error) {
	for _, l := range Layouts() {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("unknown layout %q (expected canonical or advertising)", name)
}

// shift returns s moved by the layout offset.
func (l Layout) shift(s FieldSpec) FieldSpec {
	s.Start += l.Offset
	s.End += l.Offset
	return s
}
