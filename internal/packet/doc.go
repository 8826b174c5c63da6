// Package packet decodes the ARX.AT sensor advertisement packet.
//
// ARX.AT modules broadcast a fixed-layout manufacturer payload carrying the
// module model, status bytes and up to six signed measurement values. This
// package turns that payload, given as a hex string or as raw bytes, into an
// ordered table of 16 annotated fields.
//
// # Packet Layout
//
// Offsets are relative to the start of the payload (see Layout):
//
//	offset  size  field        interpretation
//	0       1     length       decimal
//	1       1     manufacture  hex
//	2       2     company      hex
//	4       1     struct_ver   hex
//	5       1     model        model table lookup (also selects the unit)
//	6       1     error        hex
//	7       1     error_info   hex
//	8       1     mcu_temp     decimal °C
//	9       1     battery      decimal %
//	10      1     value_mask   low 6 bits as binary, MSB first
//	11..34  4x6   value_1..6   int32 little-endian / 100
//
// Bit i-1 of the value mask marks value_i as active. Active values are
// suffixed with the unit of the resolved model.
//
// # Usage Example
//
//	table, err := packet.Decode("0x1a 01 0203 00 30 00 00 19 64 01 39300000")
//	if err != nil {
//	    var hexErr *packet.MalformedHexError
//	    if errors.As(err, &hexErr) {
//	        fmt.Println("not a hex packet:", hexErr.Input)
//	    }
//	    return
//	}
//	for _, f := range table {
//	    fmt.Printf("%-12s %-12s %s\n", f.Name, f.RawHex, f.Value)
//	}
//
// # Error Handling
//
// Only input that is not valid hex fails (MalformedHexError). Short packets
// are not errors: fields that do not fit are reported with RawHex "-" and
// Value "<insufficient data>", and the table always has 16 rows in the
// canonical order.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. The built-in model
// table and field table are never modified.
package packet
