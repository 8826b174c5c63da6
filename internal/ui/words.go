package ui

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// RenderWords renders data as 32-bit little-endian words, one per line,
// with the offset range, hex, signed decimal and binary of each word.
// Trailing bytes that do not fill a word are listed on a final tail line.
func RenderWords(data []byte) string {
	var b strings.Builder
	b.WriteString("Offset  Hex        Decimal     Binary\n")
	b.WriteString("------- ---------- ----------- --------------------------------\n")

	for i := 0; i+4 <= len(data); i += 4 {
		word := binary.LittleEndian.Uint32(data[i : i+4])
		fmt.Fprintf(&b, "[%02d-%02d] 0x%08X %11d %032b\n", i, i+3, word, int32(word), word)
	}

	if rem := len(data) % 4; rem > 0 {
		start := len(data) - rem
		fmt.Fprintf(&b, "[%02d-%02d] tail:", start, len(data)-1)
		for _, v := range data[start:] {
			fmt.Fprintf(&b, " %02X", v)
		}
		b.WriteString("\n")
	}
	return b.String()
}
