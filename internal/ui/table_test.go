package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/arxinspect/internal/packet"
)

const examplePacket = "0x22A54C0001500000195B0F2C01000000000000000000000000000000000000"

func decodeExample(t *testing.T) packet.Table {
	t.Helper()
	tbl, err := packet.Decode(examplePacket)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return tbl
}

func TestRenderTableContainsEveryField(t *testing.T) {
	tbl := decodeExample(t)
	out := RenderTable(tbl, MaxContentWidth)

	for _, h := range []string{"Field", "Raw", "Value"} {
		if !strings.Contains(out, h) {
			t.Errorf("RenderTable() missing header %q", h)
		}
	}
	for _, spec := range packet.Fields() {
		if !strings.Contains(out, spec.Name) {
			t.Errorf("RenderTable() missing field %q", spec.Name)
		}
	}
	for _, want := range []string{"ARX.AT205", "001111", "3.00 ℃", "0x2C010000"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() missing %q\n%s", want, out)
		}
	}
}

func TestRenderTableEmpty(t *testing.T) {
	out := RenderTable(packet.DecodeBytes(nil), MaxContentWidth)
	if !strings.Contains(out, packet.InsufficientData) {
		t.Errorf("RenderTable() of empty packet should show %q", packet.InsufficientData)
	}
}

func TestCellStyle(t *testing.T) {
	tbl := decodeExample(t)

	if got := cellStyle(tbl, table.HeaderRow, 0); !got.GetBold() {
		t.Error("header cells should be bold")
	}

	tests := []struct {
		name     string
		field    string
		col      int
		wantBold bool
	}{
		{name: "model row", field: packet.FieldModel, col: 0, wantBold: true},
		{name: "battery row", field: packet.FieldBattery, col: 1, wantBold: true},
		{name: "active value", field: "value_1", col: 2, wantBold: true},
		{name: "inactive value", field: "value_6", col: 2, wantBold: false},
		{name: "plain row", field: packet.FieldLength, col: 2, wantBold: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := rowIndex(t, tbl, tt.field)
			if got := cellStyle(tbl, row, tt.col).GetBold(); got != tt.wantBold {
				t.Errorf("cellStyle(%s, %d).GetBold() = %v, want %v", tt.field, tt.col, got, tt.wantBold)
			}
		})
	}
}

func TestCellStyleErrorFlag(t *testing.T) {
	data := make([]byte, 35)
	data[packet.ModelOffset] = 0x50
	data[6] = 0x03 // error byte
	tbl := packet.DecodeBytes(data)

	row := rowIndex(t, tbl, packet.FieldError)
	style := cellStyle(tbl, row, valueColumn)
	if !style.GetBold() {
		t.Error("flagged error value should be bold")
	}
	if style.GetForeground() != ErrorColor {
		t.Errorf("flagged error value foreground = %v, want %v", style.GetForeground(), ErrorColor)
	}
	if cellStyle(tbl, row, 0).GetForeground() == ErrorColor {
		t.Error("only the value cell of the error row should be red")
	}
}

func rowIndex(t *testing.T, tbl packet.Table, name string) int {
	t.Helper()
	for i, r := range tbl {
		if r.Name == name {
			return i
		}
	}
	t.Fatalf("field %q not in table", name)
	return -1
}

func TestRenderCompact(t *testing.T) {
	tbl := decodeExample(t)
	out := RenderCompact(tbl)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != packet.FieldCount {
		t.Fatalf("RenderCompact() has %d lines, want %d", len(lines), packet.FieldCount)
	}
	if lines[0] != "length=34" {
		t.Errorf("first line = %q, want length=34", lines[0])
	}
	if lines[4] != "model=ARX.AT205" {
		t.Errorf("model line = %q", lines[4])
	}
	if lines[15] != "value_6=<insufficient data>" {
		t.Errorf("last line = %q", lines[15])
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(decodeExample(t))
	for _, want := range []string{"ARX.AT205", "mask 001111", "value_1 3.00 ℃"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSummary() = %q, missing %q", out, want)
		}
	}
}

func TestRenderError(t *testing.T) {
	_, err := packet.Decode("0xZZ")
	if err == nil {
		t.Fatal("Decode() expected error")
	}

	out := RenderError(err, 80)
	if !strings.Contains(out, "Malformed packet") {
		t.Errorf("RenderError() should title malformed input, got:\n%s", out)
	}
	if !strings.Contains(out, "Hints:") {
		t.Error("RenderError() should include hints for malformed input")
	}

	out = RenderError(errors.New("boom"), 80)
	if strings.Contains(out, "Hints:") {
		t.Error("RenderError() should not include hints for other errors")
	}
	if !strings.Contains(out, "boom") {
		t.Error("RenderError() should include the error text")
	}
}

func TestHeaderRender(t *testing.T) {
	out := NewHeader("arx inspect", "arx-inspect serve", map[string]string{
		"Listen": ":8080",
		"Layout": "canonical",
	}).SetWidth(80).Render()

	if !strings.Contains(out, "ARX INSPECT") {
		t.Error("title should be upper case")
	}
	if strings.Index(out, "Layout:") > strings.Index(out, "Listen:") {
		t.Error("params should be sorted by key")
	}
}

func TestPrinter(t *testing.T) {
	var b strings.Builder
	p := NewPrinter(&b).SetWidth(80)

	p.PrintCompact(decodeExample(t))
	if !strings.HasPrefix(b.String(), "length=34\n") {
		t.Errorf("PrintCompact() wrote %q", b.String())
	}

	b.Reset()
	if err := p.PrintJSON(map[string]string{"mask": "001111"}); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}
	if !strings.Contains(b.String(), `"mask": "001111"`) {
		t.Errorf("PrintJSON() wrote %q", b.String())
	}
}

func TestRenderWords(t *testing.T) {
	out := RenderWords([]byte{0x2C, 0x01, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xAB})

	for _, want := range []string{
		"[00-03] 0x0000012C         300 ",
		"[04-07] 0xFFFFFFFF          -1 ",
		"[08-08] tail: AB\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderWords() missing %q:\n%s", want, out)
		}
	}

	if lines := strings.Count(RenderWords(nil), "\n"); lines != 2 {
		t.Errorf("RenderWords(nil) has %d lines, want header only", lines)
	}
}
