package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/arxinspect/internal/packet"
)

// Table column headers
var tableHeaders = []string{"Field", "Raw", "Value"}

const valueColumn = 2

// RenderTable renders a decoded packet as a three column grid
// (Field, Raw, Value). Rows for the model, the battery and every value
// whose mask bit is set are bold; the value of a non-zero error byte is
// red. width is the total width of the table; values below
// MinTerminalWidth are raised to it.
func RenderTable(t packet.Table, width int) string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = []string{r.Name, r.RawHex, r.Value}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(tableHeaders...).
		Rows(rows...).
		Width(clampWidth(width)).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle(t, row, col)
		})

	return tbl.String()
}

// cellStyle picks the style of one cell. row is table.HeaderRow for the
// header, otherwise an index into t.
func cellStyle(t packet.Table, row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return TableHeaderStyle
	}
	if row < 0 || row >= len(t) {
		return CellStyle
	}

	style := CellStyle
	if t.Emphasized(row) {
		style = EmphasizedCellStyle
	}
	if col == valueColumn && t.ErrorFlagged(row) {
		return style.Foreground(ErrorColor).Bold(true)
	}
	if col > 0 && !t[row].Available() {
		return style.Foreground(MutedColor)
	}
	return style
}

// RenderCompact renders one "name=value" line per field, in canonical order.
// Fields without data keep their placeholder value.
func RenderCompact(t packet.Table) string {
	var b strings.Builder
	for _, r := range t {
		fmt.Fprintf(&b, "%s=%s\n", r.Name, r.Value)
	}
	return b.String()
}

// RenderSummary renders a one line description of a decoded packet:
// model name, mask and the active values.
func RenderSummary(t packet.Table) string {
	parts := []string{
		TitleStyle.Render(t.ModelName()),
		HeaderParamKeyStyle.UnsetPaddingLeft().Render("mask " + t.Mask()),
	}
	for _, name := range t.ActiveValues() {
		r, _ := t.Field(name)
		parts = append(parts, fmt.Sprintf("%s %s", name, ResultValueStyle.Render(strings.TrimSpace(r.Value))))
	}
	return strings.Join(parts, "  ")
}
