// Package ui provides terminal rendering for the arx-inspect CLI.
//
// This package uses Lipgloss to render decoded packets and command results.
// Unlike the interactive inspector, these components follow a "render once"
// pattern: commands build a string and print it through a Printer.
//
// # Components
//
//   - RenderTable: the Field / Raw / Value grid for a decoded packet, with a
//     black header, bold rows for the model, battery and active values, and a
//     red value cell when the error byte is non-zero
//   - RenderCompact: one name=value line per field, for scripts
//   - RenderSummary: a single line with model, mask and active values
//   - Result: success and failure boxes; RenderError adds input hints for
//     malformed packets
//   - Header: the banner printed by the serve command
//
// # Example
//
//	table, err := packet.Decode(input)
//	p := ui.NewPrinter(os.Stdout)
//	if err != nil {
//	    p.PrintError(err)
//	    return err
//	}
//	p.PrintTable(table)
//
// # Logging Integration
//
// Logging is controlled via the ARXINSPECT_LOG_LEVEL environment variable
// or the --log-level flag. When unset, zap logging is silent so that the
// rendered output is displayed cleanly.
package ui
