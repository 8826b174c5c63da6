package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/muurk/arxinspect/internal/config"
	"github.com/muurk/arxinspect/internal/packet"
	"github.com/muurk/arxinspect/internal/server"
	"github.com/muurk/arxinspect/internal/ui"
)

var showWords bool

// replayCmd re-decodes the packets of a capture file
var replayCmd = &cobra.Command{
	Use:   "replay <capture.jsonl>",
	Short: "Re-decode the packets of a capture file",
	Long: `Re-decode every packet recorded by 'arx-inspect serve --capture-dir'.

Packets are decoded again with the current layout and model table, so a
capture taken before a model was added to the config shows the new name.
Records whose decode failed at capture time are listed with their error.`,
	Example: `  # Summarize a capture
  arx-inspect replay captures/capture-20260101-120000.jsonl

  # Full tables with a 32-bit word dump of each packet
  arx-inspect replay --format table --words captures/capture-20260101-120000.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&outputFormat, "format", "", "Per-packet output (table, compact); default one summary line per packet")
	replayCmd.Flags().StringVar(&layoutName, "layout", "", "Field layout (canonical, advertising); default from config")
	replayCmd.Flags().BoolVar(&showWords, "words", false, "Dump each packet as 32-bit little-endian words")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if outputFormat == config.FormatJSON {
		return fmt.Errorf("replay does not support --format json; the capture file already is JSON")
	}
	if outputFormat != "" {
		if err := config.ValidateFormat(outputFormat); err != nil {
			return err
		}
	}

	opts, err := decodeOptions(layoutName)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := server.ReadCapture(f)
	if err != nil {
		return err
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.Println(fmt.Sprintf("File: %s", args[0]))
	out.Println(fmt.Sprintf("Records: %d", len(records)))
	out.Newline()

	perModel := make(map[string]int)
	failed := 0
	for i, rec := range records {
		header := fmt.Sprintf("#%d %s %s %s", i+1, rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Source, rec.RemoteAddr)

		if rec.Error != "" {
			failed++
			out.Println(fmt.Sprintf("%s  error: %s", header, rec.Error))
			continue
		}

		data, err := hex.DecodeString(rec.PacketHex)
		if err != nil {
			failed++
			out.Println(fmt.Sprintf("%s  unreadable packet_hex: %v", header, err))
			continue
		}

		t := packet.DecodeBytesWith(data, opts)
		perModel[t.ModelName()]++

		switch outputFormat {
		case config.FormatTable:
			out.Println(header)
			out.PrintTable(t)
		case config.FormatCompact:
			out.Println(header)
			out.PrintCompact(t)
		default:
			out.Println(header + "  " + ui.RenderSummary(t))
		}
		if showWords {
			out.Print(ui.RenderWords(data))
		}
		if outputFormat != "" || showWords {
			out.Newline()
		}
	}

	out.Newline()
	models := make([]string, 0, len(perModel))
	for name := range perModel {
		models = append(models, name)
	}
	sort.Strings(models)
	for _, name := range models {
		label := name
		if label == "" {
			label = "(unknown model)"
		}
		out.Println(fmt.Sprintf("%-16s %d", label, perModel[name]))
	}
	if failed > 0 {
		out.Println(fmt.Sprintf("%-16s %d", "(failed)", failed))
	}
	return nil
}
