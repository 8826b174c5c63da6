package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/muurk/arxinspect/internal/config"
	"github.com/muurk/arxinspect/internal/packet"
	"github.com/muurk/arxinspect/internal/server"
)

const examplePacket = "0x1a0102030050000000000f2c01000000000000000000000000000000000000"

func TestDecodeInputs(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  []string
	}{
		{"single argument", "", []string{"0x1a01"}, []string{"0x1a01"}},
		{"split argument", "", []string{"0x1a", "01", "02"}, []string{"0x1a 01 02"}},
		{"stdin lines", "0x1a01\n\n  0x1a02  \n", nil, []string{"0x1a01", "0x1a02"}},
		{"dash reads stdin", "0x1a03\n", []string{"-"}, []string{"0x1a03"}},
		{"empty stdin", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInputs(strings.NewReader(tt.stdin), tt.args)
			if err != nil {
				t.Fatalf("decodeInputs() error = %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("decodeInputs() = %q, want %q", got, tt.want)
			}
		})
	}
}

// runDecodeCommand runs the decode command against a default registry and
// returns stdout and stderr.
func runDecodeCommand(t *testing.T, format, layout, stdin string, args ...string) (string, string, error) {
	t.Helper()

	registry = config.NewRegistry()
	outputFormat = format
	layoutName = layout
	t.Cleanup(func() {
		outputFormat = ""
		layoutName = ""
		remoteURL = ""
	})

	cmd := &cobra.Command{RunE: runDecode}
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.RunE(cmd, args)
	return stdout.String(), stderr.String(), err
}

func TestRunDecode_Compact(t *testing.T) {
	stdout, _, err := runDecodeCommand(t, config.FormatCompact, "", "", examplePacket)
	if err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}

	for _, want := range []string{"length=26\n", "value_mask=001111\n", "value_1=3.00 ℃\n", "value_6=<insufficient data>\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunDecode_JSON(t *testing.T) {
	stdout, _, err := runDecodeCommand(t, config.FormatJSON, "", "", examplePacket)
	if err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}

	var resp struct {
		Mask   string   `json:"mask"`
		Model  string   `json:"model"`
		Active []string `json:"active"`
		Bytes  int      `json:"bytes"`
	}
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, stdout)
	}
	if resp.Mask != "001111" {
		t.Errorf("mask = %q, want 001111", resp.Mask)
	}
	if resp.Model != "ARX.AT205" {
		t.Errorf("model = %q, want ARX.AT205", resp.Model)
	}
	if len(resp.Active) != 4 {
		t.Errorf("active = %v, want 4 values", resp.Active)
	}
	if resp.Bytes != 31 {
		t.Errorf("bytes = %d, want 31", resp.Bytes)
	}
}

func TestRunDecode_JSONStdinArray(t *testing.T) {
	stdout, _, err := runDecodeCommand(t, config.FormatJSON, "", examplePacket+"\n"+examplePacket+"\n")
	if err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, stdout)
	}
	if len(resp) != 2 {
		t.Errorf("got %d responses, want 2", len(resp))
	}
}

func TestRunDecode_AdvertisingLayout(t *testing.T) {
	stdout, _, err := runDecodeCommand(t, config.FormatCompact, "advertising", "",
		"0x0201061a0102030050000000000f2c01000000000000000000000000000000000000")
	if err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if !strings.Contains(stdout, "value_1=3.00 ℃\n") {
		t.Errorf("advertising layout not applied:\n%s", stdout)
	}
}

func TestRunDecode_Malformed(t *testing.T) {
	stdout, stderr, err := runDecodeCommand(t, config.FormatCompact, "", "", "0x1g")
	if !errors.Is(err, errReported) {
		t.Fatalf("runDecode() error = %v, want errReported", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "Malformed packet") {
		t.Errorf("stderr missing styled error:\n%s", stderr)
	}
}

func TestRunDecode_InvalidFlags(t *testing.T) {
	if _, _, err := runDecodeCommand(t, "xml", "", "", examplePacket); err == nil {
		t.Error("runDecode(format=xml) error = nil, want error")
	}
	if _, _, err := runDecodeCommand(t, config.FormatTable, "sideways", "", examplePacket); err == nil {
		t.Error("runDecode(layout=sideways) error = nil, want error")
	}
	if _, _, err := runDecodeCommand(t, config.FormatTable, "", ""); err == nil {
		t.Error("runDecode() with no input error = nil, want error")
	}
}

func TestModelsSetAndRemove(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	registry = config.NewRegistry()
	t.Cleanup(func() { configPath = "" })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := runModelsSet(cmd, []string{"0x90", "ARX.AP100", "kPa"}); err != nil {
		t.Fatalf("runModelsSet() error = %v", err)
	}

	loaded, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if m := loaded.ModelTable()[0x90]; m.Name != "ARX.AP100" || m.Unit != "kPa" {
		t.Errorf("saved model = %+v, want ARX.AP100 kPa", m)
	}

	out.Reset()
	if err := runModels(cmd, nil); err != nil {
		t.Fatalf("runModels() error = %v", err)
	}
	if !strings.Contains(out.String(), "ARX.AP100") || !strings.Contains(out.String(), "config") {
		t.Errorf("models listing missing configured model:\n%s", out.String())
	}

	if err := runModelsRemove(cmd, []string{"90"}); err != nil {
		t.Fatalf("runModelsRemove() error = %v", err)
	}
	if err := runModelsRemove(cmd, []string{"90"}); err == nil {
		t.Error("second runModelsRemove() error = nil, want error")
	}
}

func TestRunReplay(t *testing.T) {
	registry = config.NewRegistry()
	outputFormat = ""
	layoutName = ""
	showWords = true
	t.Cleanup(func() { showWords = false })

	data, err := packet.Normalize(examplePacket)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	_, malformed := packet.Normalize("0xZZ")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range []server.CaptureRecord{
		server.NewCaptureRecord("http-api", "10.0.0.9:5000", examplePacket, data, packet.DecodeBytes(data), nil),
		server.NewCaptureRecord("websocket", "10.0.0.9:5001", "0xZZ", nil, nil, malformed),
	} {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runReplay(cmd, []string{path}); err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}

	for _, want := range []string{"Records: 2", "ARX.AT205", "[08-11] 0x2C0F0000", "error: malformed hex", "(failed)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("replay output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunReplay_RejectsJSON(t *testing.T) {
	registry = config.NewRegistry()
	outputFormat = config.FormatJSON
	t.Cleanup(func() { outputFormat = "" })

	if err := runReplay(&cobra.Command{}, []string{"unused.jsonl"}); err == nil {
		t.Error("runReplay(format=json) error = nil, want error")
	}
}

func TestRunDecode_Remote(t *testing.T) {
	srv, err := server.New(&server.Config{})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	remoteURL = ts.URL
	stdout, _, err := runDecodeCommand(t, config.FormatCompact, "", "", examplePacket)
	if err != nil {
		t.Fatalf("runDecode() error = %v", err)
	}
	if !strings.Contains(stdout, "model=ARX.AT205\n") {
		t.Errorf("remote decode output:\n%s", stdout)
	}

	remoteURL = ts.URL
	_, stderr, err := runDecodeCommand(t, config.FormatCompact, "", "", "0x1g")
	if !errors.Is(err, errReported) {
		t.Fatalf("runDecode() error = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "malformed hex") {
		t.Errorf("stderr = %q, want the inspector's error", stderr)
	}
}
