package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/muurk/arxinspect/internal/packet"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "arxinspect") {
		t.Errorf("GetConfigDir() = %v, should contain 'arxinspect'", configDir)
	}

	switch runtime.GOOS {
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join(xdg, "arxinspect") {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, filepath.Join(xdg, "arxinspect"))
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.Layout != "canonical" {
		t.Errorf("Layout = %v, want canonical", reg.Preferences.Layout)
	}

	if reg.Preferences.Format != FormatTable {
		t.Errorf("Format = %v, want table", reg.Preferences.Format)
	}

	if reg.Preferences.Listen != ":8080" {
		t.Errorf("Listen = %v, want :8080", reg.Preferences.Listen)
	}

	if err := reg.Validate(); err != nil {
		t.Errorf("default registry should validate, got %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Layout() != packet.LayoutCanonical {
		t.Errorf("Layout() = %+v, want canonical", reg.Layout())
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Preferences.Layout = "advertising"
	reg.Preferences.Format = FormatJSON
	reg.Preferences.Announce = true
	reg.SetModel(0x52, "ARX.AT207", "℃")
	reg.SetModel(0x30, "ARX.AT145-R2", "bar")

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away after save")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if loaded.Layout() != packet.LayoutAdvertising {
		t.Errorf("Layout() = %+v, want advertising", loaded.Layout())
	}
	if loaded.Preferences.Format != FormatJSON {
		t.Errorf("Format = %v, want json", loaded.Preferences.Format)
	}
	if !loaded.Preferences.Announce {
		t.Error("Announce should be true")
	}

	models := loaded.ModelTable()
	if got := models[0x52]; got.Name != "ARX.AT207" || got.Unit != "℃" {
		t.Errorf("models[0x52] = %+v", got)
	}
	if got := models[0x30]; got.Name != "ARX.AT145-R2" {
		t.Errorf("models[0x30] = %+v", got)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `version: 1
preferences:
  format: compact
models:
  "0x90":
    name: ARX.AT999
    unit: kPa
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if reg.Preferences.Format != FormatCompact {
		t.Errorf("Format = %v, want compact", reg.Preferences.Format)
	}
	if reg.Preferences.Layout != "canonical" {
		t.Errorf("Layout should default to canonical, got %v", reg.Preferences.Layout)
	}
	if reg.Preferences.Listen != ":8080" {
		t.Errorf("Listen should default to :8080, got %v", reg.Preferences.Listen)
	}
	if got := reg.ModelTable()[0x90]; got.Name != "ARX.AT999" {
		t.Errorf("models[0x90] = %+v", got)
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "version: [1"},
		{name: "wrong version", data: "version: 2\n"},
		{name: "bad layout", data: "version: 1\npreferences:\n  layout: sideways\n"},
		{name: "bad format", data: "version: 1\npreferences:\n  format: xml\n"},
		{name: "bad model code", data: "version: 1\nmodels:\n  \"0x1234\":\n    name: X\n"},
		{name: "model without name", data: "version: 1\nmodels:\n  \"0x12\":\n    unit: Bar\n"},
		{name: "duplicate model spellings", data: "version: 1\nmodels:\n  \"0x5a\":\n    name: A\n  \"0x5A\":\n    name: B\n  \"5a\":\n    name: C\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatalf("writing config: %v", err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() expected error")
			}
		})
	}
}

func TestParseModelCode(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{in: "0x52", want: 0x52},
		{in: "0X52", want: 0x52},
		{in: "52", want: 0x52},
		{in: " 0xff ", want: 0xFF},
		{in: "7", want: 0x07},
		{in: "", wantErr: true},
		{in: "0x", wantErr: true},
		{in: "0x123", wantErr: true},
		{in: "zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModelCode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelCode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseModelCode(%q) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFromCanonicalModelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\nmodels:\n  \"0x5a\":\n    name: Lower\n    unit: kPa\n  \"7\":\n    name: Short\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	for _, key := range []string{"0x5A", "0x07"} {
		if _, ok := reg.Models[key]; !ok {
			t.Errorf("Models has keys %v, want %q", sortedKeys(reg.Models), key)
		}
	}
	if got := reg.ModelTable()[0x5A]; got.Name != "Lower" || got.Unit != "kPa" {
		t.Errorf("ModelTable()[0x5A] = %+v, want Lower kPa", got)
	}
	if !reg.RemoveModel(0x5A) {
		t.Error("RemoveModel(0x5A) = false for a hand-written lower-case key")
	}
	if _, ok := reg.ModelTable()[0x5A]; ok {
		t.Error("model 0x5A still present after RemoveModel")
	}
}

func TestValidateDuplicateModelCodes(t *testing.T) {
	reg := NewRegistry()
	reg.Models["0x5a"] = &ModelEntry{Name: "A"}
	reg.Models["5A"] = &ModelEntry{Name: "B"}

	if err := reg.Validate(); err == nil {
		t.Error("Validate() error = nil for two spellings of one code")
	}
}

func TestRegistryRemoveModel(t *testing.T) {
	reg := NewRegistry()
	reg.SetModel(0x52, "ARX.AT207", "℃")

	if !reg.RemoveModel(0x52) {
		t.Error("RemoveModel(0x52) should report true")
	}
	if reg.RemoveModel(0x52) {
		t.Error("RemoveModel(0x52) twice should report false")
	}
	if len(reg.ModelTable()) != 0 {
		t.Errorf("ModelTable() = %v, want empty", reg.ModelTable())
	}
}

func TestSortedModelCodes(t *testing.T) {
	codes := SortedModelCodes(packet.BuiltinModels())
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if codes[0] != 0x10 || codes[len(codes)-1] != 0x71 {
		t.Errorf("codes = %v, want 0x10..0x71", codes)
	}
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkModelTable(b *testing.B) {
	reg := NewRegistry()
	reg.SetModel(0x52, "ARX.AT207", "℃")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.ModelTable()
	}
}
