package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/muurk/arxinspect/internal/packet"
)

// Output formats accepted by Preferences.Format
const (
	FormatTable   = "table"
	FormatCompact = "compact"
	FormatJSON    = "json"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                    `yaml:"version"`
	Preferences *Preferences           `yaml:"preferences,omitempty"`
	Models      map[string]*ModelEntry `yaml:"models,omitempty"` // Keyed by model code, e.g. "0x52"
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Layout   string `yaml:"layout"`   // "canonical" or "advertising"
	Format   string `yaml:"format"`   // "table", "compact" or "json"
	Listen   string `yaml:"listen"`   // HTTP listen address for serve
	Announce bool   `yaml:"announce"` // Announce the HTTP inspector over mDNS
}

// ModelEntry is a user-defined model code. Entries are layered over the
// built-in model table, so they can add new codes or rename existing ones.
type ModelEntry struct {
	Name string `yaml:"name"`
	Unit string `yaml:"unit,omitempty"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Preferences: defaultPreferences(),
		Models:      make(map[string]*ModelEntry),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Layout: packet.LayoutCanonical.Name,
		Format: FormatTable,
		Listen: ":8080",
	}
}

// Validate checks preference values and model codes.
func (r *Registry) Validate() error {
	if r.Preferences != nil {
		if _, err := packet.LayoutByName(r.Preferences.Layout); err != nil {
			return fmt.Errorf("preferences.layout: %w", err)
		}
		if err := ValidateFormat(r.Preferences.Format); err != nil {
			return fmt.Errorf("preferences.format: %w", err)
		}
	}
	seen := make(map[byte]string, len(r.Models))
	for _, code := range sortedKeys(r.Models) {
		b, err := ParseModelCode(code)
		if err != nil {
			return fmt.Errorf("models: %w", err)
		}
		if other, ok := seen[b]; ok {
			return fmt.Errorf("models: %q and %q both define model %s", other, code, FormatModelCode(b))
		}
		seen[b] = code
		if entry := r.Models[code]; entry == nil || entry.Name == "" {
			return fmt.Errorf("models[%s]: name is required", code)
		}
	}
	return nil
}

// canonicalizeModels rewrites every model key in the FormatModelCode
// spelling. Keys that do not parse are left for Validate to report.
func (r *Registry) canonicalizeModels() {
	models := make(map[string]*ModelEntry, len(r.Models))
	for code, entry := range r.Models {
		if b, err := ParseModelCode(code); err == nil {
			code = FormatModelCode(b)
		}
		models[code] = entry
	}
	r.Models = models
}

func sortedKeys(m map[string]*ModelEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatCompact, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table, compact or json)", format)
	}
}

// Layout returns the configured packet layout.
func (r *Registry) Layout() packet.Layout {
	if r.Preferences == nil {
		return packet.LayoutCanonical
	}
	l, err := packet.LayoutByName(r.Preferences.Layout)
	if err != nil {
		return packet.LayoutCanonical
	}
	return l
}

// ModelTable returns the user-defined models as a packet.ModelTable.
// Entries with an invalid code are skipped; Validate reports them.
func (r *Registry) ModelTable() packet.ModelTable {
	table := make(packet.ModelTable, len(r.Models))
	for code, entry := range r.Models {
		b, err := ParseModelCode(code)
		if err != nil || entry == nil {
			continue
		}
		table[b] = packet.Model{Name: entry.Name, Unit: entry.Unit}
	}
	return table
}

// SetModel adds or replaces a user-defined model.
func (r *Registry) SetModel(code byte, name, unit string) {
	if r.Models == nil {
		r.Models = make(map[string]*ModelEntry)
	}
	r.Models[FormatModelCode(code)] = &ModelEntry{Name: name, Unit: unit}
}

// RemoveModel deletes a user-defined model. It reports whether the model
// existed.
func (r *Registry) RemoveModel(code byte) bool {
	key := FormatModelCode(code)
	if _, ok := r.Models[key]; !ok {
		return false
	}
	delete(r.Models, key)
	return true
}

// ParseModelCode parses a model code written as "0x52", "52" or "0X52".
func ParseModelCode(s string) (byte, error) {
	digits := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if digits == "" || len(digits) > 2 {
		return 0, fmt.Errorf("invalid model code %q (expected one hex byte, e.g. 0x52)", s)
	}
	v, err := strconv.ParseUint(digits, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid model code %q (expected one hex byte, e.g. 0x52)", s)
	}
	return byte(v), nil
}

// FormatModelCode renders a model code the way it is stored in the file.
func FormatModelCode(code byte) string {
	return fmt.Sprintf("0x%02X", code)
}

// SortedModelCodes returns the codes of table in ascending order.
func SortedModelCodes(table packet.ModelTable) []byte {
	codes := make([]byte, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
