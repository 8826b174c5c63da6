package packet

import "fmt"

// Model identifies a sensor hardware variant and the unit its values use.
type Model struct {
	Name string `json:"name" yaml:"name"`
	Unit string `json:"unit" yaml:"unit"`
}

// ModelTable maps the model byte to a Model.
type ModelTable map[byte]Model

// builtinModels is the model table shipped with the decoder.
var builtinModels = ModelTable{
	0x10: {Name: "ARX.AT115", Unit: "mmH2O"},
	0x11: {Name: "ARX.AT116", Unit: "mmH2O"},
	0x20: {Name: "ARX.AT125", Unit: "mmH2O"},
	0x21: {Name: "ARX.AT126", Unit: "mmH2O"},
	0x30: {Name: "ARX.AT145", Unit: "Bar"},
	0x31: {Name: "ARX.AT146", Unit: "Bar"},
	0x40: {Name: "ARX.AT185", Unit: "mmH2O"},
	0x41: {Name: "ARX.AT186", Unit: "mmH2O"},
	0x50: {Name: "ARX.AT205", Unit: "℃"},
	0x51: {Name: "ARX.AT206", Unit: "℃"},
	0x60: {Name: "ARX.AT435", Unit: "m/s2"},
	0x61: {Name: "ARX.AT436", Unit: "m/s2"},
	0x70: {Name: "ARX.AT445", Unit: "mm/s"},
	0x71: {Name: "ARX.AT446", Unit: "mm/s"},
}

// BuiltinModels returns a copy of the built-in model table.
func BuiltinModels() ModelTable {
	out := make(ModelTable, len(builtinModels))
	for code, m := range builtinModels {
		out[code] = m
	}
	return out
}

// Merge returns a new table with the entries of other layered over t.
// Neither input is modified.
func (t ModelTable) Merge(other ModelTable) ModelTable {
	out := make(ModelTable, len(t)+len(other))
	for code, m := range t {
		out[code] = m
	}
	for code, m := range other {
		out[code] = m
	}
	return out
}

// Lookup resolves a model code against t. Unknown codes resolve to
// "Unknown(0xXX)" with an empty unit.
func (t ModelTable) Lookup(code byte) Model {
	if m, ok := t[code]; ok {
		return m
	}
	return Model{Name: fmt.Sprintf("Unknown(0x%02X)", code)}
}

// LookupModel resolves a model code against the built-in table.
func LookupModel(code byte) Model {
	return builtinModels.Lookup(code)
}
