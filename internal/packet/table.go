package packet

// Table is the ordered decoder output, one row per field spec.
type Table []FieldResult

// Field returns the row with the given name.
func (t Table) Field(name string) (FieldResult, bool) {
	for _, r := range t {
		if r.Name == name {
			return r, true
		}
	}
	return FieldResult{}, false
}

// Mask returns the value mask string of the table, or "000000" when the
// mask byte was not present.
func (t Table) Mask() string {
	if r, ok := t.Field(FieldValueMask); ok && r.Available() {
		return r.Value
	}
	return MaskString(0)
}

// ModelName returns the decoded model name, or "" when the model byte was
// not present.
func (t Table) ModelName() string {
	if r, ok := t.Field(FieldModel); ok && r.Available() {
		return r.Value
	}
	return ""
}

// Emphasized reports whether row i should stand out: the model and battery
// rows, and any value row whose mask flag is set.
func (t Table) Emphasized(i int) bool {
	if i < 0 || i >= len(t) {
		return false
	}
	switch name := t[i].Name; name {
	case FieldModel, FieldBattery:
		return true
	default:
		n, ok := ValueIndex(name)
		return ok && MaskBitSet(t.Mask(), n)
	}
}

// ErrorFlagged reports whether row i is the error row with a non-zero raw
// value. A missing error byte is flagged as well.
func (t Table) ErrorFlagged(i int) bool {
	if i < 0 || i >= len(t) {
		return false
	}
	return t[i].Name == FieldError && t[i].RawHex != "0x00"
}

// ActiveValues returns the names of the value rows whose mask flag is set.
func (t Table) ActiveValues() []string {
	mask := t.Mask()
	var names []string
	for n := 1; n <= ValueCount; n++ {
		if MaskBitSet(mask, n) {
			names = append(names, ValueFieldName(n))
		}
	}
	return names
}
