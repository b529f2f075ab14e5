package core

// schema.go defines the import schema: which CSV headers feed which canonical
// field, and which legacy cell values are rewritten on the way in.
//
// An ImportSchema is built once at startup (DefaultSchema) and handed to the
// Service. It is never mutated afterwards, so it is safe to share between
// concurrent requests.

import (
	"sort"
	"strings"
)

// FieldDef describes one canonical import field.
type FieldDef struct {
	Name    string            // canonical field name, e.g. "mac_lan"
	Header  string            // header used for export and re-validation, e.g. "MAC (LAN)"
	Aliases []string          // additional accepted headers
	Values  map[string]string // legacy value -> replacement, keys matched case-insensitively
}

// ImportSchema resolves CSV headers and cell values onto canonical fields.
type ImportSchema struct {
	fields   []FieldDef
	byHeader map[string]string
	byName   map[string]int
	values   map[string]map[string]string
}

// NewImportSchema builds a schema from defs. Headers are matched exactly.
// The canonical name of each field is always accepted as a header too.
func NewImportSchema(defs []FieldDef) *ImportSchema {
	s := &ImportSchema{
		fields:   make([]FieldDef, len(defs)),
		byHeader: make(map[string]string),
		byName:   make(map[string]int, len(defs)),
		values:   make(map[string]map[string]string),
	}
	for i, d := range defs {
		d.Aliases = append([]string(nil), d.Aliases...)
		s.fields[i] = d
		s.byName[d.Name] = i
		s.byHeader[d.Name] = d.Name
		s.byHeader[d.Header] = d.Name
		for _, a := range d.Aliases {
			s.byHeader[a] = d.Name
		}
		if len(d.Values) > 0 {
			m := make(map[string]string, len(d.Values))
			for from, to := range d.Values {
				m[strings.ToLower(from)] = to
			}
			s.values[d.Name] = m
		}
	}
	return s
}

// DefaultSchema returns the equipment import schema, including the legacy
// headers and values found in older inventory spreadsheets.
func DefaultSchema() *ImportSchema {
	return NewImportSchema([]FieldDef{
		{Name: FieldEquipmentID, Header: "Equipment ID", Aliases: []string{"Asset ID", "Asset Tag"}},
		{Name: FieldEquipmentType, Header: "Equipment Type", Aliases: []string{"Category", "Type"},
			Values: map[string]string{"Computer": "PC"}},
		{Name: FieldSerialNumber, Header: "Serial Number", Aliases: []string{"Serial", "S/N"}},
		{Name: FieldModel, Header: "Model"},
		{Name: FieldManufacturer, Header: "Manufacturer", Aliases: []string{"Make", "Brand"}},
		{Name: FieldComputerSubtype, Header: "Computer Subtype", Aliases: []string{"Subcategory", "Subtype"},
			Values: map[string]string{"Tower": "Desktop", "SFF": "Desktop", "PC": "Desktop"}},
		{Name: FieldCPUModel, Header: "CPU Model", Aliases: []string{"CPU", "Processor"}},
		{Name: FieldCPUSpeed, Header: "CPU Speed"},
		{Name: FieldOperatingSystem, Header: "Operating System", Aliases: []string{"OS"}},
		{Name: FieldRAM, Header: "RAM", Aliases: []string{"Memory"}},
		{Name: FieldStorage, Header: "Storage", Aliases: []string{"Disk"}},
		{Name: FieldVideoCard, Header: "Video Card", Aliases: []string{"GPU"}},
		{Name: FieldDisplayResolution, Header: "Display Resolution", Aliases: []string{"Resolution"}},
		{Name: FieldMACLan, Header: "MAC (LAN)", Aliases: []string{"MAC Address", "MAC", "LAN MAC"}},
		{Name: FieldMACWlan, Header: "MAC (WLAN)", Aliases: []string{"WLAN MAC", "WiFi MAC"}},
		{Name: FieldManufacturingDate, Header: "Manufacturing Date"},
		{Name: FieldAcquisitionDate, Header: "Acquisition Date", Aliases: []string{"Purchase Date"}},
		{Name: FieldLocation, Header: "Location"},
		{Name: FieldCost, Header: "Cost", Aliases: []string{"Price"}},
		{Name: FieldPurpose, Header: "Purpose"},
		{Name: FieldOwnership, Header: "Ownership"},
		{Name: FieldCPUScore, Header: "CPU Score"},
		{Name: FieldScore2D, Header: "2D Score"},
		{Name: FieldScore3D, Header: "3D Score"},
		{Name: FieldMemoryScore, Header: "Memory Score"},
		{Name: FieldDiskScore, Header: "Disk Score"},
		{Name: FieldOverallRating, Header: "Overall Rating", Aliases: []string{"Rating"}},
		{Name: FieldEquipmentName, Header: "Equipment Name", Aliases: []string{"Computer Name", "Hostname", "Name"}},
		{Name: FieldIPAddress, Header: "IP Address", Aliases: []string{"IP"}},
		{Name: FieldAssignmentDate, Header: "Assignment Date"},
		{Name: FieldPrimaryUser, Header: "Primary User", Aliases: []string{"User", "Assigned To"}},
		{Name: FieldUsageType, Header: "Usage Type", Aliases: []string{"Usage"},
			Values: map[string]string{"CCM": "Work"}},
		{Name: FieldStatus, Header: "Status",
			Values: map[string]string{"Inactive - In Storage": "In Storage"}},
		{Name: FieldNotes, Header: "Notes", Aliases: []string{"Comments"}},
	})
}

// Canonical returns the field a header maps to. Unknown headers map to
// themselves.
func (s *ImportSchema) Canonical(header string) string {
	if name, ok := s.byHeader[header]; ok {
		return name
	}
	return header
}

// Header returns the representative header for a field, or the name itself
// for fields the schema does not know.
func (s *ImportSchema) Header(field string) string {
	if i, ok := s.byName[field]; ok {
		return s.fields[i].Header
	}
	return field
}

// Known reports whether field is a canonical schema field.
func (s *ImportSchema) Known(field string) bool {
	_, ok := s.byName[field]
	return ok
}

// MapValue applies the field's legacy value table. ok is false when value has
// no mapping.
func (s *ImportSchema) MapValue(field, value string) (mapped string, ok bool) {
	m, has := s.values[field]
	if !has {
		return value, false
	}
	mapped, ok = m[strings.ToLower(value)]
	if !ok {
		return value, false
	}
	return mapped, true
}

// Fields returns the field definitions in schema order.
func (s *ImportSchema) Fields() []FieldDef {
	out := make([]FieldDef, len(s.fields))
	copy(out, s.fields)
	return out
}

// RawField is one cell of a source row, keyed by the header it appeared under.
type RawField struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// resolution is the canonical view of one row plus the diff entries produced
// by value mapping.
type resolution struct {
	data       map[string]string
	normalized map[string]string
	original   map[string]string
}

// Resolve maps raw cells onto canonical fields. Empty cells are ignored, so
// when several headers feed one field the last non-empty cell wins. Value
// substitutions are recorded in the normalized/original maps.
func (s *ImportSchema) Resolve(raw []RawField) resolution {
	r := resolution{
		data:       make(map[string]string),
		normalized: make(map[string]string),
		original:   make(map[string]string),
	}
	for _, f := range raw {
		value := cleanCell(f.Value)
		if value == "" {
			continue
		}
		field := s.Canonical(f.Header)
		delete(r.normalized, field)
		delete(r.original, field)

		if mapped, ok := s.MapValue(field, value); ok && mapped != value {
			r.normalized[field] = mapped
			r.original[field] = value
			value = mapped
		}
		r.data[field] = value
	}
	return r
}

// rawFromData rebuilds a raw row from canonical data, one representative
// header per field, in schema order followed by any other keys, sorted.
func (s *ImportSchema) rawFromData(data map[string]string) []RawField {
	raw := make([]RawField, 0, len(data))
	for _, f := range s.fields {
		if v, ok := data[f.Name]; ok {
			raw = append(raw, RawField{Header: f.Header, Value: v})
		}
	}
	var extra []string
	for k := range data {
		if !s.Known(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		raw = append(raw, RawField{Header: k, Value: data[k]})
	}
	return raw
}
