package core

import (
	"fmt"
	"strings"
)

// EquipmentType is the closed set of equipment kinds. The type decides the
// equipment ID prefix and cannot change after creation.
type EquipmentType string

const (
	TypePC      EquipmentType = "PC"
	TypeMonitor EquipmentType = "Monitor"
	TypeScanner EquipmentType = "Scanner"
	TypePrinter EquipmentType = "Printer"
)

// EquipmentTypes lists every type in ID-prefix order.
var EquipmentTypes = []EquipmentType{TypePC, TypeMonitor, TypeScanner, TypePrinter}

var typePrefixes = map[EquipmentType]string{
	TypePC:      "PC",
	TypeMonitor: "MON",
	TypeScanner: "SCN",
	TypePrinter: "PRN",
}

// ParseEquipmentType matches s case-insensitively against the known types.
func ParseEquipmentType(s string) (EquipmentType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range EquipmentTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Prefix returns the equipment ID prefix, e.g. "MON" for monitors.
func (t EquipmentType) Prefix() string {
	return typePrefixes[t]
}

// FormatEquipmentID renders the {PREFIX}-NNNN identifier.
func FormatEquipmentID(t EquipmentType, n int32) string {
	return fmt.Sprintf("%s-%04d", t.Prefix(), n)
}

func equipmentPrefixes() []string {
	out := make([]string, len(EquipmentTypes))
	for i, t := range EquipmentTypes {
		out[i] = t.Prefix()
	}
	return out
}

func isEquipmentPrefix(p string) bool {
	for _, t := range EquipmentTypes {
		if t.Prefix() == p {
			return true
		}
	}
	return false
}

// Status, UsageType and ComputerSubtype are open vocabularies stored as plain
// strings so new values need no migration. The Known* lists are the values
// offered by default, not a closed set.
type (
	Status          string
	UsageType       string
	ComputerSubtype string
)

var (
	KnownStatuses         = []Status{"Active", "Inactive", "Decommissioned", "In Repair", "In Storage"}
	KnownUsageTypes       = []UsageType{"Personal", "Work"}
	KnownComputerSubtypes = []ComputerSubtype{"Desktop", "Laptop"}
)

// DefaultStatus is assigned to records created without a status.
const DefaultStatus Status = "Active"

func (s Status) Normalize() Status                   { return Status(ToTitleCase(string(s))) }
func (u UsageType) Normalize() UsageType             { return UsageType(ToTitleCase(string(u))) }
func (c ComputerSubtype) Normalize() ComputerSubtype { return ComputerSubtype(ToTitleCase(string(c))) }

// Canonical field names shared by the import schema, classifier and patch.
const (
	FieldEquipmentID       = "equipment_id"
	FieldEquipmentType     = "equipment_type"
	FieldSerialNumber      = "serial_number"
	FieldModel             = "model"
	FieldManufacturer      = "manufacturer"
	FieldManufacturingDate = "manufacturing_date"
	FieldAcquisitionDate   = "acquisition_date"
	FieldLocation          = "location"
	FieldCost              = "cost"
	FieldPurpose           = "purpose"
	FieldOwnership         = "ownership"
	FieldComputerSubtype   = "computer_subtype"
	FieldCPUModel          = "cpu_model"
	FieldCPUSpeed          = "cpu_speed"
	FieldOperatingSystem   = "operating_system"
	FieldRAM               = "ram"
	FieldStorage           = "storage"
	FieldVideoCard         = "video_card"
	FieldDisplayResolution = "display_resolution"
	FieldMACLan            = "mac_lan"
	FieldMACWlan           = "mac_wlan"
	FieldCPUScore          = "cpu_score"
	FieldScore2D           = "score_2d"
	FieldScore3D           = "score_3d"
	FieldMemoryScore       = "memory_score"
	FieldDiskScore         = "disk_score"
	FieldOverallRating     = "overall_rating"
	FieldEquipmentName     = "equipment_name"
	FieldIPAddress         = "ip_address"
	FieldAssignmentDate    = "assignment_date"
	FieldPrimaryUser       = "primary_user"
	FieldUsageType         = "usage_type"
	FieldStatus            = "status"
	FieldNotes             = "notes"
)
