package core

import (
	"strings"
	"time"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
)

// EquipmentPatch is a partial update of the mutable equipment columns. Only
// fields with Valid=true are written; equipment_id and equipment_type are not
// part of it and never change after creation.
type EquipmentPatch db.EquipmentFields

// buildPatch coerces canonical row data into a patch. Blank values, the
// auto-ID sentinel and values that fail coercion (bad dates, costs or
// scores) are skipped.
func buildPatch(data map[string]string) EquipmentPatch {
	var p EquipmentPatch
	for field, value := range data {
		p.Set(field, value)
	}
	return p
}

// Set coerces value into the column for field. It reports whether the patch
// changed; unknown fields and unparseable values leave it untouched.
func (p *EquipmentPatch) Set(field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value == AutoIDSentinel {
		return false
	}

	switch field {
	case FieldSerialNumber:
		return setText(&p.SerialNumber, value)
	case FieldModel:
		return setText(&p.Model, value)
	case FieldManufacturer:
		return setText(&p.Manufacturer, value)
	case FieldLocation:
		return setText(&p.Location, value)
	case FieldPurpose:
		return setText(&p.Purpose, value)
	case FieldOwnership:
		return setText(&p.Ownership, value)
	case FieldComputerSubtype:
		return setText(&p.ComputerSubtype, value)
	case FieldCPUModel:
		return setText(&p.CpuModel, value)
	case FieldCPUSpeed:
		return setText(&p.CpuSpeed, value)
	case FieldOperatingSystem:
		return setText(&p.OperatingSystem, value)
	case FieldRAM:
		return setText(&p.Ram, value)
	case FieldStorage:
		return setText(&p.Storage, value)
	case FieldVideoCard:
		return setText(&p.VideoCard, value)
	case FieldDisplayResolution:
		return setText(&p.DisplayResolution, value)
	case FieldMACLan:
		return setText(&p.MacLan, value)
	case FieldMACWlan:
		return setText(&p.MacWlan, value)
	case FieldEquipmentName:
		return setText(&p.EquipmentName, value)
	case FieldIPAddress:
		return setText(&p.IpAddress, value)
	case FieldPrimaryUser:
		return setText(&p.PrimaryUser, value)
	case FieldUsageType:
		return setText(&p.UsageType, value)
	case FieldStatus:
		return setText(&p.Status, value)
	case FieldNotes:
		return setText(&p.Notes, value)

	case FieldManufacturingDate:
		return setDate(&p.ManufacturingDate, value)
	case FieldAcquisitionDate:
		return setDate(&p.AcquisitionDate, value)
	case FieldAssignmentDate:
		return setDate(&p.AssignmentDate, value)

	case FieldCost:
		if n := ToNumeric(value); n.Valid {
			p.Cost = n
			return true
		}
		return false

	case FieldCPUScore:
		return setInt4(&p.CpuScore, value)
	case FieldScore2D:
		return setInt4(&p.Score2d, value)
	case FieldScore3D:
		return setInt4(&p.Score3d, value)
	case FieldMemoryScore:
		return setInt4(&p.MemoryScore, value)
	case FieldDiskScore:
		return setInt4(&p.DiskScore, value)
	case FieldOverallRating:
		return setInt4(&p.OverallRating, value)
	}
	return false
}

func setText(dst *pgtype.Text, value string) bool {
	*dst = ToText(value)
	return dst.Valid
}

func setDate(dst *pgtype.Date, value string) bool {
	d := ToDate(value)
	if !d.Valid {
		return false
	}
	*dst = d
	return true
}

func setInt4(dst *pgtype.Int4, value string) bool {
	i := ToInt4(value)
	if !i.Valid {
		return false
	}
	*dst = i
	return true
}

// Apply copies the set fields of p onto e.
func (p EquipmentPatch) Apply(e *db.Equipment) {
	applyText(&e.SerialNumber, p.SerialNumber)
	applyText(&e.Model, p.Model)
	applyText(&e.Manufacturer, p.Manufacturer)
	applyDate(&e.ManufacturingDate, p.ManufacturingDate)
	applyDate(&e.AcquisitionDate, p.AcquisitionDate)
	applyText(&e.Location, p.Location)
	if p.Cost.Valid {
		e.Cost = p.Cost
	}
	applyText(&e.Purpose, p.Purpose)
	applyText(&e.Ownership, p.Ownership)
	applyText(&e.ComputerSubtype, p.ComputerSubtype)
	applyText(&e.CpuModel, p.CpuModel)
	applyText(&e.CpuSpeed, p.CpuSpeed)
	applyText(&e.OperatingSystem, p.OperatingSystem)
	applyText(&e.Ram, p.Ram)
	applyText(&e.Storage, p.Storage)
	applyText(&e.VideoCard, p.VideoCard)
	applyText(&e.DisplayResolution, p.DisplayResolution)
	applyText(&e.MacLan, p.MacLan)
	applyText(&e.MacWlan, p.MacWlan)
	applyInt4(&e.CpuScore, p.CpuScore)
	applyInt4(&e.Score2d, p.Score2d)
	applyInt4(&e.Score3d, p.Score3d)
	applyInt4(&e.MemoryScore, p.MemoryScore)
	applyInt4(&e.DiskScore, p.DiskScore)
	applyInt4(&e.OverallRating, p.OverallRating)
	applyText(&e.EquipmentName, p.EquipmentName)
	applyText(&e.IpAddress, p.IpAddress)
	applyDate(&e.AssignmentDate, p.AssignmentDate)
	applyText(&e.PrimaryUser, p.PrimaryUser)
	applyText(&e.UsageType, p.UsageType)
	if p.Status.Valid {
		e.Status = p.Status.String
	}
	applyText(&e.Notes, p.Notes)
}

func applyText(dst *pgtype.Text, src pgtype.Text) {
	if src.Valid {
		*dst = src
	}
}

func applyDate(dst *pgtype.Date, src pgtype.Date) {
	if src.Valid {
		*dst = src
	}
}

func applyInt4(dst *pgtype.Int4, src pgtype.Int4) {
	if src.Valid {
		*dst = src
	}
}

// assignmentChange returns the history entry to record when p changes who
// uses e or how. It returns nil when nothing changes or when e had no prior
// assignment to remember.
func assignmentChange(e *db.Equipment, p EquipmentPatch, today time.Time) *HistoryEntry {
	changed := textChanged(e.PrimaryUser, p.PrimaryUser) ||
		textChanged(e.UsageType, p.UsageType) ||
		textChanged(e.EquipmentName, p.EquipmentName)
	if !changed {
		return nil
	}
	if !e.PrimaryUser.Valid && !e.UsageType.Valid && !e.EquipmentName.Valid {
		return nil
	}

	y, m, d := today.Date()
	return &HistoryEntry{
		PreviousUser:          e.PrimaryUser,
		PreviousUsageType:     e.UsageType,
		PreviousEquipmentName: e.EquipmentName,
		StartDate:             e.AssignmentDate,
		EndDate:               pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true},
	}
}

func textChanged(current, next pgtype.Text) bool {
	return next.Valid && (!current.Valid || current.String != next.String)
}
