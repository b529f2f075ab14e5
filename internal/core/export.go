package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	db "github.com/JonMunkholm/inventory/internal/database"
)

// ExportFileName is the download name for an export made at t.
func ExportFileName(t time.Time) string {
	return "equipment_export_" + t.Format("2006-01-02") + ".csv"
}

// Export writes every record as CSV, headed by the schema's representative
// headers, in equipment ID order. The output re-imports cleanly.
func (s *Service) Export(ctx context.Context, w io.Writer, includeDeleted bool) (int, error) {
	items, err := s.repo.List(ctx, EquipmentFilter{SortBy: FieldEquipmentID, IncludeDeleted: includeDeleted})
	if err != nil {
		return 0, fmt.Errorf("list equipment: %w", err)
	}

	fields := s.schema.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Header
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	record := make([]string, len(fields))
	for i := range items {
		for j, f := range fields {
			record[j] = fieldValue(&items[i], f.Name)
		}
		if err := cw.Write(record); err != nil {
			return i, err
		}
	}
	cw.Flush()
	return len(items), cw.Error()
}

// fieldValue renders one column of e as it appears in an export. NULL
// becomes "".
func fieldValue(e *db.Equipment, field string) string {
	switch field {
	case FieldEquipmentID:
		return e.EquipmentID
	case FieldEquipmentType:
		return e.EquipmentType
	case FieldSerialNumber:
		return TextString(e.SerialNumber)
	case FieldModel:
		return TextString(e.Model)
	case FieldManufacturer:
		return TextString(e.Manufacturer)
	case FieldComputerSubtype:
		return TextString(e.ComputerSubtype)
	case FieldCPUModel:
		return TextString(e.CpuModel)
	case FieldCPUSpeed:
		return TextString(e.CpuSpeed)
	case FieldOperatingSystem:
		return TextString(e.OperatingSystem)
	case FieldRAM:
		return TextString(e.Ram)
	case FieldStorage:
		return TextString(e.Storage)
	case FieldVideoCard:
		return TextString(e.VideoCard)
	case FieldDisplayResolution:
		return TextString(e.DisplayResolution)
	case FieldMACLan:
		return TextString(e.MacLan)
	case FieldMACWlan:
		return TextString(e.MacWlan)
	case FieldManufacturingDate:
		return DateString(e.ManufacturingDate)
	case FieldAcquisitionDate:
		return DateString(e.AcquisitionDate)
	case FieldLocation:
		return TextString(e.Location)
	case FieldCost:
		return NumericString(e.Cost)
	case FieldPurpose:
		return TextString(e.Purpose)
	case FieldOwnership:
		return TextString(e.Ownership)
	case FieldCPUScore:
		return Int4String(e.CpuScore)
	case FieldScore2D:
		return Int4String(e.Score2d)
	case FieldScore3D:
		return Int4String(e.Score3d)
	case FieldMemoryScore:
		return Int4String(e.MemoryScore)
	case FieldDiskScore:
		return Int4String(e.DiskScore)
	case FieldOverallRating:
		return Int4String(e.OverallRating)
	case FieldEquipmentName:
		return TextString(e.EquipmentName)
	case FieldIPAddress:
		return TextString(e.IpAddress)
	case FieldAssignmentDate:
		return DateString(e.AssignmentDate)
	case FieldPrimaryUser:
		return TextString(e.PrimaryUser)
	case FieldUsageType:
		return TextString(e.UsageType)
	case FieldStatus:
		return e.Status
	case FieldNotes:
		return TextString(e.Notes)
	}
	return ""
}
