package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Equipment struct {
	ID                int32              `json:"id"`
	EquipmentID       string             `json:"equipment_id"`
	EquipmentIDNum    int32              `json:"equipment_id_num"`
	EquipmentType     string             `json:"equipment_type"`
	SerialNumber      pgtype.Text        `json:"serial_number"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
	IsDeleted         bool               `json:"is_deleted"`
	DeletedAt         pgtype.Timestamptz `json:"deleted_at"`
	Model             pgtype.Text        `json:"model"`
	Manufacturer      pgtype.Text        `json:"manufacturer"`
	ManufacturingDate pgtype.Date        `json:"manufacturing_date"`
	AcquisitionDate   pgtype.Date        `json:"acquisition_date"`
	Location          pgtype.Text        `json:"location"`
	Cost              pgtype.Numeric     `json:"cost"`
	Purpose           pgtype.Text        `json:"purpose"`
	Ownership         pgtype.Text        `json:"ownership"`
	ComputerSubtype   pgtype.Text        `json:"computer_subtype"`
	CpuModel          pgtype.Text        `json:"cpu_model"`
	CpuSpeed          pgtype.Text        `json:"cpu_speed"`
	OperatingSystem   pgtype.Text        `json:"operating_system"`
	Ram               pgtype.Text        `json:"ram"`
	Storage           pgtype.Text        `json:"storage"`
	VideoCard         pgtype.Text        `json:"video_card"`
	DisplayResolution pgtype.Text        `json:"display_resolution"`
	MacLan            pgtype.Text        `json:"mac_lan"`
	MacWlan           pgtype.Text        `json:"mac_wlan"`
	CpuScore          pgtype.Int4        `json:"cpu_score"`
	Score2d           pgtype.Int4        `json:"score_2d"`
	Score3d           pgtype.Int4        `json:"score_3d"`
	MemoryScore       pgtype.Int4        `json:"memory_score"`
	DiskScore         pgtype.Int4        `json:"disk_score"`
	OverallRating     pgtype.Int4        `json:"overall_rating"`
	EquipmentName     pgtype.Text        `json:"equipment_name"`
	IpAddress         pgtype.Text        `json:"ip_address"`
	AssignmentDate    pgtype.Date        `json:"assignment_date"`
	PrimaryUser       pgtype.Text        `json:"primary_user"`
	UsageType         pgtype.Text        `json:"usage_type"`
	Status            string             `json:"status"`
	Notes             pgtype.Text        `json:"notes"`
}

type AssignmentHistory struct {
	ID                    int32              `json:"id"`
	EquipmentID           int32              `json:"equipment_id"`
	PreviousUser          pgtype.Text        `json:"previous_user"`
	PreviousUsageType     pgtype.Text        `json:"previous_usage_type"`
	PreviousEquipmentName pgtype.Text        `json:"previous_equipment_name"`
	StartDate             pgtype.Date        `json:"start_date"`
	EndDate               pgtype.Date        `json:"end_date"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
}

// EquipmentFields are the mutable equipment columns. A field with Valid=false
// is left untouched by UpdateEquipment and inserted as NULL by InsertEquipment
// (Status falls back to the column default).
type EquipmentFields struct {
	SerialNumber      pgtype.Text
	Model             pgtype.Text
	Manufacturer      pgtype.Text
	ManufacturingDate pgtype.Date
	AcquisitionDate   pgtype.Date
	Location          pgtype.Text
	Cost              pgtype.Numeric
	Purpose           pgtype.Text
	Ownership         pgtype.Text
	ComputerSubtype   pgtype.Text
	CpuModel          pgtype.Text
	CpuSpeed          pgtype.Text
	OperatingSystem   pgtype.Text
	Ram               pgtype.Text
	Storage           pgtype.Text
	VideoCard         pgtype.Text
	DisplayResolution pgtype.Text
	MacLan            pgtype.Text
	MacWlan           pgtype.Text
	CpuScore          pgtype.Int4
	Score2d           pgtype.Int4
	Score3d           pgtype.Int4
	MemoryScore       pgtype.Int4
	DiskScore         pgtype.Int4
	OverallRating     pgtype.Int4
	EquipmentName     pgtype.Text
	IpAddress         pgtype.Text
	AssignmentDate    pgtype.Date
	PrimaryUser       pgtype.Text
	UsageType         pgtype.Text
	Status            pgtype.Text
	Notes             pgtype.Text
}

// args returns the field values in mutableColumns order.
func (f EquipmentFields) args() []interface{} {
	return []interface{}{
		f.SerialNumber,
		f.Model,
		f.Manufacturer,
		f.ManufacturingDate,
		f.AcquisitionDate,
		f.Location,
		f.Cost,
		f.Purpose,
		f.Ownership,
		f.ComputerSubtype,
		f.CpuModel,
		f.CpuSpeed,
		f.OperatingSystem,
		f.Ram,
		f.Storage,
		f.VideoCard,
		f.DisplayResolution,
		f.MacLan,
		f.MacWlan,
		f.CpuScore,
		f.Score2d,
		f.Score3d,
		f.MemoryScore,
		f.DiskScore,
		f.OverallRating,
		f.EquipmentName,
		f.IpAddress,
		f.AssignmentDate,
		f.PrimaryUser,
		f.UsageType,
		f.Status,
		f.Notes,
	}
}
