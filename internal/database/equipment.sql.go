package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const equipmentColumns = `id, equipment_id, equipment_id_num, equipment_type, serial_number,
	created_at, updated_at, is_deleted, deleted_at,
	model, manufacturer, manufacturing_date, acquisition_date, location, cost, purpose, ownership,
	computer_subtype, cpu_model, cpu_speed, operating_system, ram, storage, video_card,
	display_resolution, mac_lan, mac_wlan,
	cpu_score, score_2d, score_3d, memory_score, disk_score, overall_rating,
	equipment_name, ip_address, assignment_date, primary_user, usage_type, status, notes`

// mutableColumns lists the EquipmentFields columns in args() order.
var mutableColumns = []string{
	"serial_number", "model", "manufacturer", "manufacturing_date", "acquisition_date",
	"location", "cost", "purpose", "ownership", "computer_subtype", "cpu_model", "cpu_speed",
	"operating_system", "ram", "storage", "video_card", "display_resolution", "mac_lan",
	"mac_wlan", "cpu_score", "score_2d", "score_3d", "memory_score", "disk_score",
	"overall_rating", "equipment_name", "ip_address", "assignment_date", "primary_user",
	"usage_type", "status", "notes",
}

var (
	insertEquipment = buildInsertEquipment()
	updateEquipment = buildUpdateEquipment()
)

func buildInsertEquipment() string {
	placeholders := make([]string, len(mutableColumns))
	for i, col := range mutableColumns {
		p := fmt.Sprintf("$%d", i+4)
		if col == "status" {
			p = fmt.Sprintf("COALESCE(%s, 'Active')", p)
		}
		placeholders[i] = p
	}
	return fmt.Sprintf(`INSERT INTO equipment (equipment_id, equipment_id_num, equipment_type, %s)
VALUES ($1, $2, $3, %s)
RETURNING %s`, strings.Join(mutableColumns, ", "), strings.Join(placeholders, ", "), equipmentColumns)
}

func buildUpdateEquipment() string {
	sets := make([]string, len(mutableColumns))
	for i, col := range mutableColumns {
		sets[i] = fmt.Sprintf("%s = COALESCE($%d, %s)", col, i+2, col)
	}
	return fmt.Sprintf(`UPDATE equipment SET %s, updated_at = now()
WHERE id = $1
RETURNING %s`, strings.Join(sets, ",\n\t"), equipmentColumns)
}

func scanEquipment(row pgx.Row) (Equipment, error) {
	var i Equipment
	err := row.Scan(
		&i.ID,
		&i.EquipmentID,
		&i.EquipmentIDNum,
		&i.EquipmentType,
		&i.SerialNumber,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.IsDeleted,
		&i.DeletedAt,
		&i.Model,
		&i.Manufacturer,
		&i.ManufacturingDate,
		&i.AcquisitionDate,
		&i.Location,
		&i.Cost,
		&i.Purpose,
		&i.Ownership,
		&i.ComputerSubtype,
		&i.CpuModel,
		&i.CpuSpeed,
		&i.OperatingSystem,
		&i.Ram,
		&i.Storage,
		&i.VideoCard,
		&i.DisplayResolution,
		&i.MacLan,
		&i.MacWlan,
		&i.CpuScore,
		&i.Score2d,
		&i.Score3d,
		&i.MemoryScore,
		&i.DiskScore,
		&i.OverallRating,
		&i.EquipmentName,
		&i.IpAddress,
		&i.AssignmentDate,
		&i.PrimaryUser,
		&i.UsageType,
		&i.Status,
		&i.Notes,
	)
	return i, err
}

func collectEquipment(rows pgx.Rows) ([]Equipment, error) {
	defer rows.Close()
	var items []Equipment
	for rows.Next() {
		i, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getEquipmentByEquipmentID = `SELECT ` + equipmentColumns + `
FROM equipment
WHERE equipment_id = $1 AND ($2::bool OR NOT is_deleted)
LIMIT 1`

type GetEquipmentByEquipmentIDParams struct {
	EquipmentID    string
	IncludeDeleted bool
}

func (q *Queries) GetEquipmentByEquipmentID(ctx context.Context, arg GetEquipmentByEquipmentIDParams) (Equipment, error) {
	row := q.db.QueryRow(ctx, getEquipmentByEquipmentID, arg.EquipmentID, arg.IncludeDeleted)
	return scanEquipment(row)
}

const getEquipmentBySerial = `SELECT ` + equipmentColumns + `
FROM equipment
WHERE serial_number = $1 AND ($2::bool OR NOT is_deleted)
LIMIT 1`

type GetEquipmentBySerialParams struct {
	SerialNumber   string
	IncludeDeleted bool
}

func (q *Queries) GetEquipmentBySerial(ctx context.Context, arg GetEquipmentBySerialParams) (Equipment, error) {
	row := q.db.QueryRow(ctx, getEquipmentBySerial, arg.SerialNumber, arg.IncludeDeleted)
	return scanEquipment(row)
}

const maxEquipmentIDNum = `SELECT COALESCE(MAX(equipment_id_num), 0)::int4
FROM equipment
WHERE equipment_type = $1`

func (q *Queries) MaxEquipmentIDNum(ctx context.Context, equipmentType string) (int32, error) {
	row := q.db.QueryRow(ctx, maxEquipmentIDNum, equipmentType)
	var n int32
	err := row.Scan(&n)
	return n, err
}

type InsertEquipmentParams struct {
	EquipmentID    string
	EquipmentIDNum int32
	EquipmentType  string
	EquipmentFields
}

func (q *Queries) InsertEquipment(ctx context.Context, arg InsertEquipmentParams) (Equipment, error) {
	args := append([]interface{}{arg.EquipmentID, arg.EquipmentIDNum, arg.EquipmentType}, arg.EquipmentFields.args()...)
	row := q.db.QueryRow(ctx, insertEquipment, args...)
	return scanEquipment(row)
}

type UpdateEquipmentParams struct {
	ID int32
	EquipmentFields
}

func (q *Queries) UpdateEquipment(ctx context.Context, arg UpdateEquipmentParams) (Equipment, error) {
	args := append([]interface{}{arg.ID}, arg.EquipmentFields.args()...)
	row := q.db.QueryRow(ctx, updateEquipment, args...)
	return scanEquipment(row)
}

const softDeleteEquipment = `UPDATE equipment
SET is_deleted = true, deleted_at = now(), updated_at = now()
WHERE id = $1
RETURNING ` + equipmentColumns

func (q *Queries) SoftDeleteEquipment(ctx context.Context, id int32) (Equipment, error) {
	row := q.db.QueryRow(ctx, softDeleteEquipment, id)
	return scanEquipment(row)
}

const restoreEquipment = `UPDATE equipment
SET is_deleted = false, deleted_at = NULL, updated_at = now()
WHERE id = $1
RETURNING ` + equipmentColumns

func (q *Queries) RestoreEquipment(ctx context.Context, id int32) (Equipment, error) {
	row := q.db.QueryRow(ctx, restoreEquipment, id)
	return scanEquipment(row)
}

const listDeletedEquipment = `SELECT ` + equipmentColumns + `
FROM equipment
WHERE is_deleted
ORDER BY deleted_at DESC`

func (q *Queries) ListDeletedEquipment(ctx context.Context) ([]Equipment, error) {
	rows, err := q.db.Query(ctx, listDeletedEquipment)
	if err != nil {
		return nil, err
	}
	return collectEquipment(rows)
}

// ListEquipment runs a filtered listing. where and orderBy come from
// WhereBuilder and SortClause, never from user input directly.
func (q *Queries) ListEquipment(ctx context.Context, where, orderBy string, args []interface{}) ([]Equipment, error) {
	sql := `SELECT ` + equipmentColumns + ` FROM equipment` + where + orderBy
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectEquipment(rows)
}
