package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertAssignmentHistory = `INSERT INTO assignment_history (
    equipment_id, previous_user, previous_usage_type, previous_equipment_name, start_date, end_date
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, equipment_id, previous_user, previous_usage_type, previous_equipment_name, start_date, end_date, created_at`

type InsertAssignmentHistoryParams struct {
	EquipmentID           int32
	PreviousUser          pgtype.Text
	PreviousUsageType     pgtype.Text
	PreviousEquipmentName pgtype.Text
	StartDate             pgtype.Date
	EndDate               pgtype.Date
}

func (q *Queries) InsertAssignmentHistory(ctx context.Context, arg InsertAssignmentHistoryParams) (AssignmentHistory, error) {
	row := q.db.QueryRow(ctx, insertAssignmentHistory,
		arg.EquipmentID,
		arg.PreviousUser,
		arg.PreviousUsageType,
		arg.PreviousEquipmentName,
		arg.StartDate,
		arg.EndDate,
	)
	var i AssignmentHistory
	err := row.Scan(
		&i.ID,
		&i.EquipmentID,
		&i.PreviousUser,
		&i.PreviousUsageType,
		&i.PreviousEquipmentName,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
	)
	return i, err
}

const listAssignmentHistory = `SELECT id, equipment_id, previous_user, previous_usage_type, previous_equipment_name, start_date, end_date, created_at
FROM assignment_history
WHERE equipment_id = $1
ORDER BY end_date DESC, id DESC`

func (q *Queries) ListAssignmentHistory(ctx context.Context, equipmentID int32) ([]AssignmentHistory, error) {
	rows, err := q.db.Query(ctx, listAssignmentHistory, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AssignmentHistory
	for rows.Next() {
		var i AssignmentHistory
		if err := rows.Scan(
			&i.ID,
			&i.EquipmentID,
			&i.PreviousUser,
			&i.PreviousUsageType,
			&i.PreviousEquipmentName,
			&i.StartDate,
			&i.EndDate,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
