package core

import (
	"context"
	"errors"
	"fmt"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores equipment in PostgreSQL. Every call runs on its own
// pooled connection, so each write commits before the next read.
type PGRepository struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, q: db.New(pool)}
}

// one converts a single-row query result, mapping no rows to ErrNotFound.
func one(e db.Equipment, err error) (*db.Equipment, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PGRepository) MaxSequence(ctx context.Context, t EquipmentType) (int32, error) {
	return r.q.MaxEquipmentIDNum(ctx, string(t))
}

func (r *PGRepository) FindByEquipmentID(ctx context.Context, equipmentID string, includeDeleted bool) (*db.Equipment, error) {
	return one(r.q.GetEquipmentByEquipmentID(ctx, db.GetEquipmentByEquipmentIDParams{
		EquipmentID:    equipmentID,
		IncludeDeleted: includeDeleted,
	}))
}

func (r *PGRepository) FindBySerial(ctx context.Context, serial string, includeDeleted bool) (*db.Equipment, error) {
	return one(r.q.GetEquipmentBySerial(ctx, db.GetEquipmentBySerialParams{
		SerialNumber:   serial,
		IncludeDeleted: includeDeleted,
	}))
}

func (r *PGRepository) Create(ctx context.Context, e NewEquipment) (*db.Equipment, error) {
	return one(r.q.InsertEquipment(ctx, db.InsertEquipmentParams{
		EquipmentID:     e.EquipmentID,
		EquipmentIDNum:  e.Num,
		EquipmentType:   string(e.Type),
		EquipmentFields: db.EquipmentFields(e.Fields),
	}))
}

// Update writes the restore, the history entry and the patch in one
// transaction.
func (r *PGRepository) Update(ctx context.Context, e *db.Equipment, patch EquipmentPatch, opts UpdateOptions) (*db.Equipment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := r.q.WithTx(tx)
	if opts.Restore {
		if _, err := one(qtx.RestoreEquipment(ctx, e.ID)); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}
	if hist := opts.History; hist != nil {
		if _, err := qtx.InsertAssignmentHistory(ctx, db.InsertAssignmentHistoryParams{
			EquipmentID:           e.ID,
			PreviousUser:          hist.PreviousUser,
			PreviousUsageType:     hist.PreviousUsageType,
			PreviousEquipmentName: hist.PreviousEquipmentName,
			StartDate:             hist.StartDate,
			EndDate:               hist.EndDate,
		}); err != nil {
			return nil, fmt.Errorf("insert history: %w", err)
		}
	}

	updated, err := one(qtx.UpdateEquipment(ctx, db.UpdateEquipmentParams{
		ID:              e.ID,
		EquipmentFields: db.EquipmentFields(patch),
	}))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

func (r *PGRepository) MarkDeleted(ctx context.Context, id int32) (*db.Equipment, error) {
	return one(r.q.SoftDeleteEquipment(ctx, id))
}

func (r *PGRepository) MarkRestored(ctx context.Context, id int32) (*db.Equipment, error) {
	return one(r.q.RestoreEquipment(ctx, id))
}

func (r *PGRepository) List(ctx context.Context, f EquipmentFilter) ([]db.Equipment, error) {
	wb := db.NewWhereBuilder()
	if !f.IncludeDeleted {
		wb.AddRaw("NOT is_deleted")
	}
	wb.Add("status", f.Status)
	wb.Add("equipment_type", f.EquipmentType)
	wb.Add("usage_type", f.UsageType)
	wb.AddContains("location", f.Location)
	wb.AddContains("primary_user", f.PrimaryUser)
	wb.AddContains("model", f.Model)
	wb.AddRange("overall_rating", f.MinRating, f.MaxRating)

	where, args := wb.Build()
	return r.q.ListEquipment(ctx, where, db.SortClause(f.SortBy, f.SortDesc), args)
}

func (r *PGRepository) ListDeleted(ctx context.Context) ([]db.Equipment, error) {
	return r.q.ListDeletedEquipment(ctx)
}

func (r *PGRepository) History(ctx context.Context, id int32) ([]db.AssignmentHistory, error) {
	return r.q.ListAssignmentHistory(ctx, id)
}
