package core

import (
	"context"
	"errors"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
)

// Repository is the storage collaborator behind Service. Lookups return
// ErrNotFound when nothing matches. Writes are visible to later reads made
// through the same Repository, which ID generation depends on.
type Repository interface {
	// MaxSequence returns the highest ID number used for t, deleted records
	// included, or 0 when none exist.
	MaxSequence(ctx context.Context, t EquipmentType) (int32, error)
	FindByEquipmentID(ctx context.Context, equipmentID string, includeDeleted bool) (*db.Equipment, error)
	FindBySerial(ctx context.Context, serial string, includeDeleted bool) (*db.Equipment, error)

	Create(ctx context.Context, e NewEquipment) (*db.Equipment, error)
	// Update applies patch to e. History and restoring a soft-deleted record
	// happen in the same unit of work, so a failed update leaves e untouched.
	Update(ctx context.Context, e *db.Equipment, patch EquipmentPatch, opts UpdateOptions) (*db.Equipment, error)
	MarkDeleted(ctx context.Context, id int32) (*db.Equipment, error)
	MarkRestored(ctx context.Context, id int32) (*db.Equipment, error)

	List(ctx context.Context, f EquipmentFilter) ([]db.Equipment, error)
	ListDeleted(ctx context.Context) ([]db.Equipment, error)
	History(ctx context.Context, id int32) ([]db.AssignmentHistory, error)
}

// NewEquipment is a record about to be created. ID and Num are assigned by
// the caller from MaxSequence.
type NewEquipment struct {
	EquipmentID string
	Num         int32
	Type        EquipmentType
	Fields      EquipmentPatch
}

// UpdateOptions extends an Update.
type UpdateOptions struct {
	// History is recorded when non-nil.
	History *HistoryEntry
	// Restore clears the soft-delete flag.
	Restore bool
}

// HistoryEntry captures an assignment that is being replaced.
type HistoryEntry struct {
	PreviousUser          pgtype.Text
	PreviousUsageType     pgtype.Text
	PreviousEquipmentName pgtype.Text
	StartDate             pgtype.Date
	EndDate               pgtype.Date
}

// EquipmentFilter narrows List. Zero values mean "no filter".
type EquipmentFilter struct {
	Status        string
	EquipmentType string
	UsageType     string

	// Substring matches, case-insensitive.
	Location    string
	PrimaryUser string
	Model       string

	MinRating *int
	MaxRating *int

	SortBy         string
	SortDesc       bool
	IncludeDeleted bool
}

// FindByIdentifier looks up by equipment ID first, then by serial number.
func FindByIdentifier(ctx context.Context, repo Repository, identifier string, includeDeleted bool) (*db.Equipment, error) {
	e, err := repo.FindByEquipmentID(ctx, NormalizeEquipmentID(identifier), includeDeleted)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return repo.FindBySerial(ctx, identifier, includeDeleted)
}
