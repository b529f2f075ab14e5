package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
)

// MemoryRepository is a Repository held in process memory. It backs the
// offline CLI mode and the test suite. Returned records are copies.
type MemoryRepository struct {
	mu      sync.RWMutex
	items   map[int32]*db.Equipment
	history map[int32][]db.AssignmentHistory
	lastID  int32
	lastHID int32

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:   make(map[int32]*db.Equipment),
		history: make(map[int32][]db.AssignmentHistory),
		now:     time.Now,
	}
}

func (r *MemoryRepository) timestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: r.now(), Valid: true}
}

func (r *MemoryRepository) MaxSequence(_ context.Context, t EquipmentType) (int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int32
	for _, e := range r.items {
		if e.EquipmentType == string(t) && e.EquipmentIDNum > n {
			n = e.EquipmentIDNum
		}
	}
	return n, nil
}

func (r *MemoryRepository) find(match func(*db.Equipment) bool, includeDeleted bool) (*db.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.items {
		if match(e) && (includeDeleted || !e.IsDeleted) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindByEquipmentID(_ context.Context, equipmentID string, includeDeleted bool) (*db.Equipment, error) {
	return r.find(func(e *db.Equipment) bool { return e.EquipmentID == equipmentID }, includeDeleted)
}

func (r *MemoryRepository) FindBySerial(_ context.Context, serial string, includeDeleted bool) (*db.Equipment, error) {
	return r.find(func(e *db.Equipment) bool {
		return e.SerialNumber.Valid && e.SerialNumber.String == serial
	}, includeDeleted)
}

// uniqueViolation mirrors the unique constraints of the equipment table.
// Callers hold r.mu.
func (r *MemoryRepository) uniqueViolation(self int32, equipmentID string, serial pgtype.Text) error {
	for id, e := range r.items {
		if id == self {
			continue
		}
		if e.EquipmentID == equipmentID {
			return fmt.Errorf("duplicate key value violates unique constraint \"equipment_equipment_id_key\": %s", equipmentID)
		}
		if serial.Valid && e.SerialNumber.Valid && e.SerialNumber.String == serial.String {
			return fmt.Errorf("duplicate key value violates unique constraint \"equipment_serial_number_key\": %s", serial.String)
		}
	}
	return nil
}

func (r *MemoryRepository) Create(_ context.Context, n NewEquipment) (*db.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.uniqueViolation(0, n.EquipmentID, n.Fields.SerialNumber); err != nil {
		return nil, err
	}

	r.lastID++
	e := &db.Equipment{
		ID:             r.lastID,
		EquipmentID:    n.EquipmentID,
		EquipmentIDNum: n.Num,
		EquipmentType:  string(n.Type),
		CreatedAt:      r.timestamp(),
		UpdatedAt:      r.timestamp(),
		Status:         string(DefaultStatus),
	}
	n.Fields.Apply(e)
	r.items[e.ID] = e

	cp := *e
	return &cp, nil
}

func (r *MemoryRepository) Update(_ context.Context, e *db.Equipment, patch EquipmentPatch, opts UpdateOptions) (*db.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[e.ID]
	if !ok {
		return nil, ErrNotFound
	}
	next := *cur
	patch.Apply(&next)
	if err := r.uniqueViolation(next.ID, next.EquipmentID, next.SerialNumber); err != nil {
		return nil, err
	}
	if opts.Restore {
		next.IsDeleted = false
		next.DeletedAt = pgtype.Timestamptz{}
	}
	next.UpdatedAt = r.timestamp()
	r.items[e.ID] = &next

	if hist := opts.History; hist != nil {
		r.lastHID++
		r.history[e.ID] = append(r.history[e.ID], db.AssignmentHistory{
			ID:                    r.lastHID,
			EquipmentID:           e.ID,
			PreviousUser:          hist.PreviousUser,
			PreviousUsageType:     hist.PreviousUsageType,
			PreviousEquipmentName: hist.PreviousEquipmentName,
			StartDate:             hist.StartDate,
			EndDate:               hist.EndDate,
			CreatedAt:             r.timestamp(),
		})
	}

	cp := next
	return &cp, nil
}

func (r *MemoryRepository) setDeleted(id int32, deleted bool) (*db.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.IsDeleted = deleted
	e.DeletedAt = pgtype.Timestamptz{}
	if deleted {
		e.DeletedAt = r.timestamp()
	}
	e.UpdatedAt = r.timestamp()

	cp := *e
	return &cp, nil
}

func (r *MemoryRepository) MarkDeleted(_ context.Context, id int32) (*db.Equipment, error) {
	return r.setDeleted(id, true)
}

func (r *MemoryRepository) MarkRestored(_ context.Context, id int32) (*db.Equipment, error) {
	return r.setDeleted(id, false)
}

func (r *MemoryRepository) List(_ context.Context, f EquipmentFilter) ([]db.Equipment, error) {
	r.mu.RLock()
	out := make([]db.Equipment, 0, len(r.items))
	for _, e := range r.items {
		if f.matches(e) {
			out = append(out, *e)
		}
	}
	r.mu.RUnlock()

	sortEquipment(out, f.SortBy, f.SortDesc)
	return out, nil
}

func (r *MemoryRepository) ListDeleted(_ context.Context) ([]db.Equipment, error) {
	r.mu.RLock()
	var out []db.Equipment
	for _, e := range r.items {
		if e.IsDeleted {
			out = append(out, *e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeletedAt.Time.Equal(out[j].DeletedAt.Time) {
			return out[i].DeletedAt.Time.After(out[j].DeletedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) History(_ context.Context, id int32) ([]db.AssignmentHistory, error) {
	r.mu.RLock()
	out := append([]db.AssignmentHistory(nil), r.history[id]...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndDate.Time.Equal(out[j].EndDate.Time) {
			return out[i].EndDate.Time.After(out[j].EndDate.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// matches applies the filter the way the SQL listing does: exact matches on
// the vocabularies, ILIKE-style substrings, and rating bounds that exclude
// unrated records.
func (f EquipmentFilter) matches(e *db.Equipment) bool {
	if e.IsDeleted && !f.IncludeDeleted {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.EquipmentType != "" && e.EquipmentType != f.EquipmentType {
		return false
	}
	if f.UsageType != "" && TextString(e.UsageType) != f.UsageType {
		return false
	}
	if !containsFold(e.Location, f.Location) || !containsFold(e.PrimaryUser, f.PrimaryUser) || !containsFold(e.Model, f.Model) {
		return false
	}
	if f.MinRating != nil && (!e.OverallRating.Valid || int(e.OverallRating.Int32) < *f.MinRating) {
		return false
	}
	if f.MaxRating != nil && (!e.OverallRating.Valid || int(e.OverallRating.Int32) > *f.MaxRating) {
		return false
	}
	return true
}

func containsFold(t pgtype.Text, substr string) bool {
	if substr == "" {
		return true
	}
	return t.Valid && strings.Contains(strings.ToLower(t.String), strings.ToLower(substr))
}

// sortEquipment orders items like database.SortClause: equipment IDs by type
// then number, other columns with empty values last, ties by id.
func sortEquipment(items []db.Equipment, col string, desc bool) {
	if !db.ValidSortColumn(col) {
		col = FieldEquipmentName
	}
	less := func(a, b *db.Equipment) (bool, bool) {
		switch col {
		case FieldEquipmentID:
			if a.EquipmentType != b.EquipmentType {
				return a.EquipmentType < b.EquipmentType, true
			}
			return a.EquipmentIDNum < b.EquipmentIDNum, a.EquipmentIDNum != b.EquipmentIDNum
		case "created_at":
			return a.CreatedAt.Time.Before(b.CreatedAt.Time), !a.CreatedAt.Time.Equal(b.CreatedAt.Time)
		}
		av, bv := fieldValue(a, col), fieldValue(b, col)
		if av == bv {
			return false, false
		}
		return compareColumn(col, av, bv), true
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if col != FieldEquipmentID && col != "created_at" {
			av, bv := fieldValue(a, col), fieldValue(b, col)
			if (av == "") != (bv == "") {
				return bv == ""
			}
		}
		lt, differ := less(a, b)
		if !differ {
			return a.ID < b.ID
		}
		if desc {
			return !lt
		}
		return lt
	})
}

// compareColumn compares rendered values, numerically for score columns.
func compareColumn(col, a, b string) bool {
	switch col {
	case FieldCPUScore, FieldScore2D, FieldScore3D, FieldMemoryScore, FieldDiskScore, FieldOverallRating:
		return ToInt4(a).Int32 < ToInt4(b).Int32
	}
	return a < b
}
