package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/inventory/internal/database"
)

// ValidationError rejects a create or update whose fields fail format checks.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// checkFields runs the format validators over canonical data.
func checkFields(data map[string]string) error {
	var errs []FieldError
	check := func(field string, validate func(string) (bool, string)) {
		v := data[field]
		if v == "" {
			return
		}
		if ok, msg := validate(v); !ok {
			errs = append(errs, FieldError{Field: field, Value: v, Message: msg})
		}
	}
	check(FieldIPAddress, ValidateIPv4)
	check(FieldMACLan, ValidateMAC)
	check(FieldMACWlan, ValidateMAC)
	check(FieldCPUSpeed, ValidateCPUSpeed)
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ListEquipment returns records matching f.
func (s *Service) ListEquipment(ctx context.Context, f EquipmentFilter) ([]db.Equipment, error) {
	if t, ok := ParseEquipmentType(f.EquipmentType); ok {
		f.EquipmentType = string(t)
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

// GetEquipment finds an active record by equipment ID or serial number.
func (s *Service) GetEquipment(ctx context.Context, identifier string) (*db.Equipment, error) {
	return FindByIdentifier(ctx, s.repo, identifier, false)
}

// CreateEquipment adds a record with the next free ID for its type. Any
// equipment_id in data is ignored.
func (s *Service) CreateEquipment(ctx context.Context, data map[string]string) (*db.Equipment, error) {
	data = normalizeData(data)
	t, err := requireEquipmentType(data[FieldEquipmentType])
	if err != nil {
		return nil, &ValidationError{Errors: []FieldError{{
			Field: FieldEquipmentType, Value: data[FieldEquipmentType], Message: err.Error(),
		}}}
	}
	if err := checkFields(data); err != nil {
		return nil, err
	}
	if err := s.ensureSerialFree(ctx, data[FieldSerialNumber], 0); err != nil {
		return nil, err
	}

	id, num, err := newIDResolver(s.repo, 0).NextID(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("next %s id: %w", t, err)
	}
	e, err := s.repo.Create(ctx, NewEquipment{EquipmentID: id, Num: num, Type: t, Fields: buildPatch(data)})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", id, err)
	}
	return e, nil
}

// UpdateEquipment applies the non-empty fields of data to an active record.
// Changing the primary user, usage type or name records the previous
// assignment in the history.
func (s *Service) UpdateEquipment(ctx context.Context, identifier string, data map[string]string) (*db.Equipment, error) {
	e, err := s.GetEquipment(ctx, identifier)
	if err != nil {
		return nil, err
	}
	data = normalizeData(data)
	if err := checkFields(data); err != nil {
		return nil, err
	}
	if serial := data[FieldSerialNumber]; serial != "" && serial != TextString(e.SerialNumber) {
		if err := s.ensureSerialFree(ctx, serial, e.ID); err != nil {
			return nil, err
		}
	}

	patch := buildPatch(data)
	updated, err := s.repo.Update(ctx, e, patch, UpdateOptions{History: assignmentChange(e, patch, s.now())})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", e.EquipmentID, err)
	}
	return updated, nil
}

// ensureSerialFree fails with ErrSerialExists when another record, deleted
// or not, already has serial. self is the record being updated, or 0.
func (s *Service) ensureSerialFree(ctx context.Context, serial string, self int32) error {
	if serial == "" {
		return nil
	}
	other, err := s.repo.FindBySerial(ctx, serial, true)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != self:
		return fmt.Errorf("%w: %s is used by %s", ErrSerialExists, serial, other.EquipmentID)
	}
	return nil
}

// DeleteEquipment soft-deletes an active record.
func (s *Service) DeleteEquipment(ctx context.Context, identifier string) (*db.Equipment, error) {
	e, err := s.GetEquipment(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.repo.MarkDeleted(ctx, e.ID)
}

// RestoreEquipment undoes a soft delete. It returns ErrNotDeleted for a
// record that is active.
func (s *Service) RestoreEquipment(ctx context.Context, identifier string) (*db.Equipment, error) {
	e, err := FindByIdentifier(ctx, s.repo, identifier, true)
	if err != nil {
		return nil, err
	}
	if !e.IsDeleted {
		return nil, ErrNotDeleted
	}
	return s.repo.MarkRestored(ctx, e.ID)
}

// EquipmentHistory lists past assignments, most recent first.
func (s *Service) EquipmentHistory(ctx context.Context, identifier string) ([]db.AssignmentHistory, error) {
	e, err := FindByIdentifier(ctx, s.repo, identifier, true)
	if err != nil {
		return nil, err
	}
	return s.repo.History(ctx, e.ID)
}

// ListDeleted returns soft-deleted records, most recently deleted first.
func (s *Service) ListDeleted(ctx context.Context) ([]db.Equipment, error) {
	return s.repo.ListDeleted(ctx)
}
