package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// ConfirmRow is a reviewed row the user approved for commit.
type ConfirmRow struct {
	RowNumber int               `json:"row_number"`
	Data      map[string]string `json:"data"`
}

// ImportConfirmRequest carries the approved rows in submission order.
type ImportConfirmRequest struct {
	Rows []ConfirmRow `json:"rows"`
}

// ImportError describes one row that could not be committed.
type ImportError struct {
	Row          int    `json:"row"`
	SerialNumber string `json:"serial_number"`
	Error        string `json:"error"`
}

// ImportResult counts what a commit did. Created, Updated, Restored and
// Failed always add up to TotalRows.
type ImportResult struct {
	TotalRows int           `json:"total_rows"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Restored  int           `json:"restored"`
	Failed    int           `json:"failed"`
	Errors    []ImportError `json:"errors"`
}

type rowOutcome int

const (
	outcomeFailed rowOutcome = iota
	outcomeCreated
	outcomeUpdated
	outcomeRestored
)

// Confirm commits approved rows one at a time. A failing row is recorded and
// the rest carry on; nothing is rolled back.
func (s *Service) Confirm(ctx context.Context, req ImportConfirmRequest) (*ImportResult, error) {
	ctx, done, err := s.beginImport(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	log := logging.WithFields(ctx, "import_id", uuid.NewString(), "op", "confirm")
	result := s.commitRows(ctx, log, req.Rows)
	return result, nil
}

// LegacyImport resolves, normalizes and commits a CSV in one step, without
// preview. Rows sharing an equipment ID (or, lacking one, a serial number)
// collapse into one commit that uses the last occurrence's data.
func (s *Service) LegacyImport(ctx context.Context, csvData []byte) (*ImportResult, error) {
	ctx, done, err := s.beginImport(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	table, err := decodeCSV(csvData)
	if err != nil {
		return nil, err
	}

	var (
		order []string
		byKey = make(map[string]ConfirmRow)
	)
	for i, record := range table.records {
		if isEmptyRow(record) {
			continue
		}
		rowNumber := i + 1
		data := normalizeData(s.schema.Resolve(table.rawRow(record)).data)

		key := data[FieldEquipmentID]
		if key == "" {
			key = data[FieldSerialNumber]
		}
		if key == "" {
			key = fmt.Sprintf("row_%d", rowNumber)
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = ConfirmRow{RowNumber: rowNumber, Data: data}
	}

	rows := make([]ConfirmRow, len(order))
	for i, key := range order {
		rows[i] = byKey[key]
	}

	log := logging.WithFields(ctx, "import_id", uuid.NewString(), "op", "legacy_import")
	return s.commitRows(ctx, log, rows), nil
}

func (s *Service) commitRows(ctx context.Context, log *slog.Logger, rows []ConfirmRow) *ImportResult {
	result := &ImportResult{TotalRows: len(rows), Errors: []ImportError{}}

	for _, r := range rows {
		data := normalizeData(r.Data)

		outcome, err := s.commitRow(ctx, data)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Row:          r.RowNumber,
				SerialNumber: data[FieldSerialNumber],
				Error:        err.Error(),
			})
			log.Warn("row failed", "row", r.RowNumber, "error", err)
			continue
		}
		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		case outcomeRestored:
			result.Restored++
		}
	}

	log.Info("import complete",
		"rows", result.TotalRows,
		"created", result.Created,
		"updated", result.Updated,
		"restored", result.Restored,
		"failed", result.Failed,
	)
	return result
}

// commitRow creates, updates or restores the record for one row. Panics are
// turned into a row failure.
func (s *Service) commitRow(ctx context.Context, data map[string]string) (outcome rowOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic committing import row", "panic", r, "stack", string(debug.Stack()))
			outcome, err = outcomeFailed, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return outcomeFailed, err
	}

	existing, err := s.findImportTarget(ctx, data)
	if err != nil {
		return outcomeFailed, err
	}
	patch := buildPatch(data)

	if existing != nil {
		opts := UpdateOptions{
			History: assignmentChange(existing, patch, s.now()),
			Restore: existing.IsDeleted,
		}
		if _, err := s.repo.Update(ctx, existing, patch, opts); err != nil {
			return outcomeFailed, fmt.Errorf("update %s: %w", existing.EquipmentID, err)
		}
		if opts.Restore {
			return outcomeRestored, nil
		}
		return outcomeUpdated, nil
	}

	t, err := requireEquipmentType(data[FieldEquipmentType])
	if err != nil {
		return outcomeFailed, err
	}
	id, num, err := newIDResolver(s.repo, 0).NextID(ctx, t)
	if err != nil {
		return outcomeFailed, fmt.Errorf("next %s id: %w", t, err)
	}
	if _, err := s.repo.Create(ctx, NewEquipment{EquipmentID: id, Num: num, Type: t, Fields: patch}); err != nil {
		return outcomeFailed, fmt.Errorf("create %s: %w", id, err)
	}
	return outcomeCreated, nil
}

// findImportTarget returns the record a row updates, deleted records
// included, or nil when the row creates a new one.
func (s *Service) findImportTarget(ctx context.Context, data map[string]string) (*db.Equipment, error) {
	if id := data[FieldEquipmentID]; id != "" {
		e, err := s.repo.FindByEquipmentID(ctx, id, true)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if serial := data[FieldSerialNumber]; serial != "" {
		e, err := s.repo.FindBySerial(ctx, serial, true)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func requireEquipmentType(value string) (EquipmentType, error) {
	if value == "" {
		return "", errors.New("Missing required field: Equipment Type")
	}
	t, ok := ParseEquipmentType(value)
	if !ok {
		return "", fmt.Errorf("Invalid Equipment Type: %s", value)
	}
	return t, nil
}
