package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// ImportPreviewResult buckets every meaningful data row of an upload.
type ImportPreviewResult struct {
	TotalRows       int         `json:"total_rows"`
	ValidatedRows   []ImportRow `json:"validated_rows"`
	ProblematicRows []ImportRow `json:"problematic_rows"`
	DuplicateRows   []ImportRow `json:"duplicate_rows"`
	CSVColumns      []string    `json:"csv_columns"`
}

// identifyingFields are the fields at least one of which a row needs to be
// previewed at all. Rows with only notes or scores are dropped.
var identifyingFields = []string{
	FieldEquipmentID, FieldEquipmentType, FieldSerialNumber,
	FieldModel, FieldManufacturer, FieldEquipmentName,
}

func hasIdentifyingData(data map[string]string) bool {
	for _, f := range identifyingFields {
		if v := data[f]; v != "" && v != AutoIDSentinel {
			return true
		}
	}
	return false
}

// Preview classifies an uploaded CSV without writing anything. Row numbers
// count data rows from 1, blank rows included.
func (s *Service) Preview(ctx context.Context, csvData []byte) (*ImportPreviewResult, error) {
	ctx, done, err := s.beginImport(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	table, err := decodeCSV(csvData)
	if err != nil {
		return nil, err
	}

	log := logging.WithFields(ctx, "import_id", uuid.NewString(), "op", "preview")
	log.Debug("preview started", "columns", len(table.header), "records", len(table.records))

	result := &ImportPreviewResult{
		ValidatedRows:   []ImportRow{},
		ProblematicRows: []ImportRow{},
		DuplicateRows:   []ImportRow{},
		CSVColumns:      table.header,
	}

	c := s.newClassifier(s.cache)
	for i, record := range table.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isEmptyRow(record) {
			continue
		}
		rowNumber := i + 1
		row, err := c.classify(ctx, rowNumber, table.rawRow(record))
		if err != nil {
			return nil, fmt.Errorf("preview row %d: %w", rowNumber, err)
		}
		if !hasIdentifyingData(row.Data) {
			continue
		}
		switch row.Status {
		case RowProblematic:
			result.ProblematicRows = append(result.ProblematicRows, row)
		case RowDuplicate:
			result.DuplicateRows = append(result.DuplicateRows, row)
		default:
			result.ValidatedRows = append(result.ValidatedRows, row)
		}
	}
	result.TotalRows = len(result.ValidatedRows) + len(result.ProblematicRows) + len(result.DuplicateRows)

	log.Info("preview complete",
		"rows", result.TotalRows,
		"validated", len(result.ValidatedRows),
		"problematic", len(result.ProblematicRows),
		"duplicate", len(result.DuplicateRows),
	)
	return result, nil
}

// ValidateRow re-runs classification on a row the user edited after preview.
// data is keyed by canonical field name.
func (s *Service) ValidateRow(ctx context.Context, data map[string]string, rowNumber int) (ImportRow, error) {
	c := s.newClassifier(s.cache)
	return c.classify(ctx, rowNumber, s.schema.rawFromData(data))
}

// FieldValidation is the result of checking a single field value.
type FieldValidation struct {
	Valid           bool    `json:"valid"`
	NormalizedValue *string `json:"normalized_value,omitempty"`
	Error           *string `json:"error,omitempty"`
	Suggestion      string  `json:"suggestion,omitempty"`
}

func validField(normalized string) FieldValidation {
	return FieldValidation{Valid: true, NormalizedValue: &normalized}
}

func invalidField(msg string) FieldValidation {
	return FieldValidation{Error: &msg}
}

// ValidateField checks one value for inline editing. field may be a canonical
// name or any header the schema accepts; "mac_address" is accepted for
// either MAC column. Fields without a format rule are always valid.
func (s *Service) ValidateField(field, value string) FieldValidation {
	value = strings.TrimSpace(value)
	canonical := s.schema.Canonical(field)
	if field == "mac_address" {
		canonical = FieldMACLan
	}

	switch canonical {
	case FieldIPAddress:
		if ok, msg := ValidateIPv4(value); !ok {
			return invalidField(msg)
		}
		return validField(value)
	case FieldMACLan, FieldMACWlan:
		if ok, msg := ValidateMAC(value); !ok {
			return invalidField(msg)
		}
		return validField(NormalizeMAC(value))
	case FieldEquipmentID:
		if ok, msg := ValidateEquipmentID(value); !ok {
			v := invalidField(msg)
			v.Suggestion = SuggestEquipmentID(value)
			return v
		}
		return validField(NormalizeEquipmentID(value))
	case FieldCPUSpeed:
		if ok, msg := ValidateCPUSpeed(value); !ok {
			return invalidField(msg)
		}
		return validField(NormalizeCPUSpeed(value))
	case FieldComputerSubtype, FieldStatus, FieldUsageType:
		return validField(ToTitleCase(value))
	}
	return validField(value)
}
