package core

import (
	"context"
	"fmt"
	"strings"
)

// AutoIDSentinel marks a row whose equipment ID will be generated on commit.
// It is treated as an absent ID everywhere.
const AutoIDSentinel = "(auto)"

// RowStatus is the preview bucket a row falls into.
type RowStatus string

const (
	RowValidated   RowStatus = "validated"
	RowProblematic RowStatus = "problematic"
	RowDuplicate   RowStatus = "duplicate"
)

// FieldError is one failed field check.
type FieldError struct {
	Field      string `json:"field"`
	Value      string `json:"value"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ImportRow is the classified form of one CSV data row.
type ImportRow struct {
	RowNumber int        `json:"row_number"`
	RawFields []RawField `json:"raw_fields"`
	// Data holds canonical field values. A generated equipment ID is
	// display-only: it appears in NormalizedValues as "PC-0007 (auto)" and is
	// never written here. Commit assigns the real ID.
	Data             map[string]string `json:"data"`
	Errors           []FieldError      `json:"errors"`
	Status           RowStatus         `json:"status"`
	NormalizedValues map[string]string `json:"normalized_values"`
	OriginalValues   map[string]string `json:"original_values"`
}

// setNormalized replaces a data value and records the change. The first
// original value of a field is kept when it is rewritten more than once.
func (r *ImportRow) setNormalized(field, before, after string) {
	r.Data[field] = after
	if before == after {
		return
	}
	if _, seen := r.OriginalValues[field]; !seen {
		r.OriginalValues[field] = before
	}
	r.NormalizedValues[field] = after
}

func (r *ImportRow) addError(field, value, message, suggestion string) {
	r.Errors = append(r.Errors, FieldError{
		Field:      field,
		Value:      value,
		Message:    message,
		Suggestion: suggestion,
	})
}

// classifier runs alias resolution, normalization, validation and the
// duplicate check over one row.
type classifier struct {
	schema *ImportSchema
	ids    *idResolver
}

// classify builds an ImportRow from raw cells. Errors are storage failures
// only; bad field values end up in row.Errors.
func (c *classifier) classify(ctx context.Context, rowNumber int, raw []RawField) (ImportRow, error) {
	res := c.schema.Resolve(raw)
	row := ImportRow{
		RowNumber:        rowNumber,
		RawFields:        raw,
		Data:             res.data,
		Errors:           []FieldError{},
		NormalizedValues: res.normalized,
		OriginalValues:   res.original,
	}

	if v := row.Data[FieldEquipmentType]; v != "" {
		if t, ok := ParseEquipmentType(v); ok {
			row.setNormalized(FieldEquipmentType, v, string(t))
		}
	}

	if err := c.resolveEquipmentID(ctx, &row); err != nil {
		return row, err
	}
	c.checkIP(&row)
	c.checkMACs(&row)
	c.normalizeCPUSpeed(&row)
	c.titleCaseVocabularies(&row)

	row.Status = RowValidated
	if len(row.Errors) > 0 {
		row.Status = RowProblematic
		return row, nil
	}

	if id := row.Data[FieldEquipmentID]; id != "" {
		dup, err := c.ids.Exists(ctx, id)
		if err != nil {
			return row, fmt.Errorf("check equipment id %s: %w", id, err)
		}
		if dup {
			row.Status = RowDuplicate
		}
	}
	return row, nil
}

// resolveEquipmentID normalizes and validates a supplied ID. Without one it
// shows the ID the row would receive, or the sentinel when the type is
// unusable. Generated IDs are never written to Data.
func (c *classifier) resolveEquipmentID(ctx context.Context, row *ImportRow) error {
	v := row.Data[FieldEquipmentID]
	if v == AutoIDSentinel {
		delete(row.Data, FieldEquipmentID)
		v = ""
	}

	if v != "" {
		id := NormalizeEquipmentID(v)
		row.setNormalized(FieldEquipmentID, v, id)
		if ok, msg := ValidateEquipmentID(id); !ok {
			row.addError(FieldEquipmentID, v, msg, SuggestEquipmentID(v))
		}
		return nil
	}

	display := AutoIDSentinel
	if t, ok := ParseEquipmentType(row.Data[FieldEquipmentType]); ok {
		id, _, err := c.ids.NextID(ctx, t)
		if err != nil {
			return fmt.Errorf("next %s id: %w", t, err)
		}
		display = id + " " + AutoIDSentinel
	}
	row.NormalizedValues[FieldEquipmentID] = display
	row.OriginalValues[FieldEquipmentID] = ""
	return nil
}

func (c *classifier) checkIP(row *ImportRow) {
	v := row.Data[FieldIPAddress]
	if v == "" {
		return
	}
	if ok, msg := ValidateIPv4(v); !ok {
		row.addError(FieldIPAddress, v, msg, "")
	}
}

// checkMACs validates then normalizes both MAC columns. A LAN cell holding
// several addresses spills the rest into an empty WLAN column.
func (c *classifier) checkMACs(row *ImportRow) {
	valid := map[string]bool{}
	for _, field := range []string{FieldMACLan, FieldMACWlan} {
		v := row.Data[field]
		if v == "" {
			continue
		}
		if ok, msg := ValidateMAC(v); !ok {
			row.addError(field, v, msg, "")
			continue
		}
		row.setNormalized(field, v, NormalizeMAC(v))
		valid[field] = true
	}

	lan := row.Data[FieldMACLan]
	if !valid[FieldMACLan] || row.Data[FieldMACWlan] != "" || !strings.Contains(lan, "\n") {
		return
	}
	macs := strings.Split(lan, "\n")
	row.setNormalized(FieldMACLan, lan, macs[0])
	row.setNormalized(FieldMACWlan, "", strings.Join(macs[1:], "\n"))
}

// normalizeCPUSpeed rewrites recognizable speeds as "<n> GHz". Free-form
// values pass through unchanged and never fail the row.
func (c *classifier) normalizeCPUSpeed(row *ImportRow) {
	if v := row.Data[FieldCPUSpeed]; v != "" {
		row.setNormalized(FieldCPUSpeed, v, NormalizeCPUSpeed(v))
	}
}

func (c *classifier) titleCaseVocabularies(row *ImportRow) {
	if v := row.Data[FieldComputerSubtype]; v != "" {
		row.setNormalized(FieldComputerSubtype, v, string(ComputerSubtype(v).Normalize()))
	}
	if v := row.Data[FieldStatus]; v != "" {
		row.setNormalized(FieldStatus, v, string(Status(v).Normalize()))
	}
	if v := row.Data[FieldUsageType]; v != "" {
		row.setNormalized(FieldUsageType, v, string(UsageType(v).Normalize()))
	}
}

// normalizeData applies the classifier's normalizations to a copy of data
// without validating. Values a validator would reject are kept as they are.
// Used on the commit paths, where rows arrive already reviewed.
func normalizeData(data map[string]string) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		v = strings.TrimSpace(v)
		if v == "" || v == AutoIDSentinel {
			continue
		}
		out[k] = v
	}

	if v, ok := out[FieldEquipmentID]; ok {
		out[FieldEquipmentID] = NormalizeEquipmentID(v)
	}
	if t, ok := ParseEquipmentType(out[FieldEquipmentType]); ok {
		out[FieldEquipmentType] = string(t)
	}
	for _, f := range []string{FieldMACLan, FieldMACWlan} {
		if v, ok := out[f]; ok {
			if valid, _ := ValidateMAC(v); valid {
				out[f] = NormalizeMAC(v)
			}
		}
	}
	if lan := out[FieldMACLan]; strings.Contains(lan, "\n") && out[FieldMACWlan] == "" {
		macs := strings.Split(lan, "\n")
		out[FieldMACLan] = macs[0]
		out[FieldMACWlan] = strings.Join(macs[1:], "\n")
	}
	if v, ok := out[FieldCPUSpeed]; ok {
		out[FieldCPUSpeed] = NormalizeCPUSpeed(v)
	}
	if v, ok := out[FieldComputerSubtype]; ok {
		out[FieldComputerSubtype] = string(ComputerSubtype(v).Normalize())
	}
	if v, ok := out[FieldStatus]; ok {
		out[FieldStatus] = string(Status(v).Normalize())
	}
	if v, ok := out[FieldUsageType]; ok {
		out[FieldUsageType] = string(UsageType(v).Normalize())
	}
	return out
}
