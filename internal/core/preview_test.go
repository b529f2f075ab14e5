package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowNumbers(rows []ImportRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.RowNumber
	}
	return out
}

func TestPreview_Buckets(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo, TypePC, 5, nil)

	csvData := "\xEF\xBB\xBFEquipment ID,Category,Serial Number,IP Address,Notes\n" +
		"pc-0001,Computer,SN1,10.0.0.1,\n" +
		",,,,\n" +
		"MON-0001,Monitor,SN2,300.1.1.1,\n" +
		"PC-0005,PC,SN3,,\n" +
		",,,,just a note\n" +
		",Printer,SN4,,\n"

	result, err := svc.Preview(context.Background(), []byte(csvData))
	require.NoError(t, err)

	assert.Equal(t, []string{"Equipment ID", "Category", "Serial Number", "IP Address", "Notes"}, result.CSVColumns)
	assert.Equal(t, []int{1, 6}, rowNumbers(result.ValidatedRows))
	assert.Equal(t, []int{3}, rowNumbers(result.ProblematicRows))
	assert.Equal(t, []int{4}, rowNumbers(result.DuplicateRows))
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, result.TotalRows,
		len(result.ValidatedRows)+len(result.ProblematicRows)+len(result.DuplicateRows))

	first := result.ValidatedRows[0]
	assert.Equal(t, "PC-0001", first.Data[FieldEquipmentID])
	assert.Equal(t, "PC", first.Data[FieldEquipmentType])
	assert.Equal(t, "Computer", first.OriginalValues[FieldEquipmentType])

	printer := result.ValidatedRows[1]
	assert.Equal(t, "PRN-0001 (auto)", printer.NormalizedValues[FieldEquipmentID])
	assert.Equal(t, []RawField{
		{"Equipment ID", ""}, {"Category", "Printer"}, {"Serial Number", "SN4"},
		{"IP Address", ""}, {"Notes", ""},
	}, printer.RawFields)

	// Preview writes nothing.
	items, err := repo.List(context.Background(), EquipmentFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPreview_RaggedRows(t *testing.T) {
	svc, _ := newTestService(t)

	csvData := "Equipment Type,Model\n" +
		"PC\n" +
		"Monitor,U2720Q,extra\n"

	result, err := svc.Preview(context.Background(), []byte(csvData))
	require.NoError(t, err)
	require.Len(t, result.ValidatedRows, 2)
	assert.NotContains(t, result.ValidatedRows[0].Data, FieldModel)
	assert.Equal(t, "U2720Q", result.ValidatedRows[1].Data[FieldModel])
}

func TestPreview_DecodeErrors(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmptyFile},
		{"only bom", "\xEF\xBB\xBF", ErrEmptyFile},
		{"blank header", " , \nPC,x\n", ErrEmptyFile},
		{"invalid utf-8", "Model\n\xff\xfe\n", ErrEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Preview(context.Background(), []byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPreview_HeaderOnly(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Preview(context.Background(), []byte("Equipment ID,Model\n"))
	require.NoError(t, err)
	assert.Zero(t, result.TotalRows)
	assert.Empty(t, result.ValidatedRows)
	assert.Equal(t, []string{"Equipment ID", "Model"}, result.CSVColumns)
}

func TestPreview_ImportSlotsExhausted(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, Options{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	require.True(t, svc.limiter.TryAcquire())
	defer svc.limiter.Release()

	_, err := svc.Preview(context.Background(), []byte("Model\nx\n"))
	assert.True(t, errors.Is(err, ErrTooManyImports), "got %v", err)
}

func TestPreview_ReleasesSlot(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Preview(context.Background(), []byte("Model\nx\n"))
	require.NoError(t, err)
	assert.Zero(t, svc.ImportStatus().Active)
}
