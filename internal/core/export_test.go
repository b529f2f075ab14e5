package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFileName(t *testing.T) {
	got := ExportFileName(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "equipment_export_2025-03-09.csv", got)
}

func TestExport(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, TypePC, 2, map[string]string{
		FieldSerialNumber:   "SN2",
		FieldCost:           "899.9",
		FieldAssignmentDate: "2024-02-29",
		FieldOverallRating:  "77",
		FieldMACLan:         "1C:87:2C:59:E3:C9",
	})
	seed(t, repo, TypePC, 1, map[string]string{FieldSerialNumber: "SN1"})
	seedDeleted(t, repo, TypeMonitor, 1, map[string]string{FieldSerialNumber: "M1"})

	read := func(includeDeleted bool) [][]string {
		t.Helper()
		var buf bytes.Buffer
		n, err := svc.Export(ctx, &buf, includeDeleted)
		require.NoError(t, err)
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, n+1)
		return records
	}

	records := read(false)
	header := records[0]
	require.Len(t, header, len(svc.Schema().Fields()))
	assert.Equal(t, "Equipment ID", header[0])
	assert.Equal(t, "Equipment Type", header[1])

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %q", name)
		return -1
	}

	require.Len(t, records, 3)
	assert.Equal(t, "PC-0001", records[1][0])
	row := records[2]
	assert.Equal(t, "PC-0002", row[0])
	assert.Equal(t, "PC", row[col("Equipment Type")])
	assert.Equal(t, "SN2", row[col("Serial Number")])
	assert.Equal(t, "899.90", row[col("Cost")])
	assert.Equal(t, "2024-02-29", row[col("Assignment Date")])
	assert.Equal(t, "77", row[col("Overall Rating")])
	assert.Equal(t, "Active", row[col("Status")])
	assert.Equal(t, "", row[col("Notes")])

	assert.Len(t, read(true), 4)
}

func TestExport_ReimportsAsDuplicates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, TypeScanner, 1, map[string]string{FieldSerialNumber: "S1", FieldModel: "ScanSnap"})
	seed(t, repo, TypeScanner, 2, map[string]string{FieldSerialNumber: "S2", FieldCPUSpeed: "1.2 GHz"})

	var buf bytes.Buffer
	_, err := svc.Export(ctx, &buf, false)
	require.NoError(t, err)

	result, err := svc.Preview(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Len(t, result.DuplicateRows, 2)
	for _, row := range result.DuplicateRows {
		assert.Empty(t, row.NormalizedValues)
	}
}
