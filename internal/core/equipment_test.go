package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEquipment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.CreateEquipment(ctx, map[string]string{
		FieldEquipmentID:   "PC-0500",
		FieldEquipmentType: "pc",
		FieldSerialNumber:  "SN1",
		FieldStatus:        "in repair",
		FieldCPUSpeed:      "3.1ghz",
	})
	require.NoError(t, err)
	assert.Equal(t, "PC-0001", e.EquipmentID)
	assert.Equal(t, int32(1), e.EquipmentIDNum)
	assert.Equal(t, "In Repair", e.Status)
	assert.Equal(t, "3.1 GHz", TextString(e.CpuSpeed))

	t.Run("duplicate serial", func(t *testing.T) {
		_, err := svc.CreateEquipment(ctx, map[string]string{FieldEquipmentType: "Monitor", FieldSerialNumber: "SN1"})
		assert.ErrorIs(t, err, ErrSerialExists)
		assert.Contains(t, err.Error(), "PC-0001")
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := svc.CreateEquipment(ctx, map[string]string{FieldModel: "X"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, FieldEquipmentType, verr.Errors[0].Field)
		assert.Equal(t, "Missing required field: Equipment Type", verr.Errors[0].Message)
	})

	t.Run("bad fields", func(t *testing.T) {
		_, err := svc.CreateEquipment(ctx, map[string]string{
			FieldEquipmentType: "PC",
			FieldIPAddress:     "10.0.0",
			FieldMACWlan:       "nope",
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Errors, 2)
		assert.Contains(t, err.Error(), "validation failed: ip_address:")
	})
}

func TestUpdateEquipment(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	e := seed(t, repo, TypePC, 1, map[string]string{
		FieldSerialNumber:   "SN1",
		FieldEquipmentName:  "FRONT-DESK",
		FieldAssignmentDate: "2023-05-01",
	})
	seed(t, repo, TypePC, 2, map[string]string{FieldSerialNumber: "SN2"})

	got, err := svc.UpdateEquipment(ctx, "SN1", map[string]string{
		FieldEquipmentName: "RECEPTION",
		FieldLocation:      "Lobby",
		FieldMACLan:        "",
	})
	require.NoError(t, err)
	assert.Equal(t, "RECEPTION", TextString(got.EquipmentName))
	assert.Equal(t, "Lobby", TextString(got.Location))
	assert.Equal(t, "SN1", TextString(got.SerialNumber))

	hist, err := svc.EquipmentHistory(ctx, "PC-0001")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "FRONT-DESK", TextString(hist[0].PreviousEquipmentName))
	assert.Equal(t, e.ID, hist[0].EquipmentID)

	t.Run("same value adds no history", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, "pc-0001", map[string]string{FieldEquipmentName: "RECEPTION"})
		require.NoError(t, err)
		hist, err := svc.EquipmentHistory(ctx, "PC-0001")
		require.NoError(t, err)
		assert.Len(t, hist, 1)
	})

	t.Run("serial taken", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, "PC-0001", map[string]string{FieldSerialNumber: "SN2"})
		assert.ErrorIs(t, err, ErrSerialExists)
	})

	t.Run("own serial", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, "PC-0001", map[string]string{FieldSerialNumber: "SN1"})
		assert.NoError(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, "PC-0404", map[string]string{FieldModel: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteAndRestore(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, TypePrinter, 1, map[string]string{FieldSerialNumber: "P1"})

	_, err := svc.RestoreEquipment(ctx, "PRN-0001")
	assert.ErrorIs(t, err, ErrNotDeleted)

	deleted, err := svc.DeleteEquipment(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.True(t, deleted.DeletedAt.Valid)

	_, err = svc.GetEquipment(ctx, "PRN-0001")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.DeleteEquipment(ctx, "PRN-0001")
	assert.ErrorIs(t, err, ErrNotFound)

	gone, err := svc.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, gone, 1)
	assert.Equal(t, "PRN-0001", gone[0].EquipmentID)

	restored, err := svc.RestoreEquipment(ctx, "prn-0001")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.False(t, restored.DeletedAt.Valid)

	_, err = svc.GetEquipment(ctx, "PRN-0001")
	assert.NoError(t, err)
}

func TestListEquipment(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, TypePC, 10, map[string]string{FieldLocation: "HQ Floor 2", FieldOverallRating: "80", FieldUsageType: "Work"})
	seed(t, repo, TypePC, 2, map[string]string{FieldLocation: "Branch", FieldOverallRating: "95"})
	seed(t, repo, TypeMonitor, 1, map[string]string{FieldLocation: "hq floor 3"})
	seedDeleted(t, repo, TypePC, 3, map[string]string{FieldLocation: "HQ"})

	ids := func(f EquipmentFilter) []string {
		t.Helper()
		items, err := svc.ListEquipment(ctx, f)
		require.NoError(t, err)
		out := make([]string, len(items))
		for i, e := range items {
			out[i] = e.EquipmentID
		}
		return out
	}

	assert.Equal(t, []string{"MON-0001", "PC-0002", "PC-0010"}, ids(EquipmentFilter{SortBy: FieldEquipmentID}))
	assert.Equal(t, []string{"PC-0010", "PC-0002", "MON-0001"}, ids(EquipmentFilter{SortBy: FieldEquipmentID, SortDesc: true}))
	assert.Equal(t, []string{"PC-0002", "PC-0010"}, ids(EquipmentFilter{EquipmentType: "pc", SortBy: FieldEquipmentID}))
	assert.Equal(t, []string{"MON-0001", "PC-0010"}, ids(EquipmentFilter{Location: "hq", SortBy: FieldEquipmentID}))
	assert.Equal(t, []string{"PC-0010"}, ids(EquipmentFilter{UsageType: "Work"}))
	assert.Len(t, ids(EquipmentFilter{IncludeDeleted: true}), 4)

	minRating := 90
	assert.Equal(t, []string{"PC-0002"}, ids(EquipmentFilter{MinRating: &minRating}))

	// Unrated records sort last either way.
	assert.Equal(t, []string{"PC-0010", "PC-0002", "MON-0001"}, ids(EquipmentFilter{SortBy: FieldOverallRating}))
	assert.Equal(t, []string{"PC-0002", "PC-0010", "MON-0001"}, ids(EquipmentFilter{SortBy: FieldOverallRating, SortDesc: true}))
}

func TestFindByIdentifier(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, TypePC, 1, map[string]string{FieldSerialNumber: "abc-1"})

	e, err := FindByIdentifier(ctx, repo, " pc-0001 ", false)
	require.NoError(t, err)
	assert.Equal(t, "PC-0001", e.EquipmentID)

	e, err = FindByIdentifier(ctx, repo, "abc-1", false)
	require.NoError(t, err)
	assert.Equal(t, "PC-0001", e.EquipmentID)

	_, err = FindByIdentifier(ctx, repo, "nothing", false)
	assert.ErrorIs(t, err, ErrNotFound)
}
