package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_UniqueConstraints(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	seed(t, repo, TypePC, 1, map[string]string{FieldSerialNumber: "SN1"})

	_, err := repo.Create(ctx, NewEquipment{EquipmentID: "PC-0001", Num: 1, Type: TypePC})
	require.Error(t, err)
	assert.Equal(t, "DB001", MapError(err).Code)

	_, err = repo.Create(ctx, NewEquipment{EquipmentID: "PC-0002", Num: 2, Type: TypePC, Fields: buildPatch(map[string]string{FieldSerialNumber: "SN1"})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equipment_serial_number_key")
}

func TestMemoryRepository_MaxSequence(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	n, err := repo.MaxSequence(ctx, TypePC)
	require.NoError(t, err)
	assert.Zero(t, n)

	seed(t, repo, TypePC, 4, nil)
	seedDeleted(t, repo, TypePC, 9, nil)
	seed(t, repo, TypeMonitor, 20, nil)

	n, err = repo.MaxSequence(ctx, TypePC)
	require.NoError(t, err)
	assert.Equal(t, int32(9), n)
}

func TestMemoryRepository_FindRespectsDeleted(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	seedDeleted(t, repo, TypePC, 1, map[string]string{FieldSerialNumber: "SN1"})

	_, err := repo.FindBySerial(ctx, "SN1", false)
	assert.ErrorIs(t, err, ErrNotFound)

	e, err := repo.FindByEquipmentID(ctx, "PC-0001", true)
	require.NoError(t, err)
	assert.True(t, e.IsDeleted)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	e := seed(t, repo, TypePC, 1, map[string]string{FieldModel: "A"})

	e.Model = ToText("mutated")
	got, err := repo.FindByEquipmentID(ctx, "PC-0001", false)
	require.NoError(t, err)
	assert.Equal(t, "A", TextString(got.Model))
}

func TestMemoryRepository_HistoryOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	e := seed(t, repo, TypePC, 1, nil)

	day := func(d int) HistoryEntry {
		return HistoryEntry{
			PreviousUser: ToText("user"),
			EndDate:      ToDate(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")),
		}
	}
	for _, d := range []int{5, 20, 20, 1} {
		h := day(d)
		_, err := repo.Update(ctx, e, EquipmentPatch{}, UpdateOptions{History: &h})
		require.NoError(t, err)
	}

	hist, err := repo.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, hist, 4)
	assert.Equal(t, []int32{3, 2, 1, 4}, []int32{hist[0].ID, hist[1].ID, hist[2].ID, hist[3].ID})
}
