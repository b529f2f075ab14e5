package core

import (
	"context"
	"testing"
	"time"

	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo, DefaultSchema(), Options{LookupCacheSize: 64})
	svc.now = func() time.Time { return testToday }
	return svc, repo
}

// seed creates a record with an explicit sequence number.
func seed(t *testing.T, repo *MemoryRepository, typ EquipmentType, num int32, data map[string]string) *db.Equipment {
	t.Helper()
	e, err := repo.Create(context.Background(), NewEquipment{
		EquipmentID: FormatEquipmentID(typ, num),
		Num:         num,
		Type:        typ,
		Fields:      buildPatch(data),
	})
	require.NoError(t, err)
	return e
}

func seedDeleted(t *testing.T, repo *MemoryRepository, typ EquipmentType, num int32, data map[string]string) *db.Equipment {
	t.Helper()
	e := seed(t, repo, typ, num, data)
	e, err := repo.MarkDeleted(context.Background(), e.ID)
	require.NoError(t, err)
	return e
}
