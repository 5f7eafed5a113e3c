package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superae99/salesmap-backend/internal/app/model"
)

func editRecord(id, storeID, storeName string) model.EditRecord {
	return model.EditRecord{
		ID:        id,
		Timestamp: "2026-09-01T10:00:00.000Z",
		StoreID:   storeID,
		StoreName: storeName,
		Changes: model.EditChanges{
			EmployeeNumber: model.FieldChange{Before: "10234", After: "20456"},
		},
	}
}

func TestMemoryHistoryRepository_AppendOrdering(t *testing.T) {
	repo := NewMemoryHistoryRepository(10)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, editRecord("a", "BIZ_111", "첫번째")))
	require.NoError(t, repo.Append(ctx, editRecord("b", "BIZ_222", "두번째")))
	require.NoError(t, repo.Append(ctx, editRecord("c", "BIZ_333", "세번째")))

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 최신 기록이 맨 앞
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "a", records[2].ID)
}

func TestMemoryHistoryRepository_CapEviction(t *testing.T) {
	repo := NewMemoryHistoryRepository(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("rec-%d", i)
		require.NoError(t, repo.Append(ctx, editRecord(id, "BIZ_111", "거래처")))
	}

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 가장 오래된 rec-1, rec-2가 밀려났다
	assert.Equal(t, "rec-5", records[0].ID)
	assert.Equal(t, "rec-3", records[2].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMemoryHistoryRepository_ListLimit(t *testing.T) {
	repo := NewMemoryHistoryRepository(100)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, editRecord(fmt.Sprintf("rec-%d", i), "BIZ_111", "거래처")))
	}

	records, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-5", records[0].ID)
}

func TestMemoryHistoryRepository_ListByStore(t *testing.T) {
	repo := NewMemoryHistoryRepository(100)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, editRecord("a", "BIZ_111", "강남점")))
	require.NoError(t, repo.Append(ctx, editRecord("b", "STORE_65476", "수원점")))

	// 과거 기록은 storeCode 필드에만 식별자가 있을 수 있다
	legacy := editRecord("c", "", "과거기록")
	legacy.StoreCode = "BIZ_111"
	require.NoError(t, repo.Append(ctx, legacy))

	records, err := repo.ListByStore(ctx, "BIZ_111")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestMemoryPreferenceRepository(t *testing.T) {
	repo := NewMemoryPreferenceRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	state := model.FilterState{
		Branch:      "서울지사",
		Office:      "강남지점",
		Salespeople: []string{"박철수", "김영희"},
	}
	require.NoError(t, repo.Save(ctx, "admin", state))

	got, err := repo.Get(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "서울지사", got.Branch)
	assert.Equal(t, []string{"박철수", "김영희"}, got.Salespeople)

	// 반환값을 고쳐도 저장본은 그대로
	got.Salespeople[0] = "다른사람"
	again, err := repo.Get(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "박철수", again.Salespeople[0])

	require.NoError(t, repo.Delete(ctx, "admin"))
	assert.ErrorIs(t, repo.Delete(ctx, "admin"), ErrNotFound)
}
