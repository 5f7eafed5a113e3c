package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
)

func historyFixture(t *testing.T) HistoryService {
	t.Helper()

	repo := repository.NewMemoryHistoryRepository(100)
	ctx := context.Background()

	first := model.EditRecord{
		ID:             "rec-1",
		Timestamp:      "2026-08-30T09:00:00.000Z",
		StoreID:        "BIZ_1234567890",
		StoreName:      `쉼표,와 "따옴표" 상회`,
		BusinessNumber: "1234567890",
		Changes: model.EditChanges{
			EmployeeNumber: model.FieldChange{Before: "77", After: "88"},
			Salesperson:    model.FieldChange{Before: "Park", After: "Choi"},
		},
		Reason: "담당 교체",
		User:   "admin",
	}
	second := model.EditRecord{
		ID:        "rec-2",
		Timestamp: "2026-08-31T09:00:00.000Z",
		StoreCode: "STORE_65476", // 과거 필드명만 있는 기록
		StoreName: "수원점",
		Changes: model.EditChanges{
			EmployeeNumber: model.FieldChange{Before: "1001", After: "1001"},
			Salesperson:    model.FieldChange{Before: "김영업", After: "이영업"},
		},
	}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	return NewHistoryService(repo)
}

func TestHistoryService_List(t *testing.T) {
	svc := historyFixture(t)
	ctx := context.Background()

	all, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rec-2", all[0].ID)

	// 신/구 필드명 어느 쪽이든 거래처 필터가 동작한다
	byNew, err := svc.List(ctx, "BIZ_1234567890", 0)
	require.NoError(t, err)
	require.Len(t, byNew, 1)
	assert.Equal(t, "rec-1", byNew[0].ID)

	byLegacy, err := svc.List(ctx, "STORE_65476", 0)
	require.NoError(t, err)
	require.Len(t, byLegacy, 1)
	assert.Equal(t, "rec-2", byLegacy[0].ID)
}

func TestHistoryService_ExportCSV(t *testing.T) {
	svc := historyFixture(t)

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	// UTF-8 BOM으로 시작해야 엑셀이 한글을 제대로 읽는다
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(data[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // 헤더 + 기록 2건

	assert.Equal(t, "수정일시", rows[0][0])

	// 최신 기록이 먼저, storeCode만 있는 기록도 ID 컬럼이 채워진다
	assert.Equal(t, "STORE_65476", rows[1][1])

	// 쉼표/따옴표가 들어간 이름이 손상 없이 왕복된다
	assert.Equal(t, `쉼표,와 "따옴표" 상회`, rows[2][2])
	assert.Equal(t, "Park", rows[2][6])
	assert.Equal(t, "Choi", rows[2][7])
}

func TestHistoryService_ExportXLSX(t *testing.T) {
	svc := historyFixture(t)

	data, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("수정기록")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "수정일시", rows[0][0])
	assert.True(t, strings.Contains(rows[2][2], "따옴표"))
}
