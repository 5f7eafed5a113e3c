package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superae99/salesmap-backend/internal/app/identity"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/internal/storage"
)

// stubGateway 메모리 저장 백엔드 (테스트용)
type stubGateway struct {
	mu          sync.Mutex
	records     []model.StoreRecord
	failSave    bool
	saveCount   int
	lastMessage string
	lastSaved   []model.StoreRecord
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Load(ctx context.Context) ([]model.StoreRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.StoreRecord, len(g.records))
	for i, r := range g.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (g *stubGateway) Save(ctx context.Context, records []model.StoreRecord, message string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSave {
		return "", &storage.SaveError{Backend: g.Name(), Err: errors.New("backend rejected write")}
	}
	g.saveCount++
	g.lastMessage = message
	g.lastSaved = make([]model.StoreRecord, len(records))
	copy(g.lastSaved, records)
	return "stub-ref", nil
}

func writeRosterFile(t *testing.T, roster []model.SalespersonRecord) string {
	t.Helper()
	data, err := json.Marshal(roster)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "juso_output_file.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func setupEditServiceTest(t *testing.T, stores []model.StoreRecord, roster []model.SalespersonRecord) (EditService, DatasetService, repository.EditHistoryRepository, *stubGateway) {
	t.Helper()

	gateway := &stubGateway{records: stores}
	dataset := NewDatasetService(gateway, NewJoinService(), identity.NewHashResolver(), writeRosterFile(t, roster))
	history := repository.NewMemoryHistoryRepository(50)
	editor := NewEditService(dataset, history, nil)
	return editor, dataset, history, gateway
}

func TestEditService_ValidationErrors(t *testing.T) {
	editor, _, _, _ := setupEditServiceTest(t,
		[]model.StoreRecord{storeWithNumber("강남점", "1001")},
		[]model.SalespersonRecord{rosterEntry("1001", "김영업", "서울지사", "강남지점")},
	)
	ctx := context.Background()

	_, err := editor.Edit(ctx, EditInput{StoreID: "whatever"})
	assert.ErrorIs(t, err, ErrNoChanges)

	_, err = editor.Edit(ctx, EditInput{StoreID: "whatever", NewEmployeeNumber: "abc"})
	assert.ErrorIs(t, err, ErrInvalidEmployeeNumber)

	_, err = editor.Edit(ctx, EditInput{StoreID: "STORE_없는ID", NewSalespersonName: "김영업"})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

// 이름만 바꾸는 수정: 로스터에서 새 담당자를 찾아 사번까지 따라온다.
// spec 상 동작 전체를 관통하는 시나리오.
func TestEditService_NameOnlyEditAdoptsRosterNumber(t *testing.T) {
	store := model.StoreRecord{
		Name:            "ABC Mart",
		BusinessNumber:  model.NullLooseString(),
		Address:         "1 Main St",
		EmployeeNumber:  model.NewLooseString("77"),
		SalespersonName: "Park",
	}
	roster := []model.SalespersonRecord{
		rosterEntry("77", "Park", "North", "Station"),
		rosterEntry("88", "Choi", "North", "Station"),
	}

	editor, dataset, history, gateway := setupEditServiceTest(t, []model.StoreRecord{store}, roster)
	ctx := context.Background()

	resolver := identity.NewHashResolver()
	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	require.NotNil(t, joined[0].SalesInfo)
	assert.Equal(t, "Park", joined[0].SalesInfo.Name)

	storeID := resolver.StoreID(&joined[0])

	result, err := editor.Edit(ctx, EditInput{
		StoreID:            storeID,
		NewSalespersonName: "Choi",
		Reason:             "담당 교체",
		Actor:              "admin",
	})
	require.NoError(t, err)

	// 로스터의 Choi(88)가 채택되어 사번까지 바뀐다
	assert.Equal(t, "88", result.UpdatedRecord.EmployeeNumber.Norm())
	assert.Equal(t, "Choi", result.UpdatedRecord.SalespersonName)
	require.NotNil(t, result.UpdatedRecord.SalesInfo)
	assert.Equal(t, "North", result.UpdatedRecord.SalesInfo.Branch)
	assert.NotEmpty(t, result.UpdatedRecord.LastModifiedAt)

	// 수정 기록이 정확히 1건, before/after가 맞다
	records, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Park", records[0].Changes.Salesperson.Before)
	assert.Equal(t, "Choi", records[0].Changes.Salesperson.After)
	assert.Equal(t, "77", records[0].Changes.EmployeeNumber.Before)
	assert.Equal(t, "88", records[0].Changes.EmployeeNumber.After)
	assert.NotEmpty(t, records[0].ID)

	// 워크스페이스 조회도 수정을 반영한다
	current, err := dataset.FindByID(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, "Choi", current.SalespersonName)

	// 커밋 메시지 형태
	assert.True(t, result.Persisted)
	assert.Equal(t, "Update salesperson: ABC Mart - Park → Choi", gateway.lastMessage)
}

func TestEditService_NumberOnlyEditAdoptsRosterName(t *testing.T) {
	editor, dataset, _, _ := setupEditServiceTest(t,
		[]model.StoreRecord{storeWithNumber("강남점", "1001")},
		[]model.SalespersonRecord{
			rosterEntry("1001", "김영업", "서울지사", "강남지점"),
			rosterEntry("1002", "이영업", "서울지사", "서초지점"),
		},
	)
	ctx := context.Background()

	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	storeID := identity.NewHashResolver().StoreID(&joined[0])

	result, err := editor.Edit(ctx, EditInput{StoreID: storeID, NewEmployeeNumber: "1002"})
	require.NoError(t, err)
	assert.Equal(t, "1002", result.UpdatedRecord.EmployeeNumber.Norm())
	assert.Equal(t, "이영업", result.UpdatedRecord.SalespersonName)
	require.NotNil(t, result.UpdatedRecord.SalesInfo)
	assert.Equal(t, "서초지점", result.UpdatedRecord.SalesInfo.Office)
}

// 로스터에 없는 이름으로 바꾸면 기존 지사/지점 맥락을 유지한 채
// 이름/사번만 덮어쓴다.
func TestEditService_OverlayKeepsBranchContext(t *testing.T) {
	editor, dataset, _, _ := setupEditServiceTest(t,
		[]model.StoreRecord{storeWithNumber("강남점", "1001")},
		[]model.SalespersonRecord{rosterEntry("1001", "김영업", "서울지사", "강남지점")},
	)
	ctx := context.Background()

	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	storeID := identity.NewHashResolver().StoreID(&joined[0])

	result, err := editor.Edit(ctx, EditInput{StoreID: storeID, NewSalespersonName: "외부인력"})
	require.NoError(t, err)
	require.NotNil(t, result.UpdatedRecord.SalesInfo)
	assert.Equal(t, "외부인력", result.UpdatedRecord.SalesInfo.Name)
	assert.Equal(t, "서울지사", result.UpdatedRecord.SalesInfo.Branch)
	assert.Equal(t, "강남지점", result.UpdatedRecord.SalesInfo.Office)
	// 사번은 기존 값 유지
	assert.Equal(t, "1001", result.UpdatedRecord.EmployeeNumber.Norm())
}

// 동명이인: 현재 지점이 같은 로스터 항목을 우선한다.
func TestEditService_SameNameTieBreakPrefersSameOffice(t *testing.T) {
	editor, dataset, _, _ := setupEditServiceTest(t,
		[]model.StoreRecord{storeWithNumber("강남점", "1001")},
		[]model.SalespersonRecord{
			rosterEntry("1001", "김영업", "서울지사", "강남지점"),
			rosterEntry("3001", "박중복", "부산지사", "해운대지점"),
			rosterEntry("2001", "박중복", "서울지사", "강남지점"),
		},
	)
	ctx := context.Background()

	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	storeID := identity.NewHashResolver().StoreID(&joined[0])

	result, err := editor.Edit(ctx, EditInput{StoreID: storeID, NewSalespersonName: "박중복"})
	require.NoError(t, err)
	// 로스터 순서상 부산의 박중복이 먼저지만, 강남지점 맥락이 우선
	assert.Equal(t, "2001", result.UpdatedRecord.EmployeeNumber.Norm())
	assert.Equal(t, "서울지사", result.UpdatedRecord.SalesInfo.Branch)
}

// 저장 실패 시 메모리 상태는 되돌리지 않는다. 원본과 같은 낙관적 동작.
func TestEditService_PersistFailureKeepsInMemoryEdit(t *testing.T) {
	editor, dataset, history, gateway := setupEditServiceTest(t,
		[]model.StoreRecord{storeWithNumber("강남점", "1001")},
		[]model.SalespersonRecord{
			rosterEntry("1001", "김영업", "서울지사", "강남지점"),
			rosterEntry("1002", "이영업", "서울지사", "서초지점"),
		},
	)
	ctx := context.Background()

	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	storeID := identity.NewHashResolver().StoreID(&joined[0])

	gateway.failSave = true
	result, err := editor.Edit(ctx, EditInput{StoreID: storeID, NewSalespersonName: "이영업"})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	require.Error(t, result.PersistErr)

	var saveErr *storage.SaveError
	assert.ErrorAs(t, result.PersistErr, &saveErr)

	current, err := dataset.FindByID(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, "이영업", current.SalespersonName)

	records, err := history.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// 같은 파생 ID를 가진 중복 레코드는 전부 갱신된다.
func TestEditService_PropagatesToDuplicateCopies(t *testing.T) {
	dup := storeWithNumber("중복점", "1001")
	editor, dataset, _, _ := setupEditServiceTest(t,
		[]model.StoreRecord{dup, dup.Clone()},
		[]model.SalespersonRecord{
			rosterEntry("1001", "김영업", "서울지사", "강남지점"),
			rosterEntry("1002", "이영업", "서울지사", "서초지점"),
		},
	)
	ctx := context.Background()

	joined, err := dataset.Records(ctx)
	require.NoError(t, err)
	storeID := identity.NewHashResolver().StoreID(&joined[0])

	_, err = editor.Edit(ctx, EditInput{StoreID: storeID, NewEmployeeNumber: "1002"})
	require.NoError(t, err)

	all, err := dataset.Records(ctx)
	require.NoError(t, err)
	for _, r := range all {
		assert.Equal(t, "이영업", r.SalespersonName)
	}
}

func TestDatasetService_PersistBeforeLoad(t *testing.T) {
	gateway := &stubGateway{}
	dataset := NewDatasetService(gateway, NewJoinService(), identity.NewHashResolver(), "")

	_, err := dataset.Persist(context.Background(), "noop")
	assert.ErrorIs(t, err, ErrDataNotReady)
}

func TestDatasetService_RosterDerivedFromDataset(t *testing.T) {
	// 로스터 파일이 없으면 데이터셋의 salesInfo에서 유도한다
	store := storeWithNumber("강남점", "1001")
	store.SalesInfo = &model.SalespersonRecord{
		EmployeeNumber: model.NewLooseString("1001"),
		Name:           "김영업",
		Branch:         "서울지사",
		Office:         "강남지점",
	}

	gateway := &stubGateway{records: []model.StoreRecord{store, store.Clone()}}
	dataset := NewDatasetService(gateway, NewJoinService(), identity.NewHashResolver(), "")

	roster, err := dataset.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "김영업", roster[0].Name)
	assert.Equal(t, "00000000", roster[0].NormalizedAdminCode())
}
