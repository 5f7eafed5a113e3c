package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/controller"
	"github.com/superae99/salesmap-backend/internal/app/identity"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/middleware"
	"github.com/superae99/salesmap-backend/internal/router"
	"github.com/superae99/salesmap-backend/internal/storage"
	"github.com/superae99/salesmap-backend/internal/websocket"
	"github.com/superae99/salesmap-backend/pkg/util"
)

type TestServer struct {
	Router   *gin.Engine
	DataPath string
	Resolver identity.Resolver
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "output_address.json")
	rosterPath := filepath.Join(dir, "juso_output_file.json")

	stores := []model.StoreRecord{
		{
			Name:            "ABC마트 강남점",
			BusinessNumber:  model.NewLooseString("123-45-67890"),
			Address:         "서울시 강남구 테헤란로 1",
			Latitude:        model.NewLooseString("37.5"),
			Longitude:       model.NewLooseString("127.0"),
			EmployeeNumber:  model.NewLooseString("1001"),
			SalespersonName: "박철수",
		},
		{
			Name:            "부산수퍼",
			Address:         "부산시 해운대구 우동 2",
			EmployeeNumber:  model.NewLooseString("9999"),
			SalespersonName: "없는사람",
		},
	}
	roster := []model.SalespersonRecord{
		{EmployeeNumber: model.NewLooseString("1001"), Name: "박철수", Branch: "서울지사", Office: "강남지점"},
		{EmployeeNumber: model.NewLooseString("2002"), Name: "최영희", Branch: "서울지사", Office: "서초지점"},
	}

	writeJSON := func(path string, v interface{}) {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	writeJSON(dataPath, stores)
	writeJSON(rosterPath, roster)

	hash, err := util.HashPassword("test-password")
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		Auth: config.AuthConfig{
			JWTSecret:         "integration-test-secret",
			AccessTokenExpiry: time.Hour,
			OperatorID:        "admin",
			OperatorPWHash:    hash,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	gateway := storage.NewFileStorage(dataPath)
	historyRepo := repository.NewMemoryHistoryRepository(100)
	preferenceRepo := repository.NewMemoryPreferenceRepository()

	hub := websocket.NewHub()
	go hub.Run()

	joinService := service.NewJoinService()
	datasetService := service.NewDatasetService(gateway, joinService, identity.NewHashResolver(), rosterPath)
	facetService := service.NewFacetService()
	editService := service.NewEditService(datasetService, historyRepo, hub)
	historyService := service.NewHistoryService(historyRepo)
	authService := service.NewAuthService(cfg.Auth)
	preferenceService := service.NewPreferenceService(preferenceRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewDatasetController(datasetService, facetService),
		controller.NewEditController(editService, datasetService),
		controller.NewHistoryController(historyService),
		controller.NewPreferenceController(preferenceService),
		authMiddleware,
		hub,
		cfg,
	)

	return &TestServer{
		Router:   r.Setup(),
		DataPath: dataPath,
		Resolver: identity.NewHashResolver(),
	}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) login(t *testing.T) string {
	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"operator_id": "admin",
		"password":    "test-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, "Bearer", result.TokenType)
	return result.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"operator_id": "admin",
		"password":    "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetDataReturnsJoinedRecords(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/api/v1/data", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var records []model.StoreRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)

	// 매칭된 거래처에는 로스터 정보가 붙는다
	require.NotNil(t, records[0].SalesInfo)
	assert.Equal(t, "서울지사", records[0].SalesInfo.Branch)
	assert.Equal(t, "강남지점", records[0].SalesInfo.Office)

	// 로스터에 없는 사번은 미매칭으로 남는다
	assert.Nil(t, records[1].SalesInfo)
}

func TestGetFilters(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/api/v1/data/filters", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Branches    []string `json:"branches"`
		Offices     []string `json:"offices"`
		Salespeople []string `json:"salespeople"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"서울지사"}, resp.Branches)
	assert.Contains(t, resp.Salespeople, "박철수")
}

func TestEditRequiresAuthentication(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodPost, "/api/v1/update-salesperson", "", gin.H{
		"storeId":        "BIZ_123-45-67890",
		"newSalesperson": "최영희",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEditFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.login(t)

	storeID := ts.Resolver.StoreID(&model.StoreRecord{
		Name:           "ABC마트 강남점",
		BusinessNumber: model.NewLooseString("123-45-67890"),
		Address:        "서울시 강남구 테헤란로 1",
	})
	require.Equal(t, "BIZ_123-45-67890", storeID)

	// 이름만 보내도 로스터에서 사번을 찾아 채운다
	w := ts.request(t, http.MethodPost, "/api/v1/update-salesperson", token, gin.H{
		"storeId":        storeID,
		"newSalesperson": "최영희",
		"editReason":     "담당 구역 조정",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool              `json:"success"`
		UpdatedItem model.StoreRecord `json:"updatedItem"`
		EditRecord  model.EditRecord  `json:"editRecord"`
		Storage     struct {
			Backend string `json:"backend"`
			Saved   bool   `json:"saved"`
		} `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "최영희", resp.UpdatedItem.SalespersonName)
	assert.Equal(t, "2002", resp.UpdatedItem.EmployeeNumber.String())
	require.NotNil(t, resp.UpdatedItem.SalesInfo)
	assert.Equal(t, "서초지점", resp.UpdatedItem.SalesInfo.Office)
	assert.Equal(t, "박철수", resp.EditRecord.Changes.Salesperson.Before)
	assert.Equal(t, "최영희", resp.EditRecord.Changes.Salesperson.After)
	assert.Equal(t, "file", resp.Storage.Backend)
	assert.True(t, resp.Storage.Saved)

	// 수정 내용이 파일 백엔드까지 반영됐는지
	saved, err := os.ReadFile(ts.DataPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "최영희")

	// 수정 기록 조회
	w = ts.request(t, http.MethodGet, "/api/v1/edit-history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		History []model.EditRecord `json:"history"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)
	assert.Equal(t, storeID, history.History[0].StoreID)
	assert.Equal(t, "admin", history.History[0].User)
}

func TestEditUnknownStore(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.login(t)

	w := ts.request(t, http.MethodPost, "/api/v1/update-salesperson", token, gin.H{
		"storeId":        "BIZ_000-00-00000",
		"newSalesperson": "최영희",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferencesRoundTrip(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.login(t)

	// 저장 전에는 404
	w := ts.request(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.request(t, http.MethodPut, "/api/v1/preferences", token, gin.H{
		"selectedBranch":      "서울지사",
		"selectedOffice":      "강남지점",
		"selectedSalespeople": []string{"박철수"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodGet, "/api/v1/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "강남지점")
}
