package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paprika/database"
	healthCtrlImp "paprika/pkg/health/controllerImp"
	"paprika/pkg/season/repositoryImp"
	"paprika/pkg/season/serviceImp"
	"paprika/router"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	svc := serviceImp.New(repositoryImp.New(db), zap.NewNop())
	return router.New(echo.New(), zap.NewNop(), New(svc), healthCtrlImp.NewHealthCtrl(db, nil))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestStageWorkflow(t *testing.T) {
	t.Parallel()
	e := newServer(t)
	base := "/api/farmers/12/seasons/2024"

	code, _ := do(t, e, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := do(t, e, http.MethodPost, base+"/stages", `{"startDate":"2024-03-01","endDate":"2024-03-20"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "PLANTING", body["nextStage"])
	season := body["season"].(map[string]any)
	assert.Equal(t, "2024-03-01", season["prickingStart"])
	assert.Equal(t, "2024-03-20", season["prickingEnd"])
	assert.Nil(t, season["plantingStart"])

	code, body = do(t, e, http.MethodPost, base+"/stages", `{"startDate":"2024-03-15"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "stage_out_of_order", body["kind"])
	assert.Equal(t, "PLANTING", body["stage"])
	assert.Equal(t, "PRICKING", body["conflict"])

	code, body = do(t, e, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "PLANTING", body["nextStage"])

	for _, in := range []string{
		`{"startDate":"2024-03-25","endDate":"2024-04-10"}`,
		`{"startDate":"2024-06-01"}`,
		`{"startDate":"2024-08-15","endDate":"2024-08-30"}`,
	} {
		code, body = do(t, e, http.MethodPost, base+"/stages", in)
		require.Equal(t, http.StatusOK, code, body)
	}
	assert.Equal(t, "DONE", body["nextStage"])
	assert.Equal(t, true, body["complete"])

	code, body = do(t, e, http.MethodPost, base+"/stages", `{"startDate":"2024-09-01"}`)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, SignalSeasonComplete, body["signal"])
}

func TestAddStageBadInput(t *testing.T) {
	t.Parallel()
	e := newServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		kind   string
	}{
		{name: "missing start", path: "/api/farmers/1/seasons/2024/stages", body: `{}`, status: http.StatusUnprocessableEntity, kind: "missing_date"},
		{name: "missing end", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":"2024-03-01"}`, status: http.StatusUnprocessableEntity, kind: "missing_end_date"},
		{name: "malformed date", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":"01/03/2024"}`, status: http.StatusUnprocessableEntity, kind: "invalid_date"},
		{name: "impossible date", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":"2024-02-30","endDate":"2024-03-01"}`, status: http.StatusUnprocessableEntity, kind: "invalid_date"},
		{name: "wrong year", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":"2023-03-01","endDate":"2023-03-05"}`, status: http.StatusUnprocessableEntity, kind: "year_mismatch"},
		{name: "end before start", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":"2024-03-10","endDate":"2024-03-01"}`, status: http.StatusUnprocessableEntity, kind: "end_before_start"},
		{name: "bad json", path: "/api/farmers/1/seasons/2024/stages", body: `{"startDate":`, status: http.StatusBadRequest},
		{name: "bad year", path: "/api/farmers/1/seasons/twenty/stages", body: `{}`, status: http.StatusBadRequest},
		{name: "bad farmer", path: "/api/farmers/x/seasons/2024/stages", body: `{}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, e, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, code, body)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, body["kind"])
			}
		})
	}
}

func TestBulkEditEndpoint(t *testing.T) {
	t.Parallel()
	e := newServer(t)
	base := "/api/farmers/4/seasons/2024"

	code, _ := do(t, e, http.MethodPatch, base, `{"prickingStart":"2024-03-01","prickingEnd":"2024-03-20"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, e, http.MethodPost, base+"/stages", `{"startDate":"2024-03-01","endDate":"2024-03-20"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, e, http.MethodPatch, base, `{"plantingStart":"2024-03-25","plantingEnd":"2024-04-10","harvestStart":"2024-06-01"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "HARVEST_END", body["nextStage"])

	code, body = do(t, e, http.MethodPatch, base, `{"prickingEnd":"2024-03-30"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "PRICKING", body["stage"])
	assert.Equal(t, "PLANTING", body["conflict"])

	code, body = do(t, e, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2024-03-20", body["season"].(map[string]any)["prickingEnd"])
}

func TestListEndpoint(t *testing.T) {
	t.Parallel()
	e := newServer(t)

	for _, year := range []string{"2024", "2023"} {
		code, _ := do(t, e, http.MethodPost, "/api/farmers/2/seasons/"+year+"/stages",
			`{"startDate":"`+year+`-03-01","endDate":"`+year+`-03-02"}`)
		require.Equal(t, http.StatusOK, code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/farmers/2/seasons", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []struct {
		Season struct {
			SeasonYear int `json:"seasonYear"`
		} `json:"season"`
		NextStage string `json:"nextStage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, 2023, views[0].Season.SeasonYear)
	assert.Equal(t, "PLANTING", views[1].NextStage)
}

func TestSeasonRecordEndpoints(t *testing.T) {
	t.Parallel()
	e := newServer(t)

	code, body := do(t, e, http.MethodPost, "/api/seasons", `{"farmerId":9,"seasonYear":2024,"prickingStart":"2024-03-01","prickingEnd":"2024-03-20"}`)
	require.Equal(t, http.StatusCreated, code, body)
	id := int(body["id"].(float64))
	require.NotZero(t, id)
	path := "/api/seasons/" + strconv.Itoa(id)

	code, body = do(t, e, http.MethodPost, "/api/seasons", `{"farmerId":9,"seasonYear":2024}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, SignalExists, body["signal"])

	code, body = do(t, e, http.MethodPost, "/api/seasons", `{"farmerId":9,"seasonYear":2025,"harvestStart":"2025-06-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "stage_out_of_order", body["kind"])

	code, body = do(t, e, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2024-03-20", body["prickingEnd"])

	code, _ = do(t, e, http.MethodPut, path, `{"farmerId":9,"seasonYear":2025}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, e, http.MethodPut, path, `{"farmerId":9,"seasonYear":2024,"prickingStart":"2024-03-01","prickingEnd":"2024-03-20","plantingStart":"2024-03-21","plantingEnd":"2024-03-31"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "2024-03-21", body["plantingStart"])

	code, _ = do(t, e, http.MethodGet, "/api/seasons/999", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, e, http.MethodGet, "/api/seasons/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateCannotClearStages(t *testing.T) {
	t.Parallel()
	e := newServer(t)
	base := "/api/farmers/21/seasons/2024"

	var id int
	for _, in := range []string{
		`{"startDate":"2024-03-01","endDate":"2024-03-20"}`,
		`{"startDate":"2024-03-25","endDate":"2024-04-10"}`,
		`{"startDate":"2024-06-01"}`,
		`{"startDate":"2024-08-15"}`,
	} {
		code, body := do(t, e, http.MethodPost, base+"/stages", in)
		require.Equal(t, http.StatusOK, code, body)
		id = int(body["season"].(map[string]any)["id"].(float64))
	}

	code, body := do(t, e, http.MethodPut, "/api/seasons/"+strconv.Itoa(id),
		`{"farmerId":21,"seasonYear":2024,"prickingStart":"2024-03-01","prickingEnd":"2024-03-20"}`)
	require.Equal(t, http.StatusBadRequest, code, body)
	assert.Contains(t, body["error"], "cannot be cleared")

	code, body = do(t, e, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "DONE", body["nextStage"])
	assert.Equal(t, "2024-08-15", body["season"].(map[string]any)["harvestEnd"])
}
