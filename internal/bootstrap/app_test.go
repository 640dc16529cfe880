package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"mealplan-backend/internal/bootstrap"
	"mealplan-backend/internal/mealplan"
	"mealplan-backend/internal/shared/config"
	"mealplan-backend/internal/workbook/workbooktest"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		SessionStore:    "memory",
		SessionTTL:      time.Hour,
		AdjustPolicy:    "snap",
		MaxUploadBytes:  10 << 20,
	}
}

func do(t *testing.T, router *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func uploadFixture(t *testing.T, router *gin.Engine, path string, build func() ([]byte, error)) {
	t.Helper()
	data, err := build()
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "table.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	resp := do(t, router, http.MethodPost, path, body, writer.FormDataContentType())
	if resp.Code != http.StatusOK {
		t.Fatalf("upload %s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
	}
}

func runFlow(t *testing.T, app *bootstrap.App) {
	t.Helper()
	router := app.Router

	resp := do(t, router, http.MethodGet, "/api/v1/health", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", resp.Code)
	}

	resp = do(t, router, http.MethodPost, "/api/v1/sessions", nil, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var created struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	base := "/api/v1/sessions/" + created.SessionID

	uploadFixture(t, router, base+"/menu", workbooktest.Menu)
	uploadFixture(t, router, base+"/residents", workbooktest.Residents)
	uploadFixture(t, router, base+"/standards", workbooktest.Standards)

	resp = do(t, router, http.MethodGet, base+"/plans?ids=R001", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from search, got %d", resp.Code)
	}
	var found mealplan.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(found.Plans) != 1 || found.Plans[0].Compliance == nil {
		t.Fatalf("expected one plan with compliance, got %+v", found)
	}

	resp = do(t, router, http.MethodPost, base+"/exports", nil, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from export, got %d: %s", resp.Code, resp.Body.String())
	}
	var exp struct {
		ExportID  string `json:"exportId"`
		FileName  string `json:"fileName"`
		SizeBytes int64  `json:"sizeBytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&exp); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if exp.ExportID == "" || exp.SizeBytes <= 0 || !strings.HasSuffix(exp.FileName, ".xlsx") {
		t.Fatalf("unexpected export %+v", exp)
	}

	resp = do(t, router, http.MethodGet, base+"/exports", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", resp.Code)
	}
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one export, got %d", len(list))
	}

	resp = do(t, router, http.MethodGet, base+"/exports/"+exp.ExportID, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from download, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition, got %q", resp.Header().Get("Content-Disposition"))
	}
	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("open downloaded workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("당뇨")
	if err != nil {
		t.Fatalf("read diabetes sheet: %v", err)
	}
	if len(rows) != 7 || rows[1][0] != "R001" {
		t.Fatalf("expected header plus six R001 rows, got %d rows", len(rows))
	}

	resp = do(t, router, http.MethodGet, base+"/exports/missing", nil, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown export, got %d", resp.Code)
	}

	resp = do(t, router, http.MethodDelete, base, nil, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from delete, got %d", resp.Code)
	}
}

func TestSessionFlowWithMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected no database for memory session store")
	}
	runFlow(t, app)
}

func TestSessionFlowWithSQLiteStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.SessionStore = "sqlite"
	cfg.SessionDSN = "file:bootstrap_test?mode=memory&cache=shared"

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if app.DB == nil {
		t.Fatalf("expected sqlite session database")
	}
	runFlow(t, app)
}

func TestBuildRejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdjustPolicy = "round"
	_, err := bootstrap.Build(cfg)
	if !errors.Is(err, mealplan.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestBuildSelectsClampPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdjustPolicy = "clamp"
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if app.Pipeline.Policy.Name() != "clamp" {
		t.Fatalf("expected clamp policy, got %s", app.Pipeline.Policy.Name())
	}
}
