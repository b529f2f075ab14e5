package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Serial Number,Equipment Type,Model,Primary User,IP Address\n" +
	"SN1,PC,OptiPlex 7090,Alice,10.0.0.1\n" +
	"SN2,Monitor,P2422H,,\n" +
	"SN3,Toaster,,,10.0.0.300\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			CORSOrigins:    []string{"*"},
		},
		Import: config.ImportConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       time.Minute,
		},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *core.MemoryRepository) {
	t.Helper()
	repo := core.NewMemoryRepository()
	svc := core.NewService(repo, nil, core.Options{
		MaxConcurrent:   cfg.Import.MaxConcurrent,
		MaxWait:         cfg.Import.MaxWaitTime,
		Timeout:         cfg.Import.Timeout,
		LookupCacheSize: 16,
	})
	s := NewServer(svc, cfg)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = s.Shutdown(t.Context()) })
	return s, repo
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("comment", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	type health struct {
		Status  string                   `json:"status"`
		Imports core.ImportLimiterStatus `json:"imports"`
	}
	body := decodeBody[health](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Imports.MaxConcurrent)
	assert.Equal(t, 2, body.Imports.Available)
}

func TestImportPreview(t *testing.T) {
	s, repo := newTestServer(t, testConfig())

	rec := serve(s, uploadRequest(t, "/api/computers/import/preview", "inventory.CSV", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[core.ImportPreviewResult](t, rec)
	assert.Equal(t, 3, result.TotalRows)
	assert.Len(t, result.ValidatedRows, 2)
	assert.Len(t, result.ProblematicRows, 1)
	assert.Equal(t, []string{"Serial Number", "Equipment Type", "Model", "Primary User", "IP Address"}, result.CSVColumns)

	items, err := repo.List(t.Context(), core.EquipmentFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestImportPreview_RejectedUploads(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantCode string
	}{
		{"wrong extension", "inventory.xlsx", sampleCSV, "FILE006"},
		{"no file", "", "", "FILE004"},
		{"invalid utf-8", "inventory.csv", "Serial Number\n\xff\xfe\n", "FILE003"},
		{"empty", "inventory.csv", "", "FILE005"},
	}

	s, _ := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, "/api/computers/import/preview", tt.filename, tt.content))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody[ErrorResponse](t, rec).Code)
		})
	}
}

func TestImportPreview_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Import.MaxFileSize = 64
	s, _ := newTestServer(t, cfg)

	big := "Serial Number\n" + strings.Repeat("SN-0000000000\n", 50)
	rec := serve(s, uploadRequest(t, "/api/computers/import/preview", "big.csv", big))
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, rec.Code)
}

func TestValidateRowAndField(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers/validate/row", map[string]any{
		"row_number": 7,
		"data":       map[string]any{"serial_number": "SN7", "equipment_type": "Monitor", "cpu_score": 812},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	row := decodeBody[core.ImportRow](t, rec)
	assert.Equal(t, 7, row.RowNumber)
	assert.Empty(t, row.Errors)
	assert.Equal(t, "812", row.Data["cpu_score"])

	rec = serve(s, jsonRequest(t, http.MethodPost, "/api/computers/validate/field", map[string]string{
		"field": "mac_lan", "value": "1c872c59e3c9",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	field := decodeBody[core.FieldValidation](t, rec)
	assert.True(t, field.Valid)
	require.NotNil(t, field.NormalizedValue)
	assert.Equal(t, "1C:87:2C:59:E3:C9", *field.NormalizedValue)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/computers/validate/field", strings.NewReader("{"))
		rec := serve(s, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VAL004", decodeBody[ErrorResponse](t, rec).Code)
	})
}

func TestImportConfirm(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers/import/confirm", map[string]any{
		"rows": []map[string]any{
			{"row_number": 1, "data": map[string]any{"serial_number": "SN1", "equipment_type": "PC", "cost": 1200.5}},
			{"row_number": 2, "data": map[string]any{"serial_number": "SN2"}},
		},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[core.ImportResult](t, rec)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers/SN1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "PC-0001", got["equipment_id"])
	assert.Equal(t, "Active", got["status"])
}

func TestImportConfirm_HTMX(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	req := jsonRequest(t, http.MethodPost, "/api/computers/import/confirm", map[string]any{
		"rows": []map[string]any{
			{"row_number": 4, "data": map[string]any{"serial_number": "SN4", "equipment_type": "Scanner"}},
		},
	})
	req.Header.Set("HX-Request", "true")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "1 created")
}

func TestLegacyImport(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := serve(s, uploadRequest(t, "/api/computers/import", "inventory.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[core.ImportResult](t, rec)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)

	// Same file again updates by serial number.
	rec = serve(s, uploadRequest(t, "/api/computers/import", "inventory.csv", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeBody[core.ImportResult](t, rec)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Created)
}

func TestEquipmentLifecycle(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers", map[string]any{
		"equipment_id":   "PC-0900",
		"equipment_type": "pc",
		"serial_number":  "SN1",
		"primary_user":   "Alice",
		"overall_rating": 4,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "PC-0001", decodeBody[map[string]any](t, rec)["equipment_id"])

	t.Run("duplicate serial", func(t *testing.T) {
		rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers", map[string]any{
			"equipment_type": "Monitor", "serial_number": "SN1",
		}))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "EQP003", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("invalid fields", func(t *testing.T) {
		rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers", map[string]any{
			"equipment_type": "PC", "ip_address": "300.1.1.1",
		}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "VAL001", resp.Code)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "ip_address", resp.Errors[0].Field)
	})

	rec = serve(s, jsonRequest(t, http.MethodPut, "/api/computers/PC-0001", map[string]any{
		"primary_user": "Bob",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Bob", decodeBody[map[string]any](t, rec)["primary_user"])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers/PC-0001/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[[]map[string]any](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "Alice", history[0]["previous_user"])

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/computers/PC-0001/restore", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EQP002", decodeBody[ErrorResponse](t, rec).Code)

	rec = serve(s, httptest.NewRequest(http.MethodDelete, "/api/computers/PC-0001", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["is_deleted"])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers/PC-0001", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EQP001", decodeBody[ErrorResponse](t, rec).Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/admin/deleted", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/computers/PC-0001/restore", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody[map[string]any](t, rec)["is_deleted"])
}

func TestListEquipment(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	for _, body := range []map[string]any{
		{"equipment_type": "PC", "serial_number": "A", "equipment_name": "beta", "overall_rating": 3},
		{"equipment_type": "PC", "serial_number": "B", "equipment_name": "alpha", "overall_rating": 5},
		{"equipment_type": "Monitor", "serial_number": "C", "equipment_name": "gamma"},
	} {
		rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers", body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	names := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, item := range decodeBody[[]map[string]any](t, rec) {
			out = append(out, item["equipment_name"].(string))
		}
		return out
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/computers?equipment_type=pc&sort_by=equipment_name", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"alpha", "beta"}, names(rec))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers?min_rating=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alpha"}, names(rec))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers?equipment_type=Scanner", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	for _, query := range []string{"sort_by=password", "min_rating=high", "include_deleted=maybe"} {
		t.Run(query, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/computers?"+query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VAL005", decodeBody[ErrorResponse](t, rec).Code)
		})
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	rec := serve(s, jsonRequest(t, http.MethodPost, "/api/computers", map[string]any{
		"equipment_type": "Printer", "serial_number": "PRN-SN", "cost": "899.9",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/computers/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="equipment_export_2025-06-01.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "PRN-0001")
	assert.Contains(t, lines[1], "899.90")
}

func TestHTMXErrorFragment(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/computers/PC-0404", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(s, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `data-code="EQP001"`)
	assert.Contains(t, rec.Body.String(), "Equipment not found")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ImportLimit: 1}
	s, _ := newTestServer(t, cfg)

	get := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/computers", nil)
		req.RemoteAddr = addr
		return serve(s, req)
	}

	assert.Equal(t, http.StatusOK, get("192.0.2.1:1000").Code)
	assert.Equal(t, http.StatusOK, get("192.0.2.1:1001").Code)

	rec := get("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeBody[ErrorResponse](t, rec).Code)

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, get("192.0.2.2:1000").Code)

	// Health checks are not limited.
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "192.0.2.1:1003"
		assert.Equal(t, http.StatusOK, serve(s, req).Code)
	}
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	rec := serve(s, req)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/computers", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(s, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
