package web

import (
	"bytes"
	"net/http"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/web/templates"
)

// handleImportPreview classifies an uploaded CSV without writing anything.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, err := s.readCSVUpload(w, r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	result, err := s.service.Preview(r.Context(), data)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

type validateRowRequest struct {
	Data      fieldMap `json:"data"`
	RowNumber int      `json:"row_number"`
}

// handleValidateRow re-checks a single row after the user edits it in the
// preview.
func (s *Server) handleValidateRow(w http.ResponseWriter, r *http.Request) {
	var req validateRowRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	row, err := s.service.ValidateRow(r.Context(), req.Data, req.RowNumber)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, row)
}

type validateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleValidateField(w http.ResponseWriter, r *http.Request) {
	var req validateFieldRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if req.Field == "" {
		s.respondServiceError(w, r, badRequest("invalid request body: field is required"))
		return
	}
	writeJSON(w, s.service.ValidateField(req.Field, req.Value))
}

type confirmRequest struct {
	Rows []struct {
		RowNumber int      `json:"row_number"`
		Data      fieldMap `json:"data"`
	} `json:"rows"`
}

// handleImportConfirm commits the rows the user accepted from a preview.
func (s *Server) handleImportConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(w, r, s.confirmBodyLimit(), &req); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	rows := make([]core.ConfirmRow, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = core.ConfirmRow{RowNumber: row.RowNumber, Data: row.Data}
	}

	result, err := s.service.Confirm(r.Context(), core.ImportConfirmRequest{Rows: rows})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondImportResult(w, r, result)
}

// handleLegacyImport imports an uploaded CSV in one step, updating records
// whose serial number already exists.
func (s *Server) handleLegacyImport(w http.ResponseWriter, r *http.Request) {
	data, err := s.readCSVUpload(w, r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	result, err := s.service.LegacyImport(r.Context(), data)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondImportResult(w, r, result)
}

// respondImportResult renders a result banner for HTMX and JSON otherwise.
func (s *Server) respondImportResult(w http.ResponseWriter, r *http.Request, result *core.ImportResult) {
	if !isHTMX(r) {
		writeJSON(w, result)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ImportResultBanner(result).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render import result", "error", err)
	}
}

// handleExport downloads every record as CSV. The body is buffered so a
// failure midway still produces an error response.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := boolParam(r, "include_deleted")
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	n, err := s.service.Export(r.Context(), &buf, includeDeleted)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("export", "rows", n, "include_deleted", includeDeleted)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFileName(s.now())+`"`)
	_, _ = buf.WriteTo(w)
}
