package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/inventory/internal/core"
)

// maxJSONBody caps JSON bodies other than import confirmations, which are
// bounded by confirmBodyLimit.
const maxJSONBody = 1 << 20

// confirmBodyLimit allows for a confirmed preview being several times the
// size of the CSV it came from.
func (s *Server) confirmBodyLimit() int64 {
	return 4 * s.cfg.Import.MaxFileSize
}

// fieldMap is a row of field values as sent by the UI. Numbers and booleans
// are accepted and kept in their JSON text form; null drops the field.
type fieldMap map[string]string

func (m *fieldMap) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out := make(fieldMap, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = fmt.Sprint(v)
		default:
			return fmt.Errorf("field %q: expected a scalar value", k)
		}
	}
	*m = out
	return nil
}

// requestError marks a malformed request. It maps to 400.
type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return requestError{fmt.Errorf(format, args...)}
}

// decodeJSON reads a bounded JSON body into v. Failures are reported as
// "invalid request body" so they map to VAL004.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %w", err)
	}
	return nil
}

// readCSVUpload returns the bytes of the multipart "file" field after
// core.CheckUpload accepts them.
func (s *Server) readCSVUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, badRequest("parse upload: %w", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("no file provided: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := core.CheckUpload(header.Filename, data); err != nil {
		return nil, err
	}
	return data, nil
}
