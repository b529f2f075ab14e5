package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvTable is a decoded upload: the header row and every record after it.
type csvTable struct {
	header  []string
	records [][]string
}

// decodeCSV strips a UTF-8 BOM, rejects invalid UTF-8 and parses the file.
// Records may have fewer or more cells than the header.
func decodeCSV(data []byte) (*csvTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}

	records, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 || isEmptyRow(records[0]) {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &csvTable{header: header, records: records[1:]}, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// rawRow pairs a record's cells with the header, in header order. Cells past
// the last header are dropped; missing trailing cells are omitted.
func (t *csvTable) rawRow(record []string) []RawField {
	n := len(record)
	if n > len(t.header) {
		n = len(t.header)
	}
	raw := make([]RawField, 0, n)
	for i := 0; i < n; i++ {
		if t.header[i] == "" {
			continue
		}
		raw = append(raw, RawField{Header: t.header[i], Value: record[i]})
	}
	return raw
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
