package core

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("xl/workbook.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("<workbook/>")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCheckUpload(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr bool
	}{
		{"csv", "inventory.csv", []byte("Serial Number,Type\nSN1,PC\n"), false},
		{"upper-case extension", "INVENTORY.CSV", []byte("Serial Number\nSN1\n"), false},
		{"empty content", "inventory.csv", nil, false},
		{"bom", "inventory.csv", []byte("\xEF\xBB\xBFSerial Number\nSN1\n"), false},
		{"wrong extension", "inventory.xlsx", []byte("Serial Number\nSN1\n"), true},
		{"no extension", "inventory", []byte("Serial Number\nSN1\n"), true},
		{"spreadsheet renamed to csv", "inventory.csv", zipBytes(t), true},
		{"pdf renamed to csv", "inventory.csv", []byte("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.file, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrNotCSV) {
					t.Fatalf("CheckUpload() error = %v, want ErrNotCSV", err)
				}
				if got := MapError(err).Code; got != "FILE006" {
					t.Errorf("MapError code = %s, want FILE006", got)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckUpload() error = %v", err)
			}
		})
	}
}
