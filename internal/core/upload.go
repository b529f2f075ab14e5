package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// binaryFormats are document containers that get uploaded by mistake in
// place of a CSV export. Spreadsheets descend from the zip and OLE types.
var binaryFormats = []string{
	"application/zip",
	"application/x-ole-storage",
	"application/pdf",
	"application/gzip",
}

// CheckUpload rejects a file whose name lacks a .csv extension, or whose
// content sniffs as a spreadsheet or other binary document despite the name.
func CheckUpload(name string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s must have a .csv extension", ErrNotCSV, filepath.Base(name))
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, f := range binaryFormats {
			if m.Is(f) {
				return fmt.Errorf("%w: %s contains %s", ErrNotCSV, filepath.Base(name), detected.String())
			}
		}
	}
	return nil
}
