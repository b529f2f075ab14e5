package core

import "errors"

// Sentinel errors returned by Service and Repository. Messages contain the
// phrases MapError matches on, so wrapping them keeps the user-facing code.
var (
	ErrNotFound     = errors.New("equipment not found")
	ErrNotDeleted   = errors.New("equipment is not deleted")
	ErrSerialExists = errors.New("serial number already exists")
	ErrNotCSV       = errors.New("not a csv file")
	ErrEncoding     = errors.New("encoding error: file is not valid UTF-8")
	ErrEmptyFile    = errors.New("empty file: no header row found")
)
