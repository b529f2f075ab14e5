package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"not found sentinel", ErrNotFound, "EQP001"},
		{"wrapped not found", fmt.Errorf("get PC-0001: %w", ErrNotFound), "EQP001"},
		{"not deleted", ErrNotDeleted, "EQP002"},
		{"serial exists beats duplicate key", fmt.Errorf("%w: SN1 is used by PC-0001", ErrSerialExists), "EQP003"},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"unique constraint", errors.New("unique constraint violated"), "DB002"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"validation error", &ValidationError{Errors: []FieldError{{Field: "ip_address", Message: "bad"}}}, "VAL001"},
		{"missing type", errors.New("Missing required field: Equipment Type"), "VAL002"},
		{"invalid type", errors.New("Invalid Equipment Type: Tablet"), "VAL003"},
		{"body too large", errors.New("http: request body too large"), "FILE001"},
		{"malformed csv", fmt.Errorf("invalid csv: %w", errors.New(`parse error on line 3`)), "FILE002"},
		{"encoding", ErrEncoding, "FILE003"},
		{"empty file", ErrEmptyFile, "FILE005"},
		{"not csv", ErrNotCSV, "FILE006"},
		{"busy", ErrTooManyImports, "IMP001"},
		{"deadline", errors.New("context deadline exceeded"), "IMP003"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown", errors.New("some random internal error"), "ERR000"},
		{"case insensitive", errors.New("DUPLICATE KEY value"), "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err).Code; got != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrNotFound)
	want := "Equipment not found (Code: EQP001). Check the equipment ID or serial number"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil error should not be user facing")
	}
	if !IsUserFacing(ErrEmptyFile) {
		t.Error("ErrEmptyFile should be user facing")
	}
	if IsUserFacing(errors.New("random internal error xyz")) {
		t.Error("unknown error should not be user facing")
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	ue := NewUserError(ErrNotDeleted)
	if ue.Error() != "Equipment is not deleted" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrNotDeleted) {
		t.Error("Unwrap() should expose the technical error")
	}
}
