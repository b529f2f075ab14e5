package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// Codes by category, quoted by users when they contact support:
//
//	DB001-DB006    storage constraints and connectivity
//	VAL001-VAL004  request and field validation
//	FILE001-FILE006 uploaded file problems
//	IMP001-IMP003  import capacity, cancellation and timeouts
//	EQP001-EQP003  equipment lookups and state
//	RATE001        request throttling
//	ERR000         anything else; check the server log for the request ID
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Equipment
	{"equipment not found", UserMessage{"Equipment not found", "Check the equipment ID or serial number", "EQP001"}},
	{"equipment is not deleted", UserMessage{"Equipment is not deleted", "Only deleted equipment can be restored", "EQP002"}},
	{"serial number already exists", UserMessage{"Another record already uses this serial number", "Update the existing record instead", "EQP003"}},

	// Storage
	{"duplicate key", UserMessage{"A record with this equipment ID or serial number already exists", "Review the row against the existing record", "DB001"}},
	{"violates unique", UserMessage{"A duplicate value was found", "Check for duplicate entries in your CSV", "DB002"}},
	{"unique constraint", UserMessage{"This value must be unique but already exists", "Check for duplicate entries in your CSV", "DB002"}},
	{"foreign key", UserMessage{"Referenced record does not exist", "Reload the page and try again", "DB003"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB006"}},

	// Validation
	{"validation failed", UserMessage{"Some fields have an invalid format", "Correct the highlighted fields and resubmit", "VAL001"}},
	{"missing required field", UserMessage{"A required field is missing", "Provide an equipment type for new records", "VAL002"}},
	{"invalid equipment type", UserMessage{"Equipment type is not recognized", "Use PC, Monitor, Scanner or Printer", "VAL003"}},
	{"invalid request body", UserMessage{"The request could not be read", "Send a valid JSON body", "VAL004"}},
	{"invalid query parameter", UserMessage{"A filter value is not valid", "Check the query parameters and try again", "VAL005"}},

	// Files
	{"request body too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller chunks", "FILE001"}},
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller chunks", "FILE001"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Ensure the file is comma-separated with a header row", "FILE002"}},
	{"encoding error", UserMessage{"File contains invalid characters", "Save the file as UTF-8", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a CSV file to upload", "FILE004"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Upload a CSV file with a header row and data rows", "FILE005"}},
	{"not a csv file", UserMessage{"Only .csv files can be imported", "Export the spreadsheet as CSV and upload it again", "FILE006"}},

	// Imports
	{"too many imports", UserMessage{"System is busy processing other imports", "Please wait a moment and try again", "IMP001"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "IMP002"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "IMP003"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "IMP003"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unmatched
// errors get ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err; it returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
