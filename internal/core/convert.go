package core

// convert.go turns cleaned CSV strings into the pgtype values stored in the
// equipment table, and back into strings for export and diff display.
//
// All To* functions return Valid=false for empty or unparseable input. The
// import path treats that as "leave the column alone", so a bad date or cost
// in one cell never fails the row.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// isoDateLayouts are the accepted ISO-8601 date forms. A timestamp is cut
// down to its date.
var isoDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// thousandsGrouped matches a number whose commas sit only between groups of
// three digits, e.g. "1,234,567.89". Anything else with a comma is rejected.
var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ToText converts a string to pgtype.Text, invalid when blank.
func ToText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToDate parses an ISO-8601 date.
func ToDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{}
	}
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}
	return pgtype.Date{}
}

// ToNumeric parses a decimal amount rounded to cents. A leading currency
// symbol, correctly grouped thousands separators and accounting negatives
// "(12.50)" are accepted. A decimal comma such as "1,5" is not.
func ToNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer("$", "", "€", "", "£", "").Replace(s)
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return pgtype.Numeric{}
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}
	}
	if negative {
		d = d.Neg()
	}
	d = d.Round(2)
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// ToInt4 parses a whole number score. Values outside int32 are rejected.
func ToInt4(s string) pgtype.Int4 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int4{}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}
}

// TextString returns the string or "" for NULL.
func TextString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// DateString formats a date as YYYY-MM-DD, or "" for NULL.
func DateString(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// NumericString formats a numeric with two decimals, or "" for NULL.
func NumericString(n pgtype.Numeric) string {
	if !n.Valid || n.Int == nil {
		return ""
	}
	return decimal.NewFromBigInt(n.Int, n.Exp).StringFixed(2)
}

// Int4String formats an integer, or "" for NULL.
func Int4String(i pgtype.Int4) string {
	if !i.Valid {
		return ""
	}
	return strconv.Itoa(int(i.Int32))
}

// cleanCell trims whitespace and unwraps Excel's ="..." text-forcing prefix.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
