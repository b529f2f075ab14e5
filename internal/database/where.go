package database

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates parameterized conditions for dynamic listings.
// Placeholders are numbered in the order conditions are added.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "col = $n". Empty string values are skipped.
func (wb *WhereBuilder) Add(col string, val interface{}) {
	if s, ok := val.(string); ok && s == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", quoteIdentifier(col), wb.argIndex))
	wb.args = append(wb.args, val)
	wb.argIndex++
}

// AddContains appends a case-insensitive substring match.
func (wb *WhereBuilder) AddContains(col, substr string) {
	if substr == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s ILIKE $%d", quoteIdentifier(col), wb.argIndex))
	wb.args = append(wb.args, "%"+escapeLike(substr)+"%")
	wb.argIndex++
}

// AddRange appends inclusive lower and upper bounds; nil bounds are skipped.
func (wb *WhereBuilder) AddRange(col string, lo, hi *int) {
	if lo != nil {
		wb.conditions = append(wb.conditions, fmt.Sprintf("%s >= $%d", quoteIdentifier(col), wb.argIndex))
		wb.args = append(wb.args, *lo)
		wb.argIndex++
	}
	if hi != nil {
		wb.conditions = append(wb.conditions, fmt.Sprintf("%s <= $%d", quoteIdentifier(col), wb.argIndex))
		wb.args = append(wb.args, *hi)
		wb.argIndex++
	}
}

// AddRaw appends a condition that takes no arguments.
func (wb *WhereBuilder) AddRaw(cond string) {
	wb.conditions = append(wb.conditions, cond)
}

// NextArgIndex returns the number the next placeholder will get.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Build returns " WHERE a AND b" (or "" when empty) and the bound args.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]bool{
	"equipment_id": true, "equipment_name": true, "computer_subtype": true,
	"primary_user": true, "status": true, "manufacturer": true, "model": true,
	"location": true, "cpu_model": true, "ram": true, "storage": true,
	"operating_system": true, "serial_number": true, "cpu_score": true,
	"score_2d": true, "score_3d": true, "memory_score": true, "disk_score": true,
	"overall_rating": true, "assignment_date": true, "usage_type": true,
	"created_at": true,
}

// ValidSortColumn reports whether col may be passed to SortClause.
func ValidSortColumn(col string) bool {
	return sortColumns[col]
}

// SortClause returns an ORDER BY clause. Equipment IDs sort by type then
// numeric suffix so PC-0010 follows PC-0009. Unknown columns fall back to
// equipment_name.
func SortClause(col string, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	if !sortColumns[col] {
		col = "equipment_name"
	}
	if col == "equipment_id" {
		return fmt.Sprintf(" ORDER BY equipment_type %s, equipment_id_num %s", dir, dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id ASC", quoteIdentifier(col), dir)
}

// quoteIdentifier double-quotes a SQL identifier, escaping embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
