// Package core provides the business logic of the equipment inventory.
//
// It holds the equipment operations and the CSV import pipeline, independent
// of HTTP or the CLI. Storage sits behind [Repository]; [PGRepository] talks
// to PostgreSQL and [MemoryRepository] serves offline use and tests.
//
// # Import pipeline
//
// An upload goes through three steps:
//
//  1. [Service.Preview] decodes the CSV (BOM stripped, UTF-8 required),
//     resolves legacy headers and values through the [ImportSchema],
//     normalizes and validates each row and sorts it into the validated,
//     problematic or duplicate bucket. Nothing is written.
//  2. The user fixes rows and re-checks them with [Service.ValidateRow] or
//     [Service.ValidateField], which run the same rules.
//  3. [Service.Confirm] commits the approved rows one by one. Each row
//     creates, updates or restores a record; a failing row is reported and
//     the rest continue.
//
// [Service.LegacyImport] does resolution, normalization and commit in one
// call, collapsing rows that share an equipment ID or serial number.
//
// # Errors
//
// Technical errors are mapped to coded user messages by [MapError]; see
// error_messages.go for the code list.
package core
