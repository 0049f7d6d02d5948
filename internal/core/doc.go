// Package core provides the record ingestion pipeline for the HYG star catalog.
//
// The package holds the domain logic independent of any storage engine or
// transport. Stores plug in through [RecordAppender]; progress flows out
// through callbacks.
//
// # Pipeline
//
//  1. [LineSource] yields raw lines, header included, cleaned of BOM and
//     invalid UTF-8.
//  2. [Ingester.Run] discards the header, splits each line on commas and
//     skips lines without [FieldCount] fields.
//  3. [MapStar] coerces each field by its [FieldSpec] in [StarFields].
//  4. The store appends the resulting [Star].
//
// # Null Conventions
//
// The catalog leaves absent values empty. Nullable integer columns read as
// 0 ([ToNullInt]) and nullable float columns read as NaN ([ToNullFloat]).
// Required numeric columns have no fallback.
//
// # Error Handling
//
// Record errors ([SchemaError], [ParseError], [StoreError]) are isolated to
// one line and reported through [Options.OnReject] and [Report.FailedRows].
// Errors wrapping [ErrFatal] end the run. [MapError] gives every error a
// stable code for logs and the failed-rows export:
//
//   - REC001-REC004: record errors
//   - DB001-DB010: database errors
//   - FILE001: catalog file errors
package core
