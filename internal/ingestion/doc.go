// Package ingestion maps loosely named spreadsheet columns onto the canonical
// delivery schema and cleans raw rows into validated records.
//
// AutoMap proposes a ColumnMapping from a header row using a declarative
// keyword table. The mapping is advisory: callers may override entries and
// Cleaner.Clean always resolves fields through the mapping it is given.
//
// Cleaning never drops a row. Each field rule either accepts the value or
// substitutes a default, records a ValidationIssue and subtracts a fixed
// penalty from the row's quality score, which starts at 100 and never goes
// below 0.
package ingestion
