// Package sqlquote quotes identifiers and literals for the SQL dialects the
// toolkit speaks: GoogleSQL (BigQuery) and DuckDB.
package sqlquote

import "strings"

// QuoteIdentifier wraps a GoogleSQL identifier in backticks, escaping
// backslashes and embedded backticks.
//
// Any name is accepted: BigQuery column names may contain characters beyond
// [a-zA-Z0-9_], so quoting is the only guard.
func QuoteIdentifier(name string) string {
	r := strings.NewReplacer(`\`, `\\`, "`", "\\`")
	return "`" + r.Replace(name) + "`"
}

// QuoteTable returns a GoogleSQL reference to dataset.table with each part
// quoted separately, so dots inside an id cannot change the path.
func QuoteTable(datasetID, tableID string) string {
	return QuoteIdentifier(datasetID) + "." + QuoteIdentifier(tableID)
}

// QuoteLiteral wraps a string value in single quotes, escaping any
// embedded single-quote characters by doubling them (standard SQL, DuckDB).
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
