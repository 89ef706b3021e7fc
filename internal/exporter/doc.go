// Package exporter writes cleaned delivery records, their validation issues
// and forecast tables as CSV or Excel workbooks.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// WorkbookWriter builds a two-sheet .xlsx with excelize: "Cleaned Data" holds
// one row per record in canonical column order and "Issues" lists every
// validation issue with its row number.
//
// Example usage:
//
//	w := exporter.NewWorkbookWriter(logger)
//	if err := w.Write(out, result.Records, result.Issues); err != nil {
//	    return err
//	}
package exporter
