// Package dataprocessing turns uploaded spreadsheets into raw datasets and
// provides the cell coercions the cleaning engine is built on.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Parser: reads the first sheet of a workbook (or a CSV file) with the
// first row as header and empty strings for missing cells
// 2. Coercions: turn loosely-typed cells into numbers, times and booleans,
// including spreadsheet serial dates
// 3. Profiles: infer a kind per column for display and series building
//
// # Usage
//
//	dataset, err := dataprocessing.ReadFile("orders.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, p := range dataprocessing.ProfileColumns(dataset) {
//	    fmt.Println(p.Name, p.Kind)
//	}
package dataprocessing
