// Package spreadsheet reads vocabulary rows from .xlsx workbooks and .csv
// files. The first row holds the column headers; every following non-blank
// row becomes a Row keyed by those headers.
package spreadsheet
