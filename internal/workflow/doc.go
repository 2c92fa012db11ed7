// Package workflow sequences the spreadsheet reader, the translation and
// speech providers and the AnkiConnect client into the bulk passes run by
// the CLI: import, translate, attach audio and show.
//
// Every pass works item by item and reports one Result per item. Skipped
// items never stop a pass; a failed item stops it unless
// Options.ContinueOnError is set.
package workflow
