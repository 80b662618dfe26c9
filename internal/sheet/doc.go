// Package sheet turns raw carrier pricing grids into dataset payloads.
//
// A pricing sheet has up to three header rows above the body: carrier,
// contract type and plan options. The first column labels each body row
// with a phone model. Spreadsheet exports leave merged header cells empty,
// so header rows are forward filled before the categorical metadata is
// derived.
package sheet
