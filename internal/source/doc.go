// Package source fetches the raw survey export as a table of strings.
//
// Three kinds are supported: a published CSV fetched over HTTP(S), a local
// CSV file and a Google Sheets range read through the Sheets API. Every
// fetcher returns the header row first. Any failure to produce a table is
// reported as an *errors.AppError wrapping ErrFetchFailed, so callers can
// test for it with errors.Is.
package source
