// Package shared holds helpers used by more than one package of Feedback Pulse.
//
// The testutil subpackage provides a log capturing slog handler and
// fixtures for building survey exports in tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	records := testutil.NewSurvey().
//	    Row("Ana", "01/03/2024", "Respondida", "5", "4", "5", "4", "5", "9", "Ótimo").
//	    Records()
package shared
