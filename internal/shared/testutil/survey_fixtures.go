package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// SurveyHeaders is the header row of the form export, in export order.
var SurveyHeaders = []string{
	"Carimbo de data/hora",
	"Especialista Responsável",
	"Data da Pesquisa",
	"Etapa",
	"3.1. O advisor estava bem planejado e organizado",
	"3.2. A comunicação foi clara e objetiva",
	"3.3. Demonstrou domínio técnico sobre o tema",
	"3.4. Teve foco no fechamento do negócio e sugeriu nova data para conclusão",
	"3.5. Transmitiu confiança e postura profissional",
	"4. Qual a probabilidade de recomendar o advisor da BeSmart para um colega?",
	"5. Gostaria de deixar algum comentário adicional?",
}

// Survey builds export tables for tests
type Survey struct {
	headers []string
	rows    [][]string
}

// NewSurvey starts a survey with the full export header row
func NewSurvey() *Survey {
	return NewSurveyWithHeaders(SurveyHeaders...)
}

// NewSurveyWithHeaders starts a survey with custom headers
func NewSurveyWithHeaders(headers ...string) *Survey {
	return &Survey{headers: append([]string{}, headers...)}
}

// Row appends a full export row without the timestamp column:
// specialist, date, stage, five ratings, nps, comment.
func (s *Survey) Row(specialist, date, stage, r1, r2, r3, r4, r5, nps, comment string) *Survey {
	return s.Raw("", specialist, date, stage, r1, r2, r3, r4, r5, nps, comment)
}

// Raw appends cells as given
func (s *Survey) Raw(cells ...string) *Survey {
	s.rows = append(s.rows, append([]string{}, cells...))
	return s
}

// Records returns header plus rows
func (s *Survey) Records() [][]string {
	out := make([][]string, 0, len(s.rows)+1)
	out = append(out, append([]string{}, s.headers...))
	for _, r := range s.rows {
		out = append(out, append([]string{}, r...))
	}
	return out
}

// CSV renders the survey as CSV bytes
func (s *Survey) CSV(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(s.Records()); err != nil {
		t.Fatalf("write survey csv: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes the survey CSV into a temp dir and returns its path
func (s *Survey) WriteFile(t *testing.T) string {
	t.Helper()

	return s.WriteFileAt(t, filepath.Join(t.TempDir(), "responses.csv"))
}

// WriteFileAt writes the survey CSV to path, replacing any previous content
func (s *Survey) WriteFileAt(t *testing.T, path string) string {
	t.Helper()

	if err := os.WriteFile(path, s.CSV(t), 0o644); err != nil {
		t.Fatalf("write survey file: %v", err)
	}
	return path
}
