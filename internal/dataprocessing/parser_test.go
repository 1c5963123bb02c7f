package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackpulse/internal/shared/testutil"
	"feedbackpulse/pkg/contracts/domain"
)

func TestParser_Parse_FullExport(t *testing.T) {
	records := testutil.NewSurvey().
		Row("  Ana  ", "15/01/2024", "respondida", "5", "4", "5", "4", "5", "9", "  Ótima reunião  ").
		Row("Bruno", "2024-02-01", "Agendada", "", "", "", "", "", "", "").
		Row("", "data ruim", "Recebida", "3", "x", "", "", "", "NaN", "").
		Records()

	logger, logs := testutil.NewTestLogger(t)
	dataset, err := NewParser(logger).Parse(context.Background(), records, "test.csv")
	require.NoError(t, err)
	require.Equal(t, 3, dataset.Len())

	assert.Equal(t, "test.csv", dataset.Source)
	assert.True(t, dataset.Columns.Specialist)
	assert.True(t, dataset.Columns.Stage)
	assert.True(t, dataset.Columns.HasAnyRubric())
	assert.Equal(t, []string{"Carimbo de data/hora"}, dataset.Columns.Unmapped)

	ana := dataset.Responses[0]
	assert.Equal(t, 1, ana.Row)
	assert.Equal(t, "Ana", ana.Specialist)
	require.NotNil(t, ana.SubmittedAt)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *ana.SubmittedAt)
	assert.Equal(t, domain.StageEvaluated, ana.Stage)
	assert.True(t, ana.Evaluated)
	require.NotNil(t, ana.MeanRubric)
	assert.InDelta(t, 4.6, *ana.MeanRubric, 1e-9)
	require.NotNil(t, ana.NPS)
	assert.Equal(t, 9.0, *ana.NPS)
	assert.Equal(t, "Ótima reunião", ana.Comment)

	bruno := dataset.Responses[1]
	assert.Equal(t, "Agendada", bruno.Stage)
	assert.False(t, bruno.Evaluated)
	assert.Nil(t, bruno.MeanRubric, "all-nil rubric has no mean")
	assert.Nil(t, bruno.NPS)
	assert.False(t, bruno.HasComment())

	unassigned := dataset.Responses[2]
	assert.Equal(t, domain.UnassignedSpecialist, unassigned.Specialist)
	assert.Nil(t, unassigned.SubmittedAt)
	assert.True(t, unassigned.Evaluated)
	assert.Nil(t, unassigned.Ratings[1])
	require.NotNil(t, unassigned.MeanRubric)
	assert.Equal(t, 3.0, *unassigned.MeanRubric)
	assert.Nil(t, unassigned.NPS)

	// bad date, "x" rating and NaN nps
	assert.Equal(t, 3, dataset.CellFailures)
	testutil.AssertNoErrors(t, logs)
}

func TestParser_Parse_MissingColumns(t *testing.T) {
	records := testutil.NewSurveyWithHeaders("Especialista Responsável").
		Raw("Ana").
		Raw("Bruno").
		Records()

	logger, logs := testutil.NewTestLogger(t)
	dataset, err := NewParser(logger).Parse(context.Background(), records, "minimal")
	require.NoError(t, err)
	require.Equal(t, 2, dataset.Len())

	for _, r := range dataset.Responses {
		assert.Equal(t, domain.StageEvaluated, r.Stage)
		assert.True(t, r.Evaluated)
		assert.Nil(t, r.SubmittedAt)
		assert.Nil(t, r.MeanRubric)
		assert.Nil(t, r.NPS)
		assert.Equal(t, "", r.Comment)
	}

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "stage column missing")
}

func TestParser_Parse_NoSpecialistColumn(t *testing.T) {
	records := testutil.NewSurveyWithHeaders("Etapa", "Q3_1_Planejamento").
		Raw("Respondido", "4").
		Records()

	dataset, err := parseTable(records, "short")
	require.NoError(t, err)

	assert.Equal(t, domain.UnassignedSpecialist, dataset.Responses[0].Specialist)
	require.NotNil(t, dataset.Responses[0].MeanRubric)
	assert.Equal(t, 4.0, *dataset.Responses[0].MeanRubric)
}

func TestParser_Parse_ShortRowsAndHeaderNoise(t *testing.T) {
	records := [][]string{
		{"\ufeffEspecialista", " Etapa ", "Comentario", "Q4_NPS"},
		{"Ana"},
		{"Bruno", "Respondido", "ok", "10", "extra"},
	}

	dataset, err := parseTable(records, "noisy")
	require.NoError(t, err)
	require.Equal(t, 2, dataset.Len())

	assert.True(t, dataset.Columns.Specialist)
	assert.True(t, dataset.Columns.Stage)

	assert.Equal(t, "", dataset.Responses[0].Stage)
	assert.False(t, dataset.Responses[0].Evaluated)
	assert.Equal(t, "ok", dataset.Responses[1].Comment)
	require.NotNil(t, dataset.Responses[1].NPS)
	assert.Equal(t, 10.0, *dataset.Responses[1].NPS)
}

func TestParser_Parse_HeaderOnly(t *testing.T) {
	dataset, err := parseTable(testutil.NewSurvey().Records(), "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, dataset.Len())
	assert.NotNil(t, dataset.Responses)
}

func TestParser_Parse_NoHeader(t *testing.T) {
	_, err := parseTable(nil, "nothing")
	assert.ErrorIs(t, err, domain.ErrNoHeader)
}

func TestStageNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"respondida", "Respondido"},
		{"Recebida", "Respondido"},
		{"RESPONDIDO", "Respondido"},
		{"  respondido ", "Respondido"},
		{"agendada para amanhã", "Agendada Para Amanhã"},
		{"", ""},
		{"   ", ""},
	}

	stages := newStageNormalizer()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, stages.Normalize(tt.raw))
		})
	}
}

func TestIsEvaluatedStage(t *testing.T) {
	tests := []struct {
		stage string
		want  bool
	}{
		{"Respondido", true},
		{"Recebido", true},
		{"Recebída", true},
		{"Não Respondido", true},
		{"Received", true},
		{"Agendada", false},
		{"Cancelada", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEvaluatedStage(tt.stage))
		})
	}
}

func TestCanonicalColumn(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Especialista Responsa\u0301vel", domain.ColumnSpecialist, true},
		{"  Data da Pesquisa  ", domain.ColumnSubmissionDate, true},
		{"Especialista Responsável", domain.ColumnSpecialist, true},
		{"Q3_4_Fechamento", domain.ColumnRating4, true},
		{"nps_score", domain.ColumnNPS, true},
		{"5. Gostaria de deixar algum comentário adicional?", domain.ColumnComment, true},
		{"Carimbo de data/hora", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := CanonicalColumn(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		isNil  bool
		wantOK bool
	}{
		{raw: "15/01/2024", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "01/02/2024", want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "5/3/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "15/01/2024 14:30:00", want: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), wantOK: true},
		{raw: "15-01-2024", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "", isNil: true, wantOK: true},
		{raw: "sem data", isNil: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw    string
		want   *float64
		wantOK bool
	}{
		{"4", ptr(4), true},
		{" 4.5 ", ptr(4.5), true},
		{"", nil, true},
		{"abc", nil, false},
		{"NaN", nil, false},
		{"Inf", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseFloat(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// parseTable cleans records with a parser that logs to the default logger.
func parseTable(records [][]string, source string) (*domain.Dataset, error) {
	return NewParser(nil).Parse(context.Background(), records, source)
}

func ptr(v float64) *float64 {
	return &v
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParser_Parse_DropEachOptionalColumn(t *testing.T) {
	full := testutil.NewSurvey().
		Row("Ana", "15/01/2024", "Agendada", "5", "4", "5", "4", "5", "9", "Boa").
		Records()

	for col := 1; col < len(full[0]); col++ {
		header := full[0][col]
		t.Run(header, func(t *testing.T) {
			records := make([][]string, len(full))
			for i, row := range full {
				records[i] = append(append([]string{}, row[:col]...), row[col+1:]...)
			}

			dataset, err := parseTable(records, "dropped")
			require.NoError(t, err)
			require.Equal(t, 1, dataset.Len())

			r := dataset.Responses[0]
			name, _ := CanonicalColumn(header)
			switch name {
			case domain.ColumnStage:
				assert.Equal(t, domain.StageEvaluated, r.Stage)
				assert.True(t, r.Evaluated)
			case domain.ColumnComment:
				assert.Equal(t, "", r.Comment)
			case domain.ColumnSpecialist:
				assert.Equal(t, domain.UnassignedSpecialist, r.Specialist)
			case domain.ColumnSubmissionDate:
				assert.Nil(t, r.SubmittedAt)
			case domain.ColumnNPS:
				assert.Nil(t, r.NPS)
			default:
				require.NotNil(t, r.MeanRubric, "remaining rubric columns still produce a mean")
			}
		})
	}
}
