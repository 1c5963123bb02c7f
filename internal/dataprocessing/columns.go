package dataprocessing

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"feedbackpulse/pkg/contracts/domain"
)

// headerAliases maps every accepted header text to its canonical column.
var headerAliases = map[string]string{
	// form export
	"Especialista Responsável": domain.ColumnSpecialist,
	"Data da Pesquisa":         domain.ColumnSubmissionDate,
	"Etapa":                    domain.ColumnStage,
	"3.1. O advisor estava bem planejado e organizado":                           domain.ColumnRating1,
	"3.2. A comunicação foi clara e objetiva":                                    domain.ColumnRating2,
	"3.3. Demonstrou domínio técnico sobre o tema":                               domain.ColumnRating3,
	"3.4. Teve foco no fechamento do negócio e sugeriu nova data para conclusão": domain.ColumnRating4,
	"3.5. Transmitiu confiança e postura profissional":                           domain.ColumnRating5,
	"4. Qual a probabilidade de recomendar o advisor da BeSmart para um colega?": domain.ColumnNPS,
	"5. Gostaria de deixar algum comentário adicional?":                          domain.ColumnComment,

	// short labels
	"Especialista":      domain.ColumnSpecialist,
	"Data":              domain.ColumnSubmissionDate,
	"Q3_1_Planejamento": domain.ColumnRating1,
	"Q3_2_Comunicacao":  domain.ColumnRating2,
	"Q3_3_Dominio":      domain.ColumnRating3,
	"Q3_4_Fechamento":   domain.ColumnRating4,
	"Q3_5_Confianca":    domain.ColumnRating5,
	"Q4_NPS":            domain.ColumnNPS,
	"Comentario":        domain.ColumnComment,

	// canonical
	domain.ColumnSpecialist:     domain.ColumnSpecialist,
	domain.ColumnSubmissionDate: domain.ColumnSubmissionDate,
	domain.ColumnStage:          domain.ColumnStage,
	domain.ColumnRating1:        domain.ColumnRating1,
	domain.ColumnRating2:        domain.ColumnRating2,
	domain.ColumnRating3:        domain.ColumnRating3,
	domain.ColumnRating4:        domain.ColumnRating4,
	domain.ColumnRating5:        domain.ColumnRating5,
	domain.ColumnNPS:            domain.ColumnNPS,
	domain.ColumnComment:        domain.ColumnComment,
}

// CanonicalColumn returns the canonical name for a header cell.
func CanonicalColumn(header string) (string, bool) {
	name, ok := headerAliases[cleanHeader(header)]
	return name, ok
}

// cleanHeader trims whitespace and a stray byte order mark and composes
// accents, so a decomposed "ç" still matches.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(h))
}

// columnIndex holds the position of each canonical column, -1 when absent.
type columnIndex struct {
	specialist int
	date       int
	stage      int
	ratings    [domain.RubricCount]int
	nps        int
	comment    int
}

// indexColumns locates canonical columns in the header row. When two headers
// map to the same column the first one wins.
func indexColumns(header []string) (columnIndex, domain.ColumnSet) {
	idx := columnIndex{specialist: -1, date: -1, stage: -1, nps: -1, comment: -1}
	for i := range idx.ratings {
		idx.ratings[i] = -1
	}

	var set domain.ColumnSet
	for pos, cell := range header {
		name, ok := CanonicalColumn(cell)
		if !ok {
			if h := cleanHeader(cell); h != "" {
				set.Unmapped = append(set.Unmapped, h)
			}
			continue
		}

		switch name {
		case domain.ColumnSpecialist:
			setIndex(&idx.specialist, &set.Specialist, pos)
		case domain.ColumnSubmissionDate:
			setIndex(&idx.date, &set.SubmissionDate, pos)
		case domain.ColumnStage:
			setIndex(&idx.stage, &set.Stage, pos)
		case domain.ColumnNPS:
			setIndex(&idx.nps, &set.NPS, pos)
		case domain.ColumnComment:
			setIndex(&idx.comment, &set.Comment, pos)
		default:
			for i, rubric := range domain.RubricColumns {
				if name == rubric {
					setIndex(&idx.ratings[i], &set.Ratings[i], pos)
				}
			}
		}
	}

	return idx, set
}

func setIndex(slot *int, present *bool, pos int) {
	if *slot >= 0 {
		return
	}
	*slot = pos
	*present = true
}

// cell returns the value at pos, or "" when the row is short or pos is -1.
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}
