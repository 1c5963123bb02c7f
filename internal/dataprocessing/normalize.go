package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"feedbackpulse/pkg/contracts/domain"
)

// stageSynonyms are title-cased stage labels that mean the survey was answered.
var stageSynonyms = map[string]string{
	"Respondida": domain.StageEvaluated,
	"Recebida":   domain.StageEvaluated,
}

// evaluatedMarkers are matched against the folded, lower-cased stage.
var evaluatedMarkers = []string{"respond", "recebid", "received"}

// stageNormalizer title-cases stage labels. A Caser keeps state, so each
// parse owns its own normalizer.
type stageNormalizer struct {
	caser cases.Caser
}

func newStageNormalizer() *stageNormalizer {
	return &stageNormalizer{caser: cases.Title(language.BrazilianPortuguese)}
}

// Normalize trims, title-cases and canonicalizes a raw stage label.
func (n *stageNormalizer) Normalize(raw string) string {
	stage := strings.TrimSpace(raw)
	if stage == "" {
		return ""
	}
	stage = n.caser.String(stage)
	if canonical, ok := stageSynonyms[stage]; ok {
		return canonical
	}
	return stage
}

// IsEvaluatedStage reports whether a stage label means the survey came back.
// The match ignores case and accents.
func IsEvaluatedStage(stage string) bool {
	if stage == "" {
		return false
	}
	folded := strings.ToLower(foldAccents(stage))
	for _, marker := range evaluatedMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// foldAccents removes combining marks, e.g. "Recebída" → "Recebida".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeSpecialist trims the name and substitutes the sentinel for blanks.
func normalizeSpecialist(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return domain.UnassignedSpecialist
	}
	return name
}
