package domain

import (
	"errors"
	"time"
)

// ErrNoHeader reports a table without a header row.
var ErrNoHeader = errors.New("table has no header row")

// RubricCount is the number of rubric questions on the feedback form.
const RubricCount = 5

// Canonical column names used after header renaming.
const (
	ColumnSpecialist     = "specialist"
	ColumnSubmissionDate = "submission_date"
	ColumnStage          = "stage"
	ColumnRating1        = "rating_1"
	ColumnRating2        = "rating_2"
	ColumnRating3        = "rating_3"
	ColumnRating4        = "rating_4"
	ColumnRating5        = "rating_5"
	ColumnNPS            = "nps_score"
	ColumnComment        = "comment"
)

// RubricColumns lists the rubric columns in form order.
var RubricColumns = [RubricCount]string{
	ColumnRating1,
	ColumnRating2,
	ColumnRating3,
	ColumnRating4,
	ColumnRating5,
}

// RubricLabels are the short human names of the rubric dimensions.
var RubricLabels = [RubricCount]string{
	"Planejamento",
	"Comunicação",
	"Domínio técnico",
	"Foco no fechamento",
	"Confiança e postura",
}

const (
	// UnassignedSpecialist is used when a response has no specialist.
	UnassignedSpecialist = "— Sem especialista —"

	// StageEvaluated is the canonical label for a completed/received survey.
	StageEvaluated = "Respondido"
)

// Response is one cleaned survey submission.
//
// Optional values are pointers: nil means the source had no usable value.
// All defaults are applied by the loader, so later stages never need to
// check whether a column existed.
type Response struct {
	// Row is the 1-based data row in the source, header excluded.
	Row int `json:"row"`

	// Specialist is trimmed and never empty.
	Specialist string `json:"specialist"`

	// SubmittedAt is nil when the date was missing or unparseable.
	SubmittedAt *time.Time `json:"submitted_at"`

	// Stage is the title-cased, canonicalized status label.
	Stage string `json:"stage"`

	// Evaluated reports whether Stage means the survey was answered.
	Evaluated bool `json:"evaluated"`

	Ratings [RubricCount]*float64 `json:"ratings"`
	NPS     *float64              `json:"nps_score"`

	// MeanRubric is the mean of the non-nil ratings; nil when there are none.
	MeanRubric *float64 `json:"mean_rubric_score"`

	// Comment is trimmed; empty means no comment.
	Comment string `json:"comment"`
}

// HasDate reports whether the submission date is known.
func (r Response) HasDate() bool {
	return r.SubmittedAt != nil
}

// HasComment reports whether the response carries a non-blank comment.
func (r Response) HasComment() bool {
	return r.Comment != ""
}

// ColumnSet records which canonical columns the source carried.
type ColumnSet struct {
	Specialist     bool              `json:"specialist"`
	SubmissionDate bool              `json:"submission_date"`
	Stage          bool              `json:"stage"`
	Ratings        [RubricCount]bool `json:"ratings"`
	NPS            bool              `json:"nps_score"`
	Comment        bool              `json:"comment"`
	Unmapped       []string          `json:"unmapped,omitempty"`
}

// HasAnyRubric reports whether at least one rubric column was present.
func (c ColumnSet) HasAnyRubric() bool {
	for _, ok := range c.Ratings {
		if ok {
			return true
		}
	}
	return false
}

// Dataset is the cleaned result of one load.
type Dataset struct {
	Source    string     `json:"source"`
	LoadedAt  time.Time  `json:"loaded_at"`
	Columns   ColumnSet  `json:"columns"`
	Responses []Response `json:"responses"`

	// CellFailures counts cells that could not be coerced and were set to nil.
	CellFailures int `json:"cell_failures"`
}

// Len returns the number of responses.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Responses)
}
