package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackpulse/pkg/contracts/domain"
)

func filterFixture() []domain.Response {
	return []domain.Response{
		{Row: 1, Specialist: "Ana", SubmittedAt: date(2024, 1, 1)},
		{Row: 2, Specialist: "Bruno", SubmittedAt: date(2024, 2, 1)},
		{Row: 3, Specialist: "Ana", SubmittedAt: date(2024, 3, 1)},
		{Row: 4, Specialist: "Carla", SubmittedAt: nil},
	}
}

func rows(responses []domain.Response) []int {
	out := make([]int, 0, len(responses))
	for _, r := range responses {
		out = append(out, r.Row)
	}
	return out
}

func TestFilter(t *testing.T) {
	withTime := time.Date(2024, 2, 15, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{
			name: "no options keeps everything",
			opts: FilterOptions{},
			want: []int{1, 2, 3, 4},
		},
		{
			name: "inclusive interval",
			opts: FilterOptions{From: date(2024, 1, 15), To: date(2024, 2, 15)},
			want: []int{2},
		},
		{
			name: "ends are inclusive",
			opts: FilterOptions{From: date(2024, 1, 1), To: date(2024, 2, 1)},
			want: []int{1, 2},
		},
		{
			name: "time of day on bound is ignored",
			opts: FilterOptions{From: date(2024, 2, 1), To: &withTime},
			want: []int{2},
		},
		{
			name: "open start",
			opts: FilterOptions{To: date(2024, 2, 1)},
			want: []int{1, 2},
		},
		{
			name: "open end",
			opts: FilterOptions{From: date(2024, 2, 1)},
			want: []int{2, 3},
		},
		{
			name: "specialist selection",
			opts: FilterOptions{Specialists: []string{"Ana", "Carla"}},
			want: []int{1, 3, 4},
		},
		{
			name: "empty selection selects nothing",
			opts: FilterOptions{Specialists: []string{}},
			want: []int{},
		},
		{
			name: "unknown specialist",
			opts: FilterOptions{Specialists: []string{"Zé"}},
			want: []int{},
		},
		{
			name: "dates and specialists combined",
			opts: FilterOptions{From: date(2024, 1, 1), To: date(2024, 3, 1), Specialists: []string{"Ana"}},
			want: []int{1, 3},
		},
		{
			name: "reversed interval is empty",
			opts: FilterOptions{From: date(2024, 3, 1), To: date(2024, 1, 1)},
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rows(Filter(filterFixture(), tt.opts)))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	input := filterFixture()
	snapshot := filterFixture()

	out := Filter(input, FilterOptions{From: date(2024, 1, 15), Specialists: []string{"Ana"}})
	require.Len(t, out, 1)

	out[0].Specialist = "changed"
	assert.Equal(t, snapshot, input)
}

func TestDistinctSpecialists(t *testing.T) {
	assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, DistinctSpecialists(filterFixture()))
	assert.Empty(t, DistinctSpecialists(nil))
}

func TestDateBounds(t *testing.T) {
	bounds := DateBounds(filterFixture())
	require.NotNil(t, bounds.From)
	require.NotNil(t, bounds.To)
	assert.Equal(t, *date(2024, 1, 1), *bounds.From)
	assert.Equal(t, *date(2024, 3, 1), *bounds.To)

	none := DateBounds([]domain.Response{{Specialist: "Ana"}})
	assert.True(t, none.IsZero())
}
