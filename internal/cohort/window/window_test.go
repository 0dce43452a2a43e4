package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/aidev_cohorts/internal/cohort/model"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDerive(t *testing.T) {
	ai := []model.PullRequest{
		{ID: 1, CreatedAt: at("2023-03-15T10:00:00Z")},
		{ID: 2, CreatedAt: at("2023-01-01T23:59:59Z")},
		{ID: 3, CreatedAt: at("2023-06-30T00:00:01Z")},
	}

	w, err := Derive(ai)
	require.NoError(t, err)
	assert.Equal(t, at("2023-01-01T00:00:00Z"), w.Start)
	assert.Equal(t, at("2023-06-30T00:00:00Z"), w.End)
	assert.Equal(t, "2023-01-01..2023-06-30", w.String())
}

func TestDerive_NormalizesTimezone(t *testing.T) {
	// 2023-01-01 01:00 at +03:00 is 2022-12-31 in UTC.
	ai := []model.PullRequest{{CreatedAt: at("2023-01-01T01:00:00+03:00")}}

	w, err := Derive(ai)
	require.NoError(t, err)
	assert.Equal(t, "2022-12-31..2022-12-31", w.String())
}

func TestDerive_EmptyCohort(t *testing.T) {
	_, err := Derive(nil)
	assert.ErrorIs(t, err, model.ErrEmptyCohort)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: at("2023-01-01T00:00:00Z"), End: at("2023-06-30T00:00:00Z")}

	tests := []struct {
		ts       string
		expected bool
	}{
		{"2023-01-01T00:00:00Z", true},
		{"2023-06-30T23:59:59Z", true},
		{"2022-12-31T23:59:59Z", false},
		{"2023-07-01T00:00:00Z", false},
		{"2023-07-01T01:00:00+02:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Contains(at(tt.ts)))
		})
	}
}

func TestWindow_Clamp(t *testing.T) {
	w := Window{Start: at("2023-01-01T00:00:00Z"), End: at("2023-01-31T00:00:00Z")}
	prs := []model.PullRequest{
		{ID: 1, CreatedAt: at("2022-12-31T12:00:00Z")},
		{ID: 2, CreatedAt: at("2023-01-15T12:00:00Z")},
		{ID: 3, CreatedAt: at("2023-01-31T22:00:00Z")},
		{ID: 4, CreatedAt: at("2023-02-01T00:00:00Z")},
	}

	clamped := w.Clamp(prs)

	require.Len(t, clamped, 2)
	assert.Equal(t, int64(2), clamped[0].ID)
	assert.Equal(t, int64(3), clamped[1].ID)
	assert.Len(t, prs, 4, "input is not modified")
}
