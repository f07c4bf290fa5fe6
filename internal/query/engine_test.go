package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/isdelr/exercise-tracker/internal/apperr"
	"github.com/isdelr/exercise-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func fixedNow() time.Time { return time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC) }

// tenDays builds a log with one entry per day, 2024-01-01 .. 2024-01-10.
func tenDays() *models.UserLog {
	ul := &models.UserLog{User: models.User{ID: "u1", Username: "alice"}}
	for i := 1; i <= 10; i++ {
		ul.Entries = append(ul.Entries, models.LogEntry{
			Description: fmt.Sprintf("d%d", i),
			Duration:    float64(i),
			Date:        day(2024, 1, i),
		})
	}
	return ul
}

func descriptions(r Result) []string {
	out := make([]string, 0, len(r.Log))
	for _, e := range r.Log {
		out = append(out, e.Description)
	}
	return out
}

func TestRun_DefaultsReturnWholeLog(t *testing.T) {
	e := NewEngine(Options{LimitBeforeFilter: true}, fixedNow)

	res := e.Run("u1", tenDays(), Params{})

	assert.Equal(t, "u1", res.ID)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, 10, res.Count)
	assert.Len(t, res.Log, 10)
	assert.Nil(t, res.From)
	assert.Nil(t, res.To)
	assert.Equal(t, "d1", res.Log[0].Description)
	assert.Equal(t, "d10", res.Log[9].Description)
}

func TestRun_LimitTakesFirstEntriesByPosition(t *testing.T) {
	e := NewEngine(Options{LimitBeforeFilter: true}, fixedNow)

	res := e.Run("u1", tenDays(), Params{
		From:  ptr(day(2024, 1, 1)),
		To:    ptr(day(2024, 1, 10)),
		Limit: ptr(3),
	})

	assert.Equal(t, []string{"d1", "d2", "d3"}, descriptions(res))
	assert.Equal(t, 3, res.Count)
}

func TestRun_LimitBeforeFilterCanStarveResults(t *testing.T) {
	p := Params{From: ptr(day(2024, 1, 6)), Limit: ptr(5)}

	limitFirst := NewEngine(Options{LimitBeforeFilter: true}, fixedNow).Run("u1", tenDays(), p)
	assert.Equal(t, 0, limitFirst.Count)
	assert.Empty(t, limitFirst.Log)
	assert.NotNil(t, limitFirst.Log)

	filterFirst := NewEngine(Options{LimitBeforeFilter: false}, fixedNow).Run("u1", tenDays(), p)
	assert.Equal(t, []string{"d6", "d7", "d8", "d9", "d10"}, descriptions(filterFirst))
}

func TestRun_DateBoundsAreInclusive(t *testing.T) {
	e := NewEngine(Options{LimitBeforeFilter: true}, fixedNow)

	res := e.Run("u1", tenDays(), Params{From: ptr(day(2024, 1, 3)), To: ptr(day(2024, 1, 5))})

	assert.Equal(t, []string{"d3", "d4", "d5"}, descriptions(res))
	require.NotNil(t, res.From)
	require.NotNil(t, res.To)
	assert.Equal(t, day(2024, 1, 3), *res.From)
	assert.Equal(t, day(2024, 1, 5), *res.To)
}

func TestRun_DefaultToIsToday(t *testing.T) {
	ul := tenDays()
	ul.Entries = append(ul.Entries,
		models.LogEntry{Description: "today", Duration: 1, Date: day(2024, 12, 31)},
		models.LogEntry{Description: "tomorrow", Duration: 1, Date: day(2025, 1, 1)},
	)
	e := NewEngine(Options{LimitBeforeFilter: true}, fixedNow)

	res := e.Run("u1", ul, Params{From: ptr(day(2024, 12, 1))})

	assert.Equal(t, []string{"today"}, descriptions(res))
	assert.Nil(t, res.To, "to was not supplied and must not be echoed")
}

func TestRun_DefaultFromIsSentinel(t *testing.T) {
	ul := &models.UserLog{User: models.User{ID: "u1"}, Entries: []models.LogEntry{
		{Description: "ancient", Duration: 1, Date: day(1899, 12, 31)},
		{Description: "sentinel", Duration: 1, Date: MinDate},
	}}
	res := NewEngine(Options{LimitBeforeFilter: true}, fixedNow).Run("u1", ul, Params{})
	assert.Equal(t, []string{"sentinel"}, descriptions(res))
}

func TestRun_MissingUserIsEmptyResult(t *testing.T) {
	e := NewEngine(Options{LimitBeforeFilter: true}, fixedNow)

	res := e.Run("ghost", nil, Params{To: ptr(day(2024, 1, 1))})

	assert.Equal(t, "ghost", res.ID)
	assert.Empty(t, res.Username)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Log)
	assert.NotNil(t, res.To)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	ul := tenDays()
	NewEngine(Options{LimitBeforeFilter: false}, fixedNow).Run("u1", ul, Params{From: ptr(day(2024, 1, 9))})

	require.Len(t, ul.Entries, 10)
	assert.Equal(t, "d1", ul.Entries[0].Description)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("", "", "")
	require.NoError(t, err)
	assert.Equal(t, Params{}, p)

	p, err = ParseParams("2024-01-01", "2024-02-01", "7")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), *p.From)
	assert.Equal(t, day(2024, 2, 1), *p.To)
	assert.Equal(t, 7, *p.Limit)

	tests := []struct {
		name            string
		from, to, limit string
		field           string
	}{
		{name: "bad from", from: "01/02/2024", field: "from"},
		{name: "bad to", to: "soon", field: "to"},
		{name: "non numeric limit", limit: "ten", field: "limit"},
		{name: "zero limit", limit: "0", field: "limit"},
		{name: "negative limit", limit: "-3", field: "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParams(tt.from, tt.to, tt.limit)
			require.ErrorIs(t, err, apperr.ErrValidation)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}
