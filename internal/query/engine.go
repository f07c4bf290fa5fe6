// Package query answers log queries: it runs a user's log through a staged
// pipeline of limit, date-range filter and projection.
package query

import (
	"time"

	"github.com/isdelr/exercise-tracker/internal/models"
)

// MinDate is the lower bound used when a query gives no "from" date.
var MinDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Params are the parsed optional bounds of a log query. Nil means the caller
// did not supply the bound.
type Params struct {
	From  *time.Time
	To    *time.Time
	Limit *int
}

// Options tune the pipeline.
type Options struct {
	// LimitBeforeFilter truncates the log to Limit entries by position before
	// the date range is applied, so a limited query can return fewer entries
	// than exist in range. When false the range is applied first.
	LimitBeforeFilter bool
}

// Entry is the projection of a log entry returned by a query.
type Entry struct {
	Description string
	Duration    float64
	Date        time.Time
}

// Result is the bounded view of a user's log. From and To are set only when
// the caller supplied them.
type Result struct {
	ID       string
	Username string
	Count    int
	Log      []Entry
	From     *time.Time
	To       *time.Time
}

// Engine runs log queries.
type Engine struct {
	opts Options
	now  func() time.Time
}

// NewEngine creates an Engine. now supplies the default "to" bound; nil
// means time.Now.
func NewEngine(opts Options, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{opts: opts, now: now}
}

type stage func([]models.LogEntry) []models.LogEntry

// Run evaluates p against ul. A nil ul means the user does not exist and
// yields an empty result for userID.
func (e *Engine) Run(userID string, ul *models.UserLog, p Params) Result {
	res := Result{ID: userID, Log: []Entry{}, From: p.From, To: p.To}
	if ul == nil {
		return res
	}
	res.ID = ul.User.ID
	res.Username = ul.User.Username

	from, to := MinDate, models.Day(e.now().UTC())
	if p.From != nil {
		from = *p.From
	}
	if p.To != nil {
		to = *p.To
	}

	limit, filter := limitStage(p.Limit), dateStage(from, to)
	stages := []stage{limit, filter}
	if !e.opts.LimitBeforeFilter {
		stages = []stage{filter, limit}
	}

	entries := flatten(ul.Entries)
	for _, st := range stages {
		entries = st(entries)
	}

	res.Log = project(entries)
	res.Count = len(res.Log)
	return res
}

// flatten copies the log so later stages never alias the caller's slice.
func flatten(entries []models.LogEntry) []models.LogEntry {
	out := make([]models.LogEntry, len(entries))
	copy(out, entries)
	return out
}

func limitStage(limit *int) stage {
	return func(entries []models.LogEntry) []models.LogEntry {
		if limit == nil || *limit >= len(entries) {
			return entries
		}
		return entries[:*limit]
	}
}

// dateStage keeps entries dated within [from, to], both ends inclusive.
func dateStage(from, to time.Time) stage {
	return func(entries []models.LogEntry) []models.LogEntry {
		out := entries[:0]
		for _, e := range entries {
			if e.Date.Before(from) || e.Date.After(to) {
				continue
			}
			out = append(out, e)
		}
		return out
	}
}

func project(entries []models.LogEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{Description: e.Description, Duration: e.Duration, Date: e.Date})
	}
	return out
}
