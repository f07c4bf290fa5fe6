package query

import (
	"strconv"
	"strings"

	"github.com/isdelr/exercise-tracker/internal/apperr"
	"github.com/isdelr/exercise-tracker/internal/models"
)

// ParseParams parses the raw query bounds. Empty strings mean the bound was
// not supplied.
func ParseParams(from, to, limit string) (Params, error) {
	var p Params

	if s := strings.TrimSpace(from); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return Params{}, apperr.Validation("from", "from must be a date in YYYY-MM-DD format")
		}
		p.From = &d
	}

	if s := strings.TrimSpace(to); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return Params{}, apperr.Validation("to", "to must be a date in YYYY-MM-DD format")
		}
		p.To = &d
	}

	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Params{}, apperr.Validation("limit", "limit must be a positive integer")
		}
		p.Limit = &n
	}

	return p, nil
}
