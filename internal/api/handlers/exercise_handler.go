package handlers

import (
	"net/http"

	"github.com/isdelr/exercise-tracker/internal/models"
	"github.com/isdelr/exercise-tracker/internal/query"
	"github.com/isdelr/exercise-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

// ExerciseHandler handles HTTP requests for users and their exercise logs.
type ExerciseHandler struct {
	service services.ExerciseServiceProvider
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(service services.ExerciseServiceProvider) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// AddExercisePayload defines the structure for append requests. Duration
// stays a string here; the service decides whether it is a number.
type AddExercisePayload struct {
	UserID      string `form:"userId" validate:"required"`
	Description string `form:"description" validate:"required"`
	Duration    string `form:"duration" validate:"required"`
	Date        string `form:"date"`
}

type exerciseResponse struct {
	ID          string  `json:"_id"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type logEntryResponse struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type logResponse struct {
	ID       string             `json:"_id"`
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Log      []logEntryResponse `json:"log"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
}

// AddExercise appends one entry to a user's log.
func (h *ExerciseHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payload := AddExercisePayload{
		UserID:      fields["userId"],
		Description: fields["description"],
		Duration:    fields["duration"],
		Date:        fields["date"],
	}
	if err := checkPayload(payload); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.service.AppendEntry(r.Context(), services.AppendInput{
		UserID:      payload.UserID,
		Description: payload.Description,
		Duration:    payload.Duration,
		Date:        payload.Date,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", payload.UserID).Msg("Failed to add exercise")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exerciseResponse{
		ID:          out.User.ID,
		Username:    out.User.Username,
		Description: out.Entry.Description,
		Duration:    out.Entry.Duration,
		Date:        models.FormatDisplay(out.Entry.Date),
	})
}

// GetLog returns a user's log filtered by the from, to and limit query parameters.
func (h *ExerciseHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.service.QueryLog(r.Context(), services.LogInput{
		UserID: q.Get("userId"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  q.Get("limit"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLogResponse(res))
}

func toLogResponse(res query.Result) logResponse {
	out := logResponse{
		ID:       res.ID,
		Username: res.Username,
		Count:    res.Count,
		Log:      make([]logEntryResponse, 0, len(res.Log)),
	}
	for _, e := range res.Log {
		out.Log = append(out.Log, logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        models.FormatDisplay(e.Date),
		})
	}
	if res.From != nil {
		out.From = models.FormatDisplay(*res.From)
	}
	if res.To != nil {
		out.To = models.FormatDisplay(*res.To)
	}
	return out
}
