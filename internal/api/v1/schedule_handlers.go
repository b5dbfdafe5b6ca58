package v1

import (
	"net/http"
	"time"

	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

const sessionsCacheKey = "sessions:upcoming"

type sessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
	CoachID     string `json:"coach_id"`
	AcademyID   *uint  `json:"academy_id"`
}

// ListSessions returns upcoming sessions, or a date range when from/to are
// given.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr != "" && toStr != "" {
		from, err1 := time.Parse("2006-01-02", fromStr)
		to, err2 := time.Parse("2006-01-02", toStr)
		if err1 != nil || err2 != nil {
			utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid date range", nil, nil)
			return
		}
		sessions, err := h.Store.ListSessionsBetween(r.Context(), from, to)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load sessions", nil, nil)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, true, "", sessions, nil)
		return
	}
	h.respondCached(w, r, sessionsCacheKey, func() (interface{}, error) {
		return h.Store.ListUpcomingSessions(r.Context())
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid session id", nil, nil)
		return
	}
	ts, err := h.Store.GetTrainingSessionByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "session not found", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", ts, nil)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	if req.Title == "" || req.Date == "" || req.StartTime == "" || req.Location == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "title, date, start_time and location are required", nil, nil)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid date", nil, nil)
		return
	}
	u := auth.GetUserFromCtx(r.Context())
	coachID := req.CoachID
	if u.Role == models.RoleCoach {
		coachID = u.ID
	}
	ts := &models.TrainingSession{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
		Location:    req.Location,
		CoachID:     coachID,
		AcademyID:   req.AcademyID,
	}
	if err := h.Store.CreateTrainingSession(r.Context(), ts); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create session", nil, nil)
		return
	}
	h.invalidate(r, sessionsCacheKey)
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Session scheduled.", ts, nil)
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid session id", nil, nil)
		return
	}
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	fields := map[string]interface{}{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid date", nil, nil)
			return
		}
		fields["date"] = date
	}
	if req.StartTime != "" {
		fields["start_time"] = req.StartTime
	}
	if req.Duration != "" {
		fields["duration"] = req.Duration
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.CoachID != "" {
		fields["coach_id"] = req.CoachID
	}
	if len(fields) > 0 {
		if err := h.Store.UpdateTrainingSessionFields(r.Context(), id, fields); err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not update session", nil, nil)
			return
		}
	}
	h.invalidate(r, sessionsCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Session updated.", nil, nil)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid session id", nil, nil)
		return
	}
	if err := h.Store.DeleteTrainingSession(r.Context(), id); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not delete session", nil, nil)
		return
	}
	h.invalidate(r, sessionsCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Session removed.", nil, nil)
}
