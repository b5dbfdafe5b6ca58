package v1

import (
	"net/http"
	"time"

	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

const announcementsCacheKey = "announcements:list"

/* ------------------ Announcements ------------------ */

type announcementRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
	Pinned   bool   `json:"pinned"`
}

// ListAnnouncements filters by the caller's role: parents see parent and
// all-audience posts, coaches likewise. Staff see everything.
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	u := auth.GetUserFromCtx(r.Context())
	switch u.Role {
	case models.RoleParent:
		anns, err := h.Store.ListAnnouncementsFor(r.Context(), "parents")
		h.writeAnnouncements(w, anns, err)
	case models.RoleCoach:
		anns, err := h.Store.ListAnnouncementsFor(r.Context(), "coaches")
		h.writeAnnouncements(w, anns, err)
	default:
		h.respondCached(w, r, announcementsCacheKey, func() (interface{}, error) {
			return h.Store.ListAnnouncements(r.Context())
		})
	}
}

func (h *Handler) writeAnnouncements(w http.ResponseWriter, anns []models.Announcement, err error) {
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load announcements", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", anns, nil)
}

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil || req.Title == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "title is required", nil, nil)
		return
	}
	audience := req.Audience
	switch audience {
	case "", "all":
		audience = "all"
	case "parents", "coaches":
	default:
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid audience", nil, nil)
		return
	}
	u := auth.GetUserFromCtx(r.Context())
	a := &models.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  audience,
		Pinned:    req.Pinned,
		AcademyID: u.AcademyID,
		CreatedBy: u.ID,
	}
	if err := h.Store.CreateAnnouncement(r.Context(), a); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create announcement", nil, nil)
		return
	}
	h.invalidate(r, announcementsCacheKey)
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Announcement posted.", a, nil)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid announcement id", nil, nil)
		return
	}
	if err := h.Store.DeleteAnnouncement(r.Context(), id); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not delete announcement", nil, nil)
		return
	}
	h.invalidate(r, announcementsCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Announcement removed.", nil, nil)
}

/* ------------------ Meal plans ------------------ */

type mealPlanRequest struct {
	PlayerID  *uint                    `json:"player_id"`
	Title     string                   `json:"title"`
	Items     []map[string]interface{} `json:"items"`
	WeekStart *string                  `json:"week_start"`
}

func (h *Handler) CreateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := decodeJSON(r, &req); err != nil || req.Title == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "title is required", nil, nil)
		return
	}
	u := auth.GetUserFromCtx(r.Context())
	m := &models.MealPlan{
		PlayerID:  req.PlayerID,
		Title:     req.Title,
		Items:     utils.DatatypesJSONFromAny(req.Items),
		CreatedBy: u.ID,
	}
	if req.WeekStart != nil {
		if ws, err := time.Parse("2006-01-02", *req.WeekStart); err == nil {
			m.WeekStart = &ws
		}
	}
	if err := h.Store.CreateMealPlan(r.Context(), m); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create meal plan", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Meal plan created.", m, nil)
}

func (h *Handler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	playerID, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	if !h.playerVisible(r, playerID) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	plans, err := h.Store.ListMealPlansByPlayer(r.Context(), playerID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load meal plans", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", plans, nil)
}

func (h *Handler) DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid meal plan id", nil, nil)
		return
	}
	if err := h.Store.DeleteMealPlan(r.Context(), id); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not delete meal plan", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "Meal plan removed.", nil, nil)
}

/* ------------------ Fitness records ------------------ */

type fitnessRequest struct {
	PlayerID uint                   `json:"player_id"`
	Date     string                 `json:"date"`
	Metrics  map[string]interface{} `json:"metrics"`
	Comments string                 `json:"comments"`
}

func (h *Handler) CreateFitnessRecord(w http.ResponseWriter, r *http.Request) {
	var req fitnessRequest
	if err := decodeJSON(r, &req); err != nil || req.PlayerID == 0 {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "player_id is required", nil, nil)
		return
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid date", nil, nil)
			return
		}
		date = parsed
	}
	u := auth.GetUserFromCtx(r.Context())
	f := &models.FitnessRecord{
		PlayerID:   req.PlayerID,
		Date:       date,
		Metrics:    req.Metrics,
		Comments:   req.Comments,
		RecordedBy: u.ID,
	}
	if err := h.Store.CreateFitnessRecord(r.Context(), f); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not save fitness record", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Fitness record saved.", f, nil)
}

func (h *Handler) ListFitnessRecords(w http.ResponseWriter, r *http.Request) {
	playerID, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	if !h.playerVisible(r, playerID) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	records, err := h.Store.ListFitnessRecordsByPlayer(r.Context(), playerID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load fitness records", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", records, nil)
}

// playerVisible applies the parent ownership check to per-player resources.
func (h *Handler) playerVisible(r *http.Request, playerID uint) bool {
	p, err := h.Store.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		return false
	}
	return h.canSeePlayer(r, p)
}
