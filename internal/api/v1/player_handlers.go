package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

const playersCacheKey = "players:list"

type playerRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DateOfBirth  *string `json:"date_of_birth"`
	ParentID     string  `json:"parent_id"`
	AcademyID    *uint   `json:"academy_id"`
	BattingStyle string  `json:"batting_style"`
	BowlingStyle string  `json:"bowling_style"`
}

// ListPlayers returns the roster. Parents only see their own players.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	u := auth.GetUserFromCtx(r.Context())
	if u != nil && u.Role == models.RoleParent {
		players, err := h.Store.ListPlayersByParent(r.Context(), u.ID)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load players", nil, nil)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, true, "", players, nil)
		return
	}
	h.respondCached(w, r, playersCacheKey, func() (interface{}, error) {
		return h.Store.ListPlayers(r.Context())
	})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	p, err := h.Store.GetPlayerByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "player not found", nil, nil)
		return
	}
	if !h.canSeePlayer(r, p) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", p, nil)
}

func (h *Handler) canSeePlayer(r *http.Request, p *models.Player) bool {
	u := auth.GetUserFromCtx(r.Context())
	if u == nil {
		return false
	}
	if u.Role == models.RoleParent {
		return p.ParentID == u.ID
	}
	return true
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "first and last name are required", nil, nil)
		return
	}
	u := auth.GetUserFromCtx(r.Context())
	parentID := req.ParentID
	if u.Role == models.RoleParent {
		parentID = u.ID
	}
	p := &models.Player{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ParentID:     parentID,
		AcademyID:    req.AcademyID,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
	}
	if req.DateOfBirth != nil {
		if dob, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			p.DateOfBirth = &dob
		}
	}
	if err := h.Store.CreatePlayer(r.Context(), p); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create player", nil, nil)
		return
	}
	h.invalidate(r, playersCacheKey)
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Player added.", p, nil)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	p, err := h.Store.GetPlayerByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "player not found", nil, nil)
		return
	}
	if !h.canSeePlayer(r, p) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	fields := map[string]interface{}{}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.BattingStyle != "" {
		fields["batting_style"] = req.BattingStyle
	}
	if req.BowlingStyle != "" {
		fields["bowling_style"] = req.BowlingStyle
	}
	if req.DateOfBirth != nil {
		if dob, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			fields["date_of_birth"] = dob
		}
	}
	if len(fields) > 0 {
		if err := h.Store.UpdatePlayerFields(r.Context(), id, fields); err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not update player", nil, nil)
			return
		}
	}
	h.invalidate(r, playersCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Player updated.", nil, nil)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	if err := h.Store.DeletePlayer(r.Context(), id); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not delete player", nil, nil)
		return
	}
	h.invalidate(r, playersCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Player removed.", nil, nil)
}

// UploadPlayerPhoto stores a roster photo through the blob storage (local
// disk in dev, R2 in production) and records the key on the player.
func (h *Handler) UploadPlayerPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	p, err := h.Store.GetPlayerByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "player not found", nil, nil)
		return
	}
	if !h.canSeePlayer(r, p) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid upload", nil, nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "photo file is required", nil, nil)
		return
	}
	defer file.Close()

	key, err := h.Blob.SaveFile("players", header.Filename, file)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not store photo", nil, nil)
		return
	}
	if p.PhotoKey != "" {
		_ = h.Blob.DeleteFile(p.PhotoKey)
	}
	if err := h.Store.UpdatePlayerFields(r.Context(), id, map[string]interface{}{"photo_key": key}); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not store photo", nil, nil)
		return
	}
	h.invalidate(r, playersCacheKey)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Photo uploaded.", map[string]string{"photo_key": key}, nil)
}

// PlayerPhotoURL resolves the stored photo key to something a browser can
// fetch: a presigned R2 URL when uploads live there, a static path otherwise.
func (h *Handler) PlayerPhotoURL(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid player id", nil, nil)
		return
	}
	p, err := h.Store.GetPlayerByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "player not found", nil, nil)
		return
	}
	if !h.canSeePlayer(r, p) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", nil, nil)
		return
	}
	if p.PhotoKey == "" {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "player has no photo", nil, nil)
		return
	}

	var photoURL string
	if r2, ok := h.Blob.(*utils.R2Storage); ok {
		photoURL, err = r2.PresignGetObject(p.PhotoKey, 15*time.Minute)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not resolve photo", nil, nil)
			return
		}
	} else {
		photoURL = strings.TrimRight(h.Cfg.UploadBaseURL, "/") + "/uploads/" + p.PhotoKey
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", map[string]string{"url": photoURL}, nil)
}

func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(v), err
}
