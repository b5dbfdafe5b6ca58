package v1

import (
	"net/http"
	"strings"

	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

type academyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

func (h *Handler) ListAcademies(w http.ResponseWriter, r *http.Request) {
	academies, err := h.Store.ListAcademies(r.Context())
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load academies", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", academies, nil)
}

func (h *Handler) GetAcademy(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid academy id", nil, nil)
		return
	}
	a, err := h.Store.GetAcademyByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "academy not found", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", a, nil)
}

func (h *Handler) CreateAcademy(w http.ResponseWriter, r *http.Request) {
	var req academyRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "name is required", nil, nil)
		return
	}
	a := &models.Academy{
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	if err := h.Store.CreateAcademy(r.Context(), a); err != nil {
		utils.WriteJSONResponse(w, http.StatusConflict, false, "An academy with this name already exists.", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Academy created.", a, nil)
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
