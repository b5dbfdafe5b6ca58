package v1

import (
	"net/http"

	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

type paymentRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Notes     string  `json:"notes"`
	ParentID  string  `json:"parent_id"`
	PlayerID  *uint   `json:"player_id"`
	SessionID *uint   `json:"session_id"`
}

// ListPayments returns all payments for staff and only the caller's own
// for parents.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	u := auth.GetUserFromCtx(r.Context())
	var (
		payments []models.Payment
		err      error
	)
	if u.Role == models.RoleParent {
		payments, err = h.Store.ListPaymentsByParent(r.Context(), u.ID)
	} else {
		payments, err = h.Store.ListPayments(r.Context())
	}
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load payments", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", payments, nil)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "amount must be positive", nil, nil)
		return
	}
	u := auth.GetUserFromCtx(r.Context())
	parentID := req.ParentID
	if u.Role == models.RoleParent {
		parentID = u.ID
	}
	p := &models.Payment{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Notes:     req.Notes,
		ParentID:  parentID,
		PlayerID:  req.PlayerID,
		SessionID: req.SessionID,
		Status:    models.PaymentPending,
	}
	if err := h.Store.CreatePayment(r.Context(), p); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not record payment", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Payment recorded.", p, nil)
}

type paymentStatusRequest struct {
	Status models.PaymentStatus `json:"status"`
}

// UpdatePaymentStatus moves a payment through its lifecycle. Staff only.
func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid payment id", nil, nil)
		return
	}
	var req paymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	switch req.Status {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid payment status", nil, nil)
		return
	}
	if err := h.Store.UpdatePaymentStatus(r.Context(), id, req.Status); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not update payment", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "Payment updated.", nil, nil)
}
