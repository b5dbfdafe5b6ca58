package v1

import (
	"net/http"

	"github.com/pitchside/academy-api/internal/utils"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if sqlDB, err := h.Store.DB.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	utils.WriteJSONResponse(w, code, status == "ok", "", map[string]string{"status": status}, nil)
}
