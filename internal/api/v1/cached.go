package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pitchside/academy-api/internal/utils"
)

const listCacheTTL = 60 * time.Second

// respondCached serves a list endpoint through the query cache. The cached
// unit is the data block, not the whole envelope, so messages stay fresh.
func (h *Handler) respondCached(w http.ResponseWriter, r *http.Request, key string, fetch func() (interface{}, error)) {
	if h.Cache != nil {
		if raw, err := h.Cache.Get(r.Context(), key); err == nil {
			utils.WriteJSONResponse(w, http.StatusOK, true, "", json.RawMessage(raw), nil)
			return
		}
	}
	data, err := fetch()
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load data", nil, nil)
		return
	}
	if h.Cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = h.Cache.Set(r.Context(), key, raw, listCacheTTL)
		}
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", data, nil)
}

// invalidate drops cache keys after a mutation. Errors are ignored; a stale
// entry ages out within the TTL anyway.
func (h *Handler) invalidate(r *http.Request, keys ...string) {
	if h.Cache == nil {
		return
	}
	for _, k := range keys {
		_ = h.Cache.Delete(r.Context(), k)
	}
}
