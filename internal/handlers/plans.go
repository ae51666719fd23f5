package handlers

import (
	"net/http"
	"time"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

// planCacheTTL bounds how stale the plan catalogue may get.
const planCacheTTL = 10 * time.Minute

// GetPlans lists the data plan catalogue. Category defaults to "best"
// (?category=super selects the alternative table) and ?service= filters by
// service ID. Results are cached in Redis.
func (h *Handlers) GetPlans(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "best"
	}
	serviceID := r.URL.Query().Get("service")

	cacheKey := "plans:" + category
	if serviceID != "" {
		cacheKey += ":" + serviceID
	}

	var plans []storage.DataPlan
	if h.cache != nil {
		found, err := h.cache.GetJSON(r.Context(), cacheKey, &plans)
		if err != nil {
			h.logger.Warn("Plan cache read failed", logging.Err(err))
		} else if found {
			h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": plans})
			return
		}
	}

	var err error
	if serviceID != "" {
		plans, err = h.store.GetPlansByService(r.Context(), category, serviceID)
	} else {
		plans, err = h.store.GetPlans(r.Context(), category)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, plans, planCacheTTL); err != nil {
			h.logger.Warn("Plan cache write failed", logging.Err(err))
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": plans})
}
