package handlers

import (
	"net/http"
)

// HealthCheck reports service liveness along with database and Redis
// reachability. Redis is load-bearing for rate limiting and caching, so a
// Redis outage degrades the service even though requests still flow.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if err := h.store.Health(r.Context()); err != nil {
		components["database"] = err.Error()
		healthy = false
	}

	if h.cache != nil {
		if err := h.cache.Health(); err != nil {
			components["cache"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	body := map[string]interface{}{"status": "ok", "components": components}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}

	h.writeJSON(w, status, body)
}
