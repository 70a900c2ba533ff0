package controllers

import (
	"net/http"

	"todo-lists/app/services"
)

// HealthController reports whether the store is reachable.
type HealthController struct {
	Store services.Store
}

// NewHealthController creates a new HealthController.
func NewHealthController(store services.Store) *HealthController {
	return &HealthController{Store: store}
}

// Health handles GET /healthz.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.Store.Ping(r.Context()); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
