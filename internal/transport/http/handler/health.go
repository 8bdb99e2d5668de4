package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	name      string
	env       string
	startedAt time.Time
	checks    map[string]HealthCheck
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(name, env string, startedAt time.Time, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{name: name, env: env, startedAt: startedAt, checks: checks}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	allOK := true
	deps := make(map[string]dependencyStatus, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{OK: false, Message: err.Error()}
			allOK = false
			continue
		}
		deps[name] = dependencyStatus{OK: true}
	}

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, gin.H{
		"app":          h.name,
		"env":          h.env,
		"uptime_sec":   int(time.Since(h.startedAt).Seconds()),
		"dependencies": deps,
	})
}
