package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"sportspicks/internal/service"
)

// CronSecretHeader carries the shared secret the scheduler must present.
const CronSecretHeader = "X-Cron-Secret"

type TaskHandler struct {
	Tasks  *service.DailyTaskService
	Secret string
}

func (h *TaskHandler) Register(r *gin.Engine) {
	r.POST("/api/tasks/daily", h.runDaily)
	r.GET("/api/tasks/status", h.status)
}

// runDaily executes the daily batch on demand. The endpoint always answers
// 200 with the per-task report; individual task failures are inside it, so
// the scheduler does not retry the whole batch because one feed was down.
func (h *TaskHandler) runDaily(c *gin.Context) {
	if h.Tasks == nil {
		Error(c, http.StatusInternalServerError, "tasks unavailable", nil)
		return
	}
	if h.Secret == "" {
		Error(c, http.StatusServiceUnavailable, "scheduler secret not configured", nil)
		return
	}
	presented := c.GetHeader(CronSecretHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.Secret)) != 1 {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	report := h.Tasks.RunDaily(c.Request.Context())
	Ok(c, report, map[string]any{"failed": report.Failed()})
}

func (h *TaskHandler) status(c *gin.Context) {
	if h.Tasks == nil {
		Error(c, http.StatusInternalServerError, "tasks unavailable", nil)
		return
	}
	last := h.Tasks.LastRun()
	if last == nil {
		Error(c, http.StatusNotFound, "no run recorded yet", nil)
		return
	}
	Ok(c, last, map[string]any{"failed": last.Failed()})
}
