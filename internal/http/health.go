package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Kinds   int               `json:"kinds"`
	Checks  map[string]string `json:"checks"`
}

// Pinger reports database reachability.
type Pinger interface {
	Ping() error
}

// HealthController answers liveness checks. Only the database decides the
// overall status; optional components are listed for operators.
type HealthController struct {
	db         Pinger
	kinds      int
	version    string
	components map[string]bool
}

func NewHealthController(db Pinger, kinds int, version string) *HealthController {
	return &HealthController{
		db:         db,
		kinds:      kinds,
		version:    version,
		components: make(map[string]bool),
	}
}

// WithComponent lists an optional subsystem as enabled or disabled.
func (h *HealthController) WithComponent(name string, enabled bool) *HealthController {
	h.components[name] = enabled
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{"database": "ok"}
	code := http.StatusOK

	switch {
	case h.db == nil:
		checks["database"] = "not configured"
		code = http.StatusServiceUnavailable
	default:
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	for name, enabled := range h.components {
		if enabled {
			checks[name] = "enabled"
		} else {
			checks[name] = "disabled"
		}
	}

	status := "healthy"
	if code != http.StatusOK {
		status = "unhealthy"
	}

	c.JSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Kinds:   h.kinds,
		Checks:  checks,
	})
}

// Ping handles GET /ping
func Ping(c *gin.Context) {
	respondSuccess(c, "pong")
}
