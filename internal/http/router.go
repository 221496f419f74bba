package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		respondError(c, http.StatusInternalServerError, "internal server error")
		c.Abort()
	}))

	health := NewHealthController(cfg.Database, len(cfg.Kinds), cfg.Version).
		WithComponent("audit", cfg.AuditService != nil).
		WithComponent("tasks", cfg.TaskClient != nil)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	kinds := NewKindsController(cfg.Kinds)
	router.GET("/api/kinds", kinds.List)

	for _, svc := range cfg.Services {
		NewOptionsController(svc, cfg.AuditService).RegisterRoutes(router)
	}

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/audit/:kind/:id", auditController.GetHistory)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.CleanupTrigger)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/cleanup_audit_events/run", tasksController.RunAuditCleanup)
	}

	return router
}
