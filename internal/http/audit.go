package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?page=&limit=&kind=&type=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit, offset := parsePage(c, 25, 100)
	kind := c.Query("kind")
	eventType := c.Query("type")

	if kind != "" {
		if _, ok := entities.LookupKind(kind); !ok {
			respondBadRequest(c, "unknown kind: "+kind)
			return
		}
	}
	if eventType != "" && !validEventType(eventType) {
		respondBadRequest(c, "unknown event type: "+eventType)
		return
	}

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), kind, limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(kind, limit, offset)
	}

	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    page < totalPages,
		TotalPages: totalPages,
	})
}

// GetHistory returns every audit event recorded for one option.
// GET /api/audit/:kind/:id
func (ac *AuditController) GetHistory(c *gin.Context) {
	kind := c.Param("kind")
	if _, ok := entities.LookupKind(kind); !ok {
		respondNotFound(c, "kind "+kind)
		return
	}

	events, err := ac.auditService.GetHistory(kind, c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "load option history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":   kind,
		"id":     c.Param("id"),
		"events": events,
	})
}

func validEventType(t string) bool {
	switch entities.AuditEventType(t) {
	case entities.AuditEventCreate, entities.AuditEventUpdate,
		entities.AuditEventSoftDelete, entities.AuditEventHardDelete:
		return true
	}
	return false
}
