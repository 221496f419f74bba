package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/entities"
)

// OptionService is the lifecycle API of one option kind.
type OptionService interface {
	Kind() entities.Kind
	Save(ctx context.Context, option *entities.Option) (*entities.Option, error)
	SaveMany(ctx context.Context, options []entities.Option) ([]entities.Option, error)
	ReadOne(ctx context.Context, id string) (*entities.Option, error)
	ReadMany(ctx context.Context, ids []string) ([]entities.Option, error)
	ReadAll(ctx context.Context) ([]entities.Option, error)
	HardReadAll(ctx context.Context) ([]entities.Option, error)
	UpdateOne(ctx context.Context, option *entities.Option) (*entities.Option, error)
	UpdateMany(ctx context.Context, options []entities.Option) ([]entities.Option, error)
	HardUpdate(ctx context.Context, option *entities.Option) (*entities.Option, error)
	HardUpdateAll(ctx context.Context, options []entities.Option) ([]entities.Option, error)
	SoftDelete(ctx context.Context, id string) (*entities.Option, error)
	HardDelete(ctx context.Context, id string) error
	SoftDeleteMany(ctx context.Context, ids []string) ([]entities.Option, error)
	HardDeleteMany(ctx context.Context, ids []string) ([]string, error)
	HardDeleteAll(ctx context.Context) error
}

// OptionsController serves the CRUD routes of one option kind.
type OptionsController struct {
	service      OptionService
	kind         entities.Kind
	auditService *audit.Service
	newID        func() string
}

func NewOptionsController(service OptionService, auditService *audit.Service) *OptionsController {
	return &OptionsController{
		service:      service,
		kind:         service.Kind(),
		auditService: auditService,
		newID:        uuid.NewString,
	}
}

// RegisterRoutes mounts the kind's routes under /api/<kind>.
func (oc *OptionsController) RegisterRoutes(router gin.IRouter) {
	g := router.Group(oc.kind.RoutePrefix())

	g.POST("/create/one", oc.CreateOne)
	g.POST("/create/many", oc.CreateMany)

	g.GET("/read/one", oc.ReadOne)
	g.GET("/read/all", oc.ReadAll)
	g.GET("/read/hard/all", oc.HardReadAll)
	g.POST("/read/many", oc.ReadMany)

	g.PUT("/update/one", oc.UpdateOne)
	g.PUT("/update/many", oc.UpdateMany)
	g.PUT("/update/hard/one", oc.HardUpdate)
	g.PUT("/update/hard/all", oc.HardUpdateAll)

	g.PUT("/soft/delete/one", oc.SoftDelete)
	g.PUT("/soft/delete/many", oc.SoftDeleteMany)
	g.GET("/hard/delete", oc.HardDelete)
	g.GET("/hard/delete/many", oc.HardDeleteMany)
	g.GET("/hard/delete/all", oc.HardDeleteAll)
	g.GET("/hard/delete/:id", oc.HardDelete)
}

// CreateOne handles POST /api/<kind>/create/one
func (oc *OptionsController) CreateOne(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	option := req.toEntity()
	if option.ID == "" {
		option.ID = oc.newID()
	}

	saved, err := oc.service.Save(c.Request.Context(), &option)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" create one")
		return
	}

	oc.logEvent(c, entities.AuditEventCreate, "create_one", saved.ID)
	c.JSON(http.StatusOK, fromEntity(*saved))
}

// CreateMany handles POST /api/<kind>/create/many
func (oc *OptionsController) CreateMany(c *gin.Context) {
	var reqs []OptionRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	list := toEntities(reqs)
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = oc.newID()
		}
	}

	saved, err := oc.service.SaveMany(c.Request.Context(), list)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" create many")
		return
	}

	oc.logEvent(c, entities.AuditEventCreate, "create_many", idsOf(saved)...)
	c.JSON(http.StatusOK, fromEntities(saved))
}

// ReadOne handles GET /api/<kind>/read/one?id=
func (oc *OptionsController) ReadOne(c *gin.Context) {
	option, err := oc.service.ReadOne(c.Request.Context(), c.Query("id"))
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" read one")
		return
	}
	c.JSON(http.StatusOK, fromEntity(*option))
}

// ReadMany handles POST /api/<kind>/read/many?id_list=
func (oc *OptionsController) ReadMany(c *gin.Context) {
	ids := queryList(c, "id_list", "idList")

	list, err := oc.service.ReadMany(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" read many")
		return
	}
	c.JSON(http.StatusOK, fromEntities(list))
}

// ReadAll handles GET /api/<kind>/read/all
func (oc *OptionsController) ReadAll(c *gin.Context) {
	list, err := oc.service.ReadAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" read all")
		return
	}
	c.JSON(http.StatusOK, fromEntities(list))
}

// HardReadAll handles GET /api/<kind>/read/hard/all
func (oc *OptionsController) HardReadAll(c *gin.Context) {
	list, err := oc.service.HardReadAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard read all")
		return
	}
	c.JSON(http.StatusOK, fromEntities(list))
}

// UpdateOne handles PUT /api/<kind>/update/one
// Only name and description are taken from the body.
func (oc *OptionsController) UpdateOne(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := oc.service.ReadOne(ctx, req.ID); err != nil {
		respondServiceError(c, err, oc.kind.Name+" update one")
		return
	}

	option := req.toEntity()
	saved, err := oc.service.UpdateOne(ctx, &option)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" update one")
		return
	}

	oc.logEvent(c, entities.AuditEventUpdate, "update_one", saved.ID)
	c.JSON(http.StatusOK, fromEntity(*saved))
}

// UpdateMany handles PUT /api/<kind>/update/many
func (oc *OptionsController) UpdateMany(c *gin.Context) {
	var reqs []OptionRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	saved, err := oc.service.UpdateMany(c.Request.Context(), toEntities(reqs))
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" update many")
		return
	}

	oc.logEvent(c, entities.AuditEventUpdate, "update_many", idsOf(saved)...)
	c.JSON(http.StatusOK, fromEntities(saved))
}

// HardUpdate handles PUT /api/<kind>/update/hard/one
func (oc *OptionsController) HardUpdate(c *gin.Context) {
	var req HardOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	option := req.toEntity()
	saved, err := oc.service.HardUpdate(c.Request.Context(), &option)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard update")
		return
	}

	oc.logEvent(c, entities.AuditEventUpdate, "hard_update_one", saved.ID)
	c.JSON(http.StatusOK, fromEntity(*saved))
}

// HardUpdateAll handles PUT /api/<kind>/update/hard/all
func (oc *OptionsController) HardUpdateAll(c *gin.Context) {
	var reqs []HardOptionRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	saved, err := oc.service.HardUpdateAll(c.Request.Context(), hardToEntities(reqs))
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard update all")
		return
	}

	oc.logEvent(c, entities.AuditEventUpdate, "hard_update_all", idsOf(saved)...)
	c.JSON(http.StatusOK, fromEntities(saved))
}

// SoftDelete handles PUT /api/<kind>/soft/delete/one?id=
func (oc *OptionsController) SoftDelete(c *gin.Context) {
	option, err := oc.service.SoftDelete(c.Request.Context(), c.Query("id"))
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" soft delete")
		return
	}

	oc.logEvent(c, entities.AuditEventSoftDelete, "soft_delete_one", option.ID)
	c.JSON(http.StatusOK, fromEntity(*option))
}

// SoftDeleteMany handles PUT /api/<kind>/soft/delete/many?idList=
func (oc *OptionsController) SoftDeleteMany(c *gin.Context) {
	ids := queryList(c, "idList", "id_list")

	list, err := oc.service.SoftDeleteMany(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" soft delete many")
		return
	}

	oc.logEvent(c, entities.AuditEventSoftDelete, "soft_delete_many", idsOf(list)...)
	c.JSON(http.StatusOK, fromEntities(list))
}

// HardDelete handles GET /api/<kind>/hard/delete/:id
// The id query parameter wins over the path segment.
func (oc *OptionsController) HardDelete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		id = c.Param("id")
	}

	if err := oc.service.HardDelete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard delete")
		return
	}

	oc.logEvent(c, entities.AuditEventHardDelete, "hard_delete_one", id)
	respondSuccess(c, fmt.Sprintf("%s with id %s deleted", oc.kind.DisplayName, id))
}

// HardDeleteMany handles GET /api/<kind>/hard/delete/many?idList=
func (oc *OptionsController) HardDeleteMany(c *gin.Context) {
	ids := queryList(c, "idList", "id_list")

	removed, err := oc.service.HardDeleteMany(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard delete many")
		return
	}

	if len(removed) > 0 {
		oc.logEvent(c, entities.AuditEventHardDelete, "hard_delete_many", removed...)
	}
	respondSuccess(c, fmt.Sprintf("%d %s records deleted", len(removed), oc.kind.DisplayName))
}

// HardDeleteAll handles GET /api/<kind>/hard/delete/all
func (oc *OptionsController) HardDeleteAll(c *gin.Context) {
	if err := oc.service.HardDeleteAll(c.Request.Context()); err != nil {
		respondServiceError(c, err, oc.kind.Name+" hard delete all")
		return
	}

	oc.logEvent(c, entities.AuditEventHardDelete, "hard_delete_all")
	respondSuccess(c, fmt.Sprintf("All %s records deleted", oc.kind.DisplayName))
}

func (oc *OptionsController) logEvent(c *gin.Context, eventType entities.AuditEventType, action string, ids ...string) {
	if oc.auditService == nil {
		return
	}
	ip, ua := clientMeta(c)
	oc.auditService.LogOptionEvent(audit.OptionEvent{
		Kind:      oc.kind.Name,
		EventType: eventType,
		Action:    action,
		EntityIDs: ids,
		IPAddress: ip,
		UserAgent: ua,
	})
}

func idsOf(list []entities.Option) []string {
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	return ids
}
