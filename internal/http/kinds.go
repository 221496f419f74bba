package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eprocure/lookups/internal/entities"
)

// KindInfo describes one mounted option kind.
type KindInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Table       string `json:"table"`
	RoutePrefix string `json:"routePrefix"`
}

type KindsController struct {
	kinds []entities.Kind
}

func NewKindsController(kinds []entities.Kind) *KindsController {
	return &KindsController{kinds: kinds}
}

// List handles GET /api/kinds
func (kc *KindsController) List(c *gin.Context) {
	out := make([]KindInfo, 0, len(kc.kinds))
	for _, k := range kc.kinds {
		out = append(out, KindInfo{
			Name:        k.Name,
			DisplayName: k.DisplayName,
			Table:       k.Table,
			RoutePrefix: k.RoutePrefix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"kinds": out,
		"count": len(out),
	})
}
