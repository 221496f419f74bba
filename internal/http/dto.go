package http

import (
	"time"

	"gorm.io/gorm"

	"github.com/eprocure/lookups/internal/entities"
)

// OptionRequest is the create and update body for every option kind.
type OptionRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// HardOptionRequest is written verbatim by the hard update routes, so it
// also carries the timestamps. A missing deletedAt leaves the row active.
type HardOptionRequest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"createdAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// OptionResponse is the JSON shape of a stored option.
type OptionResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

func (r OptionRequest) toEntity() entities.Option {
	return entities.Option{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

func (r HardOptionRequest) toEntity() entities.Option {
	option := entities.Option{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
	if r.CreatedAt != nil {
		option.CreatedAt = *r.CreatedAt
	}
	if r.DeletedAt != nil {
		option.DeletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	}
	return option
}

func toEntities(reqs []OptionRequest) []entities.Option {
	out := make([]entities.Option, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.toEntity())
	}
	return out
}

func hardToEntities(reqs []HardOptionRequest) []entities.Option {
	out := make([]entities.Option, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.toEntity())
	}
	return out
}

func fromEntity(o entities.Option) OptionResponse {
	resp := OptionResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.DeletedAt.Valid {
		t := o.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}

func fromEntities(list []entities.Option) []OptionResponse {
	out := make([]OptionResponse, 0, len(list))
	for _, o := range list {
		out = append(out, fromEntity(o))
	}
	return out
}
