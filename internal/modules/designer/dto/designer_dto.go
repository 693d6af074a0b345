package dto

import (
	"time"

	"anoa.com/weddingsalon/internal/entity"
	"github.com/google/uuid"
)

// SaveDesignerInput inserts when ID is empty and updates the stored designer otherwise.
type SaveDesignerInput struct {
	ID          string  `json:"id" form:"id" binding:"omitempty,uuid"`
	Name        string  `json:"name" form:"name" binding:"required,max=150"`
	ContactInfo *string `json:"contact_info" form:"contactInfo" binding:"omitempty,max=500"`
}

type DesignerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo *string   `json:"contact_info"`
	CreatedAt   string    `json:"created_at"`
}

func ToDesignerResponse(d *entity.Designer) DesignerResponse {
	return DesignerResponse{
		ID:          d.ID,
		Name:        d.Name,
		ContactInfo: d.ContactInfo,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

func ToDesignerResponses(designers []*entity.Designer) []DesignerResponse {
	out := make([]DesignerResponse, 0, len(designers))
	for _, d := range designers {
		out = append(out, ToDesignerResponse(d))
	}
	return out
}
