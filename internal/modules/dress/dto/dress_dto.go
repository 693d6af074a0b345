package dto

import (
	"anoa.com/weddingsalon/internal/entity"
	"github.com/google/uuid"
)

// SaveDressInput inserts when ID is empty and updates the stored dress otherwise.
// Form field names follow the salon's HTML forms.
type SaveDressInput struct {
	ID          string   `json:"id" form:"id" binding:"omitempty,uuid"`
	Name        string   `json:"name" form:"name" binding:"max=150"`
	Style       string   `json:"style" form:"style" binding:"max=100"`
	Size        string   `json:"size" form:"size" binding:"max=20"`
	Color       string   `json:"color" form:"color" binding:"max=50"`
	Price       *float64 `json:"price" form:"price" binding:"omitempty,min=0"`
	ArrivalDate string   `json:"arrival_date" form:"arrivalDate" binding:"omitempty,datetime=2006-01-02"`
	DesignerID  string   `json:"designer_id" form:"designerId" binding:"omitempty,uuid"`
}

type DesignerSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo *string   `json:"contact_info"`
}

type DressResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Style       string           `json:"style"`
	Size        string           `json:"size"`
	Color       string           `json:"color"`
	Price       *float64         `json:"price"`
	ArrivalDate *string          `json:"arrival_date"`
	PhotoURL    *string          `json:"photo_url"`
	DesignerID  uuid.UUID        `json:"designer_id"`
	Designer    *DesignerSummary `json:"designer"`
}

func ToDressResponse(d *entity.Dress) DressResponse {
	res := DressResponse{
		ID:         d.ID,
		Name:       d.Name,
		Style:      d.Style,
		Size:       d.Size,
		Color:      d.Color,
		Price:      d.Price,
		PhotoURL:   d.PhotoURL,
		DesignerID: d.DesignerID,
	}
	if day := d.ArrivalDay(); day != "" {
		res.ArrivalDate = &day
	}
	if d.Designer != nil {
		res.Designer = &DesignerSummary{
			ID:          d.Designer.ID,
			Name:        d.Designer.Name,
			ContactInfo: d.Designer.ContactInfo,
		}
	}
	return res
}

func ToDressResponses(dresses []*entity.Dress) []DressResponse {
	out := make([]DressResponse, 0, len(dresses))
	for _, d := range dresses {
		out = append(out, ToDressResponse(d))
	}
	return out
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required"`
	Limit int64  `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DateCount is the number of dresses that arrived on Date.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DressStatistics struct {
	CountByDate      []DateCount `json:"count_by_date"`
	AveragePrice     float64     `json:"average_price"`
	MostPopularMonth string      `json:"most_popular_month"`
	Total            int         `json:"total"`
}
