package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar-date format used for arrival dates on the wire.
const DateLayout = "2006-01-02"

type Dress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:150" json:"name"`
	Style       string     `gorm:"size:100" json:"style"`
	Size        string     `gorm:"size:20" json:"size"`
	Color       string     `gorm:"size:50" json:"color"`
	Price       *float64   `gorm:"check:chk_dresses_price,price >= 0" json:"price"`
	ArrivalDate *time.Time `gorm:"type:date;index" json:"arrival_date"`
	PhotoURL    *string    `gorm:"type:text" json:"photo_url,omitempty"`
	DesignerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"designer_id"`
	Designer    *Designer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"designer,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Dress) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewV7()
	}
	return
}

// ArrivalDay returns the arrival date as a calendar date string, or "" when unset.
func (d *Dress) ArrivalDay() string {
	if d.ArrivalDate == nil {
		return ""
	}
	return d.ArrivalDate.Format(DateLayout)
}
