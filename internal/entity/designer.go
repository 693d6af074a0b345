package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Designer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	ContactInfo *string   `gorm:"type:text" json:"contact_info"`
	Dresses     []Dress   `json:"dresses,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Designer) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewV7()
	}
	return
}
