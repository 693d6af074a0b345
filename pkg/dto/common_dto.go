package dto

import (
	"io"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// HasRole reports whether the caller holds one of roles.
func (i *Identity) HasRole(roles ...string) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type IDRequest struct {
	ID string `uri:"id" form:"id" json:"id" binding:"required,uuid"`
}

type KeywordFilter struct {
	Keyword string `form:"keyword"`
}

type UploadFile struct {
	Reader   io.Reader
	FileName string
}
