package dto

// AssignRoleInput is posted by the user-management page.
type AssignRoleInput struct {
	UserID string `json:"user_id" form:"userId" binding:"required,uuid"`
	Role   string `json:"role" form:"role" binding:"required,oneof=USER MANAGER ADMIN"`
}
