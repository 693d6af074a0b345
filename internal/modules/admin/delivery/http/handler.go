package handler

import (
	"net/http"

	"anoa.com/weddingsalon/internal/modules/admin/dto"
	adminService "anoa.com/weddingsalon/internal/modules/admin/service"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	res, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// AssignRole answers POST /assign-role with a redirect home once the role is stored.
func (h *AdminHandler) AssignRole(c *gin.Context) {
	var input dto.AssignRoleInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindingError(c, err)
		return
	}

	if err := h.adminService.AssignRole(c.Request.Context(), uuid.MustParse(input.UserID), input.Role); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}
