package handler

import (
	"errors"
	"net/http"

	"anoa.com/weddingsalon/internal/modules/designer/dto"
	designer "anoa.com/weddingsalon/internal/modules/designer/service"
	"anoa.com/weddingsalon/pkg/apperror"
	commonDto "anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const designersPage = "/designers"

type DesignerHandler struct {
	service designer.DesignerService
}

func NewDesignerHandler(service designer.DesignerService) *DesignerHandler {
	return &DesignerHandler{service: service}
}

// ListDesigners serves both GET /designers and GET /api/designers.
func (h *DesignerHandler) ListDesigners(c *gin.Context) {
	designers, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDesignerResponses(designers))
}

func (h *DesignerHandler) GetDesigner(c *gin.Context) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.ResponseError(c, apperror.New(http.StatusNotFound, "designer not found", apperror.ErrNotFound))
		return
	}

	found, err := h.service.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDesignerResponse(found))
}

// SaveDesigner handles POST /designers/save and always inserts.
func (h *DesignerHandler) SaveDesigner(c *gin.Context) {
	var req dto.SaveDesignerInput
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.ID = ""

	if _, err := h.service.Save(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, designersPage)
}

// UpdateDesigner handles POST /designers/update. An unknown id changes nothing.
func (h *DesignerHandler) UpdateDesigner(c *gin.Context) {
	var req dto.SaveDesignerInput
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	if req.ID == "" {
		response.ResponseError(c, apperror.NewFieldError("id", "id is required", nil))
		return
	}

	if _, err := h.service.Save(c.Request.Context(), req); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, designersPage)
}

// DeleteDesigner handles POST /designers/delete, cascading to the designer's dresses.
func (h *DesignerHandler) DeleteDesigner(c *gin.Context) {
	var req commonDto.IDRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, designersPage)
}
