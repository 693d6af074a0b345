package handler

import (
	"errors"
	"net/http"

	designerDto "anoa.com/weddingsalon/internal/modules/designer/dto"
	"anoa.com/weddingsalon/internal/modules/dress/dto"
	"anoa.com/weddingsalon/pkg/apperror"
	commonDto "anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dressesPage = "/dresses"

// Browse answers GET /dresses with the dresses matching keyword and the
// designers a new dress can be assigned to.
func (h *DressHandler) Browse(c *gin.Context) {
	var filter commonDto.KeywordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	dresses, err := h.service.ListAll(ctx, filter.Keyword)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	designers, err := h.designerService.FindAll(ctx)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dresses":   dto.ToDressResponses(dresses),
		"keyword":   filter.Keyword,
		"designers": designerDto.ToDesignerResponses(designers),
	})
}

// SaveForm handles POST /save and always inserts.
func (h *DressHandler) SaveForm(c *gin.Context) {
	var req dto.SaveDressInput
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.ID = ""

	if _, err := h.service.Save(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, dressesPage)
}

// UpdateForm handles POST /update. An unknown id changes nothing.
func (h *DressHandler) UpdateForm(c *gin.Context) {
	var req dto.SaveDressInput
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

	c.Redirect(http.StatusSeeOther, dressesPage)
}

func (h *DressHandler) DeleteForm(c *gin.Context) {
	var req commonDto.IDRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, dressesPage)
}
