package handler

import (
	"net/http"

	designer "anoa.com/weddingsalon/internal/modules/designer/service"
	"anoa.com/weddingsalon/internal/modules/dress/dto"
	dress "anoa.com/weddingsalon/internal/modules/dress/service"
	"anoa.com/weddingsalon/pkg/apperror"
	commonDto "anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPhotoSize = 10 << 20

type DressHandler struct {
	service         dress.DressService
	designerService designer.DesignerService
}

func NewDressHandler(service dress.DressService, designerService designer.DesignerService) *DressHandler {
	return &DressHandler{service: service, designerService: designerService}
}

func (h *DressHandler) ListDresses(c *gin.Context) {
	var filter commonDto.KeywordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindingError(c, err)
		return
	}

	dresses, err := h.service.ListAll(c.Request.Context(), filter.Keyword)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDressResponses(dresses))
}

func (h *DressHandler) GetDress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	found, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDressResponse(found))
}

// CreateDress accepts the designer either in the body or as the designerId query parameter.
func (h *DressHandler) CreateDress(c *gin.Context) {
	var req dto.SaveDressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.ID = ""
	if req.DesignerID == "" {
		req.DesignerID = c.Query("designerId")
	}

	created, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDressResponse(created))
}

func (h *DressHandler) UpdateDress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SaveDressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}
	req.ID = id.String()
	if req.DesignerID == "" {
		req.DesignerID = c.Query("designerId")
	}

	updated, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDressResponse(updated))
}

func (h *DressHandler) DeleteDress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.FindByID(ctx, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DressHandler) SearchDresses(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindingError(c, err)
		return
	}

	dresses, err := h.service.FullTextSearch(c.Request.Context(), query.Q, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDressResponses(dresses))
}

func (h *DressHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoSize)
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.ResponseError(c, apperror.NewFieldError("photo", "photo file is required", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer file.Close()

	updated, err := h.service.UploadPhoto(c.Request.Context(), id, commonDto.UploadFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDressResponse(updated))
}

// pathID reads the :id parameter. A malformed id cannot name a stored dress, so it answers 404.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, dress.ErrDressNotFound)
		return uuid.Nil, false
	}
	return id, true
}
