package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/pkg/catalog"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/response"
)

type manufacturerService interface {
	List(ctx context.Context) ([]models.Manufacturer, error)
	Create(ctx context.Context, req dto.CreateManufacturerRequest) (*models.Manufacturer, error)
}

// ReferenceHandler serves manufacturers and spool types.
type ReferenceHandler struct {
	manufacturers manufacturerService
	types         *catalog.Catalog
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(manufacturers manufacturerService, types *catalog.Catalog) *ReferenceHandler {
	return &ReferenceHandler{manufacturers: manufacturers, types: types}
}

// ListManufacturers godoc
// @Summary List manufacturers
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /manufacturers [get]
func (h *ReferenceHandler) ListManufacturers(c *gin.Context) {
	items, err := h.manufacturers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateManufacturer godoc
// @Summary Create manufacturer
// @Tags Reference
// @Accept json
// @Produce json
// @Param payload body dto.CreateManufacturerRequest true "Manufacturer payload"
// @Success 201 {object} response.Envelope
// @Router /manufacturers [post]
func (h *ReferenceHandler) CreateManufacturer(c *gin.Context) {
	var req dto.CreateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.manufacturers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// ListSpoolTypes godoc
// @Summary List spool types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /spool-types [get]
func (h *ReferenceHandler) ListSpoolTypes(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.types.All(), nil, map[string]interface{}{
		"version": h.types.Version(),
		"default": h.types.DefaultKey(),
	})
}
