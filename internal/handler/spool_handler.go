package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/middleware"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/service"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/response"
)

type spoolService interface {
	List(ctx context.Context, filter models.SpoolFilter) ([]dto.SpoolView, *models.Pagination, bool, error)
	Get(ctx context.Context, id int64) (*dto.SpoolView, error)
	FindByCode(ctx context.Context, code string) (*dto.SpoolView, error)
	FindByRFID(ctx context.Context, tag string) (*dto.SpoolView, error)
	Create(ctx context.Context, req dto.SpoolRequest, userID *int64) (*models.Spool, error)
	Update(ctx context.Context, id int64, req dto.SpoolRequest, userID *int64) (*models.Spool, error)
	Delete(ctx context.Context, id int64, userID *int64) error
	RecordUsage(ctx context.Context, id int64, req dto.UsageRequest, userID *int64) (*dto.SpoolView, error)
}

type inventoryExporter interface {
	Inventory(ctx context.Context, format string) (*service.ExportResult, error)
}

// SpoolHandler exposes spool inventory endpoints.
type SpoolHandler struct {
	spools   spoolService
	exporter inventoryExporter
}

// NewSpoolHandler constructs SpoolHandler.
func NewSpoolHandler(spools spoolService, exporter inventoryExporter) *SpoolHandler {
	return &SpoolHandler{spools: spools, exporter: exporter}
}

// List godoc
// @Summary List spools
// @Tags Spools
// @Produce json
// @Param material query string false "Filter by material"
// @Param status query string false "Filter by status"
// @Param search query string false "Search name or color"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /spools [get]
func (h *SpoolHandler) List(c *gin.Context) {
	var filter models.SpoolFilter
	if material := c.Query("material"); material != "" {
		m := models.Material(material)
		if !m.Valid() {
			response.Error(c, appErrors.Validation("unknown material"))
			return
		}
		filter.Material = &m
	}
	if status := strings.ToUpper(c.Query("status")); status != "" {
		s := models.SpoolStatus(status)
		filter.Status = &s
	}
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	spools, pagination, hit, err := h.spools.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, spools, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get spool
// @Tags Spools
// @Produce json
// @Param id path int true "Spool ID"
// @Success 200 {object} response.Envelope
// @Router /spools/{id} [get]
func (h *SpoolHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	spool, err := h.spools.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spool, nil)
}

// ByCode godoc
// @Summary Find spool by QR code
// @Tags Spools
// @Produce json
// @Param code path string true "Spool code (uuid)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /spools/by-code/{code} [get]
func (h *SpoolHandler) ByCode(c *gin.Context) {
	spool, err := h.spools.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spool, nil)
}

// ByRFID godoc
// @Summary Find spool by RFID tag
// @Tags Spools
// @Produce json
// @Param tag path string true "RFID tag"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /spools/by-rfid/{tag} [get]
func (h *SpoolHandler) ByRFID(c *gin.Context) {
	spool, err := h.spools.FindByRFID(c.Request.Context(), c.Param("tag"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spool, nil)
}

// Create godoc
// @Summary Register spool
// @Tags Spools
// @Accept json
// @Produce json
// @Param payload body dto.SpoolRequest true "Spool payload"
// @Success 201 {object} response.Envelope
// @Router /spools [post]
func (h *SpoolHandler) Create(c *gin.Context) {
	var req dto.SpoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	spool, err := h.spools.Create(c.Request.Context(), req, userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, spool)
}

// Update godoc
// @Summary Update spool
// @Tags Spools
// @Accept json
// @Produce json
// @Param id path int true "Spool ID"
// @Param payload body dto.SpoolRequest true "Spool payload"
// @Success 200 {object} response.Envelope
// @Router /spools/{id} [put]
func (h *SpoolHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SpoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	spool, err := h.spools.Update(c.Request.Context(), id, req, userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spool, nil)
}

// Delete godoc
// @Summary Delete spool
// @Tags Spools
// @Produce json
// @Param id path int true "Spool ID"
// @Success 200 {object} response.Envelope
// @Router /spools/{id} [delete]
func (h *SpoolHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.spools.Delete(c.Request.Context(), id, userIDFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// RecordUsage godoc
// @Summary Record filament usage
// @Description Supply exactly one of used_weight or remaining_weight.
// @Tags Spools
// @Accept json
// @Produce json
// @Param id path int true "Spool ID"
// @Param payload body dto.UsageRequest true "Usage payload"
// @Success 200 {object} response.Envelope
// @Router /spools/{id}/usage [post]
func (h *SpoolHandler) RecordUsage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	spool, err := h.spools.RecordUsage(c.Request.Context(), id, req, userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spool, nil)
}

// Export godoc
// @Summary Export inventory
// @Tags Spools
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /spools/export [get]
func (h *SpoolHandler) Export(c *gin.Context) {
	result, err := h.exporter.Inventory(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Body)
}
