package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/internal/models"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/response"
)

type auditLister interface {
	List(ctx context.Context, limit int) ([]models.AuditEntry, error)
	ListForSpool(ctx context.Context, spoolID int64, limit int) ([]models.AuditEntry, error)
}

// AuditHandler exposes the mutation history.
type AuditHandler struct {
	audit auditLister
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audit auditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List audit entries, newest first
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum entries (default 100)"
// @Param spool_id query int false "Only entries for this spool"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Validation("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	var (
		entries []models.AuditEntry
		err     error
	)
	if raw := c.Query("spool_id"); raw != "" {
		spoolID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || spoolID <= 0 {
			response.Error(c, appErrors.Validation("invalid spool_id"))
			return
		}
		entries, err = h.audit.ListForSpool(c.Request.Context(), spoolID, limit)
	} else {
		entries, err = h.audit.List(c.Request.Context(), limit)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
