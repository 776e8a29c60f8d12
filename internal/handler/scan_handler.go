package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/service"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/response"
)

type scanResolver interface {
	Resolve(ctx context.Context, tag string, weight float64, userID *int64) (*service.ScanResult, error)
}

// ScanHandler is the entry point for weight-scale and RFID reader devices.
type ScanHandler struct {
	scans      scanResolver
	invalidUID string
	details    bool
	logger     *zap.Logger
}

// NewScanHandler constructs ScanHandler. invalidUID is the tag a reader
// reports on a misread.
func NewScanHandler(scans scanResolver, invalidUID string, logger *zap.Logger) *ScanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanHandler{scans: scans, invalidUID: invalidUID, logger: logger}
}

// WithErrorDetails makes unexpected failures carry the underlying cause in
// error.details. Meant for non-production deployments.
func (h *ScanHandler) WithErrorDetails(enabled bool) *ScanHandler {
	h.details = enabled
	return h
}

// Weight godoc
// @Summary Report a scale reading for an RFID tag
// @Tags Scan
// @Produce json
// @Param uid query string true "Scanned tag"
// @Param weight query number true "Gross weight in grams"
// @Param X-Device-Key header string false "Device key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /weight [get]
func (h *ScanHandler) Weight(c *gin.Context) {
	uid := strings.TrimSpace(c.Query("uid"))
	if uid == "" {
		response.Error(c, appErrors.Validation("missing uid parameter"))
		return
	}
	if h.invalidUID != "" && uid == h.invalidUID {
		response.Error(c, appErrors.Validation("invalid uid parameter"))
		return
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(c.Query("weight")), 64)
	if err != nil {
		response.Error(c, appErrors.Validation("weight must be a valid number"))
		return
	}

	result, err := h.scans.Resolve(c.Request.Context(), uid, weight, userIDFromContext(c))
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			response.Error(c, appErr)
			return
		}
		h.logger.Error("scan failed", zap.String("uid", uid), zap.Float64("weight", weight), zap.Error(err))
		failure := appErrors.Wrap(err, appErr.Code, http.StatusInternalServerError, "failed to update filament weight: "+appErr.Message)
		if h.details {
			failure = appErrors.WithDetails(failure)
		}
		response.Error(c, failure)
		return
	}

	response.JSON(c, http.StatusOK, dto.ScanResponse{
		Message: "filament weight updated successfully",
		Branch:  string(result.Branch),
		Action:  result.Action,
		Spool:   result.Spool,
	}, nil)
}
