package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/internal/middleware"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

// userIDFromContext returns the acting user when a verified token is present.
func userIDFromContext(c *gin.Context) *int64 {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID == 0 {
		return nil
	}
	id := claims.UserID
	return &id
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid spool id")
	}
	return id, nil
}
