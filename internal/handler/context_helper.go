package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/middleware"
	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// bindJSON decodes the body into dest and answers 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func auditMeta(c *gin.Context) service.AuditMeta {
	meta := service.AuditMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims := claimsFromContext(c); claims != nil {
		meta.ActorID = claims.UserID
	}
	return meta
}
