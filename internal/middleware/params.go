package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/response"
)

// UUIDParams answers 404 when a named route param is present but is not a UUID.
// Records are keyed by UUID, so such an id can never match one.
func UUIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			value := c.Param(name)
			if value == "" {
				continue
			}
			if _, err := uuid.Parse(value); err != nil {
				response.Error(c, appErrors.ErrNotFound)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
