package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lamnguyen-dev/educenter-api/internal/middleware"
	"github.com/lamnguyen-dev/educenter-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
