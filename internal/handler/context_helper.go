package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/champcode/academy-api/internal/middleware"
	"github.com/champcode/academy-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil
	}
	return claims
}

func userInfoFromClaims(claims *models.JWTClaims) models.UserInfo {
	return models.UserInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}
}
