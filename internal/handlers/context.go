package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/sunginkim/tourgo/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 for
// anonymous requests.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
