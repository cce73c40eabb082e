package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
)

// defaultAreaCodes covers the 17 top-level regions, used when the tourism
// API's areaCode operation is unavailable.
var defaultAreaCodes = []models.AreaCode{
	{Code: "1", Name: "서울"},
	{Code: "2", Name: "인천"},
	{Code: "3", Name: "대전"},
	{Code: "4", Name: "대구"},
	{Code: "5", Name: "광주"},
	{Code: "6", Name: "부산"},
	{Code: "7", Name: "울산"},
	{Code: "8", Name: "세종특별자치시"},
	{Code: "31", Name: "경기도"},
	{Code: "32", Name: "강원특별자치도"},
	{Code: "33", Name: "충청북도"},
	{Code: "34", Name: "충청남도"},
	{Code: "35", Name: "경상북도"},
	{Code: "36", Name: "경상남도"},
	{Code: "37", Name: "전북특별자치도"},
	{Code: "38", Name: "전라남도"},
	{Code: "39", Name: "제주도"},
}

// AreaHandler handles region code HTTP requests
type AreaHandler struct {
	tourClient tourapi.TourClient
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(tourClient tourapi.TourClient) *AreaHandler {
	return &AreaHandler{tourClient: tourClient}
}

// RegisterAreaRoutes registers region code routes
func (h *AreaHandler) RegisterAreaRoutes(g *echo.Group) {
	g.GET("/areas", h.ListAreas)
}

// ListAreas returns the region codes, refreshed from the tourism API with a
// fallback to the hardcoded defaults.
func (h *AreaHandler) ListAreas(c echo.Context) error {
	fallback := false
	codes, err := h.tourClient.AreaCodes(c.Request().Context())
	if err != nil || len(codes) == 0 {
		if err != nil {
			log.Printf("Area code refresh failed, using defaults: %v", err)
		}
		codes = defaultAreaCodes
		fallback = true
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"areas": codes,
		},
		"meta": echo.Map{
			"fallback": fallback,
		},
	})
}
