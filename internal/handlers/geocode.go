package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

type GeocodeHandler struct {
	geocoder services.Geocoder
}

// NewGeocodeHandler takes a nil geocoder when no provider key is configured.
func NewGeocodeHandler(geocoder services.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// Geocode godoc
// @Summary     Validate and geocode an address
// @Description Returns valid=false with the provider status when the address cannot be resolved.
// @Tags        geocode
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GeocodeRequest true "Address"
// @Success     200 {object} models.GeocodeResponse
// @Failure     400 {object} models.GeocodeResponse
// @Failure     502 {object} models.GeocodeResponse
// @Failure     503 {object} models.GeocodeResponse
// @Router      /geocode [post]
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	var req models.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, models.GeocodeResponse{Valid: false, Error: "address is required"})
		return
	}
	if h.geocoder == nil {
		c.JSON(http.StatusServiceUnavailable, models.GeocodeResponse{Valid: false, Error: "geocoding is not configured"})
		return
	}

	result, err := h.geocoder.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.GeocodeResponse{Valid: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
