package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

type PropertiesHandler struct {
	properties *services.PropertyService
}

func NewPropertiesHandler(properties *services.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{properties: properties}
}

// CreateProperty godoc
// @Summary     Add a property
// @Description Street, suburb, state and postcode are required. Coordinates are filled when geocoding succeeds.
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PropertyRequest true "Property"
// @Success     201 {object} models.Property
// @Failure     400 {object} models.ErrorResponse
// @Router      /properties [post]
func (h *PropertiesHandler) CreateProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.properties.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// ListProperties godoc
// @Summary     List the caller's properties
// @Tags        properties
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.PropertyListResponse
// @Router      /properties [get]
func (h *PropertiesHandler) ListProperties(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	properties, err := h.properties.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PropertyListResponse{Properties: properties})
}

// GetProperty godoc
// @Summary     Get a property
// @Tags        properties
// @Produce     json
// @Security    Bearer
// @Param       property_id path string true "Property ID (UUID)"
// @Success     200 {object} models.Property
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /properties/{property_id} [get]
func (h *PropertiesHandler) GetProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := uuidParam(c, "property_id")
	if !ok {
		return
	}

	property, err := h.properties.Get(c.Request.Context(), userID, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// UpdateProperty godoc
// @Summary     Replace a property's details
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       property_id path string true "Property ID (UUID)"
// @Param       request body models.PropertyRequest true "Property"
// @Success     200 {object} models.Property
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /properties/{property_id} [put]
func (h *PropertiesHandler) UpdateProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := uuidParam(c, "property_id")
	if !ok {
		return
	}
	var req models.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.properties.Update(c.Request.Context(), userID, propertyID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty godoc
// @Summary     Delete a property
// @Tags        properties
// @Security    Bearer
// @Param       property_id path string true "Property ID (UUID)"
// @Success     204
// @Failure     403 {object} models.ErrorResponse
// @Router      /properties/{property_id} [delete]
func (h *PropertiesHandler) DeleteProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := uuidParam(c, "property_id")
	if !ok {
		return
	}

	if err := h.properties.Delete(c.Request.Context(), userID, propertyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLinenPlan godoc
// @Summary     Linen needed for a property
// @Tags        properties
// @Produce     json
// @Security    Bearer
// @Param       property_id path string true "Property ID (UUID)"
// @Param       spares query int false "Spare sets, 0 to 5 (default 1)"
// @Success     200 {object} models.LinenPlan
// @Router      /properties/{property_id}/linen [get]
func (h *PropertiesHandler) GetLinenPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := uuidParam(c, "property_id")
	if !ok {
		return
	}

	spares := services.DefaultSpareSets
	if raw := c.Query("spares"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "spares must be a non-negative integer"})
			return
		}
		spares = min(n, services.MaxSpareSets)
	}

	plan, err := h.properties.Linen(c.Request.Context(), userID, propertyID, spares)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
