package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type BuildingHandler struct {
	buildingService *services.BuildingService
}

func NewBuildingHandler(buildingService *services.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildingService: buildingService}
}

// @Summary List Buildings
// @Tags Buildings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or address"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /buildings [get]
func (h *BuildingHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)

	buildings, total, err := h.buildingService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buildings":  buildings,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary List All Buildings
// @Description Unpaginated list for dropdowns
// @Tags Buildings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /buildings/all [get]
func (h *BuildingHandler) All(c *gin.Context) {
	buildings, err := h.buildingService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": buildings})
}

// @Summary Get Building
// @Tags Buildings
// @Produce json
// @Param building_id path string true "Building ID"
// @Success 200 {object} models.Building
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /buildings/{building_id} [get]
func (h *BuildingHandler) Show(c *gin.Context) {
	building, err := h.buildingService.FindByID(c.Request.Context(), c.Param("building_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"building": building})
}

type UnitRequest struct {
	Name        string   `json:"name" binding:"required"`
	DefaultRent *float64 `json:"default_rent"`
}

type BuildingRequest struct {
	Name    string        `json:"name" binding:"required"`
	Address *string       `json:"address"`
	Units   []UnitRequest `json:"units"`
}

func (r *BuildingRequest) toModel() *models.Building {
	building := &models.Building{
		Name:    r.Name,
		Address: r.Address,
	}
	for _, u := range r.Units {
		building.Units = append(building.Units, models.BuildingUnit{
			Name:        u.Name,
			DefaultRent: u.DefaultRent,
		})
	}
	return building
}

// @Summary Create Building
// @Tags Buildings
// @Accept json
// @Produce json
// @Param request body BuildingRequest true "Building Data"
// @Success 201 {object} models.Building
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /buildings [post]
func (h *BuildingHandler) Create(c *gin.Context) {
	var req BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	building := req.toModel()
	if err := h.buildingService.Create(c.Request.Context(), building, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"building": building})
}

// @Summary Update Building
// @Description Updates building fields and replaces the unit list
// @Tags Buildings
// @Accept json
// @Produce json
// @Param building_id path string true "Building ID"
// @Param request body BuildingRequest true "Building Data"
// @Success 200 {object} models.Building
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /buildings/{building_id} [put]
func (h *BuildingHandler) Update(c *gin.Context) {
	var req BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	building := req.toModel()
	building.ID = c.Param("building_id")
	for i := range building.Units {
		building.Units[i].BuildingID = building.ID
	}

	if err := h.buildingService.Update(c.Request.Context(), building, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"building": building})
}

// @Summary Delete Building
// @Description Deletes a building and its units. Requires confirmed=true and no occupied units.
// @Tags Buildings
// @Produce json
// @Param building_id path string true "Building ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /buildings/{building_id} [delete]
func (h *BuildingHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.buildingService.Delete(c.Request.Context(), c.Param("building_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Building deleted"})
}
