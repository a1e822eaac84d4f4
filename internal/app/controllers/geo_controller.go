package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/geo"
)

// GeoController serves the Italian comuni/province lookup backing the
// registration form's residence fields.
type GeoController struct {
	geoService *geo.Service
}

// NewGeoController creates a new GeoController
func NewGeoController(geoService *geo.Service) *GeoController {
	return &GeoController{geoService: geoService}
}

// SearchComuni searches municipalities by name
// @Summary Search comuni
// @Description Searches Italian municipalities by name prefix or substring; at least two characters required
// @Tags geo
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Max results (1-50, default 10)"
// @Success 200 {object} dto.APIResponse{data=[]geo.Comune} "Matches"
// @Router /geo/comuni [get]
func (c *GeoController) SearchComuni(ctx *gin.Context) {
	query := ctx.Query("q")
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	comuni, err := c.geoService.SearchComuni(query, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      comuni,
		Timestamp: time.Now(),
	})
}

// GetProvinces lists all provinces
// @Summary List provinces
// @Tags geo
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]geo.Province} "Provinces"
// @Router /geo/province [get]
func (c *GeoController) GetProvinces(ctx *gin.Context) {
	provinces, err := c.geoService.Provinces()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      provinces,
		Timestamp: time.Now(),
	})
}

// InvalidateCache drops the cached dataset
// @Summary Invalidate geo cache
// @Description Drops the in-process and on-disk comuni dataset; the next lookup downloads it again
// @Tags geo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Cache invalidated"
// @Router /geo/cache [delete]
func (c *GeoController) InvalidateCache(ctx *gin.Context) {
	if err := c.geoService.Invalidate(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Geo cache invalidated"},
		Timestamp: time.Now(),
	})
}
