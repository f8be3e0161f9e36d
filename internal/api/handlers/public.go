package handlers

import (
	"net/http"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/services"
	"jammanage-backend/pkg/cache"
	"jammanage-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated catalogue consumed by the
// marketing site. Responses go through the listing cache when one is
// configured; cache failures degrade to a database read.
type PublicHandler struct {
	vehicleService *services.VehicleService
	cache          cache.ListingCacheManager
	logger         *zap.Logger
}

func NewPublicHandler(vehicleService *services.VehicleService, listingCache cache.ListingCacheManager, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		vehicleService: vehicleService,
		cache:          listingCache,
		logger:         logger,
	}
}

type cachedListing struct {
	Vehicles []*models.PublicVehicle `json:"vehicles"`
	Total    int64                   `json:"total"`
}

// ListVehicles serves the public catalogue: published, visible records only.
func (h *PublicHandler) ListVehicles(c *gin.Context) {
	filter := parseVehicleFilter(c)
	cacheKey := c.Request.URL.RawQuery

	if h.cache != nil {
		var cached cachedListing
		hit, err := h.cache.GetListing(cacheKey, &cached)
		if err != nil {
			h.logger.Warn("listing cache read failed", zap.Error(err))
		} else if hit {
			pagination := utils.NewPagination(filter.Page, filter.Limit, cached.Total)
			utils.PaginatedResponse(c, http.StatusOK, "Vehicles retrieved successfully", cached.Vehicles, pagination)
			return
		}
	}

	vehicles, total, err := h.vehicleService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetListing(cacheKey, cachedListing{Vehicles: vehicles, Total: total}); err != nil {
			h.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}

	pagination := utils.NewPagination(filter.Page, filter.Limit, total)
	utils.PaginatedResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles, pagination)
}

// GetVehicleBySlug serves one public detail page by its slug.
func (h *PublicHandler) GetVehicleBySlug(c *gin.Context) {
	slug := c.Param("slug")

	if h.cache != nil {
		cached, err := h.cache.GetDetail(slug)
		if err != nil {
			h.logger.Warn("detail cache read failed", zap.Error(err))
		} else if cached != nil {
			utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", cached)
			return
		}
	}

	vehicle, err := h.vehicleService.GetPublicBySlug(c.Request.Context(), slug)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetDetail(slug, vehicle); err != nil {
			h.logger.Warn("detail cache write failed", zap.Error(err))
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}
