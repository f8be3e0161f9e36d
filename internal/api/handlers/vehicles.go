package handlers

import (
	"net/http"
	"strconv"

	"jammanage-backend/internal/repository"
	"jammanage-backend/internal/services"
	"jammanage-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
	validator      *validator.Validate
	logger         *zap.Logger
}

func NewVehicleHandler(vehicleService *services.VehicleService, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		validator:      validator.New(),
		logger:         logger,
	}
}

// CreateVehicle creates a new vehicle record. Drafts may be sparse; the
// publish gate only applies when status is published.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), &req, actorID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", vehicle)
}

// GetVehicles lists vehicles for the admin console with filters and paging.
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	filter := parseVehicleFilter(c)

	vehicles, total, err := h.vehicleService.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	pagination := utils.NewPagination(filter.Page, filter.Limit, total)
	utils.PaginatedResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles, pagination)
}

// GetVehicle retrieves one vehicle with its feature-tag associations.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// UpdateVehicle applies a partial patch and re-runs the lifecycle pipeline.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req services.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), &req, actorID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", vehicle)
}

// ArchiveVehicle soft-retires a vehicle; nothing is ever hard-deleted.
func (h *VehicleHandler) ArchiveVehicle(c *gin.Context) {
	if err := h.vehicleService.Archive(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle archived successfully", nil)
}

func parseVehicleFilter(c *gin.Context) repository.VehicleListFilter {
	filter := repository.VehicleListFilter{
		Search:    c.Query("search"),
		Condition: c.Query("condition"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortDir:   c.Query("sortDir"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 20),
	}

	if id, err := primitive.ObjectIDFromHex(c.Query("makeId")); err == nil {
		filter.MakeID = id
	}
	if id, err := primitive.ObjectIDFromHex(c.Query("modelId")); err == nil {
		filter.ModelID = id
	}
	filter.YearMin = queryInt(c, "yearMin", 0)
	filter.YearMax = queryInt(c, "yearMax", 0)
	filter.PriceMin = queryFloat(c, "priceMin")
	filter.PriceMax = queryFloat(c, "priceMax")

	return filter
}

// actorID resolves the authenticated user's id set by the auth middleware.
func actorID(c *gin.Context) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(c *gin.Context, key string) float64 {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
