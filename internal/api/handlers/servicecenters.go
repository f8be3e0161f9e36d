package handlers

import (
	"net/http"

	"jammanage-backend/internal/repository"
	"jammanage-backend/internal/services"
	"jammanage-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ServiceCenterHandler struct {
	service   *services.ServiceCenterService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewServiceCenterHandler(service *services.ServiceCenterService, logger *zap.Logger) *ServiceCenterHandler {
	return &ServiceCenterHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *ServiceCenterHandler) Create(c *gin.Context) {
	var req services.CreateServiceCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	center, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Service center created successfully", center)
}

func (h *ServiceCenterHandler) List(c *gin.Context) {
	filter := repository.ServiceCenterListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		State:  c.Query("state"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if id, err := primitive.ObjectIDFromHex(c.Query("typeId")); err == nil {
		filter.TypeID = id
	}

	centers, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	pagination := utils.NewPagination(filter.Page, filter.Limit, total)
	utils.PaginatedResponse(c, http.StatusOK, "Service centers retrieved successfully", centers, pagination)
}

func (h *ServiceCenterHandler) Get(c *gin.Context) {
	center, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service center retrieved successfully", center)
}

func (h *ServiceCenterHandler) Update(c *gin.Context) {
	var req services.UpdateServiceCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	center, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service center updated successfully", center)
}

func (h *ServiceCenterHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service center deleted successfully", nil)
}
