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

// TaxonomyHandler serves one lookup collection; the same handler type is
// mounted once per kind.
type TaxonomyHandler struct {
	service   *services.TaxonomyService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTaxonomyHandler(service *services.TaxonomyService, logger *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *TaxonomyHandler) Create(c *gin.Context) {
	var req services.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, h.service.Kind().Label+" created successfully", entry)
}

func (h *TaxonomyHandler) List(c *gin.Context) {
	filter := repository.TaxonomyListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 50),
	}
	if id, err := primitive.ObjectIDFromHex(c.Query("parentId")); err == nil {
		filter.ParentID = id
	}

	entries, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	pagination := utils.NewPagination(filter.Page, filter.Limit, total)
	utils.PaginatedResponse(c, http.StatusOK, "Entries retrieved successfully", entries, pagination)
}

func (h *TaxonomyHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Entry retrieved successfully", entry)
}

func (h *TaxonomyHandler) Update(c *gin.Context) {
	var req services.UpdateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, h.service.Kind().Label+" updated successfully", entry)
}

// Delete removes an unused entry or deactivates an in-use one; the message
// tells the admin which happened.
func (h *TaxonomyHandler) Delete(c *gin.Context) {
	message, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}
