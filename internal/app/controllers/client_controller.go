package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

// ClientController handles customer registry operations
type ClientController struct {
	clientService services.ClientService
}

// NewClientController creates a new ClientController
func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// CreateClient creates a customer
// @Summary Create client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClientRequest true "Client data"
// @Success 201 {object} dto.APIResponse{data=dto.ClientResponse} "Client created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /clients [post]
func (c *ClientController) CreateClient(ctx *gin.Context) {
	var req dto.CreateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid client data")
		return
	}

	client := &models.Client{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Notes:        req.Notes,
	}
	if err := c.clientService.CreateClient(ctx, client); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      toClientResponse(client),
		Timestamp: time.Now(),
	})
}

// GetClientByID retrieves a customer
// @Summary Get client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClientResponse} "Client"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Router /clients/{id} [get]
func (c *ClientController) GetClientByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	client, err := c.clientService.GetClientByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toClientResponse(client),
		Timestamp: time.Now(),
	})
}

// GetAllClients lists customers
// @Summary List clients
// @Description Lists clients ordered by business name, optionally filtered by a search term
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param search query string false "Business name filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClientResponse} "Clients"
// @Router /clients [get]
func (c *ClientController) GetAllClients(ctx *gin.Context) {
	search := helpers.StringPtrOrNil(ctx.Query("search"))

	clients, err := c.clientService.GetAllClients(ctx, search)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.ClientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientResponse(client))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      out,
		Timestamp: time.Now(),
	})
}

// UpdateClient updates a customer
// @Summary Update client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param request body dto.UpdateClientRequest true "Client data"
// @Success 200 {object} dto.APIResponse{data=dto.ClientResponse} "Client updated"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Router /clients/{id} [put]
func (c *ClientController) UpdateClient(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid client data")
		return
	}

	client := &models.Client{
		ID:           id,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Notes:        req.Notes,
	}
	if err := c.clientService.UpdateClient(ctx, client); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toClientResponse(client),
		Timestamp: time.Now(),
	})
}

// DeleteClient deletes a customer
// @Summary Delete client
// @Description Deletes a client; its engagements and their events are removed by cascade
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Client deleted"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Router /clients/{id} [delete]
func (c *ClientController) DeleteClient(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.clientService.DeleteClient(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Client deleted"},
		Timestamp: time.Now(),
	})
}
