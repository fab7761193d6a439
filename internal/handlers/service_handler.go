package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/catalog"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	services *catalog.Services
	importer *catalog.ImportServices
}

func NewServiceHandler(services *catalog.Services, importer *catalog.ImportServices) *ServiceHandler {
	return &ServiceHandler{
		services: services,
		importer: importer,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	DurationMin *int             `json:"duration_min"`
	Favorite    *bool            `json:"favorite"`
}

func (r ServiceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		DurationMin: r.DurationMin,
		Favorite:    r.Favorite,
	}
}

type ImportServicesRequest struct {
	BusinessLine int   `json:"business_line" binding:"required"`
	TemplateIDs  []int `json:"template_ids"`
}

// ======================================================
// CRUD
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.services.List(c.Request.Context(), middleware.EstablishmentID(c), c.Query("q"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc, err := h.services.Create(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		req.input(),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc, err := h.services.Update(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.input(),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Delete(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
	); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// IMPORT POR RAMO
// ======================================================

func (h *ServiceHandler) Import(c *gin.Context) {
	var req ImportServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.importer.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		req.BusinessLine,
		req.TemplateIDs,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, res)
}

// GET /api/business-lines (público)
func ListBusinessLines(c *gin.Context) {
	httpresp.List(c, domain.BusinessLines())
}
