package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/settings"
)

type TemplateHandler struct {
	templates *settings.MessageTemplate
}

func NewTemplateHandler(templates *settings.MessageTemplate) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type SaveTemplateRequest struct {
	Template string `json:"template"`
}

func (h *TemplateHandler) Get(c *gin.Context) {
	view, err := h.templates.Get(c.Request.Context(), middleware.EstablishmentID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, view)
}

func (h *TemplateHandler) Save(c *gin.Context) {
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	view, err := h.templates.Save(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		req.Template,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, view)
}

// DELETE volta ao texto padrão.
func (h *TemplateHandler) Reset(c *gin.Context) {
	view, err := h.templates.Reset(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, view)
}
