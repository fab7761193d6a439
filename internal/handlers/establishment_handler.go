package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/establishment"
)

type EstablishmentHandler struct {
	profile *establishment.Profile
}

func NewEstablishmentHandler(profile *establishment.Profile) *EstablishmentHandler {
	return &EstablishmentHandler{profile: profile}
}

type UpdateEstablishmentRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	BusinessLine *int    `json:"business_line"`
	Timezone     *string `json:"timezone"`
}

func (h *EstablishmentHandler) Get(c *gin.Context) {
	est, err := h.profile.Get(c.Request.Context(), middleware.EstablishmentID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, est)
}

func (h *EstablishmentHandler) Update(c *gin.Context) {
	var req UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	est, err := h.profile.Update(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		establishment.UpdateInput{
			Name:         req.Name,
			Phone:        req.Phone,
			Address:      req.Address,
			BusinessLine: req.BusinessLine,
			Timezone:     req.Timezone,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, est)
}

// POST /api/me/establishment/logo (multipart, campo "file")
func (h *EstablishmentHandler) UploadLogo(c *gin.Context) {
	file, ok := formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	est, err := h.profile.UploadLogo(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		file,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, est)
}
