package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/staff"
)

type StaffHandler struct {
	directory *staff.Directory
}

func NewStaffHandler(directory *staff.Directory) *StaffHandler {
	return &StaffHandler{directory: directory}
}

// ---- Requests ----

type StaffRequest struct {
	Name string `json:"name" binding:"required"`
}

type StaffPreferencesRequest struct {
	ServiceIDs []uuid.UUID `json:"service_ids"`
}

// ---- Handlers ----

// GET /api/me/staff?service_ids=a,b
// Com service_ids, quem tem preferência por algum deles vem primeiro.
func (h *StaffHandler) List(c *gin.Context) {
	selected, ok := queryIDs(c, "service_ids")
	if !ok {
		return
	}

	list, err := h.directory.List(c.Request.Context(), middleware.EstablishmentID(c), selected)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	member, err := h.directory.Create(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		req.Name,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, member)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	member, err := h.directory.Rename(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.Name,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, member)
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.directory.Delete(
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

// PUT /api/me/staff/:id/preferences
// Substitui a lista inteira; lista vazia limpa as preferências.
func (h *StaffHandler) SetPreferences(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req StaffPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	member, err := h.directory.SetPreferences(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.ServiceIDs,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, member)
}

func (h *StaffHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, ok := formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	member, err := h.directory.UploadPhoto(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		file,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, member)
}
