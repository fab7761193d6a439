package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	ucServiceRecord "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/servicerecord"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceRecordUseCases struct {
	Get            *ucServiceRecord.GetServiceRecord
	List           *ucServiceRecord.ListServiceRecords
	CreateDirect   *ucServiceRecord.CreateDirect
	UpdateServices *ucServiceRecord.UpdateServices
	UpdateStaff    *ucServiceRecord.UpdateStaff
	Finalize       *ucServiceRecord.Finalize
	Cancel         *ucServiceRecord.Cancel
}

type ServiceRecordHandler struct {
	uc ServiceRecordUseCases
}

func NewServiceRecordHandler(uc ServiceRecordUseCases) *ServiceRecordHandler {
	return &ServiceRecordHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type DirectServiceRecordRequest struct {
	ClientName  string      `json:"client_name"`
	ClientPhone string      `json:"client_phone"`
	ClientEmail string      `json:"client_email"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	ServiceIDs  []uuid.UUID `json:"service_ids"`
	StaffIDs    []uuid.UUID `json:"staff_ids"`
	Notes       string      `json:"notes"`
}

type ReplaceServicesRequest struct {
	ServiceIDs []uuid.UUID `json:"service_ids"`
}

type ReplaceStaffRequest struct {
	StaffIDs []uuid.UUID `json:"staff_ids"`
}

type FinalizeRequest struct {
	EndTime string  `json:"end_time"`
	Notes   *string `json:"notes"`
}

type CancelServiceRecordRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// QUERIES
// ======================================================

// GET /api/me/service-records?date=YYYY-MM-DD
// Também aceita from, to, status e client.
func (h *ServiceRecordHandler) List(c *gin.Context) {
	f := ucServiceRecord.ListFilter{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: c.Query("status"),
		Client: c.Query("client"),
	}
	if date := c.Query("date"); date != "" {
		f.From, f.To = date, date
	}

	list, err := h.uc.List.Execute(c.Request.Context(), middleware.EstablishmentID(c), f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *ServiceRecordHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respondDetail(c, id)
}

// ======================================================
// COMMANDS
// ======================================================

func (h *ServiceRecordHandler) CreateDirect(c *gin.Context) {
	var req DirectServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	rec, err := h.uc.CreateDirect.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		ucServiceRecord.DirectInput{
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			Date:        req.Date,
			Time:        req.Time,
			ServiceIDs:  req.ServiceIDs,
			StaffIDs:    req.StaffIDs,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, rec)
}

func (h *ServiceRecordHandler) ReplaceServices(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReplaceServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if _, err := h.uc.UpdateServices.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.ServiceIDs,
	); err != nil {
		httperr.FromError(c, err)
		return
	}
	h.respondDetail(c, id)
}

func (h *ServiceRecordHandler) ReplaceStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReplaceStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.uc.UpdateStaff.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.StaffIDs,
	); err != nil {
		httperr.FromError(c, err)
		return
	}
	h.respondDetail(c, id)
}

func (h *ServiceRecordHandler) Finalize(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// corpo opcional
	var req FinalizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	rec, err := h.uc.Finalize.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		ucServiceRecord.FinalizeInput{
			EndTime: req.EndTime,
			Notes:   req.Notes,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, rec)
}

func (h *ServiceRecordHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CancelServiceRecordRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	rec, err := h.uc.Cancel.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		req.Reason,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, rec)
}

func (h *ServiceRecordHandler) respondDetail(c *gin.Context, id uuid.UUID) {
	detail, err := h.uc.Get.Execute(c.Request.Context(), middleware.EstablishmentID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, detail)
}
