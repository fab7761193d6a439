package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	ucAppointment "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/appointment"
	ucServiceRecord "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/servicerecord"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Create   *ucAppointment.CreateAppointment
	Edit     *ucAppointment.EditAppointment
	Cancel   *ucAppointment.CancelAppointment
	Complete *ucAppointment.CompleteAppointment
	Delete   *ucAppointment.DeleteAppointment
	ByDate   *ucAppointment.ListAppointmentsByDate
	ByMonth  *ucAppointment.ListAppointmentsByMonth
	Message  *ucAppointment.RenderMessage
	Convert  *ucServiceRecord.ConvertAppointment
}

type AppointmentHandler struct {
	uc AppointmentUseCases
	gw *store.Gateway
}

func NewAppointmentHandler(uc AppointmentUseCases, gw *store.Gateway) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, gw: gw}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	ClientName  string      `json:"client_name"`
	ClientPhone string      `json:"client_phone"`
	ClientEmail string      `json:"client_email"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	EndTime     string      `json:"end_time"`
	ServiceIDs  []uuid.UUID `json:"service_ids"`
	StaffID     *uuid.UUID  `json:"staff_id"`
	Notes       string      `json:"notes"`
}

func (r AppointmentRequest) input() ucAppointment.AppointmentInput {
	return ucAppointment.AppointmentInput{
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Date:        r.Date,
		Time:        r.Time,
		EndTime:     r.EndTime,
		ServiceIDs:  r.ServiceIDs,
		StaffID:     r.StaffID,
		Notes:       r.Notes,
	}
}

type ConvertAppointmentRequest struct {
	ServiceIDs []uuid.UUID `json:"service_ids"`
	StaffIDs   []uuid.UUID `json:"staff_ids"`
	Notes      string      `json:"notes"`
}

// ======================================================
// LIST
// ======================================================

// GET /api/me/appointments?date=YYYY-MM-DD&staff_id=
// Sem data, usa o dia corrente no fuso do estabelecimento.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID, ok := queryOptionalID(c, "staff_id")
	if !ok {
		return
	}

	list, err := h.uc.ByDate.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		c.Query("date"),
		staffID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

// GET /api/me/appointments/month?year=2024&month=6 (ou month=2024-06)
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	staffID, ok := queryOptionalID(c, "staff_id")
	if !ok {
		return
	}

	list, err := h.uc.ByMonth.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		month,
		staffID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

// ======================================================
// CREATE / EDIT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.Create.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		req.input(),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.uc.Edit.Execute(
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
	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Complete.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(
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
// MENSAGEM DE CONFIRMAÇÃO
// ======================================================

// O texto é devolvido para o app abrir no WhatsApp; nada é enviado daqui.
func (h *AppointmentHandler) Message(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	text, err := h.uc.Message.Execute(c.Request.Context(), middleware.EstablishmentID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"message": text})
}

// ======================================================
// ATENDIMENTO
// ======================================================

// POST /api/me/appointments/:id/service-record
func (h *AppointmentHandler) Convert(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ConvertAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	rec, err := h.uc.Convert.Execute(
		c.Request.Context(),
		middleware.EstablishmentID(c),
		middleware.UserID(c),
		id,
		ucServiceRecord.ConvertInput{
			ServiceIDs: req.ServiceIDs,
			StaffIDs:   req.StaffIDs,
			Notes:      req.Notes,
		},
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, rec)
}

// GET /api/me/appointments/:id/service-record
// Informa se o agendamento já virou atendimento e devolve o atendimento
// ainda ativo, se houver.
func (h *AppointmentHandler) ServiceRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	est := middleware.EstablishmentID(c)

	// converted segue a mesma regra do bloqueio de exclusão: qualquer
	// atendimento, mesmo cancelado, conta
	converted, err := ucAppointment.IsConverted(ctx, h.gw, est, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	rec, err := ucServiceRecord.FindByAppointment(ctx, h.gw, est, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{
		"converted":      converted,
		"service_record": rec,
	})
}
