package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/auditlog"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	list *auditlog.ListAuditLogs
}

func NewAuditLogsHandler(list *auditlog.ListAuditLogs) *AuditLogsHandler {
	return &AuditLogsHandler{list: list}
}

// GET /api/me/audit-logs?action=&entity=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditlog.DefaultLimit)))

	res, err := h.list.Execute(c.Request.Context(), middleware.EstablishmentID(c), auditlog.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, res)
}
