package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	ucClient "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/client"
)

type ClientHandler struct {
	clients *ucClient.ListClients
}

func NewClientHandler(clients *ucClient.ListClients) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func clientFilter(c *gin.Context) ucClient.Filter {
	return ucClient.Filter{
		Query: c.Query("query"),
		From:  c.Query("from"),
		To:    c.Query("to"),
		Month: c.Query("month"),
	}
}

// ======================================================
// LIST CLIENTS
// ======================================================

// Clientes não têm tabela própria: a lista sai dos atendimentos e
// agendamentos do período.
func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.clients.Execute(c.Request.Context(), middleware.EstablishmentID(c), clientFilter(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *ClientHandler) Stats(c *gin.Context) {
	stats, err := h.clients.Stats(c.Request.Context(), middleware.EstablishmentID(c), clientFilter(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, stats)
}
