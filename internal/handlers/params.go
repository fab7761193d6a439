package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/imaging"
)

// ======================================================
// PATH / QUERY
// ======================================================

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}

// queryIDs lê uma lista separada por vírgula (?service_ids=a,b).
func queryIDs(c *gin.Context, name string) ([]uuid.UUID, bool) {
	var ids []uuid.UUID
	for _, part := range strings.Split(c.Query(name), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func queryOptionalID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}
	return &id, true
}

// queryMonth aceita ?month=YYYY-MM ou ?year=2024&month=6.
func queryMonth(c *gin.Context) (string, bool) {
	month := strings.TrimSpace(c.Query("month"))
	year := strings.TrimSpace(c.Query("year"))

	if strings.Contains(month, "-") {
		return month, true
	}

	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	if errY != nil || errM != nil || m < 1 || m > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", y, m), true
}

// ======================================================
// UPLOAD
// ======================================================

// formImage abre o arquivo do campo "file" respeitando o limite de upload.
func formImage(c *gin.Context) (io.ReadCloser, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadBytes+(1<<20))

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "file_required", "Envie uma imagem.")
		return nil, false
	}
	if fh.Size > imaging.MaxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "A imagem deve ter no máximo 5 MB.")
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "file_required", "Envie uma imagem.")
		return nil, false
	}
	return f, true
}
