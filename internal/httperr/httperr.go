package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor traduz o tipo da falha para o status HTTP.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindConversionExists, KindInvalidState:
		return http.StatusConflict
	case KindFinalization:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindValidation:       "Dados inválidos.",
	KindConflict:         "Este horário já está reservado para o colaborador.",
	KindConversionExists: "Este agendamento já possui um atendimento vinculado.",
	KindFinalization:     "Adicione pelo menos um serviço antes de finalizar.",
	KindNotFound:         "Registro não encontrado.",
	KindInvalidState:     "Operação não permitida no status atual.",
	KindUnauthorized:     "E-mail ou senha inválidos.",
	KindStore:            "Não foi possível concluir a operação.",
}

// FromError responde um erro vindo dos use cases. Falhas fora da
// taxonomia de negócio viram 500 e são logadas.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		loggerFrom(c).Error("unexpected error", zap.Error(err))
		Internal(c, "internal_error", messages[KindStore])
		return
	}

	if be.Kind == KindStore {
		loggerFrom(c).Error("store failure", zap.String("code", be.Code), zap.Error(be.Err))
	}

	Write(c, StatusFor(be.Kind), be.Code, messages[be.Kind])
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
