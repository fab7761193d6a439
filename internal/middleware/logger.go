package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ContextLogger   = "logger"
	HeaderRequestID = "X-Request-ID"
)

// RequestLogger guarda um logger com o request id no contexto e registra
// cada requisição ao final.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)

		log := base.With(zap.String("request_id", reqID))
		c.Set(ContextLogger, log)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get(ContextEstablishmentID); ok {
			if id, ok := v.(uuid.UUID); ok {
				fields = append(fields, zap.String("establishment_id", id.String()))
			}
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery transforma panics em 500 e loga com stack.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log := base
		if v, ok := c.Get(ContextLogger); ok {
			if l, ok := v.(*zap.Logger); ok {
				log = l
			}
		}
		log.Error("panic recovered", zap.Any("panic", recovered), zap.Stack("stack"))
		c.AbortWithStatusJSON(500, gin.H{"error_code": "internal_error", "message": "Não foi possível concluir a operação."})
	})
}
