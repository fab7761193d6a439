package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/auth"
)

func newEngine(iss *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/secure", AuthMiddleware(iss), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"establishment": EstablishmentID(c).String(),
			"user":          UserID(c).String(),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	iss := auth.NewIssuer("segredo", time.Hour)
	r := newEngine(iss)

	good, _ := iss.Issue(auth.Claims{UserID: uuid.New(), EstablishmentID: uuid.New(), Role: "owner"})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"ok", "Bearer " + good, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if w.Header().Get(HeaderRequestID) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(auth.NewIssuer("segredo", time.Hour))

	tests := []struct {
		origin string
		allow  string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/secure", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.allow {
				t.Errorf("allow origin = %q, want %q", got, tt.allow)
			}
		})
	}
}
