package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/auth"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/blob"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/config"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type api struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:  &config.Config{ResnapshotPricesOnEdit: true},
		Gateway: store.NewMemoryGateway(),
		Locker:  lock.NewLocal(),
		Storage: blob.Disabled{},
		Tokens:  auth.NewIssuer("test-secret", auth.DefaultTTL),
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("%s %s: invalid json %q", method, path, w.Body.String())
		}
	}
	return w.Code, out
}

func (a *api) must(status int, method, path string, body any) map[string]any {
	a.t.Helper()
	code, out := a.do(method, path, body)
	if code != status {
		a.t.Fatalf("%s %s = %d, want %d (%v)", method, path, code, status, out)
	}
	return out
}

func (a *api) register() {
	a.t.Helper()
	out := a.must(http.StatusCreated, http.MethodPost, "/api/auth/register", map[string]any{
		"establishment_name": "Oficina do Zé",
		"name":               "José",
		"email":              "ze@oficina.com.br",
		"password":           "segredo123",
	})
	token, _ := out["token"].(string)
	if token == "" {
		a.t.Fatalf("register returned no token: %v", out)
	}
	a.token = token
}

func TestAPI_Health(t *testing.T) {
	a := newAPI(t)
	out := a.must(http.StatusOK, http.MethodGet, "/health", nil)
	if out["status"] != "ok" {
		t.Errorf("health = %v", out)
	}
}

func TestAPI_BusinessLinesArePublic(t *testing.T) {
	a := newAPI(t)
	out := a.must(http.StatusOK, http.MethodGet, "/api/business-lines", nil)
	if out["total"] != float64(9) {
		t.Errorf("total = %v, want 9", out["total"])
	}
}

func TestAPI_Auth(t *testing.T) {
	a := newAPI(t)

	code, out := a.do(http.MethodGet, "/api/me", nil)
	if code != http.StatusUnauthorized || out["error_code"] != "missing_authorization_header" {
		t.Fatalf("GET /api/me without token = %d %v", code, out)
	}

	a.token = "not-a-jwt"
	if code, _ := a.do(http.MethodGet, "/api/me", nil); code != http.StatusUnauthorized {
		t.Fatalf("GET /api/me with bad token = %d", code)
	}
	a.token = ""

	a.register()
	me := a.must(http.StatusOK, http.MethodGet, "/api/me", nil)
	est, _ := me["establishment"].(map[string]any)
	if est["name"] != "Oficina do Zé" {
		t.Errorf("establishment = %v", est)
	}

	a.token = ""
	code, out = a.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ze@oficina.com.br",
		"password": "errada",
	})
	if code != http.StatusUnauthorized || out["error_code"] != "invalid_credentials" {
		t.Fatalf("login with wrong password = %d %v", code, out)
	}

	out = a.must(http.StatusOK, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ZE@oficina.com.br",
		"password": "segredo123",
	})
	if out["token"] == "" {
		t.Error("login returned no token")
	}

	code, out = a.do(http.MethodPost, "/api/auth/register", map[string]any{
		"establishment_name": "Outra",
		"name":               "Outro",
		"email":              "ze@oficina.com.br",
		"password":           "segredo123",
	})
	if code != http.StatusConflict || out["error_code"] != "email_already_registered" {
		t.Errorf("duplicate register = %d %v", code, out)
	}
}

func TestAPI_InvalidPathID(t *testing.T) {
	a := newAPI(t)
	a.register()

	code, out := a.do(http.MethodPatch, "/api/me/appointments/abc/cancel", nil)
	if code != http.StatusBadRequest || out["error_code"] != "invalid_id" {
		t.Errorf("cancel with bad id = %d %v", code, out)
	}
}

func TestAPI_AppointmentToServiceRecord(t *testing.T) {
	a := newAPI(t)
	a.register()

	svc := a.must(http.StatusCreated, http.MethodPost, "/api/me/services", map[string]any{
		"name":  "Troca de óleo",
		"price": 50,
	})
	member := a.must(http.StatusCreated, http.MethodPost, "/api/me/staff", map[string]any{
		"name": "Bruno",
	})

	booking := map[string]any{
		"client_name":  "Maria Souza",
		"client_phone": "11987654321",
		"date":         "2030-06-01",
		"time":         "10:00",
		"service_ids":  []any{svc["id"]},
		"staff_id":     member["id"],
	}

	ap := a.must(http.StatusCreated, http.MethodPost, "/api/me/appointments", booking)
	if ap["status"] != "agendado" || ap["end_time"] != "11:00:00" {
		t.Fatalf("created appointment = %v", ap)
	}
	apID := ap["id"].(string)

	// mesmo colaborador, mesmo horário
	code, out := a.do(http.MethodPost, "/api/me/appointments", booking)
	if code != http.StatusConflict || out["error_code"] != "slot_taken" {
		t.Fatalf("double booking = %d %v", code, out)
	}

	day := a.must(http.StatusOK, http.MethodGet, "/api/me/appointments?date=2030-06-01", nil)
	if day["total"] != float64(1) {
		t.Fatalf("day list total = %v", day["total"])
	}
	month := a.must(http.StatusOK, http.MethodGet, "/api/me/appointments/month?year=2030&month=6", nil)
	if month["total"] != float64(1) {
		t.Fatalf("month list total = %v", month["total"])
	}

	msg := a.must(http.StatusOK, http.MethodGet, "/api/me/appointments/"+apID+"/message", nil)
	if text, _ := msg["message"].(string); text == "" {
		t.Error("empty confirmation message")
	}

	check := a.must(http.StatusOK, http.MethodGet, "/api/me/appointments/"+apID+"/service-record", nil)
	if check["converted"] != false {
		t.Fatalf("converted before conversion: %v", check)
	}

	rec := a.must(http.StatusCreated, http.MethodPost, "/api/me/appointments/"+apID+"/service-record", map[string]any{})
	if rec["status"] != "em_andamento" || rec["origin"] != "agendamento" {
		t.Fatalf("service record = %v", rec)
	}
	recID := rec["id"].(string)

	check = a.must(http.StatusOK, http.MethodGet, "/api/me/appointments/"+apID+"/service-record", nil)
	if check["converted"] != true {
		t.Fatalf("converted after conversion: %v", check)
	}

	code, out = a.do(http.MethodDelete, "/api/me/appointments/"+apID, nil)
	if code != http.StatusConflict || out["error_code"] != "appointment_converted" {
		t.Fatalf("delete converted appointment = %d %v", code, out)
	}

	detail := a.must(http.StatusOK, http.MethodGet, "/api/me/service-records/"+recID, nil)
	if lines, _ := detail["services"].([]any); len(lines) != 1 {
		t.Fatalf("detail services = %v", detail["services"])
	}

	done := a.must(http.StatusOK, http.MethodPatch, "/api/me/service-records/"+recID+"/finalize", map[string]any{
		"end_time": "11:15",
	})
	if done["status"] != "finalizado" || done["end_time"] != "11:15:00" {
		t.Fatalf("finalized record = %v", done)
	}

	day = a.must(http.StatusOK, http.MethodGet, "/api/me/appointments?date=2030-06-01", nil)
	first := day["data"].([]any)[0].(map[string]any)
	if first["status"] != "concluido" {
		t.Errorf("appointment status after finalize = %v", first["status"])
	}

	clients := a.must(http.StatusOK, http.MethodGet, "/api/me/clients", nil)
	if clients["total"] != float64(1) {
		t.Errorf("clients total = %v", clients["total"])
	}
}

func TestAPI_CancelledRecordKeepsAppointmentConverted(t *testing.T) {
	a := newAPI(t)
	a.register()

	svc := a.must(http.StatusCreated, http.MethodPost, "/api/me/services", map[string]any{"name": "Alinhamento", "price": 80})
	member := a.must(http.StatusCreated, http.MethodPost, "/api/me/staff", map[string]any{"name": "Bruno"})
	ap := a.must(http.StatusCreated, http.MethodPost, "/api/me/appointments", map[string]any{
		"client_name":  "Maria Souza",
		"client_phone": "11987654321",
		"date":         "2030-06-01",
		"time":         "10:00",
		"service_ids":  []any{svc["id"]},
		"staff_id":     member["id"],
	})
	apID := ap["id"].(string)

	rec := a.must(http.StatusCreated, http.MethodPost, "/api/me/appointments/"+apID+"/service-record", map[string]any{})
	recID := rec["id"].(string)

	cancelled := a.must(http.StatusOK, http.MethodPatch, "/api/me/service-records/"+recID+"/cancel", map[string]any{
		"reason": "cliente desistiu",
	})
	if cancelled["status"] != "cancelado" {
		t.Fatalf("cancelled record = %v", cancelled)
	}

	// o histórico continua valendo, mas não há atendimento ativo
	check := a.must(http.StatusOK, http.MethodGet, "/api/me/appointments/"+apID+"/service-record", nil)
	if check["converted"] != true || check["service_record"] != nil {
		t.Fatalf("check after cancel = %v", check)
	}

	code, out := a.do(http.MethodDelete, "/api/me/appointments/"+apID, nil)
	if code != http.StatusConflict || out["error_code"] != "appointment_converted" {
		t.Fatalf("delete after cancel = %d %v", code, out)
	}
}

func TestAPI_UploadDisabled(t *testing.T) {
	a := newAPI(t)
	a.register()

	member := a.must(http.StatusCreated, http.MethodPost, "/api/me/staff", map[string]any{"name": "Carla"})

	// sem multipart
	code, out := a.do(http.MethodPost, "/api/me/staff/"+member["id"].(string)+"/photo", nil)
	if code != http.StatusBadRequest || out["error_code"] != "file_required" {
		t.Errorf("upload without file = %d %v", code, out)
	}
}
