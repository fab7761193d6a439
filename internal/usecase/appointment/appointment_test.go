package appointment

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func TestCreate_SetsDefaults(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.gw, lock.NewLocal(), nil, nil)

	ap, err := uc.Execute(context.Background(), f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.Status != "agendado" {
		t.Errorf("Status = %q, want agendado", ap.Status)
	}
	if ap.StartTime != "09:00:00" || ap.EndTime != "10:00:00" {
		t.Errorf("slot = %s-%s, want 09:00:00-10:00:00", ap.StartTime, ap.EndTime)
	}
	if ap.ServiceID == nil || *ap.ServiceID != f.service.ID {
		t.Errorf("primary service not set: %v", ap.ServiceID)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.gw, nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(*AppointmentInput)
		code   string
	}{
		{"missing name", func(in *AppointmentInput) { in.ClientName = " " }, "client_name_required"},
		{"missing phone", func(in *AppointmentInput) { in.ClientPhone = "" }, "client_phone_required"},
		{"missing date", func(in *AppointmentInput) { in.Date = "" }, "date_required"},
		{"missing time", func(in *AppointmentInput) { in.Time = "" }, "time_required"},
		{"no services", func(in *AppointmentInput) { in.ServiceIDs = nil }, "service_required"},
		{"bad date", func(in *AppointmentInput) { in.Date = "01/06/2024" }, "invalid_date"},
		{"bad time", func(in *AppointmentInput) { in.Time = "9h" }, "invalid_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("2024-06-01", "09:00", &f.staff.ID)
			tt.mutate(&in)

			_, err := uc.Execute(context.Background(), f.est, f.user, in)
			if !httperr.IsKind(err, httperr.KindValidation) || !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("expected validation %q, got %v", tt.code, err)
			}
		})
	}

	n, _ := f.gw.Appointments.Count(context.Background(), store.Eq("establishment_id", f.est))
	if n != 0 {
		t.Errorf("validation failures must not write, found %d rows", n)
	}
}

func TestCreate_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.gw, nil, nil, nil)

	in := f.input("2024-06-01", "09:00", &f.staff.ID)
	in.ServiceIDs = []uuid.UUID{uuid.New()}
	if _, err := uc.Execute(context.Background(), f.est, f.user, in); !httperr.IsBusiness(err, "service_not_found") {
		t.Errorf("expected service_not_found, got %v", err)
	}

	stranger := uuid.New()
	in = f.input("2024-06-01", "09:00", &stranger)
	if _, err := uc.Execute(context.Background(), f.est, f.user, in); !httperr.IsBusiness(err, "staff_not_found") {
		t.Errorf("expected staff_not_found, got %v", err)
	}
}

func TestCreate_BookingConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCreateAppointment(f.gw, lock.NewLocal(), nil, nil)

	if _, err := uc.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := uc.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00:00", &f.staff.ID))
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if n := f.countSlot(t, "2024-06-01", "09:00:00", f.staff.ID); n != 1 {
		t.Errorf("slot rows = %d, want 1", n)
	}

	// outro colaborador no mesmo horário não conflita
	if _, err := uc.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.other.ID)); err != nil {
		t.Errorf("parallel staff should be allowed: %v", err)
	}

	// sem colaborador não existe exclusividade
	for i := 0; i < 2; i++ {
		if _, err := uc.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", nil)); err != nil {
			t.Errorf("create without staff #%d: %v", i, err)
		}
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	lockers := map[string]lock.Locker{
		"local lock": lock.NewLocal(),
		// sem lock, o índice único ainda segura a segunda gravação
		"no lock": lock.Noop{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			uc := NewCreateAppointment(f.gw, locker, nil, nil)

			const workers = 16
			var wg sync.WaitGroup
			var mu sync.Mutex
			var ok, conflicts int

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := uc.Execute(context.Background(), f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))

					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						ok++
					case httperr.IsKind(err, httperr.KindConflict):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			if ok != 1 || conflicts != workers-1 {
				t.Errorf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, workers-1)
			}
			if n := f.countSlot(t, "2024-06-01", "09:00:00", f.staff.ID); n != 1 {
				t.Errorf("slot rows = %d, want 1", n)
			}
		})
	}
}

func TestEdit_OwnSlotDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)
	edit := NewEditAppointment(f.gw, nil, nil)

	ap, err := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := f.input("2024-06-01", "09:00", &f.staff.ID)
	in.ClientName = "Ana Paula"
	in.Notes = "trazer referência"
	in.EndTime = "09:45"

	got, err := edit.Execute(ctx, f.est, f.user, ap.ID, in)
	if err != nil {
		t.Fatalf("edit own slot: %v", err)
	}
	if got.ClientName != "Ana Paula" || got.EndTime != "09:45:00" || got.Status != "agendado" {
		t.Errorf("unexpected row after edit: %+v", got)
	}

	// sem término informado e início igual, mantém o término editado
	in.EndTime = ""
	got, err = edit.Execute(ctx, f.est, f.user, ap.ID, in)
	if err != nil {
		t.Fatalf("second edit: %v", err)
	}
	if got.EndTime != "09:45:00" {
		t.Errorf("EndTime = %q, want 09:45:00", got.EndTime)
	}
}

func TestEdit_MoveIntoTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)
	edit := NewEditAppointment(f.gw, lock.NewLocal(), nil)

	if _, err := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID)); err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "10:00", &f.staff.ID))
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	_, err = edit.Execute(ctx, f.est, f.user, b.ID, f.input("2024-06-01", "09:00", &f.staff.ID))
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, _ := loadAppointment(ctx, f.gw, f.est, b.ID)
	if stored.StartTime != "10:00:00" {
		t.Errorf("conflicting edit must not write, start = %s", stored.StartTime)
	}

	// novo início recalcula o término padrão
	got, err := edit.Execute(ctx, f.est, f.user, b.ID, f.input("2024-06-01", "11:00", &f.staff.ID))
	if err != nil {
		t.Fatalf("move to free slot: %v", err)
	}
	if got.EndTime != "12:00:00" {
		t.Errorf("EndTime = %q, want 12:00:00", got.EndTime)
	}
}

func TestCancel_IsRepeatableAndFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)
	cancel := NewCancelAppointment(f.gw, nil)

	ap, err := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := cancel.Execute(ctx, f.est, f.user, ap.ID)
		if err != nil {
			t.Fatalf("cancel #%d: %v", i, err)
		}
		if got.Status != "cancelado" {
			t.Errorf("Status = %q", got.Status)
		}
	}

	if _, err := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID)); err != nil {
		t.Errorf("cancelled slot should be bookable again: %v", err)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)
	complete := NewCompleteAppointment(f.gw, nil)
	cancel := NewCancelAppointment(f.gw, nil)

	ap, _ := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))
	got, err := complete.Execute(ctx, f.est, f.user, ap.ID)
	if err != nil || got.Status != "concluido" {
		t.Fatalf("complete = %+v, %v", got, err)
	}

	if _, err := cancel.Execute(ctx, f.est, f.user, ap.ID); !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Errorf("cancelling a completed appointment should fail, got %v", err)
	}

	if _, err := complete.Execute(ctx, f.est, f.user, uuid.New()); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)
	del := NewDeleteAppointment(f.gw, nil)

	converted, _ := create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))
	if err := f.gw.ServiceRecords.Insert(ctx, &models.ServiceRecord{
		EstablishmentID: f.est,
		AppointmentID:   &converted.ID,
		ClientName:      "Ana",
		ServiceDate:     "2024-06-01",
		StartTime:       "09:00:00",
		Status:          "em_andamento",
		Origin:          "agendamento",
	}); err != nil {
		t.Fatalf("insert record: %v", err)
	}

	err := del.Execute(ctx, f.est, f.user, converted.ID)
	if !httperr.IsKind(err, httperr.KindConversionExists) {
		t.Fatalf("expected conversion_exists, got %v", err)
	}
	stored, _ := loadAppointment(ctx, f.gw, f.est, converted.ID)
	if stored == nil || stored.Status != converted.Status || stored.StartTime != converted.StartTime {
		t.Fatalf("appointment changed after blocked delete: %+v", stored)
	}

	plain, _ := create.Execute(ctx, f.est, f.user, f.input("2024-06-02", "09:00", &f.staff.ID))
	if err := del.Execute(ctx, f.est, f.user, plain.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := loadAppointment(ctx, f.gw, f.est, plain.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("expected row to be gone, got %v", err)
	}

	done, _ := create.Execute(ctx, f.est, f.user, f.input("2024-06-03", "09:00", &f.staff.ID))
	_, _ = NewCompleteAppointment(f.gw, nil).Execute(ctx, f.est, f.user, done.ID)
	if err := del.Execute(ctx, f.est, f.user, done.ID); !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Errorf("expected invalid_state for completed appointment, got %v", err)
	}
}

func TestEstablishmentScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, _ := NewCreateAppointment(f.gw, nil, nil, nil).Execute(ctx, f.est, f.user, f.input("2024-06-01", "09:00", &f.staff.ID))

	_, err := NewCancelAppointment(f.gw, nil).Execute(ctx, uuid.New(), f.user, ap.ID)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("other establishment must not see the appointment, got %v", err)
	}
}

func TestListByDateAndMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateAppointment(f.gw, nil, nil, nil)

	_, _ = create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "10:00", &f.staff.ID))
	_, _ = create.Execute(ctx, f.est, f.user, f.input("2024-06-01", "08:00", &f.other.ID))
	_, _ = create.Execute(ctx, f.est, f.user, f.input("2024-06-20", "08:00", nil))
	_, _ = create.Execute(ctx, f.est, f.user, f.input("2024-07-01", "08:00", nil))

	day, err := NewListAppointmentsByDate(f.gw).Execute(ctx, f.est, "2024-06-01", nil)
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(day) != 2 || day[0].StartTime != "08:00:00" || day[0].StaffName != "Carla" || day[1].ServiceName != "Corte" {
		t.Fatalf("unexpected day list: %+v", day)
	}

	onlyBruno, _ := NewListAppointmentsByDate(f.gw).Execute(ctx, f.est, "2024-06-01", &f.staff.ID)
	if len(onlyBruno) != 1 || onlyBruno[0].StaffName != "Bruno" {
		t.Errorf("staff filter failed: %+v", onlyBruno)
	}

	month, err := NewListAppointmentsByMonth(f.gw).Execute(ctx, f.est, "2024-06", nil)
	if err != nil {
		t.Fatalf("by month: %v", err)
	}
	if len(month) != 3 {
		t.Errorf("month list = %d items, want 3", len(month))
	}

	if _, err := NewListAppointmentsByMonth(f.gw).Execute(ctx, f.est, "junho", nil); !httperr.IsKind(err, httperr.KindValidation) {
		t.Errorf("expected validation error for bad month, got %v", err)
	}
}

func TestRenderMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, _ := NewCreateAppointment(f.gw, nil, nil, nil).Execute(ctx, f.est, f.user, f.input("2024-06-01", "14:30", &f.staff.ID))

	uc := NewRenderMessage(f.gw)
	got, err := uc.Execute(ctx, f.est, ap.ID)
	if err != nil {
		t.Fatalf("render default: %v", err)
	}
	for _, want := range []string{"Ana", "01/06/2024", "14:30", "Corte", "Bruno", "Studio Centro"} {
		if !strings.Contains(got, want) {
			t.Errorf("default message missing %q", want)
		}
	}

	if err := f.gw.Settings.Insert(ctx, &models.EstablishmentSettings{
		EstablishmentID: f.est,
		MessageTemplate: "{NOME_CLIENTE} - {HORARIO_AGENDAMENTO}",
	}); err != nil {
		t.Fatalf("insert settings: %v", err)
	}

	got, _ = uc.Execute(ctx, f.est, ap.ID)
	if got != "Ana - 14:30" {
		t.Errorf("custom render = %q, want %q", got, "Ana - 14:30")
	}
}
