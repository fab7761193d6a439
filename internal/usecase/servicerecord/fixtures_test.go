package servicerecord

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type fixture struct {
	gw    *store.Gateway
	est   uuid.UUID
	user  uuid.UUID
	s1    models.Service
	s2    models.Service
	free  models.Service
	staff models.Staff
	other models.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	gw := store.NewMemoryGateway()

	est := &models.Establishment{Name: "Studio Centro", Timezone: "America/Sao_Paulo"}
	if err := gw.Establishments.Insert(ctx, est); err != nil {
		t.Fatalf("insert establishment: %v", err)
	}

	s1 := &models.Service{EstablishmentID: est.ID, Name: "Corte", Price: decimal.NewNullDecimal(decimal.NewFromInt(50))}
	s2 := &models.Service{EstablishmentID: est.ID, Name: "Barba", Price: decimal.NewNullDecimal(decimal.NewFromInt(30))}
	free := &models.Service{EstablishmentID: est.ID, Name: "Avaliação"}
	if err := gw.Services.Insert(ctx, s1, s2, free); err != nil {
		t.Fatalf("insert services: %v", err)
	}

	staff := &models.Staff{EstablishmentID: est.ID, Name: "Bruno"}
	other := &models.Staff{EstablishmentID: est.ID, Name: "Carla"}
	if err := gw.Staff.Insert(ctx, staff, other); err != nil {
		t.Fatalf("insert staff: %v", err)
	}

	return &fixture{gw: gw, est: est.ID, user: uuid.New(), s1: *s1, s2: *s2, free: *free, staff: *staff, other: *other}
}

func (f *fixture) appointment(t *testing.T, start string) models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		EstablishmentID: f.est,
		ClientName:      "Ana",
		ClientPhone:     "11987654321",
		AppointmentDate: "2024-06-01",
		StartTime:       start,
		EndTime:         "10:00:00",
		ServiceID:       &f.s1.ID,
		StaffID:         &f.staff.ID,
		Status:          "agendado",
	}
	if err := f.gw.Appointments.Insert(context.Background(), ap); err != nil {
		t.Fatalf("insert appointment: %v", err)
	}
	return *ap
}

func (f *fixture) appointmentStatus(t *testing.T, id uuid.UUID) string {
	t.Helper()
	ap, err := f.gw.Appointments.First(context.Background(), store.Where(store.Eq("id", id)))
	if err != nil || ap == nil {
		t.Fatalf("load appointment: %v", err)
	}
	return ap.Status
}

func (f *fixture) record(t *testing.T, id uuid.UUID) models.ServiceRecord {
	t.Helper()
	rec, err := f.gw.ServiceRecords.First(context.Background(), store.Where(store.Eq("id", id)))
	if err != nil || rec == nil {
		t.Fatalf("load record: %v", err)
	}
	return *rec
}

func (f *fixture) setPrice(t *testing.T, id uuid.UUID, price int64) {
	t.Helper()
	if _, err := f.gw.Services.Update(context.Background(),
		map[string]any{"price": decimal.NewNullDecimal(decimal.NewFromInt(price))},
		store.Eq("id", id),
	); err != nil {
		t.Fatalf("update price: %v", err)
	}
}

var errInjected = errors.New("injected failure")

// failingTable falha nas operações marcadas e delega o resto.
type failingTable[T any] struct {
	store.Table[T]
	failInsert bool
	failUpdate bool
}

func (t *failingTable[T]) Insert(ctx context.Context, rows ...*T) error {
	if t.failInsert {
		return &store.Error{Code: store.CodeUnknown, Table: t.Name(), Op: "insert", Err: errInjected}
	}
	return t.Table.Insert(ctx, rows...)
}

func (t *failingTable[T]) Update(ctx context.Context, patch map[string]any, filters ...store.Filter) (int64, error) {
	if t.failUpdate {
		return 0, &store.Error{Code: store.CodeUnknown, Table: t.Name(), Op: "update", Err: errInjected}
	}
	return t.Table.Update(ctx, patch, filters...)
}
