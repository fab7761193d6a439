package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type fixture struct {
	gw      *store.Gateway
	est     uuid.UUID
	user    uuid.UUID
	service models.Service
	staff   models.Staff
	other   models.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	gw := store.NewMemoryGateway()

	est := &models.Establishment{Name: "Studio Centro", Timezone: "America/Sao_Paulo"}
	if err := gw.Establishments.Insert(ctx, est); err != nil {
		t.Fatalf("insert establishment: %v", err)
	}

	svc := &models.Service{
		EstablishmentID: est.ID,
		Name:            "Corte",
		Price:           decimal.NewNullDecimal(decimal.NewFromInt(50)),
	}
	if err := gw.Services.Insert(ctx, svc); err != nil {
		t.Fatalf("insert service: %v", err)
	}

	staff := &models.Staff{EstablishmentID: est.ID, Name: "Bruno"}
	other := &models.Staff{EstablishmentID: est.ID, Name: "Carla"}
	if err := gw.Staff.Insert(ctx, staff, other); err != nil {
		t.Fatalf("insert staff: %v", err)
	}

	return &fixture{
		gw:      gw,
		est:     est.ID,
		user:    uuid.New(),
		service: *svc,
		staff:   *staff,
		other:   *other,
	}
}

func (f *fixture) input(date, clock string, staffID *uuid.UUID) AppointmentInput {
	return AppointmentInput{
		ClientName:  "Ana",
		ClientPhone: "11987654321",
		Date:        date,
		Time:        clock,
		ServiceIDs:  []uuid.UUID{f.service.ID},
		StaffID:     staffID,
	}
}

func (f *fixture) countSlot(t *testing.T, date, start string, staffID uuid.UUID) int64 {
	t.Helper()
	n, err := f.gw.Appointments.Count(context.Background(),
		store.Eq("appointment_date", date),
		store.Eq("start_time", start),
		store.Eq("staff_id", staffID),
		store.Neq("status", "cancelado"),
	)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
