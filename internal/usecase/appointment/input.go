package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// INPUT
// ======================================================

type AppointmentInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string
	Time string
	// EndTime só é usado na edição; na criação vale início + 1h.
	EndTime string

	// O primeiro serviço vira o serviço principal do agendamento.
	ServiceIDs []uuid.UUID
	StaffID    *uuid.UUID

	Notes string
}

type slot struct {
	Date  string
	Start string
	End   string
}

// validate confere os campos obrigatórios e normaliza data e horários.
func (in AppointmentInput) validate() (slot, error) {
	switch {
	case strings.TrimSpace(in.ClientName) == "":
		return slot{}, httperr.Validation("client_name_required")
	case strings.TrimSpace(in.ClientPhone) == "":
		return slot{}, httperr.Validation("client_phone_required")
	case strings.TrimSpace(in.Date) == "":
		return slot{}, httperr.Validation("date_required")
	case strings.TrimSpace(in.Time) == "":
		return slot{}, httperr.Validation("time_required")
	case len(in.ServiceIDs) == 0:
		return slot{}, httperr.Validation("service_required")
	}

	d, err := domain.ParseDate(in.Date)
	if err != nil {
		return slot{}, err
	}
	start, err := domain.ParseClock(in.Time)
	if err != nil {
		return slot{}, err
	}

	var end string
	if strings.TrimSpace(in.EndTime) != "" {
		if end, err = domain.ParseClock(in.EndTime); err != nil {
			return slot{}, err
		}
	} else if end, err = domain.EndFor(start); err != nil {
		return slot{}, err
	}

	return slot{Date: d.Format(domain.DateLayout), Start: start, End: end}, nil
}

func (in AppointmentInput) primaryService() *uuid.UUID {
	id := in.ServiceIDs[0]
	return &id
}

func (in AppointmentInput) staff() *uuid.UUID {
	if in.StaffID == nil || *in.StaffID == uuid.Nil {
		return nil
	}
	id := *in.StaffID
	return &id
}

// ======================================================
// LOOKUPS
// ======================================================

func loadAppointment(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {
	ap, err := gw.Appointments.First(ctx, store.Where(
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_appointment", err)
	}
	if ap == nil {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return ap, nil
}

// ensureReferences confirma que serviços e colaborador existem no
// estabelecimento antes de qualquer escrita.
func ensureReferences(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	serviceIDs []uuid.UUID,
	staffID *uuid.UUID,
) error {
	n, err := gw.Services.Count(ctx,
		store.Eq("establishment_id", establishmentID),
		store.In("id", serviceIDs),
	)
	if err != nil {
		return httperr.Store("failed_to_load_services", err)
	}
	if int(n) != len(uniqueIDs(serviceIDs)) {
		return httperr.NotFoundErr("service_not_found")
	}

	if staffID == nil {
		return nil
	}
	ok, err := store.Exists(ctx, gw.Staff,
		store.Eq("establishment_id", establishmentID),
		store.Eq("id", *staffID),
	)
	if err != nil {
		return httperr.Store("failed_to_load_staff", err)
	}
	if !ok {
		return httperr.NotFoundErr("staff_not_found")
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameStaff(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
