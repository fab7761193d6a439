package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/message"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// RenderMessage monta o texto de confirmação do agendamento com o
// template do estabelecimento.
type RenderMessage struct {
	gw *store.Gateway
}

func NewRenderMessage(gw *store.Gateway) *RenderMessage {
	return &RenderMessage{gw: gw}
}

func (uc *RenderMessage) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
) (string, error) {

	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return "", err
	}

	est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", establishmentID)))
	if err != nil {
		return "", httperr.Store("failed_to_load_establishment", err)
	}
	var establishmentName string
	if est != nil {
		establishmentName = est.Name
	}

	settings, err := uc.gw.Settings.First(ctx, store.Where(store.Eq("establishment_id", establishmentID)))
	if err != nil {
		return "", httperr.Store("failed_to_load_settings", err)
	}
	var template string
	if settings != nil {
		template = settings.MessageTemplate
	}

	var serviceName, staffName string
	if ap.ServiceID != nil {
		svc, err := uc.gw.Services.First(ctx, store.Where(store.Eq("id", *ap.ServiceID)))
		if err != nil {
			return "", httperr.Store("failed_to_load_services", err)
		}
		if svc != nil {
			serviceName = svc.Name
		}
	}
	if ap.StaffID != nil {
		st, err := uc.gw.Staff.First(ctx, store.Where(store.Eq("id", *ap.StaffID)))
		if err != nil {
			return "", httperr.Store("failed_to_load_staff", err)
		}
		if st != nil {
			staffName = st.Name
		}
	}

	return message.Render(template, *ap, serviceName, staffName, establishmentName), nil
}
