package settings

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/message"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

const MaxTemplateLength = 4000

type TemplateView struct {
	Template  string             `json:"template"`
	Custom    bool               `json:"custom"`
	Variables []message.Variable `json:"variables"`
	Preview   string             `json:"preview"`
}

// MessageTemplate cuida do texto de confirmação salvo por estabelecimento.
type MessageTemplate struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
}

func NewMessageTemplate(gw *store.Gateway, audit *audit.Dispatcher) *MessageTemplate {
	return &MessageTemplate{gw: gw, audit: audit}
}

// Get devolve o template salvo ou o padrão.
func (uc *MessageTemplate) Get(ctx context.Context, establishmentID uuid.UUID) (*TemplateView, error) {
	row, err := uc.gw.Settings.First(ctx, store.Where(store.Eq("establishment_id", establishmentID)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_settings", err)
	}

	view := &TemplateView{Template: message.DefaultTemplate, Variables: message.Variables()}
	if row != nil && strings.TrimSpace(row.MessageTemplate) != "" {
		view.Template = row.MessageTemplate
		view.Custom = true
	}

	name, err := uc.establishmentName(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	view.Preview = message.Render(view.Template, sample(), "Corte de cabelo", "João", name)
	return view, nil
}

func (uc *MessageTemplate) Save(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	template string,
) (*TemplateView, error) {

	if strings.TrimSpace(template) == "" {
		return nil, httperr.Validation("template_required")
	}
	if utf8.RuneCountInString(template) > MaxTemplateLength {
		return nil, httperr.Validation("template_too_long")
	}

	n, err := uc.gw.Settings.Update(ctx,
		map[string]any{"message_template": template},
		store.Eq("establishment_id", establishmentID),
	)
	if err != nil {
		return nil, httperr.Store("failed_to_save_template", err)
	}
	if n == 0 {
		row := &models.EstablishmentSettings{EstablishmentID: establishmentID, MessageTemplate: template}
		if err := uc.gw.Settings.Insert(ctx, row); err != nil {
			return nil, httperr.Store("failed_to_save_template", err)
		}
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "message_template_saved",
		Entity:          "establishment_settings",
	})

	return uc.Get(ctx, establishmentID)
}

// Reset volta ao template padrão.
func (uc *MessageTemplate) Reset(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
) (*TemplateView, error) {

	if _, err := uc.gw.Settings.Update(ctx,
		map[string]any{"message_template": ""},
		store.Eq("establishment_id", establishmentID),
	); err != nil {
		return nil, httperr.Store("failed_to_reset_template", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "message_template_reset",
		Entity:          "establishment_settings",
	})

	return uc.Get(ctx, establishmentID)
}

func (uc *MessageTemplate) establishmentName(ctx context.Context, id uuid.UUID) (string, error) {
	est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", id)))
	if err != nil {
		return "", httperr.Store("failed_to_load_establishment", err)
	}
	if est == nil {
		return "", nil
	}
	return est.Name, nil
}

func sample() models.Appointment {
	return models.Appointment{
		ClientName:      "Maria Souza",
		ClientPhone:     "(11) 99999-0000",
		AppointmentDate: "2025-01-15",
		StartTime:       "14:30:00",
	}
}
