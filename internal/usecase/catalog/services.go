package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// INPUT
// ======================================================

type ServiceInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	DurationMin *int
	Favorite    *bool
}

func (in ServiceInput) validate(creating bool) error {
	if creating && (in.Name == nil || strings.TrimSpace(*in.Name) == "") {
		return httperr.Validation("service_name_required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return httperr.Validation("service_name_required")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return httperr.Validation("invalid_price")
	}
	if in.DurationMin != nil && *in.DurationMin <= 0 {
		return httperr.Validation("invalid_duration")
	}
	return nil
}

func (in ServiceInput) patch() map[string]any {
	p := map[string]any{}
	if in.Name != nil {
		p["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p["description"] = *in.Description
	}
	if in.Price != nil {
		p["price"] = decimal.NewNullDecimal(in.Price.Round(2))
	}
	if in.DurationMin != nil {
		p["duration_min"] = in.DurationMin
	}
	if in.Favorite != nil {
		p["favorite"] = *in.Favorite
	}
	return p
}

// ======================================================
// USE CASE
// ======================================================

// Services concentra o CRUD do catálogo.
type Services struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
}

func NewServices(gw *store.Gateway, audit *audit.Dispatcher) *Services {
	return &Services{gw: gw, audit: audit}
}

// List devolve favoritos primeiro e depois por nome.
func (uc *Services) List(ctx context.Context, establishmentID uuid.UUID, query string) ([]models.Service, error) {
	filters := []store.Filter{store.Eq("establishment_id", establishmentID)}
	if q := strings.TrimSpace(query); q != "" {
		filters = append(filters, store.ILike("name", q))
	}

	rows, err := uc.gw.Services.Select(ctx, store.Where(filters...))
	if err != nil {
		return nil, httperr.Store("failed_to_list_services", err)
	}

	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Favorite != rows[j].Favorite {
			return rows[i].Favorite
		}
		return col.CompareString(rows[i].Name, rows[j].Name) < 0
	})

	if rows == nil {
		rows = []models.Service{}
	}
	return rows, nil
}

func (uc *Services) Create(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	in ServiceInput,
) (*models.Service, error) {

	if err := in.validate(true); err != nil {
		return nil, err
	}

	svc := &models.Service{
		EstablishmentID: establishmentID,
		Name:            strings.TrimSpace(*in.Name),
		DurationMin:     in.DurationMin,
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Price != nil {
		svc.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}
	if in.Favorite != nil {
		svc.Favorite = *in.Favorite
	}

	if err := uc.gw.Services.Insert(ctx, svc); err != nil {
		return nil, httperr.Store("failed_to_create_service", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_created",
		Entity:          "service",
		EntityID:        &svc.ID,
	})

	return svc, nil
}

// Update altera só os campos informados. Preços já congelados em
// atendimentos não mudam.
func (uc *Services) Update(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
	in ServiceInput,
) (*models.Service, error) {

	if err := in.validate(false); err != nil {
		return nil, err
	}

	scope := []store.Filter{store.Eq("id", id), store.Eq("establishment_id", establishmentID)}

	if patch := in.patch(); len(patch) > 0 {
		n, err := uc.gw.Services.Update(ctx, patch, scope...)
		if err != nil {
			return nil, httperr.Store("failed_to_update_service", err)
		}
		if n == 0 {
			return nil, httperr.NotFoundErr("service_not_found")
		}
	}

	svc, err := uc.gw.Services.First(ctx, store.Where(scope...))
	if err != nil {
		return nil, httperr.Store("failed_to_load_service", err)
	}
	if svc == nil {
		return nil, httperr.NotFoundErr("service_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_updated",
		Entity:          "service",
		EntityID:        &svc.ID,
	})

	return svc, nil
}

// Delete remove o serviço e as preferências que apontam para ele.
// Atendimentos antigos mantêm seus itens com o preço congelado.
func (uc *Services) Delete(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
) error {

	n, err := uc.gw.Services.Delete(ctx,
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	)
	if err != nil {
		return httperr.Store("failed_to_delete_service", err)
	}
	if n == 0 {
		return httperr.NotFoundErr("service_not_found")
	}

	if _, err := uc.gw.StaffPreferences.Delete(ctx, store.Eq("service_id", id)); err != nil {
		return httperr.Store("failed_to_delete_preferences", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_deleted",
		Entity:          "service",
		EntityID:        &id,
	})

	return nil
}
