package establishment

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/timezone"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/media"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/validators"
)

type UpdateInput struct {
	Name         *string
	Phone        *string
	Address      *string
	BusinessLine *int
	Timezone     *string
}

type Profile struct {
	gw       *store.Gateway
	uploader *media.Uploader
	audit    *audit.Dispatcher
}

func NewProfile(gw *store.Gateway, uploader *media.Uploader, audit *audit.Dispatcher) *Profile {
	return &Profile{gw: gw, uploader: uploader, audit: audit}
}

func (uc *Profile) Get(ctx context.Context, establishmentID uuid.UUID) (*models.Establishment, error) {
	est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", establishmentID)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_establishment", err)
	}
	if est == nil {
		return nil, httperr.NotFoundErr("establishment_not_found")
	}
	return est, nil
}

func (uc *Profile) Update(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	in UpdateInput,
) (*models.Establishment, error) {

	patch := map[string]any{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, httperr.Validation("establishment_name_required")
		}
		patch["name"] = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !validators.IsPhoneValid(phone) {
			return nil, httperr.Validation("invalid_phone")
		}
		patch["phone"] = phone
	}
	if in.Address != nil {
		patch["address"] = strings.TrimSpace(*in.Address)
	}
	if in.BusinessLine != nil {
		if _, ok := catalog.Find(*in.BusinessLine); !ok {
			return nil, httperr.Validation("invalid_business_line")
		}
		patch["business_line"] = *in.BusinessLine
	}
	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			return nil, httperr.Validation("invalid_timezone")
		}
		patch["timezone"] = *in.Timezone
	}

	if len(patch) > 0 {
		n, err := uc.gw.Establishments.Update(ctx, patch, store.Eq("id", establishmentID))
		if err != nil {
			return nil, httperr.Store("failed_to_update_establishment", err)
		}
		if n == 0 {
			return nil, httperr.NotFoundErr("establishment_not_found")
		}

		uc.audit.Dispatch(audit.Event{
			EstablishmentID: establishmentID,
			UserID:          &userID,
			Action:          "establishment_updated",
			Entity:          "establishment",
			EntityID:        &establishmentID,
			Metadata:        keys(patch),
		})
	}

	return uc.Get(ctx, establishmentID)
}

func (uc *Profile) UploadLogo(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	image io.Reader,
) (*models.Establishment, error) {

	if _, err := uc.Get(ctx, establishmentID); err != nil {
		return nil, err
	}

	url, err := uc.uploader.Image(ctx, media.KindLogo, establishmentID, establishmentID, image)
	if err != nil {
		return nil, err
	}

	if _, err := uc.gw.Establishments.Update(ctx,
		map[string]any{"logo_url": url},
		store.Eq("id", establishmentID),
	); err != nil {
		return nil, httperr.Store("failed_to_update_establishment", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "establishment_logo_updated",
		Entity:          "establishment",
		EntityID:        &establishmentID,
	})

	return uc.Get(ctx, establishmentID)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
