package staff

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/staff"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/saga"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/media"
)

// Directory reúne as operações sobre a equipe do estabelecimento.
type Directory struct {
	gw       *store.Gateway
	uploader *media.Uploader
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewDirectory(
	gw *store.Gateway,
	uploader *media.Uploader,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Directory {
	return &Directory{
		gw:       gw,
		uploader: uploader,
		audit:    audit,
		log:      logger.OrNop(log),
	}
}

// ======================================================
// LIST
// ======================================================

// List devolve a equipe em ordem alfabética com as preferências anexadas.
// Com serviços selecionados, quem tem preferência por algum deles vem
// primeiro.
func (uc *Directory) List(
	ctx context.Context,
	establishmentID uuid.UUID,
	selected []uuid.UUID,
) ([]models.Staff, error) {

	list, err := uc.gw.Staff.Select(ctx, store.Where(store.Eq("establishment_id", establishmentID)).
		OrderBy(store.Asc("name")))
	if err != nil {
		return nil, httperr.Store("failed_to_list_staff", err)
	}
	if len(list) == 0 {
		return []models.Staff{}, nil
	}

	ids := make([]uuid.UUID, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	prefs, err := uc.gw.StaffPreferences.Select(ctx, store.Where(store.In("staff_id", ids)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_preferences", err)
	}

	return domain.Rank(domain.AttachPreferences(list, prefs), selected), nil
}

// ======================================================
// CRUD
// ======================================================

func (uc *Directory) Create(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	name string,
) (*models.Staff, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httperr.Validation("staff_name_required")
	}

	s := &models.Staff{EstablishmentID: establishmentID, Name: name}
	if err := uc.gw.Staff.Insert(ctx, s); err != nil {
		return nil, httperr.Store("failed_to_create_staff", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "staff_created",
		Entity:          "staff",
		EntityID:        &s.ID,
	})
	return s, nil
}

func (uc *Directory) Rename(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
	name string,
) (*models.Staff, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httperr.Validation("staff_name_required")
	}

	if err := uc.setField(ctx, establishmentID, id, "name", name); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "staff_updated",
		Entity:          "staff",
		EntityID:        &id,
	})
	return uc.load(ctx, establishmentID, id)
}

// Delete remove o colaborador e suas preferências. Agendamentos e
// atendimentos antigos continuam apontando para o id.
func (uc *Directory) Delete(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
) error {

	n, err := uc.gw.Staff.Delete(ctx,
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	)
	if err != nil {
		return httperr.Store("failed_to_delete_staff", err)
	}
	if n == 0 {
		return httperr.NotFoundErr("staff_not_found")
	}

	if _, err := uc.gw.StaffPreferences.Delete(ctx, store.Eq("staff_id", id)); err != nil {
		uc.log.Warn("orphan staff preferences", zap.String("staff_id", id.String()), zap.Error(err))
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "staff_deleted",
		Entity:          "staff",
		EntityID:        &id,
	})
	return nil
}

// ======================================================
// PREFERENCES
// ======================================================

// SetPreferences troca todas as preferências do colaborador.
func (uc *Directory) SetPreferences(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
	serviceIDs []uuid.UUID,
) (*models.Staff, error) {

	// --------------------------------------------------
	// 1️⃣ Colaborador e serviços do mesmo estabelecimento
	// --------------------------------------------------
	s, err := uc.load(ctx, establishmentID, id)
	if err != nil {
		return nil, err
	}

	serviceIDs = unique(serviceIDs)
	if len(serviceIDs) > 0 {
		n, err := uc.gw.Services.Count(ctx,
			store.Eq("establishment_id", establishmentID),
			store.In("id", serviceIDs),
		)
		if err != nil {
			return nil, httperr.Store("failed_to_load_services", err)
		}
		if int(n) != len(serviceIDs) {
			return nil, httperr.NotFoundErr("service_not_found")
		}
	}

	// --------------------------------------------------
	// 2️⃣ Apaga e regrava
	// --------------------------------------------------
	old, err := uc.gw.StaffPreferences.Select(ctx, store.Where(store.Eq("staff_id", s.ID)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_preferences", err)
	}

	rows := make([]*models.StaffServicePreference, 0, len(serviceIDs))
	for _, sid := range serviceIDs {
		rows = append(rows, &models.StaffServicePreference{StaffID: s.ID, ServiceID: sid})
	}

	run := saga.New("set_staff_preferences", uc.log).
		Add("delete_old",
			func(ctx context.Context) error {
				_, err := uc.gw.StaffPreferences.Delete(ctx, store.Eq("staff_id", s.ID))
				return err
			},
			func(ctx context.Context) error {
				restore := make([]*models.StaffServicePreference, len(old))
				for i := range old {
					restore[i] = &old[i]
				}
				return uc.gw.StaffPreferences.Insert(ctx, restore...)
			},
		).
		Add("insert_new",
			func(ctx context.Context) error { return uc.gw.StaffPreferences.Insert(ctx, rows...) },
			nil,
		)

	if err := run.Run(ctx); err != nil {
		return nil, httperr.Store("failed_to_save_preferences", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "staff_preferences_updated",
		Entity:          "staff",
		EntityID:        &s.ID,
		Metadata:        map[string]any{"services": len(rows)},
	})

	s.Preferences = make([]models.StaffServicePreference, len(rows))
	for i, r := range rows {
		s.Preferences[i] = *r
	}
	return s, nil
}

// ======================================================
// PHOTO
// ======================================================

func (uc *Directory) UploadPhoto(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	id uuid.UUID,
	image io.Reader,
) (*models.Staff, error) {

	if _, err := uc.load(ctx, establishmentID, id); err != nil {
		return nil, err
	}

	url, err := uc.uploader.Image(ctx, media.KindStaffPhoto, establishmentID, id, image)
	if err != nil {
		return nil, err
	}

	if err := uc.setField(ctx, establishmentID, id, "photo_url", url); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "staff_photo_updated",
		Entity:          "staff",
		EntityID:        &id,
	})
	return uc.load(ctx, establishmentID, id)
}

// ======================================================
// HELPERS
// ======================================================

func (uc *Directory) load(ctx context.Context, establishmentID, id uuid.UUID) (*models.Staff, error) {
	s, err := uc.gw.Staff.First(ctx, store.Where(
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_staff", err)
	}
	if s == nil {
		return nil, httperr.NotFoundErr("staff_not_found")
	}
	return s, nil
}

func (uc *Directory) setField(ctx context.Context, establishmentID, id uuid.UUID, column string, value any) error {
	n, err := uc.gw.Staff.Update(ctx,
		map[string]any{column: value},
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	)
	if err != nil {
		return httperr.Store("failed_to_update_staff", err)
	}
	if n == 0 {
		return httperr.NotFoundErr("staff_not_found")
	}
	return nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
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
