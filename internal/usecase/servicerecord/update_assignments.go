package servicerecord

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/saga"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// SERVICES
// ======================================================

// UpdateServices troca a lista inteira de serviços do atendimento: apaga
// os itens e grava de novo. Com resnapshot ligado, todos os preços são
// relidos do catálogo; desligado, serviços que já estavam no atendimento
// mantêm o preço congelado.
type UpdateServices struct {
	gw         *store.Gateway
	resnapshot bool
	audit      *audit.Dispatcher
	log        *zap.Logger
}

func NewUpdateServices(
	gw *store.Gateway,
	resnapshot bool,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UpdateServices {
	return &UpdateServices{
		gw:         gw,
		resnapshot: resnapshot,
		audit:      audit,
		log:        logger.OrNop(log),
	}
}

func (uc *UpdateServices) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	recordID uuid.UUID,
	serviceIDs []uuid.UUID,
) (*models.ServiceRecord, error) {

	rec, status, err := loadRecord(ctx, uc.gw, establishmentID, recordID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(status); err != nil {
		return nil, err
	}

	old, err := uc.gw.RecordServices.Select(ctx, store.Where(store.Eq("service_record_id", rec.ID)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_service_lines", err)
	}

	var keep map[uuid.UUID]decimal.Decimal
	if !uc.resnapshot {
		keep = make(map[uuid.UUID]decimal.Decimal, len(old))
		for _, it := range old {
			keep[it.ServiceID] = it.Price
		}
	}

	serviceIDs = dedupe(serviceIDs)
	items, err := snapshotPrices(ctx, uc.gw, establishmentID, rec.ID, serviceIDs, keep)
	if err != nil {
		return nil, err
	}
	total := domain.Total(items)
	oldTotal := rec.TotalValue

	s := saga.New("update_service_lines", uc.log).
		Add("delete_old_lines",
			func(ctx context.Context) error {
				_, err := uc.gw.RecordServices.Delete(ctx, store.Eq("service_record_id", rec.ID))
				return err
			},
			func(ctx context.Context) error {
				return uc.gw.RecordServices.Insert(ctx, ptrs(old)...)
			},
		).
		Add("insert_new_lines",
			func(ctx context.Context) error {
				return uc.gw.RecordServices.Insert(ctx, ptrs(items)...)
			},
			func(ctx context.Context) error {
				ids := idsOf(items, func(it *models.ServiceRecordService) uuid.UUID { return it.ID })
				if len(ids) == 0 {
					return nil
				}
				_, err := uc.gw.RecordServices.Delete(ctx, store.In("id", ids))
				return err
			},
		).
		Add("update_total",
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Update(ctx,
					map[string]any{"total_value": total},
					recordScope(establishmentID, rec.ID)...,
				)
				return err
			},
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Update(ctx,
					map[string]any{"total_value": oldTotal},
					recordScope(establishmentID, rec.ID)...,
				)
				return err
			},
		)

	if err := s.Run(ctx); err != nil {
		return nil, sagaError("failed_to_update_services", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_record_services_updated",
		Entity:          "service_record",
		EntityID:        &rec.ID,
		Metadata:        map[string]any{"services": len(items), "total": total.StringFixed(2)},
	})

	rec.TotalValue = total
	return rec, nil
}

// ======================================================
// STAFF
// ======================================================

// UpdateStaff troca a lista inteira de colaboradores do atendimento.
type UpdateStaff struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewUpdateStaff(
	gw *store.Gateway,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UpdateStaff {
	return &UpdateStaff{
		gw:    gw,
		audit: audit,
		log:   logger.OrNop(log),
	}
}

func (uc *UpdateStaff) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	recordID uuid.UUID,
	staffIDs []uuid.UUID,
) error {

	rec, status, err := loadRecord(ctx, uc.gw, establishmentID, recordID)
	if err != nil {
		return err
	}
	if err := domain.CanEdit(status); err != nil {
		return err
	}

	staffIDs = dedupe(staffIDs)
	if err := ensureStaff(ctx, uc.gw, establishmentID, staffIDs); err != nil {
		return err
	}

	old, err := uc.gw.RecordStaff.Select(ctx, store.Where(store.Eq("service_record_id", rec.ID)))
	if err != nil {
		return httperr.Store("failed_to_load_staff_assignments", err)
	}
	rows := staffRows(rec.ID, staffIDs)

	s := saga.New("update_staff_assignments", uc.log).
		Add("delete_old_assignments",
			func(ctx context.Context) error {
				_, err := uc.gw.RecordStaff.Delete(ctx, store.Eq("service_record_id", rec.ID))
				return err
			},
			func(ctx context.Context) error {
				return uc.gw.RecordStaff.Insert(ctx, ptrs(old)...)
			},
		).
		Add("insert_new_assignments",
			func(ctx context.Context) error {
				return uc.gw.RecordStaff.Insert(ctx, ptrs(rows)...)
			},
			nil,
		)

	if err := s.Run(ctx); err != nil {
		return sagaError("failed_to_update_staff", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_record_staff_updated",
		Entity:          "service_record",
		EntityID:        &rec.ID,
		Metadata:        map[string]any{"staff": len(rows)},
	})

	return nil
}
