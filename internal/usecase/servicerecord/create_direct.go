package servicerecord

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/saga"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type DirectInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string
	Time string

	ServiceIDs []uuid.UUID
	StaffIDs   []uuid.UUID
	Notes      string
}

// CreateDirect abre um atendimento sem agendamento prévio (cliente que
// chegou sem marcar).
type CreateDirect struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewCreateDirect(
	gw *store.Gateway,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateDirect {
	return &CreateDirect{
		gw:    gw,
		audit: audit,
		log:   logger.OrNop(log),
	}
}

func (uc *CreateDirect) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	in DirectInput,
) (*models.ServiceRecord, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	if strings.TrimSpace(in.ClientName) == "" {
		return nil, httperr.Validation("client_name_required")
	}
	d, err := apdomain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := apdomain.ParseClock(in.Time)
	if err != nil {
		return nil, err
	}

	staffIDs := dedupe(in.StaffIDs)
	if err := ensureStaff(ctx, uc.gw, establishmentID, staffIDs); err != nil {
		return nil, err
	}

	rec := &models.ServiceRecord{
		EstablishmentID: establishmentID,
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientPhone:     strings.TrimSpace(in.ClientPhone),
		ClientEmail:     strings.TrimSpace(in.ClientEmail),
		ServiceDate:     d.Format(apdomain.DateLayout),
		StartTime:       start,
		Status:          string(domain.StatusInProgress),
		Notes:           in.Notes,
		Origin:          string(domain.OriginDirect),
	}
	rec.EnsureID()

	items, err := snapshotPrices(ctx, uc.gw, establishmentID, rec.ID, in.ServiceIDs, nil)
	if err != nil {
		return nil, err
	}
	rec.TotalValue = domain.Total(items)
	assignments := staffRows(rec.ID, staffIDs)

	// --------------------------------------------------
	// 2️⃣ Gravação
	// --------------------------------------------------
	s := saga.New("create_direct_service_record", uc.log).
		Add("insert_service_record",
			func(ctx context.Context) error { return uc.gw.ServiceRecords.Insert(ctx, rec) },
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Delete(ctx, store.Eq("id", rec.ID))
				return err
			},
		).
		Add("insert_services",
			func(ctx context.Context) error { return uc.gw.RecordServices.Insert(ctx, ptrs(items)...) },
			func(ctx context.Context) error {
				_, err := uc.gw.RecordServices.Delete(ctx, store.Eq("service_record_id", rec.ID))
				return err
			},
		).
		Add("insert_staff",
			func(ctx context.Context) error { return uc.gw.RecordStaff.Insert(ctx, ptrs(assignments)...) },
			nil,
		)

	if err := s.Run(ctx); err != nil {
		return nil, sagaError("failed_to_create_service_record", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_record_created",
		Entity:          "service_record",
		EntityID:        &rec.ID,
	})

	return rec, nil
}
