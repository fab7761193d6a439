package servicerecord

import (
	"context"

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
	"github.com/BruksfildServices01/atendimento-scheduler/internal/timezone"
)

type FinalizeInput struct {
	// vazio: horário atual no fuso do estabelecimento
	EndTime string
	// nil mantém as observações atuais
	Notes *string
}

type Finalize struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewFinalize(
	gw *store.Gateway,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Finalize {
	return &Finalize{
		gw:    gw,
		audit: audit,
		log:   logger.OrNop(log),
	}
}

// Execute encerra o atendimento e conclui o agendamento de origem.
func (uc *Finalize) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	recordID uuid.UUID,
	in FinalizeInput,
) (*models.ServiceRecord, error) {

	// --------------------------------------------------
	// 1️⃣ Estado + pelo menos um serviço
	// --------------------------------------------------
	rec, status, err := loadRecord(ctx, uc.gw, establishmentID, recordID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.gw.RecordServices.Count(ctx, store.Eq("service_record_id", rec.ID))
	if err != nil {
		return nil, httperr.Store("failed_to_count_service_lines", err)
	}
	if err := domain.CanFinalize(status, lines); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Horário de término
	// --------------------------------------------------
	endTime := in.EndTime
	if endTime == "" {
		endTime, err = uc.nowClock(ctx, establishmentID)
		if err != nil {
			return nil, err
		}
	}
	endTime, err = apdomain.ParseClock(endTime)
	if err != nil {
		return nil, err
	}

	notes := rec.Notes
	if in.Notes != nil {
		notes = *in.Notes
	}

	// --------------------------------------------------
	// 3️⃣ Agendamento de origem
	// --------------------------------------------------
	var ap *models.Appointment
	var apNext apdomain.Status
	if rec.AppointmentID != nil {
		ap, apNext, err = uc.cascadeTarget(ctx, establishmentID, *rec.AppointmentID)
		if err != nil {
			return nil, err
		}
	}

	previous := map[string]any{"status": rec.Status, "end_time": rec.EndTime, "notes": rec.Notes}

	s := saga.New("finalize_service_record", uc.log).
		Add("finish_record",
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Update(ctx,
					map[string]any{
						"status":   string(domain.StatusFinished),
						"end_time": endTime,
						"notes":    notes,
					},
					recordScope(establishmentID, rec.ID)...,
				)
				return err
			},
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Update(ctx, previous, recordScope(establishmentID, rec.ID)...)
				return err
			},
		)

	if ap != nil {
		s.Add("conclude_appointment",
			func(ctx context.Context) error {
				return setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, string(apNext))
			},
			func(ctx context.Context) error {
				return setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, ap.Status)
			},
		)
	}

	if err := s.Run(ctx); err != nil {
		return nil, sagaError("failed_to_finalize_service_record", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_record_finalized",
		Entity:          "service_record",
		EntityID:        &rec.ID,
		Metadata:        map[string]any{"total": rec.TotalValue.StringFixed(2)},
	})

	rec.Status = string(domain.StatusFinished)
	rec.EndTime = endTime
	rec.Notes = notes
	return rec, nil
}

// cascadeTarget devolve o agendamento a concluir. Se ele já não aceita a
// transição (cancelado direto na agenda, por exemplo), a cascata é pulada.
func (uc *Finalize) cascadeTarget(
	ctx context.Context,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, apdomain.Status, error) {
	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if httperr.IsKind(err, httperr.KindNotFound) {
		uc.log.Warn("origin appointment missing, skipping cascade", zap.String("appointment_id", appointmentID.String()))
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	current, err := apdomain.ParseStatus(ap.Status)
	if err != nil {
		return nil, "", err
	}
	next, err := apdomain.Next(current, apdomain.ActionConclude)
	if err != nil {
		uc.log.Warn("origin appointment cannot be concluded, skipping cascade",
			zap.String("appointment_id", ap.ID.String()),
			zap.String("status", ap.Status),
		)
		return nil, "", nil
	}
	return ap, next, nil
}

func (uc *Finalize) nowClock(ctx context.Context, establishmentID uuid.UUID) (string, error) {
	est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", establishmentID)))
	if err != nil {
		return "", httperr.Store("failed_to_load_establishment", err)
	}
	tz := ""
	if est != nil {
		tz = est.Timezone
	}
	return timezone.Clock(tz), nil
}
