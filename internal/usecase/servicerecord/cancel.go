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
	ucappointment "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/appointment"
)

type Cancel struct {
	gw       *store.Gateway
	conflict *ucappointment.ConflictDetector
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCancel(
	gw *store.Gateway,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Cancel {
	return &Cancel{
		gw:       gw,
		conflict: ucappointment.NewConflictDetector(gw.Appointments),
		audit:    audit,
		log:      logger.OrNop(log),
	}
}

// Execute cancela o atendimento e devolve o agendamento de origem para
// agendado, reabrindo o horário. Se o horário já foi ocupado por outro
// agendamento, o de origem fica como está e só o atendimento é cancelado.
// O motivo, se houver, vai para as observações.
func (uc *Cancel) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	recordID uuid.UUID,
	reason string,
) (*models.ServiceRecord, error) {

	rec, status, err := loadRecord(ctx, uc.gw, establishmentID, recordID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCancel(status); err != nil {
		return nil, err
	}

	notes := rec.Notes
	if r := strings.TrimSpace(reason); r != "" {
		notes = r
	}

	var ap *models.Appointment
	if rec.AppointmentID != nil {
		ap, err = loadAppointment(ctx, uc.gw, establishmentID, *rec.AppointmentID)
		if err != nil && !httperr.IsKind(err, httperr.KindNotFound) {
			return nil, err
		}
	}

	previous := map[string]any{"status": rec.Status, "notes": rec.Notes}

	s := saga.New("cancel_service_record", uc.log).
		Add("cancel_record",
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Update(ctx,
					map[string]any{"status": string(domain.StatusCancelled), "notes": notes},
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
		next, ok, err := uc.reopenTarget(ctx, establishmentID, ap)
		if err != nil {
			return nil, err
		}
		if ok {
			s.Add("reopen_appointment",
				func(ctx context.Context) error {
					err := setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, string(next))
					if store.IsUniqueViolation(err) {
						// horário ocupado entre a verificação e a escrita
						uc.log.Warn("origin appointment slot taken, skipping reopen",
							zap.String("appointment_id", ap.ID.String()),
						)
						return nil
					}
					return err
				},
				func(ctx context.Context) error {
					return setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, ap.Status)
				},
			)
		}
	}

	if err := s.Run(ctx); err != nil {
		return nil, sagaError("failed_to_cancel_service_record", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "service_record_cancelled",
		Entity:          "service_record",
		EntityID:        &rec.ID,
		Metadata:        map[string]any{"reason": reason},
	})

	rec.Status = string(domain.StatusCancelled)
	rec.Notes = notes
	return rec, nil
}

// reopenTarget decide se o agendamento de origem pode voltar para
// agendado. Quando o mesmo colaborador já tem outro agendamento ativo no
// horário, a reabertura é pulada.
func (uc *Cancel) reopenTarget(
	ctx context.Context,
	establishmentID uuid.UUID,
	ap *models.Appointment,
) (apdomain.Status, bool, error) {
	current, err := apdomain.ParseStatus(ap.Status)
	if err != nil {
		return "", false, err
	}
	next, err := apdomain.Next(current, apdomain.ActionReopen)
	if err != nil {
		return "", false, err
	}

	taken, err := uc.conflict.HasConflict(ctx, establishmentID, ap.AppointmentDate, ap.StartTime, ap.StaffID, &ap.ID)
	if err != nil {
		return "", false, err
	}
	if taken {
		uc.log.Warn("origin appointment slot taken, skipping reopen",
			zap.String("appointment_id", ap.ID.String()),
			zap.String("date", ap.AppointmentDate),
			zap.String("start_time", ap.StartTime),
		)
		return "", false, nil
	}
	return next, true, nil
}
