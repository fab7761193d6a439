package store

import (
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

const (
	TableEstablishments   = "establishments"
	TableUsers            = "users"
	TableServices         = "services"
	TableStaff            = "staff"
	TableStaffPreferences = "staff_service_preferences"
	TableAppointments     = "appointments"
	TableServiceRecords   = "service_records"
	TableRecordServices   = "service_record_services"
	TableRecordStaff      = "service_record_staff"
	TableSettings         = "establishment_settings"
	TableAuditLogs        = "audit_logs"
)

// Gateway reúne os acessos tipados de todas as tabelas. É o único ponto de
// escrita do sistema.
type Gateway struct {
	Establishments   Table[models.Establishment]
	Users            Table[models.User]
	Services         Table[models.Service]
	Staff            Table[models.Staff]
	StaffPreferences Table[models.StaffServicePreference]
	Appointments     Table[models.Appointment]
	ServiceRecords   Table[models.ServiceRecord]
	RecordServices   Table[models.ServiceRecordService]
	RecordStaff      Table[models.ServiceRecordStaff]
	Settings         Table[models.EstablishmentSettings]
	AuditLogs        Table[models.AuditLog]
}

// NewMemoryGateway monta um gateway em memória com as mesmas restrições de
// unicidade que a migração cria no Postgres.
func NewMemoryGateway() *Gateway {
	return &Gateway{
		Establishments: NewMemoryTable[models.Establishment](TableEstablishments),
		Users: NewMemoryTable[models.User](TableUsers,
			func(a, b *models.User) bool { return a.Email == b.Email },
		),
		Services:         NewMemoryTable[models.Service](TableServices),
		Staff:            NewMemoryTable[models.Staff](TableStaff),
		StaffPreferences: NewMemoryTable[models.StaffServicePreference](TableStaffPreferences),
		Appointments: NewMemoryTable[models.Appointment](TableAppointments,
			SameActiveSlot,
		),
		ServiceRecords: NewMemoryTable[models.ServiceRecord](TableServiceRecords),
		RecordServices: NewMemoryTable[models.ServiceRecordService](TableRecordServices),
		RecordStaff:    NewMemoryTable[models.ServiceRecordStaff](TableRecordStaff),
		Settings: NewMemoryTable[models.EstablishmentSettings](TableSettings,
			func(a, b *models.EstablishmentSettings) bool {
				return a.EstablishmentID == b.EstablishmentID
			},
		),
		AuditLogs: NewMemoryTable[models.AuditLog](TableAuditLogs),
	}
}

// SameActiveSlot espelha o índice parcial appointments_active_slot_uniq:
// mesmo estabelecimento, data, início e profissional, ambos não cancelados.
func SameActiveSlot(a, b *models.Appointment) bool {
	if a.StaffID == nil || b.StaffID == nil {
		return false
	}
	if a.Status == "cancelado" || b.Status == "cancelado" {
		return false
	}
	return a.EstablishmentID == b.EstablishmentID &&
		a.AppointmentDate == b.AppointmentDate &&
		a.StartTime == b.StartTime &&
		*a.StaffID == *b.StaffID
}
