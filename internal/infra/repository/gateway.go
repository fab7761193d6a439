package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// NewGormGateway liga cada tabela do gateway ao Postgres.
func NewGormGateway(db *gorm.DB) *store.Gateway {
	return &store.Gateway{
		Establishments:   NewGormTable[models.Establishment](db, store.TableEstablishments),
		Users:            NewGormTable[models.User](db, store.TableUsers),
		Services:         NewGormTable[models.Service](db, store.TableServices),
		Staff:            NewGormTable[models.Staff](db, store.TableStaff),
		StaffPreferences: NewGormTable[models.StaffServicePreference](db, store.TableStaffPreferences),
		Appointments:     NewGormTable[models.Appointment](db, store.TableAppointments),
		ServiceRecords:   NewGormTable[models.ServiceRecord](db, store.TableServiceRecords),
		RecordServices:   NewGormTable[models.ServiceRecordService](db, store.TableRecordServices),
		RecordStaff:      NewGormTable[models.ServiceRecordStaff](db, store.TableRecordStaff),
		Settings:         NewGormTable[models.EstablishmentSettings](db, store.TableSettings),
		AuditLogs:        NewGormTable[models.AuditLog](db, store.TableAuditLogs),
	}
}
