package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/config"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/timezone"
)

// Um agendamento ativo por colaborador e horário. É a garantia final
// contra corrida entre dois cadastros simultâneos.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_uniq
	ON appointments (establishment_id, appointment_date, start_time, staff_id)
	WHERE status <> 'cancelado' AND staff_id IS NOT NULL
`

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	log = logger.OrNop(log)

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger: gormlogger.New(gormWriter{log: log.Named("gorm").Sugar()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate cria/atualiza as tabelas e os índices que o AutoMigrate não
// expressa.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log = logger.OrNop(log)

	if err := db.AutoMigrate(
		&models.Establishment{},
		&models.EstablishmentSettings{},
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.StaffServicePreference{},
		&models.Appointment{},
		&models.ServiceRecord{},
		&models.ServiceRecordService{},
		&models.ServiceRecordStaff{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create active slot index: %w", err)
	}

	res := db.Exec(`
        UPDATE establishments
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone)
	if res.Error != nil {
		return fmt.Errorf("backfill timezone: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Info("timezone backfilled", zap.Int64("establishments", res.RowsAffected))
	}

	return nil
}

type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}
