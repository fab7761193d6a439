package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func TestWrap_Codes(t *testing.T) {
	table := &GormTable[models.Appointment]{name: store.TableAppointments}

	tests := []struct {
		name string
		err  error
		want store.Code
	}{
		{"not found", gorm.ErrRecordNotFound, store.CodeNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, store.CodeUniqueViolation},
		{"pg unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "appointments_active_slot_uniq"}, store.CodeUniqueViolation},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), store.CodeUniqueViolation},
		{"other pg error", &pgconn.PgError{Code: "23503"}, store.CodeUnknown},
		{"plain", errors.New("boom"), store.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.wrap("insert", tt.err)

			var se *store.Error
			if !errors.As(err, &se) {
				t.Fatalf("wrap returned %T", err)
			}
			if se.Code != tt.want {
				t.Errorf("code = %q, want %q", se.Code, tt.want)
			}
			if se.Table != store.TableAppointments || se.Op != "insert" {
				t.Errorf("table/op = %q/%q", se.Table, se.Op)
			}
			if !errors.Is(err, tt.err) {
				t.Error("original error not reachable with errors.Is")
			}
		})
	}
}

func TestWrap_UniqueViolationHelper(t *testing.T) {
	table := &GormTable[models.Appointment]{name: store.TableAppointments}
	err := table.wrap("update", &pgconn.PgError{Code: "23505"})

	if !store.IsUniqueViolation(err) {
		t.Error("expected IsUniqueViolation to match")
	}
}
