package servicerecord

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

func TestCanFinalize(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		services int64
		kind     httperr.Kind
	}{
		{"open with services", StatusInProgress, 2, ""},
		{"open without services", StatusInProgress, 0, httperr.KindFinalization},
		{"already finished", StatusFinished, 1, httperr.KindInvalidState},
		{"cancelled", StatusCancelled, 0, httperr.KindInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanFinalize(tt.status, tt.services)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !httperr.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	if err := CanCancel(StatusCancelled); err != nil {
		t.Errorf("cancelling twice should be allowed: %v", err)
	}
	if err := CanCancel(StatusFinished); !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Errorf("expected invalid_state, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	items := []models.ServiceRecordService{
		{Price: decimal.NewFromInt(50)},
		{Price: decimal.NewFromInt(30)},
	}
	if got := Total(items); !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Total = %s, want 80", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Errorf("Total(nil) = %s, want 0", got)
	}
}

func TestPriceOf(t *testing.T) {
	if got := PriceOf(&models.Service{}); !got.IsZero() {
		t.Errorf("service without price should be zero, got %s", got)
	}
	priced := &models.Service{Price: decimal.NewNullDecimal(decimal.RequireFromString("19.90"))}
	if got := PriceOf(priced); got.String() != "19.9" {
		t.Errorf("PriceOf = %s", got)
	}
}
