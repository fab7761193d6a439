package establishment

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/media"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T) (*store.Gateway, uuid.UUID) {
	t.Helper()
	gw := store.NewMemoryGateway()
	est := &models.Establishment{Name: "Oficina", Timezone: "America/Sao_Paulo"}
	if err := gw.Establishments.Insert(context.Background(), est); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return gw, est.ID
}

func TestProfile_Update(t *testing.T) {
	gw, est := seed(t)
	uc := NewProfile(gw, media.NewUploader(nil, nil), nil)

	got, err := uc.Update(context.Background(), est, uuid.New(), UpdateInput{
		Name:         ptr("Oficina Central"),
		Phone:        ptr("(11) 98765-4321"),
		BusinessLine: ptr(5),
		Timezone:     ptr("America/Manaus"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Oficina Central" || got.Timezone != "America/Manaus" || got.BusinessLine == nil || *got.BusinessLine != 5 {
		t.Errorf("unexpected establishment: %+v", got)
	}
}

func TestProfile_UpdateValidation(t *testing.T) {
	gw, est := seed(t)
	uc := NewProfile(gw, media.NewUploader(nil, nil), nil)

	tests := []struct {
		name string
		in   UpdateInput
		code string
	}{
		{"blank name", UpdateInput{Name: ptr(" ")}, "establishment_name_required"},
		{"phone", UpdateInput{Phone: ptr("123")}, "invalid_phone"},
		{"business line", UpdateInput{BusinessLine: ptr(0)}, "invalid_business_line"},
		{"timezone", UpdateInput{Timezone: ptr("Lua/Tranquilidade")}, "invalid_timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Update(context.Background(), est, uuid.New(), tt.in); !httperr.IsBusiness(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := uc.Get(context.Background(), uuid.New()); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("unknown establishment: got %v", err)
	}
}

func TestProfile_UploadLogoDisabled(t *testing.T) {
	gw, est := seed(t)
	uc := NewProfile(gw, media.NewUploader(nil, nil), nil)

	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))

	if _, err := uc.UploadLogo(context.Background(), est, uuid.New(), &buf); !httperr.IsBusiness(err, "uploads_disabled") {
		t.Errorf("got %v", err)
	}
}
