package settings

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/message"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func TestMessageTemplate_Lifecycle(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	est := &models.Establishment{Name: "Oficina do Zé"}
	if err := gw.Establishments.Insert(ctx, est); err != nil {
		t.Fatalf("seed: %v", err)
	}
	uc := NewMessageTemplate(gw, nil)
	user := uuid.New()

	view, err := uc.Get(ctx, est.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Custom || view.Template != message.DefaultTemplate || len(view.Variables) != 7 {
		t.Errorf("unexpected default view: %+v", view)
	}

	saved, err := uc.Save(ctx, est.ID, user, "Olá {NOME_CLIENTE}, até {DATA_AGENDAMENTO} na {NOME_ESTABELECIMENTO}")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !saved.Custom || saved.Preview != "Olá Maria Souza, até 15/01/2025 na Oficina do Zé" {
		t.Errorf("unexpected saved view: %+v", saved)
	}

	// segundo save atualiza a mesma linha
	if _, err := uc.Save(ctx, est.ID, user, "Oi {NOME_CLIENTE}"); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if n, _ := gw.Settings.Count(ctx, store.Eq("establishment_id", est.ID)); n != 1 {
		t.Errorf("settings rows = %d, want 1", n)
	}

	reset, err := uc.Reset(ctx, est.ID, user)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Custom || reset.Template != message.DefaultTemplate {
		t.Errorf("reset did not restore default: %+v", reset)
	}
}

func TestMessageTemplate_Validation(t *testing.T) {
	uc := NewMessageTemplate(store.NewMemoryGateway(), nil)

	tests := []struct {
		name     string
		template string
		code     string
	}{
		{"blank", "   ", "template_required"},
		{"too long", strings.Repeat("é", MaxTemplateLength+1), "template_too_long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Save(context.Background(), uuid.New(), uuid.New(), tt.template)
			if !httperr.IsBusiness(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}
