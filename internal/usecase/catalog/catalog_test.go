package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestServices_CRUD(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	est, user := uuid.New(), uuid.New()
	uc := NewServices(gw, nil)

	price := decimal.RequireFromString("49.999")
	created, err := uc.Create(ctx, est, user, ServiceInput{Name: ptr(" Corte "), Price: &price})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Corte" || !created.Price.Decimal.Equal(decimal.RequireFromString("50")) {
		t.Errorf("unexpected service: %+v", created)
	}

	if _, err := uc.Create(ctx, est, user, ServiceInput{Name: ptr("Barba"), Favorite: ptr(true)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Create(ctx, est, user, ServiceInput{Name: ptr("Águas")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := uc.List(ctx, est, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Barba", "Águas", "Corte"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, name)
		}
	}

	updated, err := uc.Update(ctx, est, user, created.ID, ServiceInput{Favorite: ptr(true), DurationMin: ptr(45)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Favorite || updated.DurationMin == nil || *updated.DurationMin != 45 || updated.Name != "Corte" {
		t.Errorf("unexpected update: %+v", updated)
	}

	if _, err := uc.Update(ctx, uuid.New(), user, created.ID, ServiceInput{Favorite: ptr(false)}); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("update from another establishment should be not found, got %v", err)
	}

	if err := uc.Delete(ctx, est, user, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uc.Delete(ctx, est, user, created.ID); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("second delete should be not found, got %v", err)
	}
}

func TestServices_Validation(t *testing.T) {
	uc := NewServices(store.NewMemoryGateway(), nil)
	neg := decimal.NewFromInt(-1)

	tests := []struct {
		name string
		in   ServiceInput
		code string
	}{
		{"missing name", ServiceInput{}, "service_name_required"},
		{"blank name", ServiceInput{Name: ptr("  ")}, "service_name_required"},
		{"negative price", ServiceInput{Name: ptr("Corte"), Price: &neg}, "invalid_price"},
		{"zero duration", ServiceInput{Name: ptr("Corte"), DurationMin: ptr(0)}, "invalid_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), uuid.New(), uuid.New(), tt.in)
			if !httperr.IsBusiness(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportServices_SkipsExistingNames(t *testing.T) {
	ctx := context.Background()
	gw := store.NewMemoryGateway()
	est := uuid.New()

	if err := gw.Services.Insert(ctx, &models.Service{EstablishmentID: est, Name: "alinhamento   3d"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewImportServices(gw, nil, nil)
	res, err := uc.Execute(ctx, est, uuid.New(), 5, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Imported) != 2 || len(res.Skipped) != 1 || res.Skipped[0] != "Alinhamento 3D" {
		t.Errorf("unexpected result: %+v", res)
	}

	again, err := uc.Execute(ctx, est, uuid.New(), 5, []int{14})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(again.Imported) != 0 || len(again.Skipped) != 1 {
		t.Errorf("re-import should skip everything: %+v", again)
	}

	n, _ := gw.Services.Count(ctx, store.Eq("establishment_id", est))
	if n != 3 {
		t.Errorf("services = %d, want 3", n)
	}
}

func TestImportServices_Errors(t *testing.T) {
	uc := NewImportServices(store.NewMemoryGateway(), nil, nil)

	if _, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), 42, nil); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("unknown line: got %v", err)
	}
	if _, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), 1, []int{99}); !httperr.IsBusiness(err, "no_services_selected") {
		t.Errorf("empty selection: got %v", err)
	}
}
