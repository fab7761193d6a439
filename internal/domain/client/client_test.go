package client

import (
	"testing"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

func TestKeyOf(t *testing.T) {
	a := KeyOf("José  Silva", "(11) 98765-4321")
	b := KeyOf("jose silva", "11987654321")
	if a != b {
		t.Errorf("expected same key, got %+v and %+v", a, b)
	}
	if KeyOf("José Silva", "11987654321") == KeyOf("José Silva", "11912345678") {
		t.Error("different phones must produce different keys")
	}
}

func TestAggregate(t *testing.T) {
	records := []models.ServiceRecord{
		{ClientName: "Álvaro", ClientPhone: "11987654321", ServiceDate: "2024-05-01", Status: "finalizado"},
		{ClientName: "alvaro", ClientPhone: "(11) 98765-4321", ServiceDate: "2024-06-01", Status: "finalizado"},
		{ClientName: "Beatriz", ClientPhone: "11912345678", ServiceDate: "2024-06-03", Status: "cancelado"},
	}
	appointments := []models.Appointment{
		{ClientName: "Zeca", ClientPhone: "11955554444", Status: "agendado"},
		{ClientName: "Beatriz", ClientPhone: "11912345678", Status: "agendado", ClientEmail: "bia@example.com"},
		{ClientName: "Zeca", ClientPhone: "11955554444", Status: "cancelado"},
	}

	got := Aggregate(records, appointments)
	if len(got) != 3 {
		t.Fatalf("expected 3 clients, got %d: %+v", len(got), got)
	}

	// colação pt-BR: "Álvaro" antes de "Beatriz"
	if got[0].Name != "Álvaro" || got[1].Name != "Beatriz" || got[2].Name != "Zeca" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].TotalServices != 2 || got[0].LastServiceDate != "2024-06-01" {
		t.Errorf("unexpected stats for Álvaro: %+v", got[0])
	}
	if got[1].TotalServices != 0 || got[1].Email != "bia@example.com" || got[1].TotalAppointments != 1 {
		t.Errorf("unexpected stats for Beatriz: %+v", got[1])
	}
	if got[2].TotalAppointments != 1 {
		t.Errorf("cancelled appointments must not count: %+v", got[2])
	}

	stats := Summarize(got)
	if stats.TotalClients != 3 || stats.TotalServices != 2 || stats.ReturningClients != 1 || stats.LastServiceDate != "2024-06-01" {
		t.Errorf("unexpected summary: %+v", stats)
	}
}

func TestFilter(t *testing.T) {
	list := []Client{
		{Name: "Álvaro", Phone: "11987654321"},
		{Name: "Beatriz", Phone: "11912345678"},
	}

	if got := Filter(list, "alv"); len(got) != 1 || got[0].Name != "Álvaro" {
		t.Errorf("name filter = %+v", got)
	}
	if got := Filter(list, "1234"); len(got) != 1 || got[0].Name != "Beatriz" {
		t.Errorf("phone filter = %+v", got)
	}
	if got := Filter(list, ""); len(got) != 2 {
		t.Errorf("empty query should keep list, got %d", len(got))
	}
}
