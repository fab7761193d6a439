package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("segredo", time.Hour)
	want := Claims{UserID: uuid.New(), EstablishmentID: uuid.New(), Role: "owner"}

	raw, err := iss.Issue(want)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != want {
		t.Errorf("claims = %+v, want %+v", got, want)
	}
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("segredo", time.Hour)
	raw, _ := iss.Issue(Claims{UserID: uuid.New(), EstablishmentID: uuid.New()})

	other := NewIssuer("outro", time.Hour)
	if _, err := other.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: got %v", err)
	}

	expired := NewIssuer("segredo", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: got %v", err)
	}

	if _, err := iss.Parse("lixo"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: got %v", err)
	}
}
