package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"

	DefaultDuration = time.Hour
)

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date")
	}
	return d, nil
}

// ParseClock aceita HH:MM ou HH:MM:SS e devolve sempre HH:MM:SS, o
// formato gravado no banco.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", httperr.Validation("invalid_time")
}

// EndFor soma a duração padrão ao início. Passando da meia-noite, volta
// para o começo do dia.
func EndFor(start string) (string, error) {
	clock, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	t, _ := time.Parse(ClockLayout, clock)
	return t.Add(DefaultDuration).Format(ClockLayout), nil
}

// FormatDateBR converte YYYY-MM-DD em DD/MM/YYYY. Valores fora do formato
// voltam intactos.
func FormatDateBR(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}

// ShortClock corta os segundos: "14:30:00" vira "14:30".
func ShortClock(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

// MonthRange devolve o primeiro e o último dia do mês (YYYY-MM).
func MonthRange(month string) (string, string, error) {
	first, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return "", "", httperr.Validation("invalid_month")
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}
