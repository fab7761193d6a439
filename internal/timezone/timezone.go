package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// now é trocado nos testes.
var now = time.Now

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Or devolve tz quando válido, senão o fuso padrão.
func Or(tz string) string {
	if IsValid(tz) {
		return tz
	}
	return DefaultTimezone
}

func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(Or(tz)); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return now().In(Location(tz))
}

// Today devolve a data corrente do estabelecimento (YYYY-MM-DD).
func Today(tz string) string {
	return NowIn(tz).Format(dateLayout)
}

// Clock devolve o horário corrente do estabelecimento (HH:MM:SS).
func Clock(tz string) string {
	return NowIn(tz).Format(clockLayout)
}
