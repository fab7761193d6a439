package validators

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "BR"

// NormalizePhone devolve o telefone em E.164. Números que a biblioteca
// não reconhece caem para só dígitos, com ok=false.
func NormalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err == nil && phonenumbers.IsPossibleNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164), true
	}

	return digitsOnly(raw), false
}

// IsPhoneValid aceita números possíveis para a região padrão.
func IsPhoneValid(raw string) bool {
	_, ok := NormalizePhone(raw)
	return ok
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
