package client

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/validators"
)

// Client não é uma tabela: é a projeção de agendamentos e atendimentos
// agrupados por (nome, telefone) normalizados.
type Client struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email,omitempty"`
	LastServiceDate   string `json:"last_service_date,omitempty"`
	TotalServices     int    `json:"total_services"`
	TotalAppointments int    `json:"total_appointments"`
}

type Key struct {
	Name  string
	Phone string
}

// KeyOf remove acentos, caixa e espaços repetidos do nome e normaliza o
// telefone, para que "José  Silva" e "jose silva" caiam no mesmo cliente.
func KeyOf(name, phone string) Key {
	p, _ := validators.NormalizePhone(phone)
	return Key{Name: foldName(name), Phone: p}
}

func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Aggregate monta a lista de clientes. Só atendimentos finalizados contam
// como serviço realizado; agendamentos cancelados não contam.
func Aggregate(
	records []models.ServiceRecord,
	appointments []models.Appointment,
) []Client {
	byKey := map[Key]*Client{}

	get := func(name, phone, email string) *Client {
		k := KeyOf(name, phone)
		c, ok := byKey[k]
		if !ok {
			c = &Client{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
			byKey[k] = c
		}
		if c.Email == "" && email != "" {
			c.Email = email
		}
		return c
	}

	for _, r := range records {
		c := get(r.ClientName, r.ClientPhone, r.ClientEmail)
		if r.Status != "finalizado" {
			continue
		}
		c.TotalServices++
		if r.ServiceDate > c.LastServiceDate {
			c.LastServiceDate = r.ServiceDate
		}
	}

	for _, ap := range appointments {
		if ap.Status == "cancelado" {
			continue
		}
		c := get(ap.ClientName, ap.ClientPhone, ap.ClientEmail)
		c.TotalAppointments++
	}

	out := make([]Client, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}

	SortByName(out)
	return out
}

// SortByName ordena pela colação pt-BR, com telefone como desempate.
func SortByName(list []Client) {
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		if c := col.CompareString(list[i].Name, list[j].Name); c != 0 {
			return c < 0
		}
		return list[i].Phone < list[j].Phone
	})
}

// Filter aplica a busca textual sobre nome ou telefone.
func Filter(list []Client, query string) []Client {
	q := foldName(query)
	if q == "" {
		return list
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, query)

	var out []Client
	for _, c := range list {
		if strings.Contains(foldName(c.Name), q) ||
			(digits != "" && strings.Contains(c.Phone, digits)) {
			out = append(out, c)
		}
	}
	return out
}

type Stats struct {
	TotalClients     int    `json:"total_clients"`
	TotalServices    int    `json:"total_services"`
	ReturningClients int    `json:"returning_clients"`
	LastServiceDate  string `json:"last_service_date,omitempty"`
}

func Summarize(list []Client) Stats {
	var s Stats
	s.TotalClients = len(list)
	for _, c := range list {
		s.TotalServices += c.TotalServices
		if c.TotalServices > 1 {
			s.ReturningClients++
		}
		if c.LastServiceDate > s.LastServiceDate {
			s.LastServiceDate = c.LastServiceDate
		}
	}
	return s
}
