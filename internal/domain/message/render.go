package message

import (
	"strings"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

const (
	VarClientName        = "{NOME_CLIENTE}"
	VarClientPhone       = "{TELEFONE_CLIENTE}"
	VarDate              = "{DATA_AGENDAMENTO}"
	VarTime              = "{HORARIO_AGENDAMENTO}"
	VarServiceName       = "{NOME_SERVICO}"
	VarStaffName         = "{NOME_COLABORADOR}"
	VarEstablishmentName = "{NOME_ESTABELECIMENTO}"

	FallbackService = "Serviço não especificado"
	FallbackStaff   = "Não especificado"
)

const DefaultTemplate = `🗓️ *Confirmação de Agendamento*

👤 *Cliente:* {NOME_CLIENTE}
📞 *Telefone:* {TELEFONE_CLIENTE}
📅 *Data:* {DATA_AGENDAMENTO}
⏰ *Horário:* {HORARIO_AGENDAMENTO}
✂️ *Serviço:* {NOME_SERVICO}
👨‍💼 *Profissional:* {NOME_COLABORADOR}
🏢 *Local:* {NOME_ESTABELECIMENTO}

---
Agendamento confirmado! Em caso de dúvidas ou necessidade de reagendamento, entre em contato conosco.

Até breve! 😊`

type Variable struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

// Variables lista os marcadores aceitos, na ordem exibida no editor.
func Variables() []Variable {
	return []Variable{
		{VarClientName, "Nome do cliente"},
		{VarClientPhone, "Telefone do cliente"},
		{VarDate, "Data do agendamento (DD/MM/AAAA)"},
		{VarTime, "Horário do agendamento (HH:MM)"},
		{VarServiceName, "Nome do serviço"},
		{VarStaffName, "Nome do colaborador"},
		{VarEstablishmentName, "Nome do estabelecimento"},
	}
}

// Render troca todas as ocorrências de cada marcador. Template vazio usa
// o padrão; marcadores desconhecidos ficam como estão.
func Render(
	template string,
	ap models.Appointment,
	serviceName string,
	staffName string,
	establishmentName string,
) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}
	if serviceName == "" {
		serviceName = FallbackService
	}
	if staffName == "" {
		staffName = FallbackStaff
	}

	r := strings.NewReplacer(
		VarClientName, ap.ClientName,
		VarClientPhone, ap.ClientPhone,
		VarDate, appointment.FormatDateBR(ap.AppointmentDate),
		VarTime, appointment.ShortClock(ap.StartTime),
		VarServiceName, serviceName,
		VarStaffName, staffName,
		VarEstablishmentName, establishmentName,
	)
	return r.Replace(template)
}
