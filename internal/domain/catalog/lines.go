package catalog

// Template é um serviço sugerido para um ramo de atividade.
type Template struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BusinessLine struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Services []Template `json:"services"`
}

var businessLines = []BusinessLine{
	{
		ID:   1,
		Name: "Oficina Mecânica Automotiva",
		Services: []Template{
			{1, "Troca de Pastilha de Freio", "Substituição de pastilhas dianteiras ou traseiras."},
			{2, "Troca de Correia Dentada", "Substituição preventiva da correia de sincronismo."},
			{3, "Revisão Geral", "Check-up completo de itens mecânicos e de segurança."},
			{4, "Teste de Alternador", "Verificação e reparo no sistema de carga da bateria."},
		},
	},
	{
		ID:   2,
		Name: "Auto Elétrica",
		Services: []Template{
			{5, "Instalação de Som Automotivo", "Montagem e configuração de sistema de áudio."},
			{6, "Reparo de Motor de Partida", "Substituição ou reparo do motor de arranque."},
		},
	},
	{
		ID:   3,
		Name: "Mecânica Diesel",
		Services: []Template{
			{7, "Revisão de Bomba Injetora", "Ajuste e manutenção da bomba de combustível."},
			{8, "Troca de Bicos Injetores", "Substituição e limpeza de bicos injetores diesel."},
			{9, "Diagnóstico de Turbo", "Avaliação e reparo de turbocompressores."},
		},
	},
	{
		ID:   4,
		Name: "Troca de Óleo e Lubrificação",
		Services: []Template{
			{10, "Troca de Óleo Motor 5W30", "Substituição do óleo lubrificante 5W30."},
			{11, "Troca de Filtro de Óleo", "Substituição do filtro de óleo do motor."},
			{12, "Troca de Filtro de Ar", "Substituição do filtro de ar do motor."},
		},
	},
	{
		ID:   5,
		Name: "Alinhamento e Balanceamento",
		Services: []Template{
			{13, "Alinhamento 3D", "Ajuste computadorizado da geometria de rodas."},
			{14, "Balanceamento de Rodas", "Correção de peso para rodagem sem vibrações."},
			{15, "Cambagem", "Ajuste de ângulo das rodas."},
		},
	},
	{
		ID:   6,
		Name: "Funilaria e Pintura",
		Services: []Template{
			{16, "Martelinho de Ouro", "Reparo de pequenos amassados sem pintura."},
			{17, "Pintura Parcial", "Repintura localizada de peças avariadas."},
			{18, "Pintura Completa", "Repintura geral do veículo."},
		},
	},
	{
		ID:   7,
		Name: "Retífica de Motores",
		Services: []Template{
			{19, "Plainas de Cabeçote", "Retífica e correção de superfície do cabeçote."},
			{20, "Troca de Anéis de Pistão", "Substituição dos anéis de vedação do pistão."},
			{21, "Usinagem de Virabrequim", "Correção e polimento do virabrequim."},
		},
	},
	{
		ID:   8,
		Name: "Ar Condicionado Automotivo",
		Services: []Template{
			{22, "Higienização do Ar Condicionado", "Limpeza completa do sistema de ventilação."},
			{23, "Troca de Filtro de Cabine", "Substituição do filtro antipólen."},
			{24, "Recarga de Gás", "Reabastecimento do fluido refrigerante."},
		},
	},
	{
		ID:   9,
		Name: "Centro de Diagnóstico Automotivo",
		Services: []Template{
			{25, "Leitura de Scanner OBD2", "Diagnóstico eletrônico via scanner automotivo."},
			{26, "Reset de Luz do Painel", "Correção e apagamento de falhas eletrônicas."},
			{27, "Diagnóstico de Injeção Eletrônica", "Análise detalhada do sistema de injeção."},
		},
	},
}

// BusinessLines devolve uma cópia da tabela de ramos.
func BusinessLines() []BusinessLine {
	out := make([]BusinessLine, len(businessLines))
	for i, l := range businessLines {
		out[i] = l
		out[i].Services = append([]Template(nil), l.Services...)
	}
	return out
}

func Find(id int) (BusinessLine, bool) {
	for _, l := range businessLines {
		if l.ID == id {
			l.Services = append([]Template(nil), l.Services...)
			return l, true
		}
	}
	return BusinessLine{}, false
}

// Pick devolve os templates do ramo com os ids pedidos, na ordem do ramo.
// Lista vazia seleciona todos.
func (l BusinessLine) Pick(ids []int) []Template {
	if len(ids) == 0 {
		return l.Services
	}
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Template
	for _, t := range l.Services {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
