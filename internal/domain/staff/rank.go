package staff

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

// Rank coloca primeiro os colaboradores com preferência por algum dos
// serviços selecionados. A ordem original é mantida dentro de cada grupo.
// Sem serviços selecionados a lista volta como veio.
func Rank(list []models.Staff, selected []uuid.UUID) []models.Staff {
	if len(selected) == 0 {
		return list
	}

	wanted := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		wanted[id] = struct{}{}
	}

	preferred := make([]models.Staff, 0, len(list))
	others := make([]models.Staff, 0, len(list))
	for _, s := range list {
		if Prefers(s, wanted) {
			preferred = append(preferred, s)
		} else {
			others = append(others, s)
		}
	}

	return append(preferred, others...)
}

func Prefers(s models.Staff, services map[uuid.UUID]struct{}) bool {
	for _, p := range s.Preferences {
		if _, ok := services[p.ServiceID]; ok {
			return true
		}
	}
	return false
}

// AttachPreferences distribui as linhas de preferência para cada colaborador.
func AttachPreferences(list []models.Staff, prefs []models.StaffServicePreference) []models.Staff {
	byStaff := make(map[uuid.UUID][]models.StaffServicePreference, len(list))
	for _, p := range prefs {
		byStaff[p.StaffID] = append(byStaff[p.StaffID], p)
	}

	out := make([]models.Staff, len(list))
	for i, s := range list {
		s.Preferences = byStaff[s.ID]
		out[i] = s
	}
	return out
}
