package servicerecord

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

// PriceOf é o preço a congelar no item. Serviço sem preço vale zero.
func PriceOf(svc *models.Service) decimal.Decimal {
	if svc == nil || !svc.Price.Valid {
		return decimal.Zero
	}
	return svc.Price.Decimal
}

// Total soma os preços congelados dos itens, nunca o catálogo atual.
func Total(items []models.ServiceRecordService) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total.Round(2)
}
