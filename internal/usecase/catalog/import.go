package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type ImportResult struct {
	Imported []models.Service `json:"imported"`
	Skipped  []string         `json:"skipped"`
}

// ImportServices copia os serviços sugeridos de um ramo para o catálogo do
// estabelecimento. Nomes já cadastrados são ignorados.
type ImportServices struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewImportServices(gw *store.Gateway, audit *audit.Dispatcher, log *zap.Logger) *ImportServices {
	return &ImportServices{gw: gw, audit: audit, log: logger.OrNop(log)}
}

func (uc *ImportServices) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	businessLine int,
	templateIDs []int,
) (*ImportResult, error) {

	// --------------------------------------------------
	// 1️⃣ Ramo e templates escolhidos
	// --------------------------------------------------
	line, ok := domain.Find(businessLine)
	if !ok {
		return nil, httperr.NotFoundErr("business_line_not_found")
	}
	templates := line.Pick(templateIDs)
	if len(templates) == 0 {
		return nil, httperr.Validation("no_services_selected")
	}

	// --------------------------------------------------
	// 2️⃣ Nomes que o estabelecimento já tem
	// --------------------------------------------------
	existing, err := uc.gw.Services.Select(ctx, store.Where(store.Eq("establishment_id", establishmentID)))
	if err != nil {
		return nil, httperr.Store("failed_to_list_services", err)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[nameKey(s.Name)] = struct{}{}
	}

	res := &ImportResult{Imported: []models.Service{}, Skipped: []string{}}
	var rows []*models.Service
	for _, t := range templates {
		k := nameKey(t.Name)
		if _, dup := taken[k]; dup {
			res.Skipped = append(res.Skipped, t.Name)
			continue
		}
		taken[k] = struct{}{}
		rows = append(rows, &models.Service{
			EstablishmentID: establishmentID,
			Name:            t.Name,
			Description:     t.Description,
		})
	}

	// --------------------------------------------------
	// 3️⃣ Inserção em lote
	// --------------------------------------------------
	if len(rows) > 0 {
		if err := uc.gw.Services.Insert(ctx, rows...); err != nil {
			return nil, httperr.Store("failed_to_import_services", err)
		}
	}
	for _, r := range rows {
		res.Imported = append(res.Imported, *r)
	}

	uc.log.Info("services imported",
		zap.String("establishment_id", establishmentID.String()),
		zap.Int("business_line", line.ID),
		zap.Int("imported", len(rows)),
		zap.Int("skipped", len(res.Skipped)),
	)

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "services_imported",
		Entity:          "service",
		Metadata:        map[string]any{"business_line": line.ID, "imported": len(rows), "skipped": len(res.Skipped)},
	})

	return res, nil
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
