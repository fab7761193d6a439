package auditlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	apdomain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Filter struct {
	Action string
	Entity string
	From   string
	To     string
	Page   int
	Limit  int
}

type Page struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

type ListAuditLogs struct {
	gw *store.Gateway
}

func NewListAuditLogs(gw *store.Gateway) *ListAuditLogs {
	return &ListAuditLogs{gw: gw}
}

func (uc *ListAuditLogs) Execute(ctx context.Context, establishmentID uuid.UUID, f Filter) (*Page, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxLimit {
		f.Limit = DefaultLimit
	}

	// --------------------------------------------------
	// Sempre protegido por estabelecimento
	// --------------------------------------------------
	filters := []store.Filter{store.Eq("establishment_id", establishmentID)}

	if f.Action != "" {
		filters = append(filters, store.Eq("action", f.Action))
	}
	if f.Entity != "" {
		filters = append(filters, store.Eq("entity", f.Entity))
	}
	if f.From != "" {
		from, err := apdomain.ParseDate(f.From)
		if err != nil {
			return nil, err
		}
		filters = append(filters, store.Gte("created_at", from))
	}
	if f.To != "" {
		to, err := apdomain.ParseDate(f.To)
		if err != nil {
			return nil, err
		}
		filters = append(filters, store.Lte("created_at", to.Add(24*time.Hour)))
	}

	total, err := uc.gw.AuditLogs.Count(ctx, filters...)
	if err != nil {
		return nil, httperr.Store("audit_count_failed", err)
	}

	logs, err := uc.gw.AuditLogs.Select(ctx, store.Where(filters...).
		OrderBy(store.Desc("created_at")).
		Paginate(f.Limit, (f.Page-1)*f.Limit))
	if err != nil {
		return nil, httperr.Store("audit_list_failed", err)
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	return &Page{Page: f.Page, Limit: f.Limit, Total: total, Logs: logs}, nil
}
