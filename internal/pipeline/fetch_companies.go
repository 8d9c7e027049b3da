package pipeline

import (
	"context"

	"github.com/haltiadata/catalog-collector/internal/clients/business"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/data/repos/extregistry"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// FetchCompaniesTask enriches one member code from the national business
// registry.
type FetchCompaniesTask struct {
	store     catalogstore.Store
	companies extregistry.CompanyRepo
	client    business.Client
	limit     int
	log       *logger.Logger
}

func NewFetchCompaniesTask(
	store catalogstore.Store,
	companies extregistry.CompanyRepo,
	client business.Client,
	limit int,
	baseLog *logger.Logger,
) *FetchCompaniesTask {
	return &FetchCompaniesTask{
		store:     store,
		companies: companies,
		client:    client,
		limit:     limit,
		log:       baseLog.With("task", "FetchCompanies"),
	}
}

func (t *FetchCompaniesTask) Handle(ctx context.Context, memberCode string) error {
	ids, err := t.client.ListCompanyIDs(ctx, memberCode, t.limit)
	if err != nil {
		t.recordError(ctx, memberCode, "company listing failed: "+err.Error())
		return err
	}

	for _, id := range ids {
		records, err := t.client.GetCompany(ctx, id)
		if err != nil {
			t.recordError(ctx, memberCode, "company fetch failed: "+err.Error())
			return err
		}
		for _, company := range records {
			if err := t.companies.SaveCompany(ctx, company); err != nil {
				t.recordError(ctx, memberCode, "company save failed: "+err.Error())
				return err
			}
		}
	}
	return nil
}

func (t *FetchCompaniesTask) recordError(ctx context.Context, memberCode, message string) {
	entry := catalog.NewErrorLog(message, "500", nil, nil)
	entry.MemberCode = memberCode
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}
