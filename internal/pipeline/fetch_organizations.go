package pipeline

import (
	"context"

	"github.com/haltiadata/catalog-collector/internal/clients/orgs"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/data/repos/extregistry"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// FetchOrganizationsTask enriches one member code from the public service
// directory. GUIDs are fetched in batches of orgs.MaxBatchSize.
type FetchOrganizationsTask struct {
	store         catalogstore.Store
	organizations extregistry.OrganizationRepo
	client        orgs.Client
	limit         int
	log           *logger.Logger
}

func NewFetchOrganizationsTask(
	store catalogstore.Store,
	organizations extregistry.OrganizationRepo,
	client orgs.Client,
	limit int,
	baseLog *logger.Logger,
) *FetchOrganizationsTask {
	return &FetchOrganizationsTask{
		store:         store,
		organizations: organizations,
		client:        client,
		limit:         limit,
		log:           baseLog.With("task", "FetchOrganizations"),
	}
}

func (t *FetchOrganizationsTask) Handle(ctx context.Context, memberCode string) error {
	guids, err := t.client.ListOrganizationIDs(ctx, memberCode, t.limit)
	if err != nil {
		t.recordError(ctx, memberCode, "organization listing failed: "+err.Error())
		return err
	}

	for start := 0; start < len(guids); start += orgs.MaxBatchSize {
		end := start + orgs.MaxBatchSize
		if end > len(guids) {
			end = len(guids)
		}
		records, err := t.client.GetOrganizations(ctx, guids[start:end])
		if err != nil {
			t.recordError(ctx, memberCode, "organization fetch failed: "+err.Error())
			return err
		}
		for _, organization := range records {
			if err := t.organizations.SaveOrganization(ctx, organization); err != nil {
				t.recordError(ctx, memberCode, "organization save failed: "+err.Error())
				return err
			}
		}
	}
	return nil
}

func (t *FetchOrganizationsTask) recordError(ctx context.Context, memberCode, message string) {
	entry := catalog.NewErrorLog(message, "500", nil, nil)
	entry.MemberCode = memberCode
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}
