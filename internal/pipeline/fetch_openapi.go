package pipeline

import (
	"context"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// FetchOpenApiTask fetches the OpenAPI description for one REST service,
// saves it as the service's active artifact, and replaces the service's
// endpoint inventory with the one carried on the listing.
type FetchOpenApiTask struct {
	store    catalogstore.Store
	registry registry.Client
	log      *logger.Logger
}

func NewFetchOpenApiTask(store catalogstore.Store, reg registry.Client, baseLog *logger.Logger) *FetchOpenApiTask {
	return &FetchOpenApiTask{
		store:    store,
		registry: reg,
		log:      baseLog.With("task", "FetchOpenApi"),
	}
}

func (t *FetchOpenApiTask) Handle(ctx context.Context, svc registry.RestService) error {
	subID := soapSubsystemID(svc.SoapService)
	svcID := soapServiceID(svc.SoapService)

	doc, err := t.registry.GetOpenApi(ctx, svc)
	if err != nil {
		t.recordError(ctx, subID, svcID, "openapi fetch failed: "+err.Error())
		return err
	}

	if err := t.store.SaveOpenApi(ctx, subID, svcID, doc); err != nil {
		t.recordError(ctx, subID, svcID, "openapi save failed: "+err.Error())
		return err
	}

	if err := replaceEndpoints(ctx, t.store, subID, svcID, svc.Endpoints); err != nil {
		t.recordError(ctx, subID, svcID, "endpoint replace failed: "+err.Error())
		return err
	}
	return nil
}

func (t *FetchOpenApiTask) recordError(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, message string) {
	entry := catalog.NewErrorLog(message, "500", &sub, &svc)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}

// replaceEndpoints implements the full-replace endpoint contract shared by
// the REST and OpenAPI stages: retire every active endpoint, then re-save
// the observed inventory so surviving pairs come back without losing their
// created timestamps.
func replaceEndpoints(ctx context.Context, store catalogstore.Store, sub catalog.SubsystemID, svc catalog.ServiceID, endpoints []registry.EndpointInfo) error {
	if err := store.PrepareEndpoints(ctx, sub, svc); err != nil {
		return err
	}
	for _, ep := range endpoints {
		if ep.Method == "" || ep.Path == "" {
			continue
		}
		if err := store.SaveEndpoint(ctx, sub, svc, ep.Method, ep.Path); err != nil {
			return err
		}
	}
	return nil
}
