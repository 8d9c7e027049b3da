package pipeline

import (
	"context"
	"encoding/json"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// FetchRestTask handles plain REST services, which carry no external
// description document. The endpoint inventory from the listing is both the
// endpoint replacement source and the artifact payload.
type FetchRestTask struct {
	store catalogstore.Store
	log   *logger.Logger
}

func NewFetchRestTask(store catalogstore.Store, baseLog *logger.Logger) *FetchRestTask {
	return &FetchRestTask{
		store: store,
		log:   baseLog.With("task", "FetchRest"),
	}
}

type restEndpointData struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type restArtifactPayload struct {
	EndpointData []restEndpointData `json:"endpoint_data"`
}

func (t *FetchRestTask) Handle(ctx context.Context, svc registry.RestService) error {
	subID := soapSubsystemID(svc.SoapService)
	svcID := soapServiceID(svc.SoapService)

	if err := replaceEndpoints(ctx, t.store, subID, svcID, svc.Endpoints); err != nil {
		t.recordError(ctx, subID, svcID, "endpoint replace failed: "+err.Error())
		return err
	}

	payload := restArtifactPayload{EndpointData: make([]restEndpointData, 0, len(svc.Endpoints))}
	for _, ep := range svc.Endpoints {
		if ep.Method == "" || ep.Path == "" {
			continue
		}
		payload.EndpointData = append(payload.EndpointData, restEndpointData{Method: ep.Method, Path: ep.Path})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := t.store.SaveRest(ctx, subID, svcID, data); err != nil {
		t.recordError(ctx, subID, svcID, "rest save failed: "+err.Error())
		return err
	}
	return nil
}

func (t *FetchRestTask) recordError(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, message string) {
	entry := catalog.NewErrorLog(message, "500", &sub, &svc)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}
