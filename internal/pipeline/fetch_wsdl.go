package pipeline

import (
	"context"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// FetchWsdlTask fetches the WSDL document for one SOAP service and saves it
// through the artifact singleton rules.
type FetchWsdlTask struct {
	store    catalogstore.Store
	registry registry.Client
	log      *logger.Logger
}

func NewFetchWsdlTask(store catalogstore.Store, reg registry.Client, baseLog *logger.Logger) *FetchWsdlTask {
	return &FetchWsdlTask{
		store:    store,
		registry: reg,
		log:      baseLog.With("task", "FetchWsdl"),
	}
}

func (t *FetchWsdlTask) Handle(ctx context.Context, svc registry.SoapService) error {
	subID := soapSubsystemID(svc)
	svcID := soapServiceID(svc)

	wsdl, err := t.registry.GetWsdl(ctx, svc)
	if err != nil {
		t.recordError(ctx, subID, svcID, "wsdl fetch failed: "+err.Error())
		return err
	}

	if err := t.store.SaveWsdl(ctx, subID, svcID, wsdl); err != nil {
		t.recordError(ctx, subID, svcID, "wsdl save failed: "+err.Error())
		return err
	}
	return nil
}

func (t *FetchWsdlTask) recordError(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, message string) {
	entry := catalog.NewErrorLog(message, "500", &sub, &svc)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}
