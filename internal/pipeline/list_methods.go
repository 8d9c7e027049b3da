package pipeline

import (
	"context"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// ListMethodsTask handles one subsystem: it lists the subsystem's SOAP and
// REST services, reconciles the service set, and routes each service to the
// stage that fetches its description.
type ListMethodsTask struct {
	store    catalogstore.Store
	registry registry.Client

	wsdlQueue    *Queue[registry.SoapService]
	openApiQueue *Queue[registry.RestService]
	restQueue    *Queue[registry.RestService]

	log *logger.Logger
}

func NewListMethodsTask(
	store catalogstore.Store,
	reg registry.Client,
	wsdlQueue *Queue[registry.SoapService],
	openApiQueue *Queue[registry.RestService],
	restQueue *Queue[registry.RestService],
	baseLog *logger.Logger,
) *ListMethodsTask {
	return &ListMethodsTask{
		store:        store,
		registry:     reg,
		wsdlQueue:    wsdlQueue,
		openApiQueue: openApiQueue,
		restQueue:    restQueue,
		log:          baseLog.With("task", "ListMethods"),
	}
}

func (t *ListMethodsTask) Handle(ctx context.Context, sub registry.ClientInfo) error {
	subID := subsystemID(sub)

	soap, err := t.registry.ListMethods(ctx, sub)
	if err != nil {
		t.recordError(ctx, subID, "listMethods failed: "+err.Error())
		return err
	}

	// A REST metaservice failure degrades the round to SOAP-only; the
	// subsystem's SOAP services still get reconciled.
	rest, err := t.registry.ListRestMethods(ctx, sub)
	if err != nil {
		t.log.Warn("REST method listing failed", "subsystem", subID.String(), "error", err)
		t.recordError(ctx, subID, "listRestMethods failed: "+err.Error())
		rest = nil
	}

	observed := make([]*catalog.Service, 0, len(soap)+len(rest))
	for _, s := range soap {
		observed = append(observed, &catalog.Service{
			ServiceCode:    s.ServiceCode,
			ServiceVersion: s.ServiceVersion,
		})
	}
	for _, s := range rest {
		observed = append(observed, &catalog.Service{
			ServiceCode:    s.ServiceCode,
			ServiceVersion: s.ServiceVersion,
		})
	}

	if err := t.store.SaveServices(ctx, subID, observed); err != nil {
		t.recordError(ctx, subID, "service reconciliation failed: "+err.Error())
		return err
	}

	for _, s := range soap {
		t.wsdlQueue.Put(s)
	}
	for _, s := range rest {
		if s.ServiceType == registry.ServiceTypeRest {
			t.restQueue.Put(s)
		} else {
			t.openApiQueue.Put(s)
		}
	}
	return nil
}

func (t *ListMethodsTask) recordError(ctx context.Context, sub catalog.SubsystemID, message string) {
	entry := catalog.NewErrorLog(message, "500", &sub, nil)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}

func subsystemID(sub registry.ClientInfo) catalog.SubsystemID {
	return catalog.SubsystemID{
		Instance:      sub.Instance,
		MemberClass:   sub.MemberClass,
		MemberCode:    sub.MemberCode,
		SubsystemCode: sub.SubsystemCode,
	}
}

func soapSubsystemID(svc registry.SoapService) catalog.SubsystemID {
	return catalog.SubsystemID{
		Instance:      svc.Instance,
		MemberClass:   svc.MemberClass,
		MemberCode:    svc.MemberCode,
		SubsystemCode: svc.SubsystemCode,
	}
}

func soapServiceID(svc registry.SoapService) catalog.ServiceID {
	return catalog.ServiceID{ServiceCode: svc.ServiceCode, ServiceVersion: svc.ServiceVersion}
}
