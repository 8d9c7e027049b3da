package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haltiadata/catalog-collector/internal/clients/business"
	"github.com/haltiadata/catalog-collector/internal/clients/orgs"
	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/data/repos/extregistry"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// Config carries every knob the pipeline graph needs. Values come from the
// application config; zero values are not defaulted here.
type Config struct {
	CollectorInterval     time.Duration
	FetchExternalInterval time.Duration

	ListMethodsPoolSize        int
	FetchWsdlPoolSize          int
	FetchOpenApiPoolSize       int
	FetchRestPoolSize          int
	FetchCompaniesPoolSize     int
	FetchOrganizationsPoolSize int

	FetchWindow         Window
	FetchExternalWindow Window
	FlushLogWindow      Window

	ErrorLogRetentionDays  int
	FetchExternalStaleDays int
	FetchExternalLimit     int
	FetchCompaniesLimit    int

	// ExternalProfile enables the business-registry and organization
	// enrichment branch. Without it only the registry mirror runs.
	ExternalProfile bool
}

// Pipeline is the assembled collection graph: the periodic root task, the
// queue-connected stages, and the external-update sweeper.
type Pipeline struct {
	cfg Config
	log *logger.Logger

	listMembers     *ListMembersTask
	updateExternals *UpdateExternalsTask

	listMethodsStage   *Stage[registry.ClientInfo]
	wsdlStage          *Stage[registry.SoapService]
	openApiStage       *Stage[registry.RestService]
	restStage          *Stage[registry.RestService]
	companiesStage     *Stage[string]
	organizationsStage *Stage[string]

	queues []interface{ Close() }
}

func New(
	cfg Config,
	store catalogstore.Store,
	companies extregistry.CompanyRepo,
	organizations extregistry.OrganizationRepo,
	registryClient registry.Client,
	businessClient business.Client,
	orgsClient orgs.Client,
	baseLog *logger.Logger,
) *Pipeline {
	log := baseLog.With("component", "Pipeline")

	listMethodsQueue := NewQueue[registry.ClientInfo]()
	wsdlQueue := NewQueue[registry.SoapService]()
	openApiQueue := NewQueue[registry.RestService]()
	restQueue := NewQueue[registry.RestService]()

	var companiesQueue, organizationsQueue *Queue[string]
	if cfg.ExternalProfile {
		companiesQueue = NewQueue[string]()
		organizationsQueue = NewQueue[string]()
	}

	p := &Pipeline{cfg: cfg, log: log}
	p.queues = []interface{ Close() }{listMethodsQueue, wsdlQueue, openApiQueue, restQueue}
	if cfg.ExternalProfile {
		p.queues = append(p.queues, companiesQueue, organizationsQueue)
	}

	p.listMembers = NewListMembersTask(
		store, registryClient,
		listMethodsQueue, companiesQueue, organizationsQueue,
		cfg.FetchWindow, cfg.FlushLogWindow, cfg.ErrorLogRetentionDays,
		baseLog,
	)

	listMethods := NewListMethodsTask(store, registryClient, wsdlQueue, openApiQueue, restQueue, baseLog)
	p.listMethodsStage = NewStage("ListMethods", listMethodsQueue, cfg.ListMethodsPoolSize, baseLog, listMethods.Handle)

	fetchWsdl := NewFetchWsdlTask(store, registryClient, baseLog)
	p.wsdlStage = NewStage("FetchWsdl", wsdlQueue, cfg.FetchWsdlPoolSize, baseLog, fetchWsdl.Handle)

	fetchOpenApi := NewFetchOpenApiTask(store, registryClient, baseLog)
	p.openApiStage = NewStage("FetchOpenApi", openApiQueue, cfg.FetchOpenApiPoolSize, baseLog, fetchOpenApi.Handle)

	fetchRest := NewFetchRestTask(store, baseLog)
	p.restStage = NewStage("FetchRest", restQueue, cfg.FetchRestPoolSize, baseLog, fetchRest.Handle)

	if cfg.ExternalProfile {
		fetchCompanies := NewFetchCompaniesTask(store, companies, businessClient, cfg.FetchCompaniesLimit, baseLog)
		p.companiesStage = NewStage("FetchCompanies", companiesQueue, cfg.FetchCompaniesPoolSize, baseLog, fetchCompanies.Handle)

		fetchOrganizations := NewFetchOrganizationsTask(store, organizations, orgsClient, cfg.FetchExternalLimit, baseLog)
		p.organizationsStage = NewStage("FetchOrganizations", organizationsQueue, cfg.FetchOrganizationsPoolSize, baseLog, fetchOrganizations.Handle)

		p.updateExternals = NewUpdateExternalsTask(
			store, companiesQueue, organizationsQueue,
			cfg.FetchExternalWindow, cfg.FetchExternalStaleDays, cfg.FetchExternalLimit,
			baseLog,
		)
	}

	return p
}

// Run starts every stage and the periodic root tasks, then blocks until the
// context is cancelled. In-flight handlers are waited out; queued items are
// dropped when the queues close on the way out.
func (p *Pipeline) Run(ctx context.Context) error {
	p.log.Info("Starting pipeline",
		"collector_interval", p.cfg.CollectorInterval,
		"external_profile", p.cfg.ExternalProfile)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return p.listMethodsStage.Run(ctx) })
	g.Go(func() error { return p.wsdlStage.Run(ctx) })
	g.Go(func() error { return p.openApiStage.Run(ctx) })
	g.Go(func() error { return p.restStage.Run(ctx) })

	if p.companiesStage != nil {
		g.Go(func() error { return p.companiesStage.Run(ctx) })
	}
	if p.organizationsStage != nil {
		g.Go(func() error { return p.organizationsStage.Run(ctx) })
	}

	g.Go(func() error {
		RunPeriodic(ctx, p.cfg.CollectorInterval, p.listMembers.Run)
		return nil
	})
	if p.updateExternals != nil {
		g.Go(func() error {
			RunPeriodic(ctx, p.cfg.FetchExternalInterval, p.updateExternals.Run)
			return nil
		})
	}

	err := g.Wait()

	// Every producer is done by now: the periodic roots have returned and
	// each stage has waited out its dispatched handlers.
	for _, q := range p.queues {
		q.Close()
	}
	return err
}
