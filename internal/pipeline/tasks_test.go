package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/data/repos/testutil"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

type fakeRegistry struct {
	roster  []registry.ClientInfo
	soap    []registry.SoapService
	rest    []registry.RestService
	wsdl    string
	openapi string

	listClientsErr error
	restErr        error
}

func (f *fakeRegistry) ListClients(ctx context.Context) ([]registry.ClientInfo, error) {
	return f.roster, f.listClientsErr
}

func (f *fakeRegistry) ListMethods(ctx context.Context, sub registry.ClientInfo) ([]registry.SoapService, error) {
	return f.soap, nil
}

func (f *fakeRegistry) ListRestMethods(ctx context.Context, sub registry.ClientInfo) ([]registry.RestService, error) {
	return f.rest, f.restErr
}

func (f *fakeRegistry) GetWsdl(ctx context.Context, svc registry.SoapService) (string, error) {
	return f.wsdl, nil
}

func (f *fakeRegistry) GetOpenApi(ctx context.Context, svc registry.RestService) (string, error) {
	return f.openapi, nil
}

func takeOrFail[T any](t *testing.T, q *Queue[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := q.Take(ctx)
	if err != nil {
		t.Fatalf("queue empty: %v", err)
	}
	return v
}

func assertEmpty[T any](t *testing.T, q *Queue[T]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if v, err := q.Take(ctx); err == nil {
		t.Fatalf("queue not empty, got %v", v)
	}
}

func subsystemEntry(code, subsystem string) registry.ClientInfo {
	return registry.ClientInfo{
		Instance:    "DEV",
		MemberClass: "GOV",
		MemberCode:  code, SubsystemCode: subsystem,
		ObjectType: registry.ObjectTypeSubsystem,
	}
}

func memberEntry(code, name string) registry.ClientInfo {
	return registry.ClientInfo{
		Instance:    "DEV",
		MemberClass: "GOV",
		MemberCode:  code,
		Name:        name,
		ObjectType:  registry.ObjectTypeMember,
	}
}

func TestListMembersDedupesAndFansOut(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))

	reg := &fakeRegistry{roster: []registry.ClientInfo{
		memberEntry("M1", "One"),
		subsystemEntry("M1", "SS-A"),
		subsystemEntry("M1", "SS-A"), // duplicate roster line
		subsystemEntry("M1", "SS-B"),
		memberEntry("M2", "Two"),
	}}

	listMethodsQueue := NewQueue[registry.ClientInfo]()
	companiesQueue := NewQueue[string]()
	organizationsQueue := NewQueue[string]()
	defer listMethodsQueue.Close()
	defer companiesQueue.Close()
	defer organizationsQueue.Close()

	task := NewListMembersTask(
		store, reg,
		listMethodsQueue, companiesQueue, organizationsQueue,
		Window{Unlimited: true}, Window{Unlimited: true}, 90,
		logger.NewNop(),
	)

	ctx := context.Background()
	task.Run(ctx)

	m1, err := store.GetMember(ctx, catalog.MemberID{Instance: "DEV", MemberClass: "GOV", MemberCode: "M1"})
	if err != nil {
		t.Fatalf("get M1: %v", err)
	}
	if m1.Name != "One" || len(m1.ActiveSubsystems()) != 2 {
		t.Fatalf("M1 persisted wrong: name=%q subsystems=%d", m1.Name, len(m1.ActiveSubsystems()))
	}

	// All three subsystem roster lines are forwarded; dedup applies to the
	// stored mirror, not the work fan-out.
	for i := 0; i < 3; i++ {
		entry := takeOrFail(t, listMethodsQueue)
		if entry.ObjectType != registry.ObjectTypeSubsystem {
			t.Fatalf("forwarded a non-subsystem entry: %+v", entry)
		}
	}
	assertEmpty(t, listMethodsQueue)

	// Both members are new this round, so both codes hit both external
	// queues.
	freshCodes := map[string]int{}
	freshCodes[takeOrFail(t, companiesQueue)]++
	freshCodes[takeOrFail(t, companiesQueue)]++
	if freshCodes["M1"] != 1 || freshCodes["M2"] != 1 {
		t.Fatalf("expected M1 and M2 once each, got %v", freshCodes)
	}
	takeOrFail(t, organizationsQueue)
	takeOrFail(t, organizationsQueue)

	// A second identical round forwards subsystems again but no member is
	// fresh anymore.
	task.Run(ctx)
	for i := 0; i < 3; i++ {
		takeOrFail(t, listMethodsQueue)
	}
	assertEmpty(t, companiesQueue)
	assertEmpty(t, organizationsQueue)
}

func TestListMembersClosedWindowSkips(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))

	reg := &fakeRegistry{roster: []registry.ClientInfo{memberEntry("M1", "One")}}
	listMethodsQueue := NewQueue[registry.ClientInfo]()
	defer listMethodsQueue.Close()

	task := NewListMembersTask(
		store, reg,
		listMethodsQueue, nil, nil,
		Window{AfterHour: 23, BeforeHour: 23}, Window{AfterHour: 23, BeforeHour: 23}, 90,
		logger.NewNop(),
	)
	task.Run(context.Background())

	if _, err := store.GetMember(context.Background(), catalog.MemberID{Instance: "DEV", MemberClass: "GOV", MemberCode: "M1"}); err == nil {
		t.Fatalf("closed window must not collect")
	}
	assertEmpty(t, listMethodsQueue)
}

func TestListMethodsRoutesByServiceType(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))
	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	testutil.SeedMember(t, gdb, testutil.ObservedMember("DEV", "GOV", "M1", "One", "SS-A"), t0)

	soap := registry.SoapService{
		Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A",
		ServiceCode: "soapSvc", ServiceVersion: "v1",
	}
	restPlain := registry.RestService{
		SoapService: registry.SoapService{
			Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A",
			ServiceCode: "restSvc",
		},
		ServiceType: registry.ServiceTypeRest,
	}
	restOpenApi := registry.RestService{
		SoapService: registry.SoapService{
			Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A",
			ServiceCode: "openapiSvc",
		},
		ServiceType: "OPENAPI3",
	}

	reg := &fakeRegistry{soap: []registry.SoapService{soap}, rest: []registry.RestService{restPlain, restOpenApi}}

	wsdlQueue := NewQueue[registry.SoapService]()
	openApiQueue := NewQueue[registry.RestService]()
	restQueue := NewQueue[registry.RestService]()
	defer wsdlQueue.Close()
	defer openApiQueue.Close()
	defer restQueue.Close()

	task := NewListMethodsTask(store, reg, wsdlQueue, openApiQueue, restQueue, logger.NewNop())
	if err := task.Handle(context.Background(), subsystemEntry("M1", "SS-A")); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := takeOrFail(t, wsdlQueue); got.ServiceCode != "soapSvc" {
		t.Fatalf("wrong service on wsdl queue: %+v", got)
	}
	if got := takeOrFail(t, restQueue); got.ServiceCode != "restSvc" {
		t.Fatalf("wrong service on rest queue: %+v", got)
	}
	if got := takeOrFail(t, openApiQueue); got.ServiceCode != "openapiSvc" {
		t.Fatalf("wrong service on openapi queue: %+v", got)
	}

	sub := catalog.SubsystemID{Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A"}
	if _, err := store.GetService(context.Background(), sub, catalog.ServiceID{ServiceCode: "soapSvc", ServiceVersion: "v1"}); err != nil {
		t.Fatalf("soap service not reconciled: %v", err)
	}
	if _, err := store.GetService(context.Background(), sub, catalog.ServiceID{ServiceCode: "restSvc"}); err != nil {
		t.Fatalf("rest service not reconciled: %v", err)
	}
}

func TestFetchRestReplacesEndpointsAndSavesArtifact(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))
	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	m := testutil.SeedMember(t, gdb, testutil.ObservedMember("DEV", "GOV", "M1", "One", "SS-A"), t0)
	testutil.SeedService(t, gdb, m.Subsystems[0], "restSvc", "", t0)

	sub := catalog.SubsystemID{Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A"}
	svcID := catalog.ServiceID{ServiceCode: "restSvc"}

	// An endpoint from an earlier round that upstream no longer lists.
	if err := store.SaveEndpoint(context.Background(), sub, svcID, "DELETE", "/old"); err != nil {
		t.Fatalf("seed old endpoint: %v", err)
	}

	svc := registry.RestService{
		SoapService: registry.SoapService{
			Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A",
			ServiceCode: "restSvc",
		},
		ServiceType: registry.ServiceTypeRest,
		Endpoints: []registry.EndpointInfo{
			{Method: "GET", Path: "/pets"},
			{Method: "POST", Path: "/pets"},
		},
	}

	task := NewFetchRestTask(store, logger.NewNop())
	if err := task.Handle(context.Background(), svc); err != nil {
		t.Fatalf("handle: %v", err)
	}

	endpoints, err := store.GetEndpoints(context.Background(), sub, svcID)
	if err != nil {
		t.Fatalf("get endpoints: %v", err)
	}
	active := 0
	for _, ep := range endpoints {
		if ep.Method == "DELETE" && !ep.IsRemoved() {
			t.Fatalf("stale endpoint survived the replace")
		}
		if !ep.IsRemoved() {
			active++
		}
	}
	if active != 2 {
		t.Fatalf("expected 2 active endpoints, got %d", active)
	}

	rest, err := store.GetActiveRest(context.Background(), sub, svcID)
	if err != nil {
		t.Fatalf("get rest artifact: %v", err)
	}
	var payload struct {
		EndpointData []struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		} `json:"endpoint_data"`
	}
	if err := json.Unmarshal(rest.Data, &payload); err != nil {
		t.Fatalf("artifact payload: %v", err)
	}
	if len(payload.EndpointData) != 2 || payload.EndpointData[0].Method != "GET" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUpdateExternalsReinjectsStaleMembers(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))
	now := time.Now().UTC()
	testutil.SeedMember(t, gdb, testutil.ObservedMember("DEV", "GOV", "STALE", "Stale"), now)
	testutil.SeedCompany(t, gdb, "STALE", now.AddDate(0, 0, -30))

	companiesQueue := NewQueue[string]()
	organizationsQueue := NewQueue[string]()
	defer companiesQueue.Close()
	defer organizationsQueue.Close()

	task := NewUpdateExternalsTask(
		store, companiesQueue, organizationsQueue,
		Window{Unlimited: true}, 7, 500,
		logger.NewNop(),
	)
	task.Run(context.Background())

	if got := takeOrFail(t, companiesQueue); got != "STALE" {
		t.Fatalf("expected STALE on companies queue, got %q", got)
	}
	if got := takeOrFail(t, organizationsQueue); got != "STALE" {
		t.Fatalf("expected STALE on organizations queue, got %q", got)
	}
}

func TestUpdateExternalsSweepFailureWritesErrorLog(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))
	if err := gdb.Exec("DROP TABLE members").Error; err != nil {
		t.Fatalf("drop members table: %v", err)
	}

	companiesQueue := NewQueue[string]()
	defer companiesQueue.Close()

	task := NewUpdateExternalsTask(
		store, companiesQueue, nil,
		Window{Unlimited: true}, 7, 500,
		logger.NewNop(),
	)
	task.Run(context.Background())

	entries, err := store.GetErrorLogEntries(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("get error log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one error log entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Message, "stale member query failed") {
		t.Fatalf("unexpected error log message %q", entries[0].Message)
	}
	assertEmpty(t, companiesQueue)
}

func TestUpdateExternalsClosedWindowSkips(t *testing.T) {
	gdb := testutil.DB(t)
	store := catalogstore.New(gdb, testutil.Logger(t))
	now := time.Now().UTC()
	testutil.SeedMember(t, gdb, testutil.ObservedMember("DEV", "GOV", "STALE", "Stale"), now)

	companiesQueue := NewQueue[string]()
	defer companiesQueue.Close()

	task := NewUpdateExternalsTask(
		store, companiesQueue, nil,
		Window{AfterHour: 23, BeforeHour: 23}, 7, 500,
		logger.NewNop(),
	)
	task.Run(context.Background())

	assertEmpty(t, companiesQueue)
}
