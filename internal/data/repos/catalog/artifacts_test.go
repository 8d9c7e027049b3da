package catalogstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/haltiadata/catalog-collector/internal/data/repos/testutil"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

func seedArtifactService(t *testing.T, s *gormStore) (catalog.SubsystemID, catalog.ServiceID) {
	t.Helper()
	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	m := testutil.SeedMember(t, s.db,
		testutil.ObservedMember("DEV", "GOV", "M1", "One", "SS-A"), t0)
	testutil.SeedService(t, s.db, m.Subsystems[0], "svc", "v1", t0)
	return catalog.SubsystemID{Instance: "DEV", MemberClass: "GOV", MemberCode: "M1", SubsystemCode: "SS-A"},
		catalog.ServiceID{ServiceCode: "svc", ServiceVersion: "v1"}
}

func TestSaveWsdlUnchangedContentRefreshesActiveRow(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub, svc := seedArtifactService(t, s)

	t0 := time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	at(s, t0)
	if err := s.SaveWsdl(ctx, sub, svc, "<wsdl/>"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	at(s, t1)
	if err := s.SaveWsdl(ctx, sub, svc, "<wsdl/>"); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var count int64
	if err := s.db.Model(&catalog.Wsdl{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("unchanged content must not create rows, got %d", count)
	}

	active, err := s.GetActiveWsdl(ctx, sub, svc)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if !active.Fetched.Equal(t1) || !active.Created.Equal(t0) {
		t.Fatalf("fetched=%v created=%v", active.Fetched, active.Created)
	}
}

func TestSaveWsdlChangedContentRetiresAndInserts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub, svc := seedArtifactService(t, s)

	t0 := time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	at(s, t0)
	if err := s.SaveWsdl(ctx, sub, svc, "<wsdl>v1</wsdl>"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	at(s, t1)
	if err := s.SaveWsdl(ctx, sub, svc, "<wsdl>v2</wsdl>"); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var rows []*catalog.Wsdl
	if err := s.db.Order("status_created").Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected retired + active rows, got %d", len(rows))
	}
	if !rows[0].IsRemoved() || !rows[0].Removed.Equal(t1) {
		t.Fatalf("old artifact not retired at %v: %v", t1, rows[0].Removed)
	}
	if rows[1].IsRemoved() || rows[1].Data != "<wsdl>v2</wsdl>" {
		t.Fatalf("new artifact wrong: removed=%v data=%q", rows[1].Removed, rows[1].Data)
	}
	if rows[0].ExternalID == rows[1].ExternalID {
		t.Fatalf("different content must have different external ids")
	}

	active, err := s.GetActiveWsdl(ctx, sub, svc)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Data != "<wsdl>v2</wsdl>" {
		t.Fatalf("active artifact is stale: %q", active.Data)
	}
}

func TestSaveOpenApiOnRemovedServiceFailsFast(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub, svc := seedArtifactService(t, s)

	var service catalog.Service
	if err := s.db.First(&service, "service_code = ?", "svc").Error; err != nil {
		t.Fatalf("load service: %v", err)
	}
	service.MarkAbsent(time.Now().UTC())
	if err := s.db.Save(&service).Error; err != nil {
		t.Fatalf("remove service: %v", err)
	}

	err := s.SaveOpenApi(ctx, sub, svc, "{}")
	if !errors.Is(err, ErrServiceRemoved) {
		t.Fatalf("expected ErrServiceRemoved, got %v", err)
	}
}

func TestSaveRestUnknownServiceFailsFast(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub, _ := seedArtifactService(t, s)

	err := s.SaveRest(ctx, sub, catalog.ServiceID{ServiceCode: "ghost"}, []byte(`{}`))
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestSaveRestMultipleActiveRowsFailFast(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub, svc := seedArtifactService(t, s)

	t0 := time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC)
	at(s, t0)
	if err := s.SaveRest(ctx, sub, svc, []byte(`{"endpoint_data":[]}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Corrupt the invariant directly: a second active row.
	var service catalog.Service
	if err := s.db.First(&service, "service_code = ?", "svc").Error; err != nil {
		t.Fatalf("load service: %v", err)
	}
	extra := &catalog.Rest{
		ServiceID:  service.ID,
		ExternalID: "bogus",
		Data:       datatypes.JSON(`{"endpoint_data":null}`),
	}
	extra.MarkNew(t0)
	if err := s.db.Create(extra).Error; err != nil {
		t.Fatalf("seed duplicate: %v", err)
	}

	err := s.SaveRest(ctx, sub, svc, []byte(`{"endpoint_data":[]}`))
	if !errors.Is(err, ErrMultipleActiveArtifacts) {
		t.Fatalf("expected ErrMultipleActiveArtifacts, got %v", err)
	}
}
