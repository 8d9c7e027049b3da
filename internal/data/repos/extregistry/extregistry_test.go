package extregistry

import (
	"context"
	"testing"
	"time"

	"github.com/haltiadata/catalog-collector/internal/data/repos/testutil"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

func observedCompany(name string) *catalog.Company {
	return &catalog.Company{
		BusinessID:       "1234567-8",
		CompanyForm:      "OYJ",
		Name:             name,
		RegistrationDate: time.Date(2001, 6, 11, 0, 0, 0, 0, time.UTC),
		BusinessLines: []*catalog.BusinessLine{
			{Name: "data processing", Language: "EN", Source: 2, Version: 1, Ordering: 0},
		},
	}
}

func TestSaveCompanyCreatesWithChildren(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewCompanyRepo(gdb, testutil.Logger(t)).(*companyRepo)
	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return t0 }

	if err := repo.SaveCompany(context.Background(), observedCompany("Example Oyj")); err != nil {
		t.Fatalf("save company: %v", err)
	}

	got, err := repo.GetCompany(context.Background(), "1234567-8")
	if err != nil {
		t.Fatalf("get company: %v", err)
	}
	if got.Name != "Example Oyj" || !got.Created.Equal(t0) || got.IsRemoved() {
		t.Fatalf("unexpected company: %+v", got)
	}
	if len(got.BusinessLines) != 1 || got.BusinessLines[0].Name != "data processing" {
		t.Fatalf("sub-records not persisted: %+v", got.BusinessLines)
	}
	if got.BusinessLines[0].CompanyID != got.ID {
		t.Fatalf("child not linked to parent")
	}
}

func TestSaveCompanyUpsertsAndAppendsChildren(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewCompanyRepo(gdb, testutil.Logger(t)).(*companyRepo)

	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)
	ctx := context.Background()

	repo.now = func() time.Time { return t0 }
	if err := repo.SaveCompany(ctx, observedCompany("Example Oyj")); err != nil {
		t.Fatalf("first save: %v", err)
	}

	repo.now = func() time.Time { return t1 }
	if err := repo.SaveCompany(ctx, observedCompany("Example Renamed Oyj")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.GetCompany(ctx, "1234567-8")
	if err != nil {
		t.Fatalf("get company: %v", err)
	}
	if got.Name != "Example Renamed Oyj" {
		t.Fatalf("rename not applied: %q", got.Name)
	}
	if !got.Created.Equal(t0) || !got.Changed.Equal(t1) || !got.Fetched.Equal(t1) {
		t.Fatalf("lifecycle wrong: created=%v changed=%v fetched=%v", got.Created, got.Changed, got.Fetched)
	}

	var companies int64
	if err := gdb.Model(&catalog.Company{}).Count(&companies).Error; err != nil {
		t.Fatalf("count companies: %v", err)
	}
	if companies != 1 {
		t.Fatalf("upsert must not duplicate the parent, got %d", companies)
	}

	// Sub-records append per observation.
	if len(got.BusinessLines) != 2 {
		t.Fatalf("expected appended sub-records, got %d", len(got.BusinessLines))
	}
}

func TestSaveCompanyUnchangedContentKeepsChanged(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewCompanyRepo(gdb, testutil.Logger(t)).(*companyRepo)

	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)
	ctx := context.Background()

	repo.now = func() time.Time { return t0 }
	if err := repo.SaveCompany(ctx, observedCompany("Example Oyj")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	repo.now = func() time.Time { return t1 }
	if err := repo.SaveCompany(ctx, observedCompany("Example Oyj")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.GetCompany(ctx, "1234567-8")
	if err != nil {
		t.Fatalf("get company: %v", err)
	}
	if !got.Changed.Equal(t0) {
		t.Fatalf("changed moved without content change: %v", got.Changed)
	}
	if !got.Fetched.Equal(t1) {
		t.Fatalf("fetched must move: %v", got.Fetched)
	}
}

func observedOrganization(status string) *catalog.Organization {
	return &catalog.Organization{
		GUID:             "a1b2c3",
		BusinessCode:     "0000000-0",
		OrganizationType: "Municipality",
		PublishingStatus: status,
		Names: []*catalog.OrganizationName{
			{Type: "Name", Language: "fi", Value: "Esimerkkikunta"},
		},
		Addresses: []*catalog.Address{
			{Type: "Postal", SubType: "Street", Street: "Esimerkkikatu 1", PostalCode: "00100", City: "Helsinki"},
		},
	}
}

func TestSaveOrganizationUpsertsByGUID(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewOrganizationRepo(gdb, testutil.Logger(t)).(*organizationRepo)

	t0 := time.Date(2026, 5, 1, 3, 30, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)
	ctx := context.Background()

	repo.now = func() time.Time { return t0 }
	if err := repo.SaveOrganization(ctx, observedOrganization("Published")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	repo.now = func() time.Time { return t1 }
	if err := repo.SaveOrganization(ctx, observedOrganization("Archived")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.GetOrganization(ctx, "a1b2c3")
	if err != nil {
		t.Fatalf("get organization: %v", err)
	}
	if got.PublishingStatus != "Archived" {
		t.Fatalf("status not applied: %q", got.PublishingStatus)
	}
	if !got.Created.Equal(t0) || !got.Changed.Equal(t1) {
		t.Fatalf("lifecycle wrong: created=%v changed=%v", got.Created, got.Changed)
	}

	var organizations int64
	if err := gdb.Model(&catalog.Organization{}).Count(&organizations).Error; err != nil {
		t.Fatalf("count organizations: %v", err)
	}
	if organizations != 1 {
		t.Fatalf("upsert must not duplicate, got %d", organizations)
	}
	if len(got.Names) != 2 || len(got.Addresses) != 2 {
		t.Fatalf("sub-records must append per observation: names=%d addresses=%d", len(got.Names), len(got.Addresses))
	}
	for _, n := range got.Names {
		if n.OrganizationID != got.ID {
			t.Fatalf("child not linked to parent")
		}
	}
}
