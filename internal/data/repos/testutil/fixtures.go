package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// ObservedMember builds an unsaved member observation carrying the given
// subsystem codes, the shape pipeline stages hand to the store.
func ObservedMember(instance, class, code, name string, subsystemCodes ...string) *catalog.Member {
	m := catalog.NewMember(instance, class, code, name)
	for _, sc := range subsystemCodes {
		m.Subsystems = append(m.Subsystems, &catalog.Subsystem{SubsystemCode: sc})
	}
	return m
}

// SeedMember persists a member with subsystems as if a collection round had
// already observed it at the given time.
func SeedMember(tb testing.TB, gdb *gorm.DB, m *catalog.Member, seen time.Time) *catalog.Member {
	tb.Helper()
	m.MarkNew(seen)
	for _, ss := range m.Subsystems {
		ss.MarkNew(seen)
	}
	if err := gdb.Create(m).Error; err != nil {
		tb.Fatalf("seed member: %v", err)
	}
	return m
}

// SeedService persists one service under an already-seeded subsystem.
func SeedService(tb testing.TB, gdb *gorm.DB, ss *catalog.Subsystem, code, version string, seen time.Time) *catalog.Service {
	tb.Helper()
	svc := &catalog.Service{
		SubsystemID:    ss.ID,
		ServiceCode:    code,
		ServiceVersion: version,
	}
	svc.MarkNew(seen)
	if err := gdb.Create(svc).Error; err != nil {
		tb.Fatalf("seed service: %v", err)
	}
	return svc
}

// SeedCompany persists a company row with the given business id and fetch
// time, used by stale-member query tests.
func SeedCompany(tb testing.TB, gdb *gorm.DB, businessID string, fetched time.Time) *catalog.Company {
	tb.Helper()
	c := &catalog.Company{
		BusinessID: businessID,
		Name:       "seeded " + businessID,
	}
	c.MarkNew(fetched)
	if err := gdb.Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}
