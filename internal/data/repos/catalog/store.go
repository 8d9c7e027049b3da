// Package catalogstore is the persistence façade of the collector. It wraps
// the generic reconcile engine with schema-specific comparators and owns the
// transaction boundary of every aggregate-level save. Pipeline stages never
// mutate rows directly; everything goes through this store.
package catalogstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

var (
	// ErrSubsystemNotFound signals a save against a subsystem the mirror
	// has never seen. This is a wiring or ordering bug in the caller, not
	// an upstream condition.
	ErrSubsystemNotFound = errors.New("subsystem not found")

	// ErrServiceNotFound signals a save against an unknown service.
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceRemoved signals an attempt to attach data to a service
	// that is currently soft-deleted. Never valid; fail fast.
	ErrServiceRemoved = errors.New("service is removed")

	// ErrMultipleActiveArtifacts signals a broken singleton invariant in
	// the stored data.
	ErrMultipleActiveArtifacts = errors.New("multiple active artifacts for service")
)

// Store is the catalog persistence API consumed by the pipeline stages.
type Store interface {
	SaveMembersAndSubsystems(ctx context.Context, observed []*catalog.Member) ([]*catalog.Member, error)
	SaveServices(ctx context.Context, sub catalog.SubsystemID, observed []*catalog.Service) error

	PrepareEndpoints(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) error
	SaveEndpoint(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, method, path string) error

	SaveWsdl(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data string) error
	SaveOpenApi(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data string) error
	SaveRest(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data []byte) error

	SaveErrorLog(ctx context.Context, entry *catalog.ErrorLog) error
	DeleteOldErrorLogEntries(ctx context.Context, retentionDays int) error

	GetMembersRequiringExternalUpdate(ctx context.Context, staleDays, limit int) ([]string, error)
	CheckConnection(ctx context.Context) bool

	GetMember(ctx context.Context, id catalog.MemberID) (*catalog.Member, error)
	GetService(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Service, error)
	GetEndpoints(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) ([]*catalog.Endpoint, error)
	GetActiveWsdl(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Wsdl, error)
	GetActiveOpenApi(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.OpenApi, error)
	GetActiveRest(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Rest, error)
	GetErrorLogEntries(ctx context.Context, since time.Time) ([]*catalog.ErrorLog, error)
}

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func New(gdb *gorm.DB, baseLog *logger.Logger) Store {
	return &gormStore{
		db:  gdb,
		log: baseLog.With("repo", "CatalogStore"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// findSubsystem resolves a natural subsystem key inside a transaction.
func (s *gormStore) findSubsystem(tx *gorm.DB, sub catalog.SubsystemID) (*catalog.Subsystem, error) {
	var member catalog.Member
	err := tx.
		Where("instance = ? AND member_class = ? AND member_code = ?",
			sub.Instance, sub.MemberClass, sub.MemberCode).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubsystemNotFound
	}
	if err != nil {
		return nil, err
	}

	var subsystem catalog.Subsystem
	err = tx.
		Where("member_id = ? AND subsystem_code = ?", member.ID, sub.SubsystemCode).
		First(&subsystem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubsystemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subsystem, nil
}

// findService resolves a natural service key inside a transaction.
func (s *gormStore) findService(tx *gorm.DB, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Service, error) {
	subsystem, err := s.findSubsystem(tx, sub)
	if err != nil {
		if errors.Is(err, ErrSubsystemNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	var service catalog.Service
	err = tx.
		Where("subsystem_id = ? AND service_code = ? AND service_version = ?",
			subsystem.ID, svc.ServiceCode, svc.ServiceVersion).
		First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *gormStore) CheckConnection(ctx context.Context) bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
