package catalogstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haltiadata/catalog-collector/internal/catalog/reconcile"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// SaveServices merges one observed service list into the stored services of
// a single subsystem, in one transaction. Services of other subsystems are
// never touched, even when they share service codes. Fails with
// ErrSubsystemNotFound when the subsystem has never been observed.
func (s *gormStore) SaveServices(ctx context.Context, sub catalog.SubsystemID, observed []*catalog.Service) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subsystem, err := s.findSubsystem(tx, sub)
		if err != nil {
			return err
		}

		var stored []*catalog.Service
		if err := tx.Where("subsystem_id = ?", subsystem.ID).Find(&stored).Error; err != nil {
			return err
		}

		// A service carries no semantic fields beyond its natural key, so
		// content never changes; presence is the only signal.
		outcome := reconcile.Merge(now, stored, observed,
			func(st, ob *catalog.Service) bool { return true },
			func(dst, src *catalog.Service) {},
		)

		for _, svc := range outcome.All {
			svc.SubsystemID = subsystem.ID
			if err := tx.Omit(clause.Associations).Save(svc).Error; err != nil {
				return err
			}
		}

		s.log.Debug("Services reconciled",
			"subsystem", sub.String(),
			"observed", len(observed),
			"created", outcome.Created,
			"resurrected", outcome.Resurrected,
			"removed", outcome.Removed,
		)
		return nil
	})
}

func (s *gormStore) GetService(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Service, error) {
	var service *catalog.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		if err := tx.Preload("Endpoints").First(found, "id = ?", found.ID).Error; err != nil {
			return err
		}
		service = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return service, nil
}
