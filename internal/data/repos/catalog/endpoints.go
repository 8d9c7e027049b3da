package catalogstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// PrepareEndpoints marks every endpoint of the service removed. The fetch
// stages call this before re-saving the freshly retrieved endpoint list, so
// the pair implements a full replace: endpoints still present upstream come
// back as resurrections, the rest stay removed.
func (s *gormStore) PrepareEndpoints(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		return tx.Model(&catalog.Endpoint{}).
			Where("service_id = ? AND status_removed IS NULL", service.ID).
			Update("status_removed", now).Error
	})
}

// SaveEndpoint creates or resurrects a single endpoint of the service.
func (s *gormStore) SaveEndpoint(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, method, path string) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}

		var endpoint catalog.Endpoint
		err = tx.
			Where("service_id = ? AND method = ? AND path = ?", service.ID, method, path).
			First(&endpoint).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			endpoint = catalog.Endpoint{
				ServiceID: service.ID,
				Method:    method,
				Path:      path,
			}
			endpoint.MarkNew(now)
			return tx.Create(&endpoint).Error
		}
		if err != nil {
			return err
		}

		// The key is the whole content, so a re-observation is never a
		// content change.
		endpoint.MarkSeen(now, false)
		return tx.Save(&endpoint).Error
	})
}

func (s *gormStore) GetEndpoints(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) ([]*catalog.Endpoint, error) {
	var endpoints []*catalog.Endpoint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		return tx.Where("service_id = ?", service.ID).Order("method, path").Find(&endpoints).Error
	})
	if err != nil {
		return nil, err
	}
	return endpoints, nil
}
