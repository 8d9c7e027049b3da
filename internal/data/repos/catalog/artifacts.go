package catalogstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// externalID derives the stable audit identifier of an artifact payload.
// Identical content always maps to the same id.
func externalID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// artifactTarget resolves the owning service and enforces the singleton
// invariants: the service must exist and must not be removed.
func (s *gormStore) artifactTarget(tx *gorm.DB, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Service, error) {
	service, err := s.findService(tx, sub, svc)
	if err != nil {
		return nil, err
	}
	if service.IsRemoved() {
		return nil, ErrServiceRemoved
	}
	return service, nil
}

// SaveWsdl stores a WSDL observation for a service. Unchanged content only
// refreshes the fetched timestamp of the active row; changed content retires
// the active row and inserts a new one, keeping the old for history.
func (s *gormStore) SaveWsdl(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data string) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.artifactTarget(tx, sub, svc)
		if err != nil {
			return err
		}

		var active []*catalog.Wsdl
		if err := tx.Where("service_id = ? AND status_removed IS NULL", service.ID).Find(&active).Error; err != nil {
			return err
		}
		if len(active) > 1 {
			return ErrMultipleActiveArtifacts
		}

		if len(active) == 1 {
			current := active[0]
			if current.Data == data {
				current.MarkSeen(now, false)
				return tx.Save(current).Error
			}
			current.MarkAbsent(now)
			if err := tx.Save(current).Error; err != nil {
				return err
			}
		}

		fresh := &catalog.Wsdl{
			ServiceID:  service.ID,
			ExternalID: externalID([]byte(data)),
			Data:       data,
		}
		fresh.MarkNew(now)
		return tx.Create(fresh).Error
	})
}

// SaveOpenApi stores an OpenAPI document observation. Same rules as SaveWsdl.
func (s *gormStore) SaveOpenApi(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data string) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.artifactTarget(tx, sub, svc)
		if err != nil {
			return err
		}

		var active []*catalog.OpenApi
		if err := tx.Where("service_id = ? AND status_removed IS NULL", service.ID).Find(&active).Error; err != nil {
			return err
		}
		if len(active) > 1 {
			return ErrMultipleActiveArtifacts
		}

		if len(active) == 1 {
			current := active[0]
			if current.Data == data {
				current.MarkSeen(now, false)
				return tx.Save(current).Error
			}
			current.MarkAbsent(now)
			if err := tx.Save(current).Error; err != nil {
				return err
			}
		}

		fresh := &catalog.OpenApi{
			ServiceID:  service.ID,
			ExternalID: externalID([]byte(data)),
			Data:       data,
		}
		fresh.MarkNew(now)
		return tx.Create(fresh).Error
	})
}

// SaveRest stores the collector-built endpoint document of a REST service.
// Same rules as SaveWsdl.
func (s *gormStore) SaveRest(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID, data []byte) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.artifactTarget(tx, sub, svc)
		if err != nil {
			return err
		}

		var active []*catalog.Rest
		if err := tx.Where("service_id = ? AND status_removed IS NULL", service.ID).Find(&active).Error; err != nil {
			return err
		}
		if len(active) > 1 {
			return ErrMultipleActiveArtifacts
		}

		if len(active) == 1 {
			current := active[0]
			if bytes.Equal([]byte(current.Data), data) {
				current.MarkSeen(now, false)
				return tx.Save(current).Error
			}
			current.MarkAbsent(now)
			if err := tx.Save(current).Error; err != nil {
				return err
			}
		}

		fresh := &catalog.Rest{
			ServiceID:  service.ID,
			ExternalID: externalID(data),
			Data:       datatypes.JSON(data),
		}
		fresh.MarkNew(now)
		return tx.Create(fresh).Error
	})
}

func (s *gormStore) GetActiveWsdl(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Wsdl, error) {
	var row catalog.Wsdl
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		return tx.Where("service_id = ? AND status_removed IS NULL", service.ID).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *gormStore) GetActiveOpenApi(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.OpenApi, error) {
	var row catalog.OpenApi
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		return tx.Where("service_id = ? AND status_removed IS NULL", service.ID).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *gormStore) GetActiveRest(ctx context.Context, sub catalog.SubsystemID, svc catalog.ServiceID) (*catalog.Rest, error) {
	var row catalog.Rest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := s.findService(tx, sub, svc)
		if err != nil {
			return err
		}
		return tx.Where("service_id = ? AND status_removed IS NULL", service.ID).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
