package extregistry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

type OrganizationRepo interface {
	SaveOrganization(ctx context.Context, observed *catalog.Organization) error
	GetOrganization(ctx context.Context, guid string) (*catalog.Organization, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewOrganizationRepo(gdb *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return &organizationRepo{
		db:  gdb,
		log: baseLog.With("repo", "OrganizationRepo"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SaveOrganization upserts the organization node by GUID and appends the
// sub-records carried on the observation.
func (r *organizationRepo) SaveOrganization(ctx context.Context, observed *catalog.Organization) error {
	now := r.now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored catalog.Organization
		err := tx.Where("guid = ?", observed.GUID).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observed.MarkNew(now)
			markOrganizationChildrenNew(observed, now)
			return tx.Create(observed).Error
		}
		if err != nil {
			return err
		}

		changed := !stored.ContentEquals(observed)
		if changed {
			stored.BusinessCode = observed.BusinessCode
			stored.OrganizationType = observed.OrganizationType
			stored.PublishingStatus = observed.PublishingStatus
		}
		stored.MarkSeen(now, changed)
		if err := tx.Omit(clause.Associations).Save(&stored).Error; err != nil {
			return err
		}
		return createOrganizationChildren(tx, observed, stored.ID, now)
	})
}

func markOrganizationChildrenNew(o *catalog.Organization, now time.Time) {
	for _, v := range o.Names {
		v.MarkNew(now)
	}
	for _, v := range o.Descriptions {
		v.MarkNew(now)
	}
	for _, v := range o.Emails {
		v.MarkNew(now)
	}
	for _, v := range o.PhoneNumbers {
		v.MarkNew(now)
	}
	for _, v := range o.WebPages {
		v.MarkNew(now)
	}
	for _, v := range o.Addresses {
		v.MarkNew(now)
	}
}

func createOrganizationChildren(tx *gorm.DB, o *catalog.Organization, organizationID uuid.UUID, now time.Time) error {
	for _, v := range o.Names {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range o.Descriptions {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range o.Emails {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range o.PhoneNumbers {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range o.WebPages {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range o.Addresses {
		v.OrganizationID = organizationID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *organizationRepo) GetOrganization(ctx context.Context, guid string) (*catalog.Organization, error) {
	var organization catalog.Organization
	err := r.db.WithContext(ctx).
		Preload(clause.Associations).
		Where("guid = ?", guid).
		First(&organization).Error
	if err != nil {
		return nil, err
	}
	return &organization, nil
}
