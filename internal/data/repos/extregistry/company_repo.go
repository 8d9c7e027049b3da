// Package extregistry persists the company and organization trees fetched
// from the national business and organization registries. Parent nodes
// follow the usual lifecycle discipline; sub-records are appended under the
// parent observation and never removed-reconciled.
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

type CompanyRepo interface {
	SaveCompany(ctx context.Context, observed *catalog.Company) error
	GetCompany(ctx context.Context, businessID string) (*catalog.Company, error)
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewCompanyRepo(gdb *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{
		db:  gdb,
		log: baseLog.With("repo", "CompanyRepo"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SaveCompany upserts the company node by business id and appends the
// sub-records carried on the observation.
func (r *companyRepo) SaveCompany(ctx context.Context, observed *catalog.Company) error {
	now := r.now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored catalog.Company
		err := tx.Where("business_id = ?", observed.BusinessID).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observed.MarkNew(now)
			markCompanyChildrenNew(observed, now)
			return tx.Create(observed).Error
		}
		if err != nil {
			return err
		}

		changed := !stored.ContentEquals(observed)
		if changed {
			stored.CompanyForm = observed.CompanyForm
			stored.DetailsURI = observed.DetailsURI
			stored.Name = observed.Name
			stored.RegistrationDate = observed.RegistrationDate
		}
		stored.MarkSeen(now, changed)
		if err := tx.Omit(clause.Associations).Save(&stored).Error; err != nil {
			return err
		}
		return createCompanyChildren(tx, observed, stored.ID, now)
	})
}

func markCompanyChildrenNew(c *catalog.Company, now time.Time) {
	for _, v := range c.BusinessNames {
		v.MarkNew(now)
	}
	for _, v := range c.BusinessAuxiliaryNames {
		v.MarkNew(now)
	}
	for _, v := range c.BusinessAddresses {
		v.MarkNew(now)
	}
	for _, v := range c.BusinessIDChanges {
		v.MarkNew(now)
	}
	for _, v := range c.BusinessLines {
		v.MarkNew(now)
	}
	for _, v := range c.CompanyForms {
		v.MarkNew(now)
	}
	for _, v := range c.ContactDetails {
		v.MarkNew(now)
	}
	for _, v := range c.Languages {
		v.MarkNew(now)
	}
	for _, v := range c.Liquidations {
		v.MarkNew(now)
	}
	for _, v := range c.RegisteredEntries {
		v.MarkNew(now)
	}
	for _, v := range c.RegisteredOffices {
		v.MarkNew(now)
	}
}

func createCompanyChildren(tx *gorm.DB, c *catalog.Company, companyID uuid.UUID, now time.Time) error {
	for _, v := range c.BusinessNames {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.BusinessAuxiliaryNames {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.BusinessAddresses {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.BusinessIDChanges {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.BusinessLines {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.CompanyForms {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.ContactDetails {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.Languages {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.Liquidations {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.RegisteredEntries {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	for _, v := range c.RegisteredOffices {
		v.CompanyID = companyID
		v.MarkNew(now)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *companyRepo) GetCompany(ctx context.Context, businessID string) (*catalog.Company, error) {
	var company catalog.Company
	err := r.db.WithContext(ctx).
		Preload(clause.Associations).
		Where("business_id = ?", businessID).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
