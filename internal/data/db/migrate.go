package db

import (
	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(

		// =========================
		// Registry hierarchy
		// =========================
		&catalog.Member{},
		&catalog.Subsystem{},
		&catalog.Service{},
		&catalog.Endpoint{},
		&catalog.Wsdl{},
		&catalog.OpenApi{},
		&catalog.Rest{},

		// =========================
		// Business registry mirror
		// =========================
		&catalog.Company{},
		&catalog.BusinessName{},
		&catalog.BusinessAuxiliaryName{},
		&catalog.BusinessAddress{},
		&catalog.BusinessIDChange{},
		&catalog.BusinessLine{},
		&catalog.CompanyForm{},
		&catalog.ContactDetail{},
		&catalog.CompanyLanguage{},
		&catalog.Liquidation{},
		&catalog.RegisteredEntry{},
		&catalog.RegisteredOffice{},

		// =========================
		// Organization registry mirror
		// =========================
		&catalog.Organization{},
		&catalog.OrganizationName{},
		&catalog.OrganizationDescription{},
		&catalog.Email{},
		&catalog.PhoneNumber{},
		&catalog.WebPage{},
		&catalog.Address{},

		// =========================
		// Operational
		// =========================
		&catalog.ErrorLog{},
	)
}
