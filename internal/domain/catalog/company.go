package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Company mirrors one business-registry record for a member. Sub-records
// are appended under the company observation; they are not diffed against
// earlier fetches, so no removed-reconciliation happens below this level.
type Company struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID       string    `gorm:"column:business_id;not null;uniqueIndex:ux_company_business_id" json:"business_id"`
	CompanyForm      string    `gorm:"column:company_form" json:"company_form,omitempty"`
	DetailsURI       string    `gorm:"column:details_uri" json:"details_uri,omitempty"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	RegistrationDate time.Time `gorm:"column:registration_date" json:"registration_date"`

	BusinessNames          []*BusinessName          `gorm:"foreignKey:CompanyID" json:"business_names,omitempty"`
	BusinessAuxiliaryNames []*BusinessAuxiliaryName `gorm:"foreignKey:CompanyID" json:"business_auxiliary_names,omitempty"`
	BusinessAddresses      []*BusinessAddress       `gorm:"foreignKey:CompanyID" json:"business_addresses,omitempty"`
	BusinessIDChanges      []*BusinessIDChange      `gorm:"foreignKey:CompanyID" json:"business_id_changes,omitempty"`
	BusinessLines          []*BusinessLine          `gorm:"foreignKey:CompanyID" json:"business_lines,omitempty"`
	CompanyForms           []*CompanyForm           `gorm:"foreignKey:CompanyID" json:"company_forms,omitempty"`
	ContactDetails         []*ContactDetail         `gorm:"foreignKey:CompanyID" json:"contact_details,omitempty"`
	Languages              []*CompanyLanguage       `gorm:"foreignKey:CompanyID" json:"languages,omitempty"`
	Liquidations           []*Liquidation           `gorm:"foreignKey:CompanyID" json:"liquidations,omitempty"`
	RegisteredEntries      []*RegisteredEntry       `gorm:"foreignKey:CompanyID" json:"registered_entries,omitempty"`
	RegisteredOffices      []*RegisteredOffice      `gorm:"foreignKey:CompanyID" json:"registered_offices,omitempty"`

	StatusInfo `gorm:"embedded"`
}

// ContentEquals compares the semantic company fields, ignoring surrogate
// ids, status timestamps and sub-records.
func (c *Company) ContentEquals(o *Company) bool {
	return c.BusinessID == o.BusinessID &&
		c.CompanyForm == o.CompanyForm &&
		c.DetailsURI == o.DetailsURI &&
		c.Name == o.Name &&
		c.RegistrationDate.Equal(o.RegistrationDate)
}

type BusinessName struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	Ordering         int        `gorm:"column:ordering" json:"ordering"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type BusinessAuxiliaryName struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	Ordering         int        `gorm:"column:ordering" json:"ordering"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type BusinessAddress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Street           string     `gorm:"column:street" json:"street,omitempty"`
	PostCode         string     `gorm:"column:post_code" json:"post_code,omitempty"`
	City             string     `gorm:"column:city" json:"city,omitempty"`
	Country          string     `gorm:"column:country" json:"country,omitempty"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Type             int        `gorm:"column:type" json:"type"`
	CareOf           string     `gorm:"column:care_of" json:"care_of,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type BusinessIDChange struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	OldBusinessID string    `gorm:"column:old_business_id" json:"old_business_id,omitempty"`
	NewBusinessID string    `gorm:"column:new_business_id" json:"new_business_id,omitempty"`
	Change        string    `gorm:"column:change" json:"change,omitempty"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	Reason        string    `gorm:"column:reason" json:"reason,omitempty"`
	Source        int       `gorm:"column:source" json:"source"`
	ChangeDate    string    `gorm:"column:change_date" json:"change_date,omitempty"`
	StatusInfo    `gorm:"embedded"`
}

type BusinessLine struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	Ordering         int        `gorm:"column:ordering" json:"ordering"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type CompanyForm struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Type             int        `gorm:"column:type" json:"type"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type ContactDetail struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Value            string     `gorm:"column:value" json:"value,omitempty"`
	Type             string     `gorm:"column:type" json:"type,omitempty"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type CompanyLanguage struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type Liquidation struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Type             int        `gorm:"column:type" json:"type"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type RegisteredEntry struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Description      string     `gorm:"column:description" json:"description,omitempty"`
	Status           int        `gorm:"column:status" json:"status"`
	Register         int        `gorm:"column:register" json:"register"`
	Authority        int        `gorm:"column:authority" json:"authority"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}

type RegisteredOffice struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;column:company_id;not null;index" json:"company_id"`
	Name             string     `gorm:"column:name" json:"name"`
	Language         string     `gorm:"column:language" json:"language,omitempty"`
	Source           int        `gorm:"column:source" json:"source"`
	Version          int        `gorm:"column:version" json:"version"`
	Ordering         int        `gorm:"column:ordering" json:"ordering"`
	RegistrationDate *time.Time `gorm:"column:registration_date" json:"registration_date,omitempty"`
	EndDate          *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	StatusInfo       `gorm:"embedded"`
}
