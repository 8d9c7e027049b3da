package catalog

import (
	"github.com/google/uuid"
)

// Organization mirrors one public-organization record. Like Company, its
// sub-records are appended per observation and never removed-reconciled.
type Organization struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GUID             string    `gorm:"column:guid;not null;uniqueIndex:ux_organization_guid" json:"guid"`
	BusinessCode     string    `gorm:"column:business_code;not null" json:"business_code"`
	OrganizationType string    `gorm:"column:organization_type;not null" json:"organization_type"`
	PublishingStatus string    `gorm:"column:publishing_status;not null" json:"publishing_status"`

	Names        []*OrganizationName        `gorm:"foreignKey:OrganizationID" json:"names,omitempty"`
	Descriptions []*OrganizationDescription `gorm:"foreignKey:OrganizationID" json:"descriptions,omitempty"`
	Emails       []*Email                   `gorm:"foreignKey:OrganizationID" json:"emails,omitempty"`
	PhoneNumbers []*PhoneNumber             `gorm:"foreignKey:OrganizationID" json:"phone_numbers,omitempty"`
	WebPages     []*WebPage                 `gorm:"foreignKey:OrganizationID" json:"web_pages,omitempty"`
	Addresses    []*Address                 `gorm:"foreignKey:OrganizationID" json:"addresses,omitempty"`

	StatusInfo `gorm:"embedded"`
}

// ContentEquals compares the semantic organization fields, ignoring
// surrogate ids, status timestamps and sub-records.
func (o *Organization) ContentEquals(other *Organization) bool {
	return o.GUID == other.GUID &&
		o.BusinessCode == other.BusinessCode &&
		o.OrganizationType == other.OrganizationType &&
		o.PublishingStatus == other.PublishingStatus
}

type OrganizationName struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Type           string    `gorm:"column:type" json:"type,omitempty"`
	Language       string    `gorm:"column:language" json:"language,omitempty"`
	Value          string    `gorm:"column:value" json:"value,omitempty"`
	StatusInfo     `gorm:"embedded"`
}

type OrganizationDescription struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Type           string    `gorm:"column:type" json:"type,omitempty"`
	Language       string    `gorm:"column:language" json:"language,omitempty"`
	Value          string    `gorm:"column:value;type:text" json:"value,omitempty"`
	StatusInfo     `gorm:"embedded"`
}

type Email struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Language       string    `gorm:"column:language" json:"language,omitempty"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	Value          string    `gorm:"column:value" json:"value,omitempty"`
	StatusInfo     `gorm:"embedded"`
}

type PhoneNumber struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID        uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Language              string    `gorm:"column:language" json:"language,omitempty"`
	Number                string    `gorm:"column:number" json:"number,omitempty"`
	PrefixNumber          string    `gorm:"column:prefix_number" json:"prefix_number,omitempty"`
	ChargeDescription     string    `gorm:"column:charge_description" json:"charge_description,omitempty"`
	AdditionalInformation string    `gorm:"column:additional_information" json:"additional_information,omitempty"`
	IsFinnishService      bool      `gorm:"column:is_finnish_service" json:"is_finnish_service"`
	StatusInfo            `gorm:"embedded"`
}

type WebPage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Language       string    `gorm:"column:language" json:"language,omitempty"`
	URL            string    `gorm:"column:url" json:"url,omitempty"`
	Value          string    `gorm:"column:value" json:"value,omitempty"`
	StatusInfo     `gorm:"embedded"`
}

// Address is the flattened street / post-office-box address of an
// organization.
type Address struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID        uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Type                  string    `gorm:"column:type" json:"type,omitempty"`
	SubType               string    `gorm:"column:sub_type" json:"sub_type,omitempty"`
	Country               string    `gorm:"column:country" json:"country,omitempty"`
	Language              string    `gorm:"column:language" json:"language,omitempty"`
	Street                string    `gorm:"column:street" json:"street,omitempty"`
	PostOfficeBox         string    `gorm:"column:post_office_box" json:"post_office_box,omitempty"`
	PostalCode            string    `gorm:"column:postal_code" json:"postal_code,omitempty"`
	City                  string    `gorm:"column:city" json:"city,omitempty"`
	AdditionalInformation string    `gorm:"column:additional_information" json:"additional_information,omitempty"`
	StatusInfo            `gorm:"embedded"`
}
