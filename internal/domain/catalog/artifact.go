package catalog

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Wsdl is the SOAP description artifact of a service. At most one row per
// service is active (removed IS NULL); retired rows are kept for history.
// ExternalID is derived from the payload content and is stable for as long
// as the content does not change.
type Wsdl struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;column:service_id;not null;index" json:"service_id"`
	ExternalID string    `gorm:"column:external_id;not null;index" json:"external_id"`
	Data       string    `gorm:"column:data;type:text;not null" json:"data"`
	StatusInfo `gorm:"embedded"`
}

// OpenApi is the OpenAPI description artifact of a service. Same cardinality
// and history rules as Wsdl.
type OpenApi struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;column:service_id;not null;index" json:"service_id"`
	ExternalID string    `gorm:"column:external_id;not null;index" json:"external_id"`
	Data       string    `gorm:"column:data;type:text;not null" json:"data"`
	StatusInfo `gorm:"embedded"`
}

// Rest holds the collector-built endpoint document of a plain REST service.
// The payload is JSON produced by the fetch stage itself, so it is stored as
// a JSON column. Same cardinality and history rules as Wsdl.
type Rest struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID  uuid.UUID      `gorm:"type:uuid;column:service_id;not null;index" json:"service_id"`
	ExternalID string         `gorm:"column:external_id;not null;index" json:"external_id"`
	Data       datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	StatusInfo `gorm:"embedded"`
}
