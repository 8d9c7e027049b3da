package catalog

import (
	"github.com/google/uuid"
)

// Service is one SOAP/REST/OpenAPI-described operation set under a
// Subsystem. It owns at most one active description artifact and a set of
// endpoints.
type Service struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SubsystemID    uuid.UUID   `gorm:"type:uuid;column:subsystem_id;not null;uniqueIndex:ux_service_natural,priority:1" json:"subsystem_id"`
	ServiceCode    string      `gorm:"column:service_code;not null;uniqueIndex:ux_service_natural,priority:2" json:"service_code"`
	ServiceVersion string      `gorm:"column:service_version;not null;default:'';uniqueIndex:ux_service_natural,priority:3" json:"service_version"`
	Endpoints      []*Endpoint `gorm:"foreignKey:ServiceID" json:"endpoints,omitempty"`
	StatusInfo     `gorm:"embedded"`
}

func (s *Service) NaturalKey() ServiceID {
	return ServiceID{ServiceCode: s.ServiceCode, ServiceVersion: s.ServiceVersion}
}

// Endpoint is one HTTP method/path pair exposed by a REST or OpenAPI
// service.
type Endpoint struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;column:service_id;not null;uniqueIndex:ux_endpoint_natural,priority:1" json:"service_id"`
	Method     string    `gorm:"column:method;not null;uniqueIndex:ux_endpoint_natural,priority:2" json:"method"`
	Path       string    `gorm:"column:path;not null;uniqueIndex:ux_endpoint_natural,priority:3" json:"path"`
	StatusInfo `gorm:"embedded"`
}

func (e *Endpoint) NaturalKey() EndpointID {
	return EndpointID{Method: e.Method, Path: e.Path}
}
