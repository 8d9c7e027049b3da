package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ErrorLog is an append-only record of a fetch or reconciliation failure,
// with whatever identity context was known when the failure happened.
// Rows are pruned by age, never updated.
type ErrorLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Message        string    `gorm:"column:message;type:text;not null" json:"message"`
	Code           string    `gorm:"column:code;not null" json:"code"`
	Instance       string    `gorm:"column:instance" json:"instance,omitempty"`
	MemberClass    string    `gorm:"column:member_class" json:"member_class,omitempty"`
	MemberCode     string    `gorm:"column:member_code" json:"member_code,omitempty"`
	SubsystemCode  string    `gorm:"column:subsystem_code" json:"subsystem_code,omitempty"`
	ServiceCode    string    `gorm:"column:service_code" json:"service_code,omitempty"`
	ServiceVersion string    `gorm:"column:service_version" json:"service_version,omitempty"`
	Created        time.Time `gorm:"column:created;not null;index" json:"created"`
}

// NewErrorLog builds an entry stamped with the current time. ids may be nil
// when the failure happened before any identity was known.
func NewErrorLog(message, code string, sub *SubsystemID, svc *ServiceID) *ErrorLog {
	e := &ErrorLog{
		Message: message,
		Code:    code,
		Created: time.Now().UTC(),
	}
	if sub != nil {
		e.Instance = sub.Instance
		e.MemberClass = sub.MemberClass
		e.MemberCode = sub.MemberCode
		e.SubsystemCode = sub.SubsystemCode
	}
	if svc != nil {
		e.ServiceCode = svc.ServiceCode
		e.ServiceVersion = svc.ServiceVersion
	}
	return e
}
