package catalog

import (
	"github.com/google/uuid"
)

// Member is a top-level registry participant. The display name is the only
// mutable attribute; everything else is part of the natural key.
type Member struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Instance    string       `gorm:"column:instance;not null;uniqueIndex:ux_member_natural,priority:1" json:"instance"`
	MemberClass string       `gorm:"column:member_class;not null;uniqueIndex:ux_member_natural,priority:2" json:"member_class"`
	MemberCode  string       `gorm:"column:member_code;not null;uniqueIndex:ux_member_natural,priority:3" json:"member_code"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	Subsystems  []*Subsystem `gorm:"foreignKey:MemberID" json:"subsystems,omitempty"`
	StatusInfo  `gorm:"embedded"`
}

func NewMember(instance, memberClass, memberCode, name string) *Member {
	return &Member{
		Instance:    instance,
		MemberClass: memberClass,
		MemberCode:  memberCode,
		Name:        name,
	}
}

func (m *Member) NaturalKey() MemberID {
	return MemberID{Instance: m.Instance, MemberClass: m.MemberClass, MemberCode: m.MemberCode}
}

// ActiveSubsystems returns the subsystems not currently marked removed.
func (m *Member) ActiveSubsystems() []*Subsystem {
	out := make([]*Subsystem, 0, len(m.Subsystems))
	for _, ss := range m.Subsystems {
		if !ss.IsRemoved() {
			out = append(out, ss)
		}
	}
	return out
}

// Subsystem is a named sub-unit of a Member exposing services.
type Subsystem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID      uuid.UUID  `gorm:"type:uuid;column:member_id;not null;uniqueIndex:ux_subsystem_natural,priority:1" json:"member_id"`
	SubsystemCode string     `gorm:"column:subsystem_code;not null;uniqueIndex:ux_subsystem_natural,priority:2" json:"subsystem_code"`
	Services      []*Service `gorm:"foreignKey:SubsystemID" json:"services,omitempty"`
	StatusInfo    `gorm:"embedded"`
}

func (s *Subsystem) NaturalKey() string {
	return s.SubsystemCode
}

// ActiveServices returns the services not currently marked removed.
func (s *Subsystem) ActiveServices() []*Service {
	out := make([]*Service, 0, len(s.Services))
	for _, svc := range s.Services {
		if !svc.IsRemoved() {
			out = append(out, svc)
		}
	}
	return out
}
