package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Surrogate ids are assigned in the application rather than by the database
// so the same models work against Postgres and the SQLite test harness.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *Member) BeforeCreate(*gorm.DB) error       { ensureID(&m.ID); return nil }
func (s *Subsystem) BeforeCreate(*gorm.DB) error    { ensureID(&s.ID); return nil }
func (s *Service) BeforeCreate(*gorm.DB) error      { ensureID(&s.ID); return nil }
func (e *Endpoint) BeforeCreate(*gorm.DB) error     { ensureID(&e.ID); return nil }
func (w *Wsdl) BeforeCreate(*gorm.DB) error         { ensureID(&w.ID); return nil }
func (o *OpenApi) BeforeCreate(*gorm.DB) error      { ensureID(&o.ID); return nil }
func (r *Rest) BeforeCreate(*gorm.DB) error         { ensureID(&r.ID); return nil }
func (e *ErrorLog) BeforeCreate(*gorm.DB) error     { ensureID(&e.ID); return nil }
func (c *Company) BeforeCreate(*gorm.DB) error      { ensureID(&c.ID); return nil }
func (o *Organization) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }

func (b *BusinessName) BeforeCreate(*gorm.DB) error          { ensureID(&b.ID); return nil }
func (b *BusinessAuxiliaryName) BeforeCreate(*gorm.DB) error { ensureID(&b.ID); return nil }
func (b *BusinessAddress) BeforeCreate(*gorm.DB) error       { ensureID(&b.ID); return nil }
func (b *BusinessIDChange) BeforeCreate(*gorm.DB) error      { ensureID(&b.ID); return nil }
func (b *BusinessLine) BeforeCreate(*gorm.DB) error          { ensureID(&b.ID); return nil }
func (c *CompanyForm) BeforeCreate(*gorm.DB) error           { ensureID(&c.ID); return nil }
func (c *ContactDetail) BeforeCreate(*gorm.DB) error         { ensureID(&c.ID); return nil }
func (c *CompanyLanguage) BeforeCreate(*gorm.DB) error       { ensureID(&c.ID); return nil }
func (l *Liquidation) BeforeCreate(*gorm.DB) error           { ensureID(&l.ID); return nil }
func (r *RegisteredEntry) BeforeCreate(*gorm.DB) error       { ensureID(&r.ID); return nil }
func (r *RegisteredOffice) BeforeCreate(*gorm.DB) error      { ensureID(&r.ID); return nil }

func (o *OrganizationName) BeforeCreate(*gorm.DB) error        { ensureID(&o.ID); return nil }
func (o *OrganizationDescription) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }
func (e *Email) BeforeCreate(*gorm.DB) error                   { ensureID(&e.ID); return nil }
func (p *PhoneNumber) BeforeCreate(*gorm.DB) error             { ensureID(&p.ID); return nil }
func (w *WebPage) BeforeCreate(*gorm.DB) error                 { ensureID(&w.ID); return nil }
func (a *Address) BeforeCreate(*gorm.DB) error                 { ensureID(&a.ID); return nil }
