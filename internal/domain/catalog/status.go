package catalog

import "time"

// StatusInfo carries the lifecycle timestamps shared by every mirrored row.
// Created/Changed/Fetched are set on first observation; Removed is nil while
// the entity is present upstream and set to the reconciliation time when it
// disappears. Changed tracks content, Removed tracks presence; the two are
// independent signals.
type StatusInfo struct {
	Created time.Time  `gorm:"column:status_created;not null" json:"created"`
	Changed time.Time  `gorm:"column:status_changed;not null" json:"changed"`
	Fetched time.Time  `gorm:"column:status_fetched;not null" json:"fetched"`
	Removed *time.Time `gorm:"column:status_removed" json:"removed,omitempty"`
}

func (s *StatusInfo) IsRemoved() bool {
	return s.Removed != nil
}

// MarkNew stamps a first observation.
func (s *StatusInfo) MarkNew(now time.Time) {
	s.Created = now
	s.Changed = now
	s.Fetched = now
	s.Removed = nil
}

// MarkSeen records a successful observation. Fetched always moves; Changed
// moves only when the content differed. A removed entity is resurrected.
func (s *StatusInfo) MarkSeen(now time.Time, contentChanged bool) {
	s.Fetched = now
	if contentChanged {
		s.Changed = now
	}
	s.Removed = nil
}

// MarkAbsent soft-deletes. Idempotent: an already removed entity keeps its
// original removal time.
func (s *StatusInfo) MarkAbsent(now time.Time) {
	if s.Removed == nil {
		removed := now
		s.Removed = &removed
	}
}

// Lifecycle returns the status itself so that any struct embedding
// StatusInfo satisfies reconcile.Entity.
func (s *StatusInfo) Lifecycle() *StatusInfo {
	return s
}
