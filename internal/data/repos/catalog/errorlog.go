package catalogstore

import (
	"context"
	"time"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// SaveErrorLog appends one failure record. Entries are never updated.
func (s *gormStore) SaveErrorLog(ctx context.Context, entry *catalog.ErrorLog) error {
	if entry.Created.IsZero() {
		entry.Created = s.now()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// DeleteOldErrorLogEntries prunes records older than the retention window.
func (s *gormStore) DeleteOldErrorLogEntries(ctx context.Context, retentionDays int) error {
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	res := s.db.WithContext(ctx).
		Where("created < ?", cutoff).
		Delete(&catalog.ErrorLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("Old error log entries deleted", "count", res.RowsAffected, "cutoff", cutoff)
	}
	return nil
}

func (s *gormStore) GetErrorLogEntries(ctx context.Context, since time.Time) ([]*catalog.ErrorLog, error) {
	var entries []*catalog.ErrorLog
	err := s.db.WithContext(ctx).
		Where("created >= ?", since).
		Order("created").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
