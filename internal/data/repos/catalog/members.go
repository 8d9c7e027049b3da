package catalogstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haltiadata/catalog-collector/internal/catalog/reconcile"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// SaveMembersAndSubsystems merges one full roster observation into the
// stored member set as a single transaction. Members absent from the
// observation are soft-deleted together with their subsystems; members that
// reappear are resurrected. Returns the members created or resurrected by
// this pass, for fan-out to the external-registry fetch stages.
func (s *gormStore) SaveMembersAndSubsystems(ctx context.Context, observed []*catalog.Member) ([]*catalog.Member, error) {
	now := s.now()

	// Subsystems are reconciled per member scope, so detach them from the
	// observed members before the member-level merge.
	observedSubs := make(map[catalog.MemberID][]*catalog.Subsystem, len(observed))
	for _, om := range observed {
		observedSubs[om.NaturalKey()] = om.Subsystems
		om.Subsystems = nil
	}

	var fresh []*catalog.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []*catalog.Member
		if err := tx.Preload("Subsystems").Find(&stored).Error; err != nil {
			return err
		}

		outcome := reconcile.Merge(now, stored, observed,
			func(st, ob *catalog.Member) bool { return st.Name == ob.Name },
			func(dst, src *catalog.Member) { dst.Name = src.Name },
		)

		for _, m := range outcome.All {
			// A member missing from the observation has no observed
			// subsystems either: the empty set removes them all.
			subOutcome := reconcile.Merge(now, m.Subsystems, observedSubs[m.NaturalKey()],
				func(st, ob *catalog.Subsystem) bool { return true },
				func(dst, src *catalog.Subsystem) {},
			)
			m.Subsystems = subOutcome.All

			if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
				return err
			}
			for _, ss := range m.Subsystems {
				ss.MemberID = m.ID
				if err := tx.Omit(clause.Associations).Save(ss).Error; err != nil {
					return err
				}
			}
		}

		s.log.Info("Members reconciled",
			"observed", len(observed),
			"created", outcome.Created,
			"resurrected", outcome.Resurrected,
			"updated", outcome.Updated,
			"removed", outcome.Removed,
		)
		fresh = outcome.Fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// GetMembersRequiringExternalUpdate returns codes of active members whose
// business-registry mirror is older than the staleness cutoff (or missing
// entirely), capped at limit.
func (s *gormStore) GetMembersRequiringExternalUpdate(ctx context.Context, staleDays, limit int) ([]string, error) {
	cutoff := s.now().AddDate(0, 0, -staleDays)

	var codes []string
	err := s.db.WithContext(ctx).
		Model(&catalog.Member{}).
		Distinct("member_code").
		Where("status_removed IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM companies c WHERE c.business_id = members.member_code AND c.status_fetched >= ?)", cutoff).
		Limit(limit).
		Pluck("member_code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *gormStore) GetMember(ctx context.Context, id catalog.MemberID) (*catalog.Member, error) {
	var member catalog.Member
	err := s.db.WithContext(ctx).
		Preload("Subsystems").
		Where("instance = ? AND member_class = ? AND member_code = ?",
			id.Instance, id.MemberClass, id.MemberCode).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
