// Package reconcile implements the generic merge of a freshly observed
// entity set into the stored set for one parent scope. The same algorithm
// is used at every level of the catalog hierarchy (members, subsystems,
// services, endpoints).
package reconcile

import (
	"time"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
)

// Entity is any catalog row with a natural key and lifecycle timestamps.
// Structs embedding catalog.StatusInfo satisfy the Lifecycle method.
type Entity[K comparable] interface {
	NaturalKey() K
	Lifecycle() *catalog.StatusInfo
}

// Outcome reports what a merge did. Fresh carries the entities that were
// created or resurrected during this pass, for downstream fan-out.
type Outcome[E any] struct {
	All   []E
	Fresh []E

	Created     int
	Resurrected int
	Updated     int
	Removed     int
}

// Merge reconciles observed into stored for a single parent scope and
// returns the full resulting set. stored entities are mutated in place;
// observed entities not present in stored are adopted as the new rows.
//
// sameContent compares only semantic fields (natural key aside, never
// surrogate ids or status timestamps); apply copies the observed semantic
// fields onto the stored entity.
//
// The merge is idempotent: feeding the same observed set twice moves no
// Changed timestamp and removes nothing new. An empty observed set marks
// every stored entity of the scope removed, which is exactly the contract
// the endpoint full-replace relies on; callers own the scoping.
func Merge[K comparable, E Entity[K]](
	now time.Time,
	stored []E,
	observed []E,
	sameContent func(stored, observed E) bool,
	apply func(dst, src E),
) Outcome[E] {
	index := make(map[K]E, len(stored))
	for _, st := range stored {
		index[st.NaturalKey()] = st
	}

	out := Outcome[E]{All: stored}
	seen := make(map[K]struct{}, len(observed))

	for _, ob := range observed {
		key := ob.NaturalKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		st, ok := index[key]
		if !ok {
			ob.Lifecycle().MarkNew(now)
			out.All = append(out.All, ob)
			out.Fresh = append(out.Fresh, ob)
			out.Created++
			continue
		}

		wasRemoved := st.Lifecycle().IsRemoved()
		changed := !sameContent(st, ob)
		if changed {
			apply(st, ob)
			out.Updated++
		}
		st.Lifecycle().MarkSeen(now, changed)
		if wasRemoved {
			out.Fresh = append(out.Fresh, st)
			out.Resurrected++
		}
	}

	for _, st := range stored {
		if _, ok := seen[st.NaturalKey()]; ok {
			continue
		}
		if !st.Lifecycle().IsRemoved() {
			out.Removed++
		}
		st.Lifecycle().MarkAbsent(now)
	}

	return out
}
