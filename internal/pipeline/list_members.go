package pipeline

import (
	"context"
	"time"

	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// ListMembersTask is the root of every collection round. It owns the fetch
// window, prunes the error log on its own schedule, reconciles the member
// and subsystem mirror against the central roster, and fans work out to the
// downstream stages.
type ListMembersTask struct {
	store    catalogstore.Store
	registry registry.Client

	listMethodsQueue   *Queue[registry.ClientInfo]
	companiesQueue     *Queue[string]
	organizationsQueue *Queue[string]

	fetchWindow           Window
	flushWindow           Window
	errorLogRetentionDays int

	log *logger.Logger
}

func NewListMembersTask(
	store catalogstore.Store,
	reg registry.Client,
	listMethodsQueue *Queue[registry.ClientInfo],
	companiesQueue *Queue[string],
	organizationsQueue *Queue[string],
	fetchWindow, flushWindow Window,
	errorLogRetentionDays int,
	baseLog *logger.Logger,
) *ListMembersTask {
	return &ListMembersTask{
		store:                 store,
		registry:              reg,
		listMethodsQueue:      listMethodsQueue,
		companiesQueue:        companiesQueue,
		organizationsQueue:    organizationsQueue,
		fetchWindow:           fetchWindow,
		flushWindow:           flushWindow,
		errorLogRetentionDays: errorLogRetentionDays,
		log:                   baseLog.With("task", "ListMembers"),
	}
}

func (t *ListMembersTask) Run(ctx context.Context) {
	now := time.Now()

	// Pruning runs on its own window so a closed fetch window cannot starve
	// retention.
	if t.flushWindow.Open(now) {
		if err := t.store.DeleteOldErrorLogEntries(ctx, t.errorLogRetentionDays); err != nil {
			t.log.Error("Error log prune failed", "error", err)
		}
	}

	if !t.fetchWindow.Open(now) {
		t.log.Info("Outside fetch window, skipping round")
		return
	}

	roster, err := t.registry.ListClients(ctx)
	if err != nil {
		t.log.Error("Roster fetch failed", "error", err)
		t.recordError(ctx, "roster fetch failed: "+err.Error())
		return
	}

	observed := rosterToMembers(roster)
	fresh, err := t.store.SaveMembersAndSubsystems(ctx, observed)
	if err != nil {
		t.log.Error("Member reconciliation failed", "error", err)
		t.recordError(ctx, "member reconciliation failed: "+err.Error())
		return
	}

	subsystems := 0
	for _, entry := range roster {
		if entry.ObjectType == registry.ObjectTypeSubsystem && entry.SubsystemCode != "" {
			t.listMethodsQueue.Put(entry)
			subsystems++
		}
	}

	// Only members first seen this round are pushed to the external
	// registries here; re-fetching known members is the sweeper's job.
	for _, m := range fresh {
		if t.companiesQueue != nil {
			t.companiesQueue.Put(m.MemberCode)
		}
		if t.organizationsQueue != nil {
			t.organizationsQueue.Put(m.MemberCode)
		}
	}

	t.log.Info("Round dispatched",
		"members", len(observed),
		"subsystems", subsystems,
		"fresh_members", len(fresh))
}

func (t *ListMembersTask) recordError(ctx context.Context, message string) {
	entry := catalog.NewErrorLog(message, "500", nil, nil)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}

// rosterToMembers collapses the flat roster into one Member per natural key,
// carrying its observed subsystems. Duplicate entries are dropped.
func rosterToMembers(roster []registry.ClientInfo) []*catalog.Member {
	index := make(map[catalog.MemberID]*catalog.Member)
	seenSubsystem := make(map[catalog.MemberID]map[string]bool)
	var order []catalog.MemberID

	for _, entry := range roster {
		id := catalog.MemberID{
			Instance:    entry.Instance,
			MemberClass: entry.MemberClass,
			MemberCode:  entry.MemberCode,
		}
		m, ok := index[id]
		if !ok {
			m = catalog.NewMember(entry.Instance, entry.MemberClass, entry.MemberCode, "")
			index[id] = m
			seenSubsystem[id] = make(map[string]bool)
			order = append(order, id)
		}

		if entry.ObjectType == registry.ObjectTypeSubsystem {
			if entry.SubsystemCode != "" && !seenSubsystem[id][entry.SubsystemCode] {
				seenSubsystem[id][entry.SubsystemCode] = true
				m.Subsystems = append(m.Subsystems, &catalog.Subsystem{SubsystemCode: entry.SubsystemCode})
			}
			if m.Name == "" {
				m.Name = entry.Name
			}
			continue
		}

		// Member-level entries carry the authoritative display name.
		if entry.Name != "" {
			m.Name = entry.Name
		}
	}

	out := make([]*catalog.Member, 0, len(order))
	for _, id := range order {
		out = append(out, index[id])
	}
	return out
}
