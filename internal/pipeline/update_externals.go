package pipeline

import (
	"context"
	"time"

	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// UpdateExternalsTask is the sweeper keeping external enrichment fresh for
// members that were not new this round. It re-injects stale member codes
// into the company and organization queues on its own schedule and window.
type UpdateExternalsTask struct {
	store catalogstore.Store

	companiesQueue     *Queue[string]
	organizationsQueue *Queue[string]

	window    Window
	staleDays int
	limit     int

	log *logger.Logger
}

func NewUpdateExternalsTask(
	store catalogstore.Store,
	companiesQueue *Queue[string],
	organizationsQueue *Queue[string],
	window Window,
	staleDays, limit int,
	baseLog *logger.Logger,
) *UpdateExternalsTask {
	return &UpdateExternalsTask{
		store:              store,
		companiesQueue:     companiesQueue,
		organizationsQueue: organizationsQueue,
		window:             window,
		staleDays:          staleDays,
		limit:              limit,
		log:                baseLog.With("task", "UpdateExternals"),
	}
}

func (t *UpdateExternalsTask) Run(ctx context.Context) {
	if !t.window.Open(time.Now()) {
		t.log.Info("Outside external update window, skipping sweep")
		return
	}

	codes, err := t.store.GetMembersRequiringExternalUpdate(ctx, t.staleDays, t.limit)
	if err != nil {
		t.log.Error("Stale member query failed", "error", err)
		t.recordError(ctx, "stale member query failed: "+err.Error())
		return
	}
	if len(codes) == 0 {
		return
	}

	for _, code := range codes {
		if t.companiesQueue != nil {
			t.companiesQueue.Put(code)
		}
		if t.organizationsQueue != nil {
			t.organizationsQueue.Put(code)
		}
	}
	t.log.Info("Stale members re-queued", "count", len(codes))
}

func (t *UpdateExternalsTask) recordError(ctx context.Context, message string) {
	entry := catalog.NewErrorLog(message, "500", nil, nil)
	if err := t.store.SaveErrorLog(ctx, entry); err != nil {
		t.log.Error("Error log write failed", "error", err)
	}
}
