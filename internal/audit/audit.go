// Package audit records who did what to bookings, schedules and fields.
package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type Event struct {
	Action  model.AuditAction
	ActorID int
	FieldID *int
	Details model.AuditDetails
}

// Recorder is fire and forget from the engine's point of view.
type Recorder interface {
	RecordEvent(ctx context.Context, e Event) error
}

// LogRecorder only logs events.
type LogRecorder struct{}

func (LogRecorder) RecordEvent(_ context.Context, e Event) error {
	logEvent(e)
	return nil
}

// StoreRecorder persists events to the audit log table and logs them.
type StoreRecorder struct {
	store db.Store
}

func NewStoreRecorder(store db.Store) *StoreRecorder {
	return &StoreRecorder{store: store}
}

func (r *StoreRecorder) RecordEvent(ctx context.Context, e Event) error {
	logEvent(e)
	details := e.Details
	if details == nil {
		details = model.AuditDetails{}
	}
	return r.store.InsertAudit(ctx, model.AuditEntry{
		Code:    uuid.NewString(),
		Action:  e.Action,
		UserID:  e.ActorID,
		FieldID: e.FieldID,
		Details: details,
	})
}

func logEvent(e Event) {
	ev := log.Info().Str("action", string(e.Action)).Int("actor_id", e.ActorID)
	if e.FieldID != nil {
		ev = ev.Int("field_id", *e.FieldID)
	}
	ev.Fields(map[string]any(e.Details)).Msg("audit event")
}
