package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

func TestStoreRecorderPersists(t *testing.T) {
	store := db.NewMemoryStore()
	fieldID := 4

	err := NewStoreRecorder(store).RecordEvent(context.Background(), Event{
		Action:  model.AuditBookingCreated,
		ActorID: 9,
		FieldID: &fieldID,
		Details: model.AuditDetails{"booking_id": 12},
	})
	require.NoError(t, err)

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditBookingCreated, entries[0].Action)
	assert.Equal(t, 9, entries[0].UserID)
	assert.Equal(t, 4, *entries[0].FieldID)
	assert.Equal(t, 12, entries[0].Details["booking_id"])
	assert.NotEmpty(t, entries[0].Code)
}

func TestRecordersTolerateMissingDetails(t *testing.T) {
	assert.NoError(t, LogRecorder{}.RecordEvent(context.Background(), Event{Action: model.AuditScheduleDeleted}))

	store := db.NewMemoryStore()
	require.NoError(t, NewStoreRecorder(store).RecordEvent(context.Background(), Event{Action: model.AuditScheduleDeleted}))
	assert.NotNil(t, store.AuditEntries()[0].Details)
}
