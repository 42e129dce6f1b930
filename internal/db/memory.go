package db

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type memState struct {
	mu       sync.Mutex
	nextID   int
	users    map[int]model.User
	fields   map[int]model.Field
	pricing  map[int]model.FieldPricing
	rules    map[int]model.ScheduleRule
	bookings map[int]model.Booking
	audit    []model.AuditEntry
}

// MemoryStore is a Store held in process memory. A single mutex serializes
// every operation and WithTx holds it for the whole callback, so it behaves
// like a database running every transaction serially. It enforces the same
// confirmed-booking exclusion as the Postgres constraint.
type MemoryStore struct {
	state *memState
	inTx  bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		users:    map[int]model.User{},
		fields:   map[int]model.Field{},
		pricing:  map[int]model.FieldPricing{},
		rules:    map[int]model.ScheduleRule{},
		bookings: map[int]model.Booking{},
	}}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.state.mu.Lock()
	return s.state.mu.Unlock
}

func (s *MemoryStore) id() int {
	s.state.nextID++
	return s.state.nextID
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// AddField seeds a field. A zero ID is assigned.
func (s *MemoryStore) AddField(f model.Field) model.Field {
	defer s.lock()()
	if f.ID == 0 {
		f.ID = s.id()
	}
	f.CreatedAt, f.UpdatedAt = stamp(f.CreatedAt), stamp(f.UpdatedAt)
	s.state.fields[f.ID] = f
	return f
}

// AddUser seeds a user. A zero ID is assigned.
func (s *MemoryStore) AddUser(u model.User) model.User {
	defer s.lock()()
	if u.ID == 0 {
		u.ID = s.id()
	}
	u.CreatedAt, u.UpdatedAt = stamp(u.CreatedAt), stamp(u.UpdatedAt)
	s.state.users[u.ID] = u
	return u
}

func (s *MemoryStore) AddPricing(p model.FieldPricing) model.FieldPricing {
	defer s.lock()()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.state.pricing[p.ID] = p
	return p
}

// AuditEntries returns a copy of the recorded audit log.
func (s *MemoryStore) AuditEntries() []model.AuditEntry {
	defer s.lock()()
	return slices.Clone(s.state.audit)
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&MemoryStore{state: s.state, inTx: true}); err != nil {
		s.restore(&snap)
		return err
	}
	return nil
}

func (s *MemoryStore) snapshot() memState {
	st := s.state
	return memState{
		nextID:   st.nextID,
		users:    maps.Clone(st.users),
		fields:   maps.Clone(st.fields),
		pricing:  maps.Clone(st.pricing),
		rules:    maps.Clone(st.rules),
		bookings: maps.Clone(st.bookings),
		audit:    slices.Clone(st.audit),
	}
}

func (s *MemoryStore) restore(snap *memState) {
	st := s.state
	st.nextID = snap.nextID
	st.users, st.fields, st.pricing = snap.users, snap.fields, snap.pricing
	st.rules, st.bookings, st.audit = snap.rules, snap.bookings, snap.audit
}

func (s *MemoryStore) CreateUser(_ context.Context, u model.User) (model.User, error) {
	defer s.lock()()
	for _, existing := range s.state.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, ErrDuplicate
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.state.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	defer s.lock()()
	for _, u := range s.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int) (model.User, error) {
	defer s.lock()()
	u, ok := s.state.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetFieldByID(_ context.Context, id int) (model.Field, error) {
	defer s.lock()()
	f, ok := s.state.fields[id]
	if !ok {
		return model.Field{}, ErrNotFound
	}
	return f, nil
}

func (s *MemoryStore) DeactivateField(ctx context.Context, id, updatedBy int) error {
	return s.WithTx(ctx, func(tx Store) error {
		st := tx.(*MemoryStore).state
		f, ok := st.fields[id]
		if !ok {
			return ErrNotFound
		}
		now := time.Now().UTC()
		f.Status, f.UpdatedBy, f.UpdatedAt = model.StatusInactive, &updatedBy, now
		st.fields[id] = f

		for rid, r := range st.rules {
			if r.FieldID != id || r.Status == model.StatusInactive {
				continue
			}
			r.Status, r.UpdatedBy, r.UpdatedAt = model.StatusInactive, &updatedBy, now
			st.rules[rid] = r
		}
		return nil
	})
}

func (s *MemoryStore) FindPricing(_ context.Context, fieldID, durationMinutes int) (model.FieldPricing, error) {
	defer s.lock()()
	var found []model.FieldPricing
	for _, p := range s.state.pricing {
		if p.FieldID == fieldID && p.DurationInMinutes == durationMinutes && p.Status == model.StatusActive {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return model.FieldPricing{}, ErrNotFound
	}
	slices.SortFunc(found, func(a, b model.FieldPricing) int { return a.ID - b.ID })
	return found[0], nil
}

func (s *MemoryStore) rulesWhere(keep func(model.ScheduleRule) bool) []model.ScheduleRule {
	var out []model.ScheduleRule
	for _, r := range s.state.rules {
		if keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.ScheduleRule) int { return a.ID - b.ID })
	return out
}

func (s *MemoryStore) ListRulesByField(_ context.Context, fieldID int) ([]model.ScheduleRule, error) {
	defer s.lock()()
	return s.rulesWhere(func(r model.ScheduleRule) bool {
		return r.FieldID == fieldID && r.Status == model.StatusActive
	}), nil
}

func (s *MemoryStore) ListActiveRulesByDay(_ context.Context, fieldID int, day model.DayOfWeek) ([]model.ScheduleRule, error) {
	defer s.lock()()
	return s.rulesWhere(func(r model.ScheduleRule) bool {
		return r.FieldID == fieldID && r.DayOfWeek == day && r.Active()
	}), nil
}

func (s *MemoryStore) GetRule(_ context.Context, fieldID, ruleID int) (model.ScheduleRule, error) {
	defer s.lock()()
	r, ok := s.state.rules[ruleID]
	if !ok || r.FieldID != fieldID {
		return model.ScheduleRule{}, ErrNotFound
	}
	return r, nil
}

// InsertRule keeps a caller supplied CreatedAt so tests can anchor recurrences.
func (s *MemoryStore) InsertRule(_ context.Context, r model.ScheduleRule) (model.ScheduleRule, error) {
	defer s.lock()()
	r.ID = s.id()
	r.CreatedAt = stamp(r.CreatedAt)
	r.UpdatedAt = r.CreatedAt
	r.UpdatedBy = nil
	s.state.rules[r.ID] = r
	return r, nil
}

func (s *MemoryStore) UpdateRule(_ context.Context, r model.ScheduleRule) (model.ScheduleRule, error) {
	defer s.lock()()
	existing, ok := s.state.rules[r.ID]
	if !ok || existing.FieldID != r.FieldID {
		return model.ScheduleRule{}, ErrNotFound
	}
	r.Code, r.CreatedBy, r.CreatedAt = existing.Code, existing.CreatedBy, existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	s.state.rules[r.ID] = r
	return r, nil
}

func (s *MemoryStore) SetRuleStatus(_ context.Context, fieldID, ruleID, status, updatedBy int) error {
	defer s.lock()()
	r, ok := s.state.rules[ruleID]
	if !ok || r.FieldID != fieldID {
		return ErrNotFound
	}
	r.Status, r.UpdatedBy, r.UpdatedAt = status, &updatedBy, time.Now().UTC()
	s.state.rules[ruleID] = r
	return nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id int) (model.Booking, error) {
	defer s.lock()()
	b, ok := s.state.bookings[id]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	return b, nil
}

// GetBookingForUpdate needs no extra locking: inside WithTx the store mutex
// is already held.
func (s *MemoryStore) GetBookingForUpdate(ctx context.Context, id int) (model.Booking, error) {
	return s.GetBooking(ctx, id)
}

func (s *MemoryStore) bookingsWhere(keep func(model.Booking) bool) []model.Booking {
	var out []model.Booking
	for _, b := range s.state.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) ListBookingsByUser(_ context.Context, userID int) ([]model.Booking, error) {
	defer s.lock()()
	out := s.bookingsWhere(func(b model.Booking) bool { return b.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) overlapping(fieldID int, start, end time.Time, excludeID int) []model.Booking {
	return s.bookingsWhere(func(b model.Booking) bool {
		return b.FieldID == fieldID && b.Status == model.BookingConfirmed &&
			b.ID != excludeID && b.Overlaps(start, end)
	})
}

func (s *MemoryStore) FindConfirmedOverlapping(_ context.Context, fieldID int, start, end time.Time, excludeID int) ([]model.Booking, error) {
	defer s.lock()()
	return s.overlapping(fieldID, start, end, excludeID), nil
}

func (s *MemoryStore) FindConfirmedContaining(_ context.Context, fieldID int, at time.Time) ([]model.Booking, error) {
	defer s.lock()()
	return s.bookingsWhere(func(b model.Booking) bool {
		return b.FieldID == fieldID && b.Status == model.BookingConfirmed && b.ContainsInstant(at)
	}), nil
}

func (s *MemoryStore) ListConfirmedBetween(_ context.Context, fieldID int, from, to time.Time) ([]model.Booking, error) {
	defer s.lock()()
	return s.bookingsWhere(func(b model.Booking) bool {
		return b.FieldID == fieldID && b.Status == model.BookingConfirmed &&
			!b.StartTime.After(to) && !b.EndTime.Before(from)
	}), nil
}

func (s *MemoryStore) InsertBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	defer s.lock()()
	if b.Status == model.BookingConfirmed && len(s.overlapping(b.FieldID, b.StartTime, b.EndTime, 0)) > 0 {
		return model.Booking{}, ErrOverlap
	}
	b.ID = s.id()
	b.CreatedAt = stamp(b.CreatedAt)
	b.UpdatedAt = b.CreatedAt
	s.state.bookings[b.ID] = b
	return b, nil
}

func (s *MemoryStore) UpdateBookingStatus(_ context.Context, id int, status model.BookingStatus, updatedBy int) (model.Booking, error) {
	defer s.lock()()
	b, ok := s.state.bookings[id]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	if status == model.BookingConfirmed && len(s.overlapping(b.FieldID, b.StartTime, b.EndTime, id)) > 0 {
		return model.Booking{}, ErrOverlap
	}
	b.Status, b.UpdatedBy, b.UpdatedAt = status, &updatedBy, time.Now().UTC()
	s.state.bookings[id] = b
	return b, nil
}

func (s *MemoryStore) InsertAudit(_ context.Context, e model.AuditEntry) error {
	defer s.lock()()
	e.ID = s.id()
	e.Timestamp = time.Now().UTC()
	s.state.audit = append(s.state.audit, e)
	return nil
}
