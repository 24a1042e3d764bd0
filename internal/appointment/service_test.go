package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
	redisclient "github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/redis"
)

// memRepo is an in-memory Repository with the same conditional-update
// semantics as the Postgres one, including the active-slot uniqueness rule.
type memRepo struct {
	mu    sync.Mutex
	appts map[uuid.UUID]*Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (r *memRepo) activeAt(officerID uuid.UUID, date time.Time, slot string, excludeID uuid.UUID) *Appointment {
	for _, a := range r.appts {
		if a.ID == excludeID || a.Status.Terminal() {
			continue
		}
		if a.Officer.ID == officerID && a.Details.Date.Equal(date) && a.Details.TimeSlot == slot {
			return a
		}
	}
	return nil
}

func (r *memRepo) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeAt(a.Officer.ID, a.Details.Date, a.Details.TimeSlot, uuid.Nil) != nil {
		return ErrBookingConflict
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Status = StatusScheduled
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt

	stored := *a
	r.appts[a.ID] = &stored
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memRepo) GetActiveForSlot(_ context.Context, officerID uuid.UUID, date time.Time, slot string, excludeID uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a := r.activeAt(officerID, date, slot, excludeID); a != nil {
		copied := *a
		return &copied, nil
	}
	return nil, ErrAppointmentNotFound
}

func (r *memRepo) ListActiveSlots(_ context.Context, officerID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []string
	for _, a := range r.appts {
		if !a.Status.Terminal() && a.Officer.ID == officerID && a.Details.Date.Equal(date) {
			slots = append(slots, a.Details.TimeSlot)
		}
	}
	return slots, nil
}

func (r *memRepo) mutate(id uuid.UUID, allowed []Status, apply func(*Appointment)) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	permitted := false
	for _, s := range allowed {
		if a.Status == s {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, a.Status)
	}

	apply(a)
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	return &copied, nil
}

func (r *memRepo) Reschedule(_ context.Context, id uuid.UUID, newDate time.Time, newSlot string, entry RescheduleEntry) (*Appointment, error) {
	return r.mutate(id, []Status{StatusScheduled, StatusConfirmed, StatusRescheduled}, func(a *Appointment) {
		a.Details.Date = newDate
		a.Details.TimeSlot = newSlot
		a.Status = StatusRescheduled
		a.Reminders = RemindersSent{}
		a.RescheduleHistory = append(a.RescheduleHistory, entry)
	})
}

func (r *memRepo) Cancel(_ context.Context, id uuid.UUID, reason, cancelledBy string) (*Appointment, error) {
	return r.mutate(id, NonTerminalStatuses, func(a *Appointment) {
		now := time.Now().UTC()
		a.Status = StatusCancelled
		a.CancellationReason = &reason
		a.CancelledBy = &cancelledBy
		a.CancelledAt = &now
	})
}

func (r *memRepo) CheckIn(_ context.Context, id uuid.UUID) (*Appointment, error) {
	return r.mutate(id, []Status{StatusScheduled, StatusConfirmed, StatusRescheduled}, func(a *Appointment) {
		now := time.Now().UTC()
		a.Status = StatusInProgress
		a.CheckInTime = &now
	})
}

func (r *memRepo) Complete(_ context.Context, id uuid.UUID, fb *Feedback) (*Appointment, error) {
	return r.mutate(id, []Status{StatusInProgress}, func(a *Appointment) {
		now := time.Now().UTC()
		a.Status = StatusCompleted
		a.CheckOutTime = &now
		a.Feedback = fb
	})
}

func (r *memRepo) FindDueForReminder(_ context.Context, tier ReminderTier, from, to time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Appointment
	for _, a := range r.appts {
		if a.Status.Terminal() || a.Reminders.Sent(tier) {
			continue
		}
		start, err := a.StartTime()
		if err != nil {
			return nil, err
		}
		if !start.Before(from) && !start.After(to) {
			due = append(due, *a)
		}
	}
	return due, nil
}

func (r *memRepo) MarkReminderSent(_ context.Context, id uuid.UUID, tier ReminderTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	switch tier {
	case Reminder24Hour:
		a.Reminders.TwentyFourHour = true
	case Reminder2Hour:
		a.Reminders.TwoHour = true
	case Reminder30Minute:
		a.Reminders.ThirtyMinute = true
	}
	return nil
}

func (r *memRepo) FindOverdue(_ context.Context, startedBefore time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overdue []Appointment
	for _, a := range r.appts {
		if a.Status != StatusScheduled && a.Status != StatusConfirmed {
			continue
		}
		start, err := a.StartTime()
		if err != nil {
			return nil, err
		}
		if start.Before(startedBefore) {
			overdue = append(overdue, *a)
		}
	}
	return overdue, nil
}

func (r *memRepo) MarkNoShow(_ context.Context, id uuid.UUID) (*Appointment, error) {
	return r.mutate(id, []Status{StatusScheduled, StatusConfirmed}, func(a *Appointment) {
		a.Status = StatusNoShow
	})
}

// memOfficers is an in-memory officer.Repository tracking workload deltas.
type memOfficers struct {
	mu          sync.Mutex
	officers    map[uuid.UUID]*officer.Officer
	completions []time.Duration
	ratings     []*int
}

func newMemOfficers(list ...officer.Officer) *memOfficers {
	m := &memOfficers{officers: make(map[uuid.UUID]*officer.Officer)}
	for i := range list {
		o := list[i]
		m.officers[o.ID] = &o
	}
	return m
}

func (m *memOfficers) GetByID(_ context.Context, id uuid.UUID) (*officer.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.officers[id]
	if !ok {
		return nil, officer.ErrOfficerNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *memOfficers) ListActive(_ context.Context) ([]officer.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []officer.Officer
	for _, o := range m.officers {
		if o.Status == officer.StatusActive {
			active = append(active, *o)
		}
	}
	return active, nil
}

func (m *memOfficers) AdjustWorkload(_ context.Context, id uuid.UUID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.officers[id]
	if !ok {
		return officer.ErrOfficerNotFound
	}
	o.Workload.Current += delta
	if o.Workload.Current < 0 {
		o.Workload.Current = 0
	}
	return nil
}

func (m *memOfficers) RecordCompletion(_ context.Context, id uuid.UUID, processing time.Duration, rating *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.officers[id]; !ok {
		return officer.ErrOfficerNotFound
	}
	m.completions = append(m.completions, processing)
	m.ratings = append(m.ratings, rating)
	return nil
}

func (m *memOfficers) workload(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.officers[id].Workload.Current
}

// passLocker runs the critical section inline; heldLocker simulates a
// contended slot.
type passLocker struct{}

func (passLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type heldLocker struct{}

func (heldLocker) WithLock(context.Context, string, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

// memSink records scheduled notifications; failSink rejects them all.
type memSink struct {
	mu        sync.Mutex
	scheduled []notification.Notification
}

func (s *memSink) Schedule(_ context.Context, n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, n)
	return nil
}

func (s *memSink) byType(t string) []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []notification.Notification
	for _, n := range s.scheduled {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type memRegistrar struct {
	mu         sync.Mutex
	registered []uuid.UUID
}

func (r *memRegistrar) Register(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, appt.ID)
	return nil
}

var weekdayHours = officer.WeekAvailability{
	"monday":    {Start: "09:00", End: "17:00", Available: true},
	"tuesday":   {Start: "09:00", End: "17:00", Available: true},
	"wednesday": {Start: "09:00", End: "17:00", Available: true},
	"thursday":  {Start: "09:00", End: "17:00", Available: true},
	"friday":    {Start: "09:00", End: "12:00", Available: true},
}

func activeOfficer(name string) officer.Officer {
	return officer.Officer{
		ID:           uuid.New(),
		Name:         name,
		Department:   "Department of Immigration & Emigration",
		Status:       officer.StatusActive,
		Workload:     officer.Workload{Maximum: 8},
		Availability: weekdayHours,
	}
}

type serviceFixture struct {
	svc       *Service
	repo      *memRepo
	officers  *memOfficers
	sink      *memSink
	registrar *memRegistrar
}

func newFixture(t *testing.T, locker redisclient.Locker, list ...officer.Officer) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repo:      newMemRepo(),
		officers:  newMemOfficers(list...),
		sink:      &memSink{},
		registrar: &memRegistrar{},
	}
	f.svc = NewService(f.repo, f.officers, locker, f.sink, f.registrar, 30*time.Minute, zerolog.Nop())
	return f
}

// 2026-03-02 is a Monday.
var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func bookingFor(o officer.Officer, slot string) BookingInput {
	return BookingInput{
		ApplicationID:   "APP-000123",
		ApplicationType: ApplicationPassport,
		Applicant: ApplicantInfo{
			Name:  "Nimal Perera",
			Email: "nimal@example.com",
			Phone: "+94771234567",
		},
		OfficerID: o.ID,
		Date:      testDate,
		TimeSlot:  slot,
		Venue: Venue{
			Name:    "Department Head Office",
			Address: "Suhurupaya, Battaramulla",
		},
	}
}

func TestBook_Succeeds(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, 30, appt.Details.Duration)
	assert.Equal(t, o.ID, appt.Officer.ID)

	assert.Equal(t, 1, f.officers.workload(o.ID))
	assert.Equal(t, []uuid.UUID{appt.ID}, f.registrar.registered)

	confirmations := f.sink.byType("appointment_confirmation")
	require.Len(t, confirmations, 1)
	assert.Equal(t, "nimal@example.com", confirmations[0].UserID)
	assert.Equal(t, appt.ID.String(), confirmations[0].Metadata["appointmentId"])
}

func TestBook_SameSlotConflicts(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	_, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	assert.ErrorIs(t, err, ErrBookingConflict)

	// The loser must not touch workload or reminders.
	assert.Equal(t, 1, f.officers.workload(o.ID))
	assert.Len(t, f.registrar.registered, 1)
}

func TestBook_CancelledSlotCanBeRebooked(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	first, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), first.ID, "applicant request", "applicant")
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	assert.NoError(t, err)
}

func TestBook_LockedSlot(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, heldLocker{}, o)

	_, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	assert.ErrorIs(t, err, ErrSlotBeingBooked)
}

func TestBook_InactiveOfficer(t *testing.T) {
	o := activeOfficer("A. Silva")
	o.Status = officer.StatusOnLeave
	f := newFixture(t, passLocker{}, o)

	_, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	assert.ErrorIs(t, err, ErrOfficerUnavailable)
}

func TestBook_UnknownOfficer(t *testing.T) {
	f := newFixture(t, passLocker{})

	input := bookingFor(activeOfficer("ghost"), "10:00")
	_, err := f.svc.Book(context.Background(), input)
	assert.ErrorIs(t, err, officer.ErrOfficerNotFound)
}

func TestAvailableSlots_ExcludesBooked(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	_, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	slots, err := f.svc.AvailableSlots(context.Background(), testDate, &o.ID, 0)
	require.NoError(t, err)

	free := slots[o.ID]
	assert.Len(t, free, 15)
	assert.NotContains(t, free, "10:00")
	assert.Contains(t, free, "09:00")
	assert.Contains(t, free, "16:30")
}

func TestAvailableSlots_FullyBookedOfficerStillListed(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	day, ok := o.AvailableOn(WeekdayName(testDate))
	require.True(t, ok)
	all, err := GenerateSlots(day.Start, day.End, 30*time.Minute)
	require.NoError(t, err)

	for _, slot := range all {
		_, err := f.svc.Book(context.Background(), bookingFor(o, slot))
		require.NoError(t, err)
	}

	// A fully booked officer stays in the map with an empty slot list; only
	// inactive or off-day officers are dropped.
	slots, err := f.svc.AvailableSlots(context.Background(), testDate, &o.ID, 0)
	require.NoError(t, err)

	free, present := slots[o.ID]
	require.True(t, present)
	assert.NotNil(t, free)
	assert.Empty(t, free)
}

func TestAvailableSlots_OffDayExcluded(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	// 2026-03-07 is a Saturday, outside the officer's week.
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), saturday, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_UnknownOfficerIsEmpty(t *testing.T) {
	f := newFixture(t, passLocker{})

	unknown := uuid.New()
	slots, err := f.svc.AvailableSlots(context.Background(), testDate, &unknown, 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_AllActiveOfficers(t *testing.T) {
	a := activeOfficer("A. Silva")
	b := activeOfficer("B. Fernando")
	inactive := activeOfficer("C. Jayawardena")
	inactive.Status = officer.StatusInactive

	f := newFixture(t, passLocker{}, a, b, inactive)

	slots, err := f.svc.AvailableSlots(context.Background(), testDate, nil, 0)
	require.NoError(t, err)

	assert.Len(t, slots, 2)
	assert.Contains(t, slots, a.ID)
	assert.Contains(t, slots, b.ID)
	assert.NotContains(t, slots, inactive.ID)
}

func TestReschedule_MovesSlotAndResetsReminders(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	// Pretend the first tier already fired.
	require.NoError(t, f.repo.MarkReminderSent(context.Background(), appt.ID, Reminder24Hour))

	newDate := testDate.AddDate(0, 0, 1)
	updated, err := f.svc.Reschedule(context.Background(), appt.ID, newDate, "14:00", "officer unavailable", "officer")
	require.NoError(t, err)

	assert.Equal(t, StatusRescheduled, updated.Status)
	assert.Equal(t, "14:00", updated.Details.TimeSlot)
	assert.True(t, newDate.Equal(updated.Details.Date))
	assert.Equal(t, RemindersSent{}, updated.Reminders)

	require.Len(t, updated.RescheduleHistory, 1)
	entry := updated.RescheduleHistory[0]
	assert.True(t, testDate.Equal(entry.PreviousDate))
	assert.Equal(t, "10:00", entry.PreviousTimeSlot)
	assert.Equal(t, "officer", entry.RescheduledBy)

	// Reminder set re-registered for the new slot.
	assert.Equal(t, []uuid.UUID{appt.ID, appt.ID}, f.registrar.registered)

	// Old slot freed, new slot taken.
	slots, err := f.svc.AvailableSlots(context.Background(), testDate, &o.ID, 0)
	require.NoError(t, err)
	assert.Contains(t, slots[o.ID], "10:00")

	slots, err = f.svc.AvailableSlots(context.Background(), newDate, &o.ID, 0)
	require.NoError(t, err)
	assert.NotContains(t, slots[o.ID], "14:00")
}

func TestReschedule_TargetSlotTaken(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)
	_, err = f.svc.Book(context.Background(), bookingFor(o, "11:00"))
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), appt.ID, testDate, "11:00", "", "applicant")
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestReschedule_SameSlotAllowed(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	// The appointment's own booking must not conflict with itself.
	updated, err := f.svc.Reschedule(context.Background(), appt.ID, testDate, "10:00", "", "applicant")
	require.NoError(t, err)
	assert.Equal(t, StatusRescheduled, updated.Status)
}

func TestReschedule_CompletedRejected(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(context.Background(), appt.ID)
	require.NoError(t, err)
	_, err = f.svc.CheckOut(context.Background(), appt.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), appt.ID, testDate, "14:00", "", "applicant")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_ReleasesWorkload(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)
	require.Equal(t, 1, f.officers.workload(o.ID))

	cancelled, err := f.svc.Cancel(context.Background(), appt.ID, "applicant request", "applicant")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "applicant request", *cancelled.CancellationReason)
	assert.Equal(t, 0, f.officers.workload(o.ID))

	assert.Len(t, f.sink.byType("appointment_cancelled"), 1)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID, "first", "applicant")
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID, "second", "applicant")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Workload released exactly once.
	assert.Equal(t, 0, f.officers.workload(o.ID))
}

func TestCheckInCheckOut_RecordsCompletion(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	checked, err := f.svc.CheckIn(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, checked.Status)
	require.NotNil(t, checked.CheckInTime)

	done, err := f.svc.CheckOut(context.Background(), appt.ID, &Feedback{Rating: 5, Comment: "quick and helpful"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CheckOutTime)

	assert.Equal(t, 0, f.officers.workload(o.ID))
	require.Len(t, f.officers.completions, 1)
	require.Len(t, f.officers.ratings, 1)
	require.NotNil(t, f.officers.ratings[0])
	assert.Equal(t, 5, *f.officers.ratings[0])
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), appt.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckOut_InvalidRating(t *testing.T) {
	o := activeOfficer("A. Silva")
	f := newFixture(t, passLocker{}, o)

	appt, err := f.svc.Book(context.Background(), bookingFor(o, "10:00"))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(context.Background(), appt.ID)
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), appt.ID, &Feedback{Rating: 6})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t, passLocker{})

	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
}
