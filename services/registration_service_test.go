package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campus-events/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]

	reg, err := svc.Register(context.Background(), event.ID, student.ID, base)
	require.NoError(t, err)

	assert.Equal(t, model.RegistrationStatusRegistered, reg.Status)
	assert.True(t, reg.RegistrationDate.Equal(base))
	assert.Nil(t, reg.CheckInTime)
}

func TestRegisterTwiceFailsWithDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]

	_, err := svc.Register(context.Background(), event.ID, student.ID, base)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, student.ID, base)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	var count int64
	db.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterAfterDeadlineFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	students := createStudents(t, db, 2)

	// Exactly at the deadline is still allowed
	_, err := svc.Register(context.Background(), event.ID, students[0].ID, event.RegistrationDeadline)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, students[1].ID, event.RegistrationDeadline.Add(time.Second))
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestRegisterMissingOrCancelledEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	student := createStudents(t, db, 1)[0]

	_, err := svc.Register(context.Background(), 12345, student.ID, base)
	assert.ErrorIs(t, err, ErrEventNotFound)

	event := createEvent(t, db, admin.ID, 10)
	require.NoError(t, db.Model(event).Update("status", model.EventStatusCancelled).Error)

	_, err = svc.Register(context.Background(), event.ID, student.ID, base)
	assert.ErrorIs(t, err, ErrEventNotActive)
}

func TestRegisterFullEventFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 1)
	students := createStudents(t, db, 2)

	_, err := svc.Register(context.Background(), event.ID, students[0].ID, base)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, students[1].ID, base)
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestRegisterDeadlineCheckedBeforeCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 1)
	students := createStudents(t, db, 2)

	_, err := svc.Register(context.Background(), event.ID, students[0].ID, base)
	require.NoError(t, err)

	// Full and past the deadline: deadline wins
	_, err = svc.Register(context.Background(), event.ID, students[1].ID, event.RegistrationDeadline.Add(time.Hour))
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	// Duplicate and full: duplicate wins
	_, err = svc.Register(context.Background(), event.ID, students[0].ID, base)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestConcurrentRegistrationForLastSeats(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 2)
	students := createStudents(t, db, 3)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)

	for _, s := range students {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), event.ID, studentID, base)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(s.ID)
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, full)
}

func TestConcurrentRegistrationNeverExceedsCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 5)
	students := createStudents(t, db, 40)

	var wg sync.WaitGroup
	for _, s := range students {
		wg.Add(1)
		go func(studentID uint) {
			defer wg.Done()
			_, _ = svc.Register(context.Background(), event.ID, studentID, base)
		}(s.ID)
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 50)
	student := createStudents(t, db, 1)[0]

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		duplicates int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), event.ID, student.ID, base)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrAlreadyRegistered) {
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 9, duplicates)
}

func TestCheckInWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]
	ctx := context.Background()

	_, err := svc.Register(ctx, event.ID, student.ID, base)
	require.NoError(t, err)

	opens := event.StartDate.Add(-30 * time.Minute)

	_, err = svc.CheckIn(ctx, event.ID, student.ID, opens.Add(-time.Second))
	assert.ErrorIs(t, err, ErrCheckInNotOpen)

	reg, err := svc.CheckIn(ctx, event.ID, student.ID, opens)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusCheckedIn, reg.Status)
	require.NotNil(t, reg.CheckInTime)
	assert.True(t, reg.CheckInTime.Equal(opens))

	_, err = svc.CheckIn(ctx, event.ID, student.ID, opens.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	var stored model.Registration
	require.NoError(t, db.Where("event_id = ? AND student_id = ?", event.ID, student.ID).First(&stored).Error)
	assert.Equal(t, model.RegistrationStatusCheckedIn, stored.Status)
}

func TestCheckInStaysOpenAfterEventEnds(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]

	_, err := svc.Register(context.Background(), event.ID, student.ID, base)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), event.ID, student.ID, event.EndDate.Add(72*time.Hour))
	assert.NoError(t, err)
}

func TestCheckInWithoutRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]

	_, err := svc.CheckIn(context.Background(), event.ID, student.ID, event.StartDate)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestConcurrentCheckInSucceedsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]

	_, err := svc.Register(context.Background(), event.ID, student.ID, base)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CheckIn(context.Background(), event.ID, student.ID, event.StartDate); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestCancelRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 1)
	students := createStudents(t, db, 2)
	ctx := context.Background()

	_, err := svc.Register(ctx, event.ID, students[0].ID, base)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, event.ID, students[0].ID))

	var count int64
	db.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&count)
	assert.Zero(t, count)

	// The freed seat can be taken
	_, err = svc.Register(ctx, event.ID, students[1].ID, base)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(ctx, event.ID, students[0].ID), ErrNotRegistered)
}

func TestCancelAfterCheckInFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]
	ctx := context.Background()

	_, err := svc.Register(ctx, event.ID, student.ID, base)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, event.ID, student.ID, event.StartDate)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(ctx, event.ID, student.ID), ErrCannotCancelCheckedIn)

	var count int64
	db.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegistrationsSurviveEventCancellation(t *testing.T) {
	db := newTestDB(t)
	regs := NewRegistrationService(db)
	events := NewEventService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	event := createEvent(t, db, admin.ID, 10)
	student := createStudents(t, db, 1)[0]
	ctx := context.Background()

	_, err := regs.Register(ctx, event.ID, student.ID, base)
	require.NoError(t, err)

	_, err = events.Cancel(ctx, admin.ID, event.ID)
	require.NoError(t, err)

	list, err := regs.ListForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Event)
	assert.Equal(t, model.EventStatusCancelled, list[0].Event.Status)
}

func TestListForEventAndStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	first := createEvent(t, db, admin.ID, 10)
	second := createEvent(t, db, admin.ID, 10)
	students := createStudents(t, db, 2)
	ctx := context.Background()

	_, err := svc.Register(ctx, first.ID, students[0].ID, base)
	require.NoError(t, err)
	_, err = svc.Register(ctx, first.ID, students[1].ID, base.Add(time.Minute))
	require.NoError(t, err)
	_, err = svc.Register(ctx, second.ID, students[0].ID, base.Add(time.Hour))
	require.NoError(t, err)

	forEvent, err := svc.ListForEvent(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, forEvent, 2)
	require.NotNil(t, forEvent[0].Student)
	assert.Equal(t, "S0000", forEvent[0].Student.StudentNumber)
	assert.Empty(t, forEvent[0].Student.Email)

	forStudent, err := svc.ListForStudent(ctx, students[0].ID)
	require.NoError(t, err)
	require.Len(t, forStudent, 2)
	// Newest registration first
	assert.Equal(t, second.ID, forStudent[0].EventID)
	require.NotNil(t, forStudent[0].Event.Admin)
	assert.Equal(t, admin.Name, forStudent[0].Event.Admin.Name)
}
