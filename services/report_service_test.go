package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillRate(t *testing.T) {
	assert.Equal(t, 0.0, FillRate(0, 10))
	assert.Equal(t, 33.3, FillRate(1, 3))
	assert.Equal(t, 66.7, FillRate(2, 3))
	assert.Equal(t, 100.0, FillRate(5, 5))
	assert.Equal(t, 0.0, FillRate(3, 0))
}

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	regs := NewRegistrationService(db)
	events := NewEventService(db)
	reports := NewReportService(db)
	admin := createAdmin(t, db, "admin@college.edu")
	other := createAdmin(t, db, "other@college.edu")
	ctx := context.Background()

	busy := createEvent(t, db, admin.ID, 4)
	quiet := createEvent(t, db, admin.ID, 10)
	createEvent(t, db, other.ID, 10)
	students := createStudents(t, db, 3)

	for _, s := range students {
		_, err := regs.Register(ctx, busy.ID, s.ID, base)
		require.NoError(t, err)
	}
	_, err := regs.CheckIn(ctx, busy.ID, students[0].ID, busy.StartDate)
	require.NoError(t, err)
	_, err = events.Cancel(ctx, admin.ID, quiet.ID)
	require.NoError(t, err)

	report, err := reports.AdminStats(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, report.Stats, 2)

	byID := map[uint]EventStats{}
	for _, s := range report.Stats {
		byID[s.ID] = s
	}

	b := byID[busy.ID]
	assert.EqualValues(t, 3, b.CurrentRegistrations)
	assert.EqualValues(t, 1, b.CheckedIn)
	assert.EqualValues(t, 1, b.AvailableSpots)
	assert.Equal(t, 75.0, b.FillRate)

	q := byID[quiet.ID]
	assert.EqualValues(t, 0, q.CurrentRegistrations)
	assert.EqualValues(t, 10, q.AvailableSpots)

	assert.Equal(t, 2, report.Summary.TotalEvents)
	assert.Equal(t, 1, report.Summary.ActiveEvents)
	assert.EqualValues(t, 3, report.Summary.TotalRegistrations)
	assert.EqualValues(t, 1, report.Summary.TotalCheckedIn)
	assert.Equal(t, 37.5, report.Summary.AverageFillRate)
}

func TestAdminStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	admin := createAdmin(t, db, "admin@college.edu")

	report, err := NewReportService(db).AdminStats(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Stats)
	assert.Zero(t, report.Summary.AverageFillRate)
}
