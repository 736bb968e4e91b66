package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// base is a fixed instant used as "now" in ledger tests
var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.OpenSQLite(filepath.Join(t.TempDir(), "services.db"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	return store.GetDB()
}

func createAdmin(t *testing.T, db *gorm.DB, email string) *model.Admin {
	t.Helper()
	admin := &model.Admin{Email: email, PasswordHash: "hash", Name: "Admin " + email, College: "North Campus"}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func createStudents(t *testing.T, db *gorm.DB, n int) []*model.Student {
	t.Helper()
	students := make([]*model.Student, 0, n)
	for i := 0; i < n; i++ {
		s := &model.Student{
			Email:         fmt.Sprintf("student%d@college.edu", i),
			PasswordHash:  "hash",
			Name:          fmt.Sprintf("Student %d", i),
			StudentNumber: fmt.Sprintf("S%04d", i),
			College:       "North Campus",
		}
		require.NoError(t, db.Create(s).Error)
		students = append(students, s)
	}
	return students
}

// createEvent makes an active event starting two days after base with the
// registration deadline one day after base
func createEvent(t *testing.T, db *gorm.DB, adminID uint, capacity int) *model.Event {
	t.Helper()
	event := &model.Event{
		Title:                "Hack Night",
		Description:          "Build things",
		EventType:            "hackathon",
		StartDate:            base.Add(48 * time.Hour),
		EndDate:              base.Add(52 * time.Hour),
		Location:             "Hall A",
		MaxParticipants:      capacity,
		RegistrationDeadline: base.Add(24 * time.Hour),
		CreatedBy:            adminID,
		Status:               model.EventStatusActive,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}
