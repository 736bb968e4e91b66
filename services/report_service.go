package services

import (
	"context"
	"fmt"
	"math"

	"github.com/campus-events/api/model"
	"gorm.io/gorm"
)

// ReportService derives registration statistics from the catalog and ledger
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// EventStats is the derived view of one event's registrations
type EventStats struct {
	ID                   uint              `json:"id"`
	Title                string            `json:"title"`
	Status               model.EventStatus `json:"status"`
	MaxParticipants      int               `json:"maxParticipants"`
	CurrentRegistrations int64             `json:"currentRegistrations"`
	CheckedIn            int64             `json:"checkedIn"`
	AvailableSpots       int64             `json:"availableSpots"`
	FillRate             float64           `json:"fillRate"`
}

// StatsSummary aggregates EventStats over all of an admin's events
type StatsSummary struct {
	TotalEvents        int     `json:"totalEvents"`
	ActiveEvents       int     `json:"activeEvents"`
	TotalRegistrations int64   `json:"totalRegistrations"`
	TotalCheckedIn     int64   `json:"totalCheckedIn"`
	AverageFillRate    float64 `json:"averageFillRate"`
}

// AdminStats is the full stats report for one admin
type AdminStats struct {
	Stats   []EventStats `json:"stats"`
	Summary StatsSummary `json:"summary"`
}

type eventCountRow struct {
	ID                   uint
	Title                string
	Status               model.EventStatus
	MaxParticipants      int
	CurrentRegistrations int64
	CheckedIn            int64
}

// FillRate returns registrations as a percentage of capacity rounded to one decimal
func FillRate(registrations int64, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return roundOneDecimal(float64(registrations) / float64(capacity) * 100)
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// AdminStats computes per-event counts for every event adminID owns.
// Every registration row counts toward the total whatever its status.
func (s *ReportService) AdminStats(ctx context.Context, adminID uint) (*AdminStats, error) {
	var rows []eventCountRow
	err := s.db.WithContext(ctx).
		Table("events AS e").
		Select(`e.id, e.title, e.status, e.max_participants,
			COUNT(r.id) AS current_registrations,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS checked_in`,
			model.RegistrationStatusCheckedIn).
		Joins("LEFT JOIN event_registrations AS r ON r.event_id = e.id").
		Where("e.created_by = ?", adminID).
		Group("e.id, e.title, e.status, e.max_participants, e.created_at").
		Order("e.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	report := &AdminStats{Stats: make([]EventStats, 0, len(rows))}
	var fillRateSum float64

	for _, row := range rows {
		stat := EventStats{
			ID:                   row.ID,
			Title:                row.Title,
			Status:               row.Status,
			MaxParticipants:      row.MaxParticipants,
			CurrentRegistrations: row.CurrentRegistrations,
			CheckedIn:            row.CheckedIn,
			AvailableSpots:       int64(row.MaxParticipants) - row.CurrentRegistrations,
			FillRate:             FillRate(row.CurrentRegistrations, row.MaxParticipants),
		}
		report.Stats = append(report.Stats, stat)

		report.Summary.TotalEvents++
		if row.Status == model.EventStatusActive {
			report.Summary.ActiveEvents++
		}
		report.Summary.TotalRegistrations += row.CurrentRegistrations
		report.Summary.TotalCheckedIn += row.CheckedIn
		fillRateSum += stat.FillRate
	}

	if report.Summary.TotalEvents > 0 {
		report.Summary.AverageFillRate = roundOneDecimal(fillRateSum / float64(report.Summary.TotalEvents))
	}

	return report, nil
}
