package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sling/backend/internal/apperror"
	"github.com/sling/backend/internal/models"
)

// ReportService runs the console's simple aggregate reports. Everything here
// is read-only and bounded by a date range on the entered timestamp.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type StatusCount struct {
	Status models.EventStatus `json:"status"`
	Count  int64              `json:"count"`
}

type TypeCount struct {
	Type  models.EventType `json:"type"`
	Count int64            `json:"count"`
}

type AgentCount struct {
	Owner string `json:"owner"`
	Count int64  `json:"count"`
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return apperror.New(apperror.CodeBadRequest, "report range requires from < to")
	}
	return nil
}

// CountsByStatus breaks events entered in the range down by status.
func (s *ReportService) CountsByStatus(ctx context.Context, from, to time.Time) ([]StatusCount, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	var counts []StatusCount
	err := s.db.WithContext(ctx).Model(&models.Event{}).
		Select("status, COUNT(*) AS count").
		Where("entered BETWEEN ? AND ?", from, to).
		Group("status").Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountsByType breaks events entered in the range down by type.
func (s *ReportService) CountsByType(ctx context.Context, from, to time.Time) ([]TypeCount, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	var counts []TypeCount
	err := s.db.WithContext(ctx).Model(&models.Event{}).
		Select("type, COUNT(*) AS count").
		Where("entered BETWEEN ? AND ?", from, to).
		Group("type").Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// AgentClosedCounts counts events each agent closed in the range. Closed
// states keep their owner, which is what makes this attribution possible.
func (s *ReportService) AgentClosedCounts(ctx context.Context, from, to time.Time) ([]AgentCount, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	closed := []models.EventStatus{
		models.StatusPlayerClosed,
		models.StatusResolvedClosed,
		models.StatusIgnoredClosed,
	}
	var counts []AgentCount
	err := s.db.WithContext(ctx).Model(&models.Event{}).
		Select("owner, COUNT(*) AS count").
		Where("status IN ?", closed).
		Where("owner IS NOT NULL").
		Where("updated BETWEEN ? AND ?", from, to).
		Group("owner").Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
