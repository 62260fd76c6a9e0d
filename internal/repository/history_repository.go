package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RideRecord is one finished (completed or cancelled) ride in a rider's
// history. Only finished rides are recorded; the live draft never touches the
// database.
type RideRecord struct {
	ID          uuid.UUID `json:"id"`
	RiderID     uuid.UUID `json:"rider_id"`
	PickupLabel string    `json:"pickup_label"`
	PickupLng   float64   `json:"pickup_lng"`
	PickupLat   float64   `json:"pickup_lat"`
	DropLabel   string    `json:"drop_label"`
	DropLng     float64   `json:"drop_lng"`
	DropLat     float64   `json:"drop_lat"`
	RideType    string    `json:"ride_type"`
	DistanceKm  float64   `json:"distance_km"`
	DurationMin float64   `json:"duration_min"`
	Fare        float64   `json:"fare"`
	Outcome     string    `json:"outcome"` // completed | cancelled
	FinishedAt  time.Time `json:"finished_at"`
}

// Ride outcomes recorded in history.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
)

// HistoryRepository persists finished rides.
type HistoryRepository interface {
	Save(ctx context.Context, record RideRecord) error
	FindByRiderID(ctx context.Context, riderID uuid.UUID, page, limit int) ([]RideRecord, int64, error)
}

// RideHistoryModel is the GORM model for the ride_history table.
type RideHistoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RiderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	PickupLabel string    `gorm:"not null;size:300"`
	PickupLng   float64   `gorm:"not null"`
	PickupLat   float64   `gorm:"not null"`
	DropLabel   string    `gorm:"not null;size:300"`
	DropLng     float64   `gorm:"not null"`
	DropLat     float64   `gorm:"not null"`
	RideType    string    `gorm:"size:10"`
	DistanceKm  float64   `gorm:""`
	DurationMin float64   `gorm:""`
	Fare        float64   `gorm:""`
	Outcome     string    `gorm:"not null;size:20;index"`
	FinishedAt  time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RideHistoryModel) TableName() string {
	return "ride_history"
}

// GormHistoryRepository is the GORM-based implementation of HistoryRepository.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Save inserts a finished ride.
func (r *GormHistoryRepository) Save(ctx context.Context, record RideRecord) error {
	model := toModel(record)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save ride record: %w", err)
	}
	return nil
}

// FindByRiderID retrieves a rider's finished rides, newest first, with
// pagination.
func (r *GormHistoryRepository) FindByRiderID(ctx context.Context, riderID uuid.UUID, page, limit int) ([]RideRecord, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RideHistoryModel{}).Where("rider_id = ?", riderID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ride history: %w", err)
	}

	var models []RideHistoryModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("rider_id = ?", riderID).
		Order("finished_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find ride history: %w", err)
	}

	records := make([]RideRecord, len(models))
	for i, m := range models {
		records[i] = toRecord(m)
	}
	return records, total, nil
}

func toModel(rec RideRecord) RideHistoryModel {
	return RideHistoryModel{
		ID:          rec.ID,
		RiderID:     rec.RiderID,
		PickupLabel: rec.PickupLabel,
		PickupLng:   rec.PickupLng,
		PickupLat:   rec.PickupLat,
		DropLabel:   rec.DropLabel,
		DropLng:     rec.DropLng,
		DropLat:     rec.DropLat,
		RideType:    rec.RideType,
		DistanceKm:  rec.DistanceKm,
		DurationMin: rec.DurationMin,
		Fare:        rec.Fare,
		Outcome:     rec.Outcome,
		FinishedAt:  rec.FinishedAt,
		CreatedAt:   time.Now().UTC(),
	}
}

func toRecord(m RideHistoryModel) RideRecord {
	return RideRecord{
		ID:          m.ID,
		RiderID:     m.RiderID,
		PickupLabel: m.PickupLabel,
		PickupLng:   m.PickupLng,
		PickupLat:   m.PickupLat,
		DropLabel:   m.DropLabel,
		DropLng:     m.DropLng,
		DropLat:     m.DropLat,
		RideType:    m.RideType,
		DistanceKm:  m.DistanceKm,
		DurationMin: m.DurationMin,
		Fare:        m.Fare,
		Outcome:     m.Outcome,
		FinishedAt:  m.FinishedAt,
	}
}
