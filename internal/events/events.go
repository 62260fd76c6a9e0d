package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/google/uuid"
)

// TopicRideEvents carries the ride lifecycle events other services (and the
// eventual real dispatch subsystem) subscribe to.
const TopicRideEvents = "ride.events"

// Ride lifecycle event types.
const (
	RideConfirmed      = "ride.confirmed"
	RideDriverAssigned = "ride.driver_assigned"
	RideCompleted      = "ride.completed"
	RideCancelled      = "ride.cancelled"
)

// CloudEvent is the envelope every published event travels in.
type CloudEvent struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data any) (CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return CloudEvent{
		ID:     uuid.NewString(),
		Source: source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   payload,
	}, nil
}

// ParseData unmarshals the event payload into out.
func (e CloudEvent) ParseData(out any) error {
	return json.Unmarshal(e.Data, out)
}

// ParseCloudEvent decodes a CloudEvent from its wire form.
func ParseCloudEvent(b []byte) (CloudEvent, error) {
	var e CloudEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return e, nil
}

// RideConfirmedEvent is published when the rider confirms a booking.
type RideConfirmedEvent struct {
	RideID      uuid.UUID     `json:"ride_id"`
	RiderID     uuid.UUID     `json:"rider_id"`
	PickupLabel string        `json:"pickup_label"`
	DropLabel   string        `json:"drop_label"`
	RideType    ride.RideType `json:"ride_type"`
	DistanceKm  float64       `json:"distance_km"`
	Fare        float64       `json:"fare"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// RideDriverAssignedEvent is published when the dispatch countdown completes.
type RideDriverAssignedEvent struct {
	RideID     uuid.UUID `json:"ride_id"`
	RiderID    uuid.UUID `json:"rider_id"`
	DriverName string    `json:"driver_name"`
	Vehicle    string    `json:"vehicle"`
	Plate      string    `json:"plate"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RideCompletedEvent is published after the payment collaborator reports
// success.
type RideCompletedEvent struct {
	RideID     uuid.UUID `json:"ride_id"`
	RiderID    uuid.UUID `json:"rider_id"`
	Fare       float64   `json:"fare"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RideCancelledEvent is published when the rider abandons a booking.
type RideCancelledEvent struct {
	RideID     uuid.UUID `json:"ride_id"`
	RiderID    uuid.UUID `json:"rider_id"`
	FromStage  string    `json:"from_stage"`
	OccurredAt time.Time `json:"occurred_at"`
}
