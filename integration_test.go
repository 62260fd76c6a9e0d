//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/events"
	"github.com/Vikrant465/booking-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompletedRideIsRecordedAndPublished walks a booking from endpoint
// selection through payment against real Postgres and Kafka, then verifies
// the ride landed in history and the lifecycle events reached the broker.
func TestCompletedRideIsRecordedAndPublished(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	svc, cleanup := setupBookingService(t, infra.DB, infra.KafkaBrokers)
	defer cleanup()

	ctx := context.Background()
	riderID := uuid.New()

	start, err := svc.StartSession(ctx, riderID, nil)
	require.NoError(t, err)

	_, err = svc.SetEndpointFromCandidate(ctx, start.SessionID, ride.RolePickup, ride.PlaceCandidate{
		DisplayName: "Connaught Place",
		Coordinates: ride.Coordinates{Lng: 77.209, Lat: 28.6139},
	})
	require.NoError(t, err)
	snap, err := svc.SetEndpointFromCandidate(ctx, start.SessionID, ride.RoleDrop, ride.PlaceCandidate{
		DisplayName: "Rohini",
		Coordinates: ride.Coordinates{Lng: 77.10, Lat: 28.70},
	})
	require.NoError(t, err)
	require.Equal(t, ride.StageRoutePreviewed, snap.Stage)

	_, err = svc.ChooseRideType(start.SessionID, ride.RideTypeCar)
	require.NoError(t, err)

	_, _, err = svc.Confirm(ctx, start.SessionID)
	require.NoError(t, err)

	_, err = svc.BeginDispatch(start.SessionID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := svc.Dispatch(start.SessionID)
		return err == nil && status.Stage == ride.StageDriverAssigned
	}, 10*time.Second, 100*time.Millisecond, "driver was never assigned")

	final, err := svc.OpenPayment(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, ride.StageSelectingEndpoints, final.Stage)

	// The finished ride is in Postgres.
	records, total, err := svc.RideHistory(ctx, riderID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, repository.OutcomeCompleted, records[0].Outcome)
	assert.Equal(t, "Connaught Place", records[0].PickupLabel)
	assert.InDelta(t, 284.0, records[0].Fare, 0.001)

	// The lifecycle events reached the broker.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicRideEvents,
		events.RideCompleted, 15*time.Second)

	var completed events.RideCompletedEvent
	require.NoError(t, ce.ParseData(&completed))
	assert.Equal(t, riderID, completed.RiderID)
	assert.InDelta(t, 284.0, completed.Fare, 0.001)
}

// TestCancelledRideIsRecorded verifies a cancelled booking with a planned
// route lands in history with the cancelled outcome and publishes
// ride.cancelled.
func TestCancelledRideIsRecorded(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	svc, cleanup := setupBookingService(t, infra.DB, infra.KafkaBrokers)
	defer cleanup()

	ctx := context.Background()
	riderID := uuid.New()

	start, err := svc.StartSession(ctx, riderID, nil)
	require.NoError(t, err)

	_, err = svc.SetEndpointFromCandidate(ctx, start.SessionID, ride.RolePickup, ride.PlaceCandidate{
		DisplayName: "Connaught Place",
		Coordinates: ride.Coordinates{Lng: 77.209, Lat: 28.6139},
	})
	require.NoError(t, err)
	_, err = svc.SetEndpointFromCandidate(ctx, start.SessionID, ride.RoleDrop, ride.PlaceCandidate{
		DisplayName: "Rohini",
		Coordinates: ride.Coordinates{Lng: 77.10, Lat: 28.70},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, start.SessionID)
	require.NoError(t, err)

	records, total, err := svc.RideHistory(ctx, riderID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, repository.OutcomeCancelled, records[0].Outcome)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicRideEvents,
		events.RideCancelled, 15*time.Second)

	var cancelled events.RideCancelledEvent
	require.NoError(t, ce.ParseData(&cancelled))
	assert.Equal(t, riderID, cancelled.RiderID)
	assert.Equal(t, string(ride.StageRoutePreviewed), cancelled.FromStage)
}
