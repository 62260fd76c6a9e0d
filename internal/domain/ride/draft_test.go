package ride

import (
	"testing"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	connaughtPlace = Endpoint{Label: "Connaught Place", Coordinates: Coordinates{Lng: 77.209, Lat: 28.6139}}
	rohini         = Endpoint{Label: "Rohini", Coordinates: Coordinates{Lng: 77.10, Lat: 28.70}}
	testRoute      = RouteInfo{
		Geometry:    []Coordinates{{Lng: 77.209, Lat: 28.6139}, {Lng: 77.15, Lat: 28.66}, {Lng: 77.10, Lat: 28.70}},
		DistanceKm:  14.2,
		DurationMin: 38.5,
	}
)

func draftWithEndpoints(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft(uuid.New())
	require.NoError(t, d.SetEndpoint(RolePickup, connaughtPlace))
	require.NoError(t, d.SetEndpoint(RoleDrop, rohini))
	return d
}

func draftAtRideTypeChosen(t *testing.T) *Draft {
	t.Helper()
	d := draftWithEndpoints(t)
	require.NoError(t, d.AttachRoute(testRoute))
	require.NoError(t, d.ChooseRideType(RideTypeBike))
	return d
}

func TestNewDraftStartsEmpty(t *testing.T) {
	d := NewDraft(uuid.New())

	assert.Equal(t, StageSelectingEndpoints, d.Stage())
	assert.Nil(t, d.Pickup())
	assert.Nil(t, d.Drop())
	assert.Nil(t, d.Route())
	assert.Nil(t, d.RideType())
}

func TestSetEndpointReplacesWholesale(t *testing.T) {
	d := NewDraft(uuid.New())
	require.NoError(t, d.SetEndpoint(RolePickup, connaughtPlace))

	other := Endpoint{Label: "Karol Bagh", Coordinates: Coordinates{Lng: 77.19, Lat: 28.65}}
	require.NoError(t, d.SetEndpoint(RolePickup, other))

	assert.Equal(t, "Karol Bagh", d.Pickup().Label)
	assert.Nil(t, d.Drop())
}

func TestSetEndpointRejectsBadInput(t *testing.T) {
	d := NewDraft(uuid.New())

	err := d.SetEndpoint("via", connaughtPlace)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	err = d.SetEndpoint(RolePickup, Endpoint{})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestEndpointChangeInvalidatesRoute(t *testing.T) {
	d := draftAtRideTypeChosen(t)

	require.NoError(t, d.SetEndpoint(RoleDrop, Endpoint{Label: "Dwarka", Coordinates: Coordinates{Lng: 77.03, Lat: 28.59}}))

	assert.Equal(t, StageSelectingEndpoints, d.Stage())
	assert.Nil(t, d.Route())
	assert.Nil(t, d.RideType())
	assert.NotNil(t, d.Pickup(), "untouched endpoint survives")
}

func TestAttachRouteRequiresBothEndpoints(t *testing.T) {
	d := NewDraft(uuid.New())
	require.NoError(t, d.SetEndpoint(RolePickup, connaughtPlace))

	err := d.AttachRoute(testRoute)
	assert.True(t, domain.IsCode(err, domain.CodeIncompleteBooking))
	assert.Equal(t, StageSelectingEndpoints, d.Stage())
}

func TestChooseRideTypeRequiresRoute(t *testing.T) {
	d := draftWithEndpoints(t)

	err := d.ChooseRideType(RideTypeCar)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
}

func TestChooseRideTypeCanSwitch(t *testing.T) {
	d := draftAtRideTypeChosen(t)

	require.NoError(t, d.ChooseRideType(RideTypeAuto))
	assert.Equal(t, RideTypeAuto, *d.RideType())
	assert.Equal(t, StageRideTypeChosen, d.Stage())
}

func TestConfirmWithoutRideTypeFails(t *testing.T) {
	d := draftWithEndpoints(t)
	require.NoError(t, d.AttachRoute(testRoute))

	err := d.Confirm()
	assert.True(t, domain.IsCode(err, domain.CodeIncompleteBooking))

	// Draft unchanged.
	assert.Equal(t, StageRoutePreviewed, d.Stage())
	assert.Nil(t, d.RideType())
}

func TestConfirmNeverReachableIncomplete(t *testing.T) {
	d := NewDraft(uuid.New())
	err := d.Confirm()
	assert.True(t, domain.IsCode(err, domain.CodeIncompleteBooking))
	assert.Equal(t, StageSelectingEndpoints, d.Stage())
}

func TestHappyPathToCompleted(t *testing.T) {
	d := draftAtRideTypeChosen(t)

	require.NoError(t, d.Confirm())
	require.NoError(t, d.BeginDispatch())
	require.NoError(t, d.AssignDriver(Driver{Name: "Rajesh Sharma", Vehicle: "Maruti Swift", Plate: "DL 09 AB 1234"}))
	require.NoError(t, d.StartPayment())
	require.NoError(t, d.CompletePayment())

	assert.Equal(t, StageCompleted, d.Stage())
	assert.Equal(t, "Rajesh Sharma", d.Driver().Name)
}

func TestStartPaymentCanBeReopened(t *testing.T) {
	d := draftAtRideTypeChosen(t)
	require.NoError(t, d.Confirm())
	require.NoError(t, d.BeginDispatch())
	require.NoError(t, d.AssignDriver(Driver{Name: "Rajesh Sharma"}))

	// A dismissed payment dialog leaves the draft in payment_pending;
	// opening it again must not be rejected.
	require.NoError(t, d.StartPayment())
	require.NoError(t, d.StartPayment())

	assert.Equal(t, StagePaymentPending, d.Stage())
	require.NoError(t, d.CompletePayment())
}

func TestAssignDriverOnlyFromDispatching(t *testing.T) {
	d := draftAtRideTypeChosen(t)
	require.NoError(t, d.Confirm())

	err := d.AssignDriver(Driver{Name: "x"})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
	assert.Equal(t, StageConfirmed, d.Stage())
}

func TestAbortDispatchReturnsToSelecting(t *testing.T) {
	d := draftAtRideTypeChosen(t)
	require.NoError(t, d.Confirm())
	require.NoError(t, d.BeginDispatch())

	require.NoError(t, d.AbortDispatch())

	assert.Equal(t, StageSelectingEndpoints, d.Stage())
	assert.True(t, d.HasBothEndpoints())
	assert.Nil(t, d.Route())
}

func TestCancelReachability(t *testing.T) {
	t.Run("from selecting", func(t *testing.T) {
		d := NewDraft(uuid.New())
		assert.NoError(t, d.Cancel())
		assert.Equal(t, StageCancelled, d.Stage())
	})

	t.Run("from confirmed", func(t *testing.T) {
		d := draftAtRideTypeChosen(t)
		require.NoError(t, d.Confirm())
		assert.NoError(t, d.Cancel())
	})

	t.Run("not from driver assigned", func(t *testing.T) {
		d := draftAtRideTypeChosen(t)
		require.NoError(t, d.Confirm())
		require.NoError(t, d.BeginDispatch())
		require.NoError(t, d.AssignDriver(Driver{Name: "x"}))

		err := d.Cancel()
		assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
		assert.Equal(t, StageDriverAssigned, d.Stage())
	})
}
