package ride

import (
	"time"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/google/uuid"
)

// Draft is the aggregate root for an in-progress booking attempt. It is owned
// exclusively by the booking service; collaborators see read-only snapshots.
//
// Invariants:
//   - route is present only if both pickup and drop are present
//   - rideType is present only if route is present
//   - the stage advances only through validTransitions
//
// Guarded transitions either succeed fully or leave the draft untouched.
type Draft struct {
	id        uuid.UUID
	riderID   uuid.UUID
	pickup    *Endpoint
	drop      *Endpoint
	route     *RouteInfo
	rideType  *RideType
	stage     Stage
	driver    *Driver
	createdAt time.Time
	updatedAt time.Time
}

// Driver is the stubbed driver profile attached once dispatch completes.
type Driver struct {
	Name     string      `json:"name"`
	Vehicle  string      `json:"vehicle"`
	Plate    string      `json:"plate"`
	Position Coordinates `json:"position"`
}

// NewDraft creates an empty draft in selecting_endpoints for the given rider.
func NewDraft(riderID uuid.UUID) *Draft {
	now := time.Now().UTC()
	return &Draft{
		id:        uuid.New(),
		riderID:   riderID,
		stage:     StageSelectingEndpoints,
		createdAt: now,
		updatedAt: now,
	}
}

// --- Getters ---

// ID returns the draft's unique identifier.
func (d *Draft) ID() uuid.UUID { return d.id }

// RiderID returns the owning rider's ID.
func (d *Draft) RiderID() uuid.UUID { return d.riderID }

// Pickup returns the pickup endpoint, or nil if not yet chosen.
func (d *Draft) Pickup() *Endpoint { return d.pickup }

// Drop returns the drop endpoint, or nil if not yet chosen.
func (d *Draft) Drop() *Endpoint { return d.drop }

// Route returns the planned route, or nil if not yet planned.
func (d *Draft) Route() *RouteInfo { return d.route }

// RideType returns the chosen vehicle class, or nil if not yet chosen.
func (d *Draft) RideType() *RideType { return d.rideType }

// Stage returns the current booking stage.
func (d *Draft) Stage() Stage { return d.stage }

// Driver returns the assigned driver, or nil before dispatch completes.
func (d *Draft) Driver() *Driver { return d.driver }

// CreatedAt returns the creation timestamp.
func (d *Draft) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (d *Draft) UpdatedAt() time.Time { return d.updatedAt }

// Endpoint returns the endpoint in the given slot, or nil.
func (d *Draft) Endpoint(role EndpointRole) *Endpoint {
	if role == RolePickup {
		return d.pickup
	}
	return d.drop
}

// HasBothEndpoints returns true once pickup and drop are both set.
func (d *Draft) HasBothEndpoints() bool {
	return d.pickup != nil && d.drop != nil
}

// --- Behavior ---

// SetEndpoint replaces the endpoint in the given slot. Any previously planned
// route and ride type are invalidated, and a draft past endpoint selection
// returns to selecting_endpoints.
func (d *Draft) SetEndpoint(role EndpointRole, ep Endpoint) error {
	if !role.IsValid() {
		return domain.NewValidationError("endpoint role must be pickup or drop")
	}
	if ep.Label == "" {
		return domain.NewValidationError("endpoint label is required")
	}
	if d.stage != StageSelectingEndpoints && !d.stage.CanTransitionTo(StageSelectingEndpoints) {
		return domain.NewInvalidStateError(string(d.stage), string(StageSelectingEndpoints))
	}

	if role == RolePickup {
		d.pickup = &ep
	} else {
		d.drop = &ep
	}
	d.route = nil
	d.rideType = nil
	d.stage = StageSelectingEndpoints
	d.updatedAt = time.Now().UTC()
	return nil
}

// AttachRoute records a freshly planned route and advances the draft to
// route_previewed. Both endpoints must be set.
func (d *Draft) AttachRoute(route RouteInfo) error {
	if !d.stage.CanTransitionTo(StageRoutePreviewed) {
		return domain.NewInvalidStateError(string(d.stage), string(StageRoutePreviewed))
	}
	if !d.HasBothEndpoints() {
		return domain.NewIncompleteBookingError("pickup or drop")
	}
	d.route = &route
	d.stage = StageRoutePreviewed
	d.updatedAt = time.Now().UTC()
	return nil
}

// ChooseRideType records the rider's vehicle class. Allowed from
// route_previewed, or again from ride_type_chosen to switch classes.
func (d *Draft) ChooseRideType(t RideType) error {
	if !t.IsValid() {
		return domain.NewValidationError("invalid ride type: " + string(t))
	}
	if d.stage != StageRideTypeChosen && !d.stage.CanTransitionTo(StageRideTypeChosen) {
		return domain.NewInvalidStateError(string(d.stage), string(StageRideTypeChosen))
	}
	if d.route == nil {
		return domain.NewIncompleteBookingError("route")
	}
	d.rideType = &t
	d.stage = StageRideTypeChosen
	d.updatedAt = time.Now().UTC()
	return nil
}

// Confirm locks in the booking. Every required field must be present;
// otherwise the transition fails with INCOMPLETE_BOOKING and the draft is
// unchanged.
func (d *Draft) Confirm() error {
	switch {
	case d.pickup == nil:
		return domain.NewIncompleteBookingError("pickup")
	case d.drop == nil:
		return domain.NewIncompleteBookingError("drop")
	case d.route == nil:
		return domain.NewIncompleteBookingError("route")
	case d.rideType == nil:
		return domain.NewIncompleteBookingError("ride type")
	}
	if !d.stage.CanTransitionTo(StageConfirmed) {
		return domain.NewInvalidStateError(string(d.stage), string(StageConfirmed))
	}
	d.stage = StageConfirmed
	d.updatedAt = time.Now().UTC()
	return nil
}

// BeginDispatch moves a confirmed draft into the dispatch countdown.
func (d *Draft) BeginDispatch() error {
	if !d.stage.CanTransitionTo(StageDispatching) {
		return domain.NewInvalidStateError(string(d.stage), string(StageDispatching))
	}
	d.stage = StageDispatching
	d.updatedAt = time.Now().UTC()
	return nil
}

// AssignDriver consumes the dispatch completion event. Only reachable from
// dispatching; never a direct rider action.
func (d *Draft) AssignDriver(driver Driver) error {
	if !d.stage.CanTransitionTo(StageDriverAssigned) {
		return domain.NewInvalidStateError(string(d.stage), string(StageDriverAssigned))
	}
	d.driver = &driver
	d.stage = StageDriverAssigned
	d.updatedAt = time.Now().UTC()
	return nil
}

// AbortDispatch leaves the dispatch countdown before a driver is found,
// returning the draft to endpoint selection with both endpoints kept so the
// route replans on re-entry.
func (d *Draft) AbortDispatch() error {
	if d.stage != StageDispatching {
		return domain.NewInvalidStateError(string(d.stage), string(StageSelectingEndpoints))
	}
	d.route = nil
	d.rideType = nil
	d.stage = StageSelectingEndpoints
	d.updatedAt = time.Now().UTC()
	return nil
}

// StartPayment opens the payment step for an assigned ride. Allowed again
// from payment_pending, so a dismissed payment dialog can be reopened.
func (d *Draft) StartPayment() error {
	if d.stage != StagePaymentPending && !d.stage.CanTransitionTo(StagePaymentPending) {
		return domain.NewInvalidStateError(string(d.stage), string(StagePaymentPending))
	}
	d.stage = StagePaymentPending
	d.updatedAt = time.Now().UTC()
	return nil
}

// CompletePayment finishes the booking after the payment collaborator reports
// success.
func (d *Draft) CompletePayment() error {
	if !d.stage.CanTransitionTo(StageCompleted) {
		return domain.NewInvalidStateError(string(d.stage), string(StageCompleted))
	}
	d.stage = StageCompleted
	d.updatedAt = time.Now().UTC()
	return nil
}

// Cancel abandons the booking. Not allowed once dispatch is running or a
// driver has been assigned.
func (d *Draft) Cancel() error {
	if !d.stage.CanBeCancelled() {
		return domain.NewInvalidStateError(string(d.stage), string(StageCancelled))
	}
	d.stage = StageCancelled
	d.updatedAt = time.Now().UTC()
	return nil
}
