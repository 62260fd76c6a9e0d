package application

import (
	"context"
	"net/url"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/events"
	"github.com/Vikrant465/booking-service/internal/geo"
	"github.com/Vikrant465/booking-service/internal/repository"
	"github.com/Vikrant465/booking-service/internal/search"
	"github.com/Vikrant465/booking-service/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FareQuote is the estimated price for one vehicle class.
type FareQuote struct {
	RideType  ride.RideType `json:"ride_type"`
	RatePerKm float64       `json:"rate_per_km"`
	Fare      float64       `json:"fare"`
}

// BookingSnapshot is the read-only view of a session's draft plus the render
// state the UI applies to the map.
type BookingSnapshot struct {
	SessionID uuid.UUID       `json:"session_id"`
	RiderID   uuid.UUID       `json:"rider_id"`
	Stage     ride.Stage      `json:"stage"`
	Pickup    *ride.Endpoint  `json:"pickup,omitempty"`
	Drop      *ride.Endpoint  `json:"drop,omitempty"`
	Route     *ride.RouteInfo `json:"route,omitempty"`
	RideType  *ride.RideType  `json:"ride_type,omitempty"`
	Fare      float64         `json:"fare"`
	Driver    *ride.Driver    `json:"driver,omitempty"`
	View      geo.Snapshot    `json:"view"`

	// Notice carries the inline error the rider should see (for example a
	// route failure that keeps them on endpoint selection).
	Notice     string `json:"notice,omitempty"`
	NoticeCode string `json:"notice_code,omitempty"`
}

// DispatchStatus reports the countdown state to the finding screen.
type DispatchStatus struct {
	Stage     ride.Stage   `json:"stage"`
	Remaining int          `json:"remaining_seconds"`
	Driver    *ride.Driver `json:"driver,omitempty"`
}

// BookingService is the application service orchestrating the booking flow:
// it owns the drafts, enforces stage transitions, and coordinates the
// geocoding, routing, dispatch, payment, and map rendering collaborators.
type BookingService struct {
	sessions   *session.Store
	geocoder   geo.Geocoder
	router     geo.Router
	estimator  ride.FareEstimator
	dispatcher *DispatchSimulator
	payments   PaymentGateway
	history    repository.HistoryRepository
	publisher  events.Publisher
	quiet      time.Duration
	logger     *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	sessions *session.Store,
	geocoder geo.Geocoder,
	router geo.Router,
	estimator ride.FareEstimator,
	dispatcher *DispatchSimulator,
	payments PaymentGateway,
	history repository.HistoryRepository,
	publisher events.Publisher,
	quiet time.Duration,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		sessions:   sessions,
		geocoder:   geocoder,
		router:     router,
		estimator:  estimator,
		dispatcher: dispatcher,
		payments:   payments,
		history:    history,
		publisher:  publisher,
		quiet:      quiet,
		logger:     logger,
	}
}

// StartSession creates a rider session with an empty draft. When transfer
// parameters from a previous stage are supplied, the draft is reconstructed
// from them: endpoints re-marked, the route replanned, and the ride type
// restored, so a full page reload lands the rider where they left off.
func (s *BookingService) StartSession(ctx context.Context, riderID uuid.UUID, transfer url.Values) (*BookingSnapshot, error) {
	sess := s.sessions.Create(riderID, func() *search.Searcher {
		return search.NewSearcher(s.geocoder, s.quiet, s.logger)
	})

	data := ride.DecodeTransfer(transfer)
	if data.Pickup != nil {
		_ = s.applyEndpoint(sess, ride.RolePickup, *data.Pickup)
	}
	if data.Drop != nil {
		_ = s.applyEndpoint(sess, ride.RoleDrop, *data.Drop)
	}

	var notice error
	if hasBoth(sess) {
		notice = s.planRoute(ctx, sess)
	}
	if notice == nil && data.RideType != nil {
		sess.Mu.Lock()
		if sess.Draft.Route() != nil {
			_ = sess.Draft.ChooseRideType(*data.RideType)
		}
		sess.Mu.Unlock()
	}

	return s.snapshotWithNotice(sess, notice), nil
}

// Snapshot returns the current state of a session.
func (s *BookingService) Snapshot(sessionID uuid.UUID) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

// EndSession discards a session and everything it owns.
func (s *BookingService) EndSession(sessionID uuid.UUID) {
	s.sessions.Delete(sessionID)
}

// SearchPlaces runs the debounced place search for a session. Geocoding
// failures surface inside the result, never as a fault.
func (s *BookingService) SearchPlaces(ctx context.Context, sessionID uuid.UUID, text string) (search.Result, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return search.Result{}, err
	}
	return sess.Searcher.Search(ctx, text)
}

// SetEndpointFromCandidate fills an endpoint slot from a chosen search
// candidate, then plans the route once both slots are set.
func (s *BookingService) SetEndpointFromCandidate(ctx context.Context, sessionID uuid.UUID, role ride.EndpointRole, candidate ride.PlaceCandidate) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.setEndpoint(ctx, sess, role, candidate.ToEndpoint())
}

// SetEndpointFromMapPoint fills an endpoint slot from a map click. The point
// is reverse-geocoded for a label; an unnamed point falls back to
// "Unknown location" rather than failing.
func (s *BookingService) SetEndpointFromMapPoint(ctx context.Context, sessionID uuid.UUID, role ride.EndpointRole, coords ride.Coordinates) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	label := ride.UnknownLocationLabel
	candidate, err := s.geocoder.ReverseSearch(ctx, coords)
	if err != nil {
		s.logger.Warn("reverse geocode failed, using fallback label", zap.Error(err))
	} else if candidate != nil && candidate.DisplayName != "" {
		label = candidate.DisplayName
	}

	return s.setEndpoint(ctx, sess, role, ride.Endpoint{Label: label, Coordinates: coords})
}

func (s *BookingService) setEndpoint(ctx context.Context, sess *session.Session, role ride.EndpointRole, ep ride.Endpoint) (*BookingSnapshot, error) {
	if err := s.applyEndpoint(sess, role, ep); err != nil {
		return nil, err
	}

	var notice error
	if hasBoth(sess) {
		notice = s.planRoute(ctx, sess)
	}
	return s.snapshotWithNotice(sess, notice), nil
}

// applyEndpoint mutates the draft and the map under the session lock.
func (s *BookingService) applyEndpoint(sess *session.Session, role ride.EndpointRole, ep ride.Endpoint) error {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if err := sess.Draft.SetEndpoint(role, ep); err != nil {
		return err
	}

	marker := geo.MarkerPickup
	if role == ride.RoleDrop {
		marker = geo.MarkerDrop
	}
	sess.View.PlaceOrMoveMarker(marker, ep.Coordinates)
	sess.View.FlyTo(ep.Coordinates, geo.SelectedZoom)

	// The previous route, if any, is stale the moment an endpoint moves.
	sess.View.RemoveRoute(ride.RouteOverlayKey)
	return nil
}

// planRoute asks the routing service for a route and, if this computation is
// still the latest, attaches it to the draft and redraws the map. Superseded
// computations discard their result without touching the view, so overlapping
// plans can never interleave partial overlay updates.
func (s *BookingService) planRoute(ctx context.Context, sess *session.Session) error {
	sess.Mu.Lock()
	pickup := sess.Draft.Pickup()
	drop := sess.Draft.Drop()
	if pickup == nil || drop == nil {
		sess.Mu.Unlock()
		return domain.NewIncompleteBookingError("pickup or drop")
	}
	sess.PlanSeq++
	seq := sess.PlanSeq
	sess.Mu.Unlock()

	route, err := s.router.Route(ctx, pickup.Coordinates, drop.Coordinates)

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if sess.PlanSeq != seq {
		// A newer plan superseded this one while the routing call was in
		// flight; its result decides the overlay, not ours.
		return nil
	}
	if err != nil {
		s.logger.Warn("route planning failed",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := sess.Draft.AttachRoute(*route); err != nil {
		return err
	}
	sess.View.FrameBounds(pickup.Coordinates, drop.Coordinates, geo.BoundsPadding)
	sess.View.DrawRoute(ride.RouteOverlayKey, route.Geometry)

	s.logger.Info("route planned",
		zap.String("session_id", sess.ID.String()),
		zap.Float64("distance_km", route.DistanceKm),
		zap.Float64("duration_min", route.DurationMin),
	)
	return nil
}

// Fares quotes every vehicle class against the current route. Without a route
// each quote is 0, meaning "not yet computable".
func (s *BookingService) Fares(sessionID uuid.UUID) ([]FareQuote, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	route := sess.Draft.Route()
	sess.Mu.Unlock()

	quotes := make([]FareQuote, 0, len(ride.AllRideTypes))
	for _, t := range ride.AllRideTypes {
		fare, err := s.estimator.Estimate(route, t)
		if err != nil {
			return nil, err
		}
		quote := FareQuote{RideType: t, Fare: fare}
		if rated, ok := s.estimator.(*ride.RateTableEstimator); ok {
			quote.RatePerKm, _ = rated.RatePerKm(t)
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// ChooseRideType records the rider's vehicle class.
func (s *BookingService) ChooseRideType(sessionID uuid.UUID, t ride.RideType) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	err = sess.Draft.ChooseRideType(t)
	sess.Mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

// Confirm locks in the booking and returns the stage-transfer query string
// the UI navigates to the finding screen with.
func (s *BookingService) Confirm(ctx context.Context, sessionID uuid.UUID) (string, *BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", nil, err
	}

	sess.Mu.Lock()
	if err := sess.Draft.Confirm(); err != nil {
		sess.Mu.Unlock()
		return "", nil, err
	}
	transfer := ride.EncodeTransfer(sess.Draft).Encode()
	evt := events.RideConfirmedEvent{
		RideID:      sess.Draft.ID(),
		RiderID:     sess.RiderID,
		PickupLabel: sess.Draft.Pickup().Label,
		DropLabel:   sess.Draft.Drop().Label,
		RideType:    *sess.Draft.RideType(),
		DistanceKm:  sess.Draft.Route().DistanceKm,
		Fare:        s.currentFare(sess.Draft),
		OccurredAt:  time.Now().UTC(),
	}
	sess.Mu.Unlock()

	s.publishEvent(ctx, events.RideConfirmed, evt)
	return transfer, s.snapshot(sess), nil
}

// BeginDispatch enters the finding-driver countdown for a confirmed booking.
func (s *BookingService) BeginDispatch(sessionID uuid.UUID) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	if err := sess.Draft.BeginDispatch(); err != nil {
		sess.Mu.Unlock()
		return nil, err
	}
	draftID := sess.Draft.ID()
	sess.Dispatch = s.dispatcher.Start(func() {
		s.completeDispatch(sess, draftID)
	})
	sess.Mu.Unlock()

	return s.snapshot(sess), nil
}

// completeDispatch consumes the countdown's single completion event and
// advances the draft to driver_assigned.
func (s *BookingService) completeDispatch(sess *session.Session, draftID uuid.UUID) {
	sess.Mu.Lock()

	// The draft may have been replaced while the final tick was being
	// delivered; a completion event for an old draft has nothing to advance.
	if sess.Draft.ID() != draftID || sess.Draft.Stage() != ride.StageDispatching {
		sess.Mu.Unlock()
		return
	}

	pickup := sess.Draft.Pickup()
	driver := ride.Driver{
		Name:    "Rajesh Sharma",
		Vehicle: "Maruti Swift",
		Plate:   "DL 09 AB 1234",
		Position: ride.Coordinates{
			Lng: pickup.Coordinates.Lng + 0.01,
			Lat: pickup.Coordinates.Lat + 0.01,
		},
	}
	if err := sess.Draft.AssignDriver(driver); err != nil {
		sess.Mu.Unlock()
		s.logger.Error("failed to assign driver", zap.Error(err))
		return
	}
	sess.Dispatch = nil
	sess.View.PlaceOrMoveMarker(geo.MarkerDriver, driver.Position)

	evt := events.RideDriverAssignedEvent{
		RideID:     sess.Draft.ID(),
		RiderID:    sess.RiderID,
		DriverName: driver.Name,
		Vehicle:    driver.Vehicle,
		Plate:      driver.Plate,
		OccurredAt: time.Now().UTC(),
	}
	sess.Mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.publishEvent(ctx, events.RideDriverAssigned, evt)
}

// Dispatch reports the countdown state for the finding screen.
func (s *BookingService) Dispatch(sessionID uuid.UUID) (*DispatchStatus, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	status := &DispatchStatus{Stage: sess.Draft.Stage(), Driver: sess.Draft.Driver()}
	if sess.Dispatch != nil {
		status.Remaining = sess.Dispatch.Remaining()
	}
	return status, nil
}

// AbortDispatch leaves the countdown before a driver is found and returns the
// rider to endpoint selection, where the kept endpoints immediately replan.
func (s *BookingService) AbortDispatch(ctx context.Context, sessionID uuid.UUID) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	if sess.Dispatch != nil {
		sess.Dispatch.Cancel()
		sess.Dispatch = nil
	}
	if err := sess.Draft.AbortDispatch(); err != nil {
		sess.Mu.Unlock()
		return nil, err
	}
	sess.View.RemoveRoute(ride.RouteOverlayKey)
	sess.Mu.Unlock()

	var notice error
	if hasBoth(sess) {
		notice = s.planRoute(ctx, sess)
	}
	return s.snapshotWithNotice(sess, notice), nil
}

// OpenPayment opens the payment collaborator for an assigned ride. On success
// the booking completes, the finished ride is recorded to history, and the
// session gets a fresh draft.
func (s *BookingService) OpenPayment(ctx context.Context, sessionID uuid.UUID) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	err = sess.Draft.StartPayment()
	sess.Mu.Unlock()
	if err != nil {
		return nil, err
	}

	outcome, err := s.payments.Open(ctx)
	if err != nil {
		s.logger.Warn("payment collaborator failed", zap.Error(err))
		return s.snapshot(sess), nil
	}
	if outcome != PaymentSuccess {
		// Rider backed out of the dialog; the ride stays payable.
		return s.snapshot(sess), nil
	}

	sess.Mu.Lock()
	if err := sess.Draft.CompletePayment(); err != nil {
		sess.Mu.Unlock()
		return nil, err
	}
	record := s.recordFor(sess, repository.OutcomeCompleted)
	evt := events.RideCompletedEvent{
		RideID:     sess.Draft.ID(),
		RiderID:    sess.RiderID,
		Fare:       record.Fare,
		OccurredAt: time.Now().UTC(),
	}
	sess.View.ClearBooking()
	sess.Draft = ride.NewDraft(sess.RiderID)
	sess.Mu.Unlock()

	s.saveRecord(ctx, record)
	s.publishEvent(ctx, events.RideCompleted, evt)
	return s.snapshot(sess), nil
}

// Cancel abandons the booking: the draft's map artifacts are released, the
// abandoned ride (if it got as far as a route) lands in history, and the
// session starts over with an empty draft.
func (s *BookingService) Cancel(ctx context.Context, sessionID uuid.UUID) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	fromStage := sess.Draft.Stage()
	if err := sess.Draft.Cancel(); err != nil {
		sess.Mu.Unlock()
		return nil, err
	}

	var record *repository.RideRecord
	if sess.Draft.Route() != nil {
		r := s.recordFor(sess, repository.OutcomeCancelled)
		record = &r
	}
	evt := events.RideCancelledEvent{
		RideID:     sess.Draft.ID(),
		RiderID:    sess.RiderID,
		FromStage:  string(fromStage),
		OccurredAt: time.Now().UTC(),
	}
	sess.View.ClearBooking()
	sess.Draft = ride.NewDraft(sess.RiderID)
	sess.Mu.Unlock()

	if record != nil {
		s.saveRecord(ctx, *record)
	}
	s.publishEvent(ctx, events.RideCancelled, evt)
	return s.snapshot(sess), nil
}

// LocateRider applies the device geolocation result: the rider marker is
// created or moved and the camera flies to it. A nil position means the
// device denied or could not produce a location; the camera stays at its
// default and nothing else is affected.
func (s *BookingService) LocateRider(sessionID uuid.UUID, position *ride.Coordinates) (*BookingSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, domain.NewGeolocationDeniedError()
	}

	sess.Mu.Lock()
	sess.View.PlaceOrMoveMarker(geo.MarkerRider, *position)
	sess.View.FlyTo(*position, geo.SelectedZoom)
	sess.Mu.Unlock()

	return s.snapshot(sess), nil
}

// RideHistory lists a rider's finished rides, newest first.
func (s *BookingService) RideHistory(ctx context.Context, riderID uuid.UUID, page, limit int) ([]repository.RideRecord, int64, error) {
	return s.history.FindByRiderID(ctx, riderID, page, limit)
}

// --- Helpers ---

func hasBoth(sess *session.Session) bool {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return sess.Draft.HasBothEndpoints()
}

func (s *BookingService) currentFare(d *ride.Draft) float64 {
	t := d.RideType()
	if t == nil {
		return 0
	}
	fare, err := s.estimator.Estimate(d.Route(), *t)
	if err != nil {
		return 0
	}
	return fare
}

func (s *BookingService) recordFor(sess *session.Session, outcome string) repository.RideRecord {
	d := sess.Draft
	record := repository.RideRecord{
		ID:         d.ID(),
		RiderID:    sess.RiderID,
		Outcome:    outcome,
		Fare:       s.currentFare(d),
		FinishedAt: time.Now().UTC(),
	}
	if p := d.Pickup(); p != nil {
		record.PickupLabel = p.Label
		record.PickupLng = p.Coordinates.Lng
		record.PickupLat = p.Coordinates.Lat
	}
	if dr := d.Drop(); dr != nil {
		record.DropLabel = dr.Label
		record.DropLng = dr.Coordinates.Lng
		record.DropLat = dr.Coordinates.Lat
	}
	if r := d.Route(); r != nil {
		record.DistanceKm = r.DistanceKm
		record.DurationMin = r.DurationMin
	}
	if t := d.RideType(); t != nil {
		record.RideType = string(*t)
	}
	return record
}

func (s *BookingService) saveRecord(ctx context.Context, record repository.RideRecord) {
	if err := s.history.Save(ctx, record); err != nil {
		s.logger.Error("failed to record finished ride",
			zap.String("ride_id", record.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, data any) {
	cloudEvent, err := events.NewCloudEvent("booking-service", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.TopicRideEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func (s *BookingService) snapshot(sess *session.Session) *BookingSnapshot {
	return s.snapshotWithNotice(sess, nil)
}

func (s *BookingService) snapshotWithNotice(sess *session.Session, notice error) *BookingSnapshot {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	d := sess.Draft
	snap := &BookingSnapshot{
		SessionID: sess.ID,
		RiderID:   sess.RiderID,
		Stage:     d.Stage(),
		Pickup:    d.Pickup(),
		Drop:      d.Drop(),
		Route:     d.Route(),
		RideType:  d.RideType(),
		Fare:      s.currentFare(d),
		Driver:    d.Driver(),
		View:      sess.View.Snapshot(),
	}
	if notice != nil {
		snap.Notice = notice.Error()
		snap.NoticeCode = domain.CodeOf(notice)
	}
	return snap
}
