package geo

import "github.com/Vikrant465/booking-service/internal/domain/ride"

// MarkerRole identifies which marker slot a placement targets. Each role owns
// at most one marker instance on the map; placing again moves it.
type MarkerRole string

const (
	MarkerPickup MarkerRole = "pickup"
	MarkerDrop   MarkerRole = "drop"
	MarkerRider  MarkerRole = "rider"
	MarkerDriver MarkerRole = "driver"
)

// markerColors keys each role to its distinguishing color on the map.
var markerColors = map[MarkerRole]string{
	MarkerPickup: "green",
	MarkerDrop:   "red",
	MarkerRider:  "#22c55e",
	MarkerDriver: "blue",
}

// Camera framing defaults.
const (
	// DefaultCenter / DefaultZoom frame New Delhi before the rider is located.
	DefaultZoom     = 11.0
	SelectedZoom    = 14.0
	BoundsPadding   = 100
	RouteLineColor  = "#1E90FF"
	RouteLineWidth  = 5
)

// DefaultCenter is the camera center before the rider is located.
var DefaultCenter = ride.Coordinates{Lng: 77.209, Lat: 28.6139}

// MapRenderer is the contract the core drives the external map view through.
// The core never reaches into renderer internals; it only issues these
// create-or-update commands.
type MapRenderer interface {
	// PlaceOrMoveMarker positions the role's single marker, creating it on
	// first use and moving the existing instance afterwards.
	PlaceOrMoveMarker(role MarkerRole, coords ride.Coordinates)

	// FlyTo centers the camera on a point.
	FlyTo(coords ride.Coordinates, zoom float64)

	// FrameBounds frames the camera to bound both points with fixed padding.
	FrameBounds(a, b ride.Coordinates, padding int)

	// DrawRoute replaces the overlay stored under key with the new geometry.
	DrawRoute(key string, geometry []ride.Coordinates)

	// RemoveRoute deletes the overlay stored under key, if any.
	RemoveRoute(key string)

	// ClearBooking releases the markers and overlays owned by the current
	// booking. The rider's own locate-me marker survives.
	ClearBooking()
}
