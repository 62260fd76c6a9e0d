package geo

import (
	"sync"

	"github.com/Vikrant465/booking-service/internal/domain/ride"
)

// Marker is one map marker instance. The instance is reused when moved, so the
// UI can animate it rather than re-creating a pin.
type Marker struct {
	Role        MarkerRole       `json:"role"`
	Color       string           `json:"color"`
	Coordinates ride.Coordinates `json:"coordinates"`
	Generation  int              `json:"generation"` // bumped on create, not on move
}

// Camera is the current framing of the map view.
type Camera struct {
	Center  ride.Coordinates  `json:"center"`
	Zoom    float64           `json:"zoom"`
	Bounds  *ride.Coordinates `json:"bounds_a,omitempty"`
	BoundsB *ride.Coordinates `json:"bounds_b,omitempty"`
	Padding int               `json:"padding,omitempty"`
}

// Overlay is a named polyline drawn on the map.
type Overlay struct {
	Key      string             `json:"key"`
	Color    string             `json:"color"`
	Width    int                `json:"width"`
	Geometry []ride.Coordinates `json:"geometry"`
}

// ViewState is the shipped MapRenderer: it records the marker, camera, and
// overlay state the UI should render, one instance per rider session. All
// mutations are serialized behind a single mutex, so overlapping route
// computations can never interleave a remove-old/add-new overlay swap.
type ViewState struct {
	mu       sync.Mutex
	markers  map[MarkerRole]*Marker
	overlays map[string]*Overlay
	camera   Camera
}

var _ MapRenderer = (*ViewState)(nil)

// NewViewState creates a view framed at the default camera.
func NewViewState() *ViewState {
	return &ViewState{
		markers:  make(map[MarkerRole]*Marker),
		overlays: make(map[string]*Overlay),
		camera:   Camera{Center: DefaultCenter, Zoom: DefaultZoom},
	}
}

// PlaceOrMoveMarker positions the role's marker, reusing the existing instance
// when it is already on the map.
func (v *ViewState) PlaceOrMoveMarker(role MarkerRole, coords ride.Coordinates) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if m, ok := v.markers[role]; ok {
		m.Coordinates = coords
		return
	}
	v.markers[role] = &Marker{
		Role:        role,
		Color:       markerColors[role],
		Coordinates: coords,
		Generation:  1,
	}
}

// FlyTo centers the camera on a point.
func (v *ViewState) FlyTo(coords ride.Coordinates, zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.camera = Camera{Center: coords, Zoom: zoom}
}

// FrameBounds frames the camera to bound both points.
func (v *ViewState) FrameBounds(a, b ride.Coordinates, padding int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	center := ride.Coordinates{Lng: (a.Lng + b.Lng) / 2, Lat: (a.Lat + b.Lat) / 2}
	v.camera = Camera{Center: center, Zoom: v.camera.Zoom, Bounds: &a, BoundsB: &b, Padding: padding}
}

// DrawRoute replaces the overlay under key with the new geometry. Remove and
// add happen under one lock, so no observer ever sees zero or two overlays for
// the same key.
func (v *ViewState) DrawRoute(key string, geometry []ride.Coordinates) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.overlays[key] = &Overlay{
		Key:      key,
		Color:    RouteLineColor,
		Width:    RouteLineWidth,
		Geometry: geometry,
	}
}

// RemoveRoute deletes the overlay under key.
func (v *ViewState) RemoveRoute(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.overlays, key)
}

// ClearBooking removes the booking-owned markers and the route overlay. The
// rider's locate-me marker stays.
func (v *ViewState) ClearBooking() {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.markers, MarkerPickup)
	delete(v.markers, MarkerDrop)
	delete(v.markers, MarkerDriver)
	delete(v.overlays, ride.RouteOverlayKey)
}

// Marker returns a copy of the role's marker, if placed.
func (v *ViewState) Marker(role MarkerRole) (Marker, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.markers[role]
	if !ok {
		return Marker{}, false
	}
	return *m, true
}

// Snapshot is a read-only copy of the view for the UI to render.
type Snapshot struct {
	Markers  []Marker  `json:"markers"`
	Overlays []Overlay `json:"overlays"`
	Camera   Camera    `json:"camera"`
}

// Snapshot returns the current render state.
func (v *ViewState) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{Camera: v.camera}
	for _, role := range []MarkerRole{MarkerPickup, MarkerDrop, MarkerRider, MarkerDriver} {
		if m, ok := v.markers[role]; ok {
			snap.Markers = append(snap.Markers, *m)
		}
	}
	for _, o := range v.overlays {
		snap.Overlays = append(snap.Overlays, *o)
	}
	return snap
}
