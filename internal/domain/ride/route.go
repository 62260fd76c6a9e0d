package ride

// RouteOverlayKey is the single reserved key under which the planned route is
// drawn on the map. Re-draws replace the overlay instead of stacking a new one.
const RouteOverlayKey = "route"

// RouteInfo is a value object describing the driving route between the two
// endpoints of a draft. At most one RouteInfo is live per draft at a time.
type RouteInfo struct {
	Geometry    []Coordinates `json:"geometry"`
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
}
