package ride

// Coordinates is a longitude/latitude pair, ordered the way the map provider
// orders them.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// EndpointRole distinguishes the two endpoint slots of a draft.
type EndpointRole string

const (
	RolePickup EndpointRole = "pickup"
	RoleDrop   EndpointRole = "drop"
)

// IsValid returns true if the role is one of the two endpoint slots.
func (r EndpointRole) IsValid() bool {
	return r == RolePickup || r == RoleDrop
}

// Endpoint is a named geographic point chosen by the rider. It is immutable
// once set; re-selection replaces it wholesale.
type Endpoint struct {
	Label       string      `json:"label"`
	Coordinates Coordinates `json:"coordinates"`
}

// UnknownLocationLabel is the fallback label for a map point the geocoder
// cannot name.
const UnknownLocationLabel = "Unknown location"

// PlaceCandidate is one ranked result of a forward geocoding query. Candidates
// live only for the duration of the active search.
type PlaceCandidate struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	ShortName   string      `json:"short_name"`
	Coordinates Coordinates `json:"coordinates"`
	Category    string      `json:"category,omitempty"`
}

// ToEndpoint converts a chosen candidate into an endpoint.
func (p PlaceCandidate) ToEndpoint() Endpoint {
	return Endpoint{Label: p.DisplayName, Coordinates: p.Coordinates}
}
