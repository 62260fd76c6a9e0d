package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
)

// Geocoder resolves free text to ranked place candidates and coordinates back
// to a named place.
type Geocoder interface {
	ForwardSearch(ctx context.Context, query string) ([]ride.PlaceCandidate, error)
	ReverseSearch(ctx context.Context, coords ride.Coordinates) (*ride.PlaceCandidate, error)
}

const geocodingService = "geocoding service"

// feature is one entry of the provider's geocoding response.
type feature struct {
	ID        string     `json:"id"`
	PlaceName string     `json:"place_name"`
	Text      string     `json:"text"`
	Center    [2]float64 `json:"center"`
	PlaceType []string   `json:"place_type"`
}

type geocodingResponse struct {
	Features []feature `json:"features"`
}

// ForwardSearch queries the provider's forward geocoding endpoint and returns
// candidates in the provider's relevance order.
func (c *Client) ForwardSearch(ctx context.Context, query string) ([]ride.PlaceCandidate, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("autocomplete", "true")
	params.Set("limit", "5")

	var resp geocodingResponse
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), geocodingService, &resp); err != nil {
		return nil, err
	}

	candidates := make([]ride.PlaceCandidate, len(resp.Features))
	for i, f := range resp.Features {
		candidates[i] = toCandidate(f)
	}
	return candidates, nil
}

// ReverseSearch resolves coordinates to the nearest named place, or nil when
// the provider knows nothing there.
func (c *Client) ReverseSearch(ctx context.Context, coords ride.Coordinates) (*ride.PlaceCandidate, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s,%s.json",
		c.baseURL, formatCoord(coords.Lng), formatCoord(coords.Lat))
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("limit", "1")

	var resp geocodingResponse
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), geocodingService, &resp); err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, nil
	}

	candidate := toCandidate(resp.Features[0])
	return &candidate, nil
}

func toCandidate(f feature) ride.PlaceCandidate {
	candidate := ride.PlaceCandidate{
		ID:          f.ID,
		DisplayName: f.PlaceName,
		ShortName:   f.Text,
		Coordinates: ride.Coordinates{Lng: f.Center[0], Lat: f.Center[1]},
	}
	if len(f.PlaceType) > 0 {
		candidate.Category = f.PlaceType[0]
	}
	return candidate
}

// getJSON performs a GET against the provider and decodes the JSON body,
// mapping failures to coded domain errors for the given service name.
func (c *Client) getJSON(ctx context.Context, rawURL, service string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.NewServiceUnavailableError(service, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.NewServiceUnavailableError(service, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewServiceUnavailableError(service, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}
