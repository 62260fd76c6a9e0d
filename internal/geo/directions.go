package geo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
)

// Router computes a driving route between two coordinates.
type Router interface {
	Route(ctx context.Context, pickup, drop ride.Coordinates) (*ride.RouteInfo, error)
}

const routingService = "routing service"

type directionsRoute struct {
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}

type directionsResponse struct {
	Routes []directionsRoute `json:"routes"`
}

// Route queries the provider's driving directions endpoint. A response with no
// routes maps to ROUTE_UNAVAILABLE.
func (c *Client) Route(ctx context.Context, pickup, drop ride.Coordinates) (*ride.RouteInfo, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s,%s;%s,%s",
		c.baseURL,
		formatCoord(pickup.Lng), formatCoord(pickup.Lat),
		formatCoord(drop.Lng), formatCoord(drop.Lat))
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("geometries", "geojson")

	var resp directionsResponse
	if err := c.getJSON(ctx, endpoint+"?"+params.Encode(), routingService, &resp); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, domain.NewRouteUnavailableError()
	}

	best := resp.Routes[0]
	geometry := make([]ride.Coordinates, 0, len(best.Geometry.Coordinates))
	for _, pt := range best.Geometry.Coordinates {
		if len(pt) < 2 {
			continue
		}
		geometry = append(geometry, ride.Coordinates{Lng: pt[0], Lat: pt[1]})
	}

	return &ride.RouteInfo{
		Geometry:    geometry,
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
	}, nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
