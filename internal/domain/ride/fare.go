package ride

import (
	"fmt"
	"math"
)

// FareEstimator derives a price from a planned route and a vehicle class.
type FareEstimator interface {
	// Estimate returns the fare in currency units, rounded to 2 decimal
	// places. A nil route yields 0, signaling "not yet computable".
	Estimate(route *RouteInfo, rideType RideType) (float64, error)
}

// RateTableEstimator prices a ride by distance with a fixed per-kilometer rate
// per vehicle class.
type RateTableEstimator struct {
	ratePerKm map[RideType]float64
}

// NewRateTableEstimator creates a RateTableEstimator with the default rates.
//
// Rates (currency units per km):
//   - Car:  20
//   - Bike: 10
//   - Auto: 15
func NewRateTableEstimator() *RateTableEstimator {
	return &RateTableEstimator{
		ratePerKm: map[RideType]float64{
			RideTypeCar:  20,
			RideTypeBike: 10,
			RideTypeAuto: 15,
		},
	}
}

// Estimate computes route.DistanceKm * ratePerKm[rideType], rounded to 2
// decimal places. No network, no mutable state.
func (e *RateTableEstimator) Estimate(route *RouteInfo, rideType RideType) (float64, error) {
	if route == nil {
		return 0, nil
	}
	rate, ok := e.ratePerKm[rideType]
	if !ok {
		return 0, fmt.Errorf("unknown ride type for pricing: %s", rideType)
	}
	return math.Round(route.DistanceKm*rate*100) / 100, nil
}

// RatePerKm returns the configured rate for a vehicle class, for display in
// the ride type picker.
func (e *RateTableEstimator) RatePerKm(rideType RideType) (float64, bool) {
	rate, ok := e.ratePerKm[rideType]
	return rate, ok
}
