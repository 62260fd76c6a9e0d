package ride

import "fmt"

// RideType is the vehicle class the rider travels in.
type RideType string

const (
	RideTypeCar  RideType = "car"
	RideTypeBike RideType = "bike"
	RideTypeAuto RideType = "auto"
)

// AllRideTypes lists every vehicle class, in display order.
var AllRideTypes = []RideType{RideTypeCar, RideTypeBike, RideTypeAuto}

// IsValid returns true if the ride type is a recognized vehicle class.
func (t RideType) IsValid() bool {
	switch t {
	case RideTypeCar, RideTypeBike, RideTypeAuto:
		return true
	}
	return false
}

// String returns the string representation of the ride type.
func (t RideType) String() string {
	return string(t)
}

// ParseRideType converts a string to a RideType, returning an error if invalid.
func ParseRideType(s string) (RideType, error) {
	t := RideType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid ride type: %s", s)
	}
	return t, nil
}
