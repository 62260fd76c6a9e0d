package ride

import (
	"net/url"
	"strconv"
)

// Stage-transfer keys. The confirmed draft crosses the navigation boundary to
// the finding and ride screens as a flat query string under these names.
const (
	transferKeyPickup    = "pickup"
	transferKeyDrop      = "drop"
	transferKeyPickupLat = "pickupLat"
	transferKeyPickupLng = "pickupLng"
	transferKeyDropLat   = "dropLat"
	transferKeyDropLng   = "dropLng"
	transferKeyType      = "type"
)

// TransferData is the serializable subset of a draft that survives a stage
// boundary. Fields the encoding is missing, or cannot parse, decode to nil
// rather than failing the page.
type TransferData struct {
	Pickup   *Endpoint
	Drop     *Endpoint
	RideType *RideType
}

// EncodeTransfer serializes the draft's transferable subset into query-string
// values.
func EncodeTransfer(d *Draft) url.Values {
	v := url.Values{}
	if p := d.Pickup(); p != nil {
		v.Set(transferKeyPickup, p.Label)
		v.Set(transferKeyPickupLat, formatCoord(p.Coordinates.Lat))
		v.Set(transferKeyPickupLng, formatCoord(p.Coordinates.Lng))
	}
	if dr := d.Drop(); dr != nil {
		v.Set(transferKeyDrop, dr.Label)
		v.Set(transferKeyDropLat, formatCoord(dr.Coordinates.Lat))
		v.Set(transferKeyDropLng, formatCoord(dr.Coordinates.Lng))
	}
	if t := d.RideType(); t != nil {
		v.Set(transferKeyType, string(*t))
	}
	return v
}

// DecodeTransfer parses query-string values back into transfer data. An
// endpoint is present only if its label and both coordinates decode cleanly.
func DecodeTransfer(v url.Values) TransferData {
	var data TransferData
	data.Pickup = decodeEndpoint(v, transferKeyPickup, transferKeyPickupLng, transferKeyPickupLat)
	data.Drop = decodeEndpoint(v, transferKeyDrop, transferKeyDropLng, transferKeyDropLat)
	if t, err := ParseRideType(v.Get(transferKeyType)); err == nil {
		data.RideType = &t
	}
	return data
}

func decodeEndpoint(v url.Values, labelKey, lngKey, latKey string) *Endpoint {
	label := v.Get(labelKey)
	if label == "" {
		return nil
	}
	lng, err := strconv.ParseFloat(v.Get(lngKey), 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(v.Get(latKey), 64)
	if err != nil {
		return nil
	}
	return &Endpoint{Label: label, Coordinates: Coordinates{Lng: lng, Lat: lat}}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
