package models

import "strings"

// Driver is keyed by 10-digit mobile number and created on first use when an
// outward entry names a driver the facility has not seen before.
type Driver struct {
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
}

// Vehicle is keyed by its registration number, normalized to uppercase, and
// created on first use just like Driver.
type Vehicle struct {
	VehicleNumber string `json:"vehicle_number"`
	VehicleType   string `json:"vehicle_type"`
}

// NormalizeVehicleNumber canonicalizes a registration number the way it is
// stored. Lookups must apply the same normalization or a lowercase query
// misses the stored uppercase row.
func NormalizeVehicleNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
