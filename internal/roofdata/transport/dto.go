// Package transport holds the roof data types shared with other contexts.
package transport

import "time"

// RoofData is what is known about the roof and location of one address.
// Pointer fields are nil when the provider returned no value.
type RoofData struct {
	Address                   string    `json:"address"`
	Label                     string    `json:"label,omitempty"`
	Found                     bool      `json:"found"`
	Easting                   float64   `json:"easting,omitempty"`
	Northing                  float64   `json:"northing,omitempty"`
	Canton                    string    `json:"canton,omitempty"`
	ElectricityPriceCHFPerKWh *float64  `json:"electricityPriceChfPerKwh,omitempty"`
	SurfaceAreaM2             *float64  `json:"surfaceAreaM2,omitempty"`
	PitchDeg                  *float64  `json:"pitchDeg,omitempty"`
	HeadingDeg                *float64  `json:"headingDeg,omitempty"`
	PVYieldKWh                *float64  `json:"pvYieldKwh,omitempty"`
	Suitability               string    `json:"suitability,omitempty"`
	FetchedAt                 time.Time `json:"fetchedAt"`
}

// LookupRequest is the query for GET /api/v1/roof.
type LookupRequest struct {
	Address string `form:"address" validate:"required,min=3,max=200"`
}

// PrefetchRequest asks the worker to warm the cache for a batch of addresses.
type PrefetchRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,max=200,dive,required,min=3,max=200"`
}

// PrefetchResponse reports how many prefetch tasks were queued.
type PrefetchResponse struct {
	Queued int `json:"queued"`
}
