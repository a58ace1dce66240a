// Package roofdata provides the roof data bounded context: address geocoding,
// Sonnendach roof measurements, canton detection and electricity prices.
// This file defines the public interfaces exposed to other domains.
package roofdata

import (
	"context"

	"solar21_precheck/internal/roofdata/transport"
)

// RoofDataService is what other domains depend on.
type RoofDataService interface {
	// Lookup resolves a single address. Returns an error only when the
	// address could not be geocoded at all.
	Lookup(ctx context.Context, address string) (*transport.RoofData, error)

	// LookupMany resolves addresses concurrently, preserving order. It never
	// fails; unresolved addresses come back with Found=false.
	LookupMany(ctx context.Context, addresses []string) []*transport.RoofData

	// RoofAreaM2 returns the measured roof area or nil when unknown.
	RoofAreaM2(ctx context.Context, address string) *float64
}

// Prefetcher queues background lookups that warm the cache.
type Prefetcher interface {
	EnqueueRoofPrefetch(ctx context.Context, address string) error
}
