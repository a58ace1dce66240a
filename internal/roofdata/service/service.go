// Package service provides roof data lookups with caching and canton pricing.
package service

import (
	"context"
	"strings"
	"time"

	"solar21_precheck/internal/roofdata/client"
	"solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	defaultCacheTTL = 24 * time.Hour
	lookupParallel  = 4
)

// GeoAdmin is the subset of the GeoAdmin client the service needs.
type GeoAdmin interface {
	Geocode(ctx context.Context, address string) (*client.Location, error)
	RoofSurfaces(ctx context.Context, easting, northing float64) ([]client.RoofSurface, error)
	CantonAt(ctx context.Context, easting, northing float64) (string, error)
}

// Service resolves addresses to roof data.
type Service struct {
	geo      GeoAdmin
	cache    Cache
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// New creates a roof data service. A nil cache selects the in-memory cache.
func New(geo GeoAdmin, cache Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{geo: geo, cache: cache, cacheTTL: cacheTTL, log: log, now: time.Now}
}

// Lookup resolves one address. Errors are returned only when the address could
// not be geocoded; partial failures further down yield partial data that is not cached.
func (s *Service) Lookup(ctx context.Context, address string) (*transport.RoofData, error) {
	address = strings.TrimSpace(address)
	key := cacheKey(address)

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.UpstreamError("cache", "get", err)
	} else if ok {
		return cached, nil
	}

	loc, err := s.geo.Geocode(ctx, address)
	if err != nil {
		s.log.UpstreamError("geoadmin", "geocode", err)
		return nil, err
	}

	data := &transport.RoofData{Address: address, FetchedAt: s.now().UTC()}
	complete := true

	if loc != nil {
		data.Found = true
		data.Label = loc.Label
		data.Easting = loc.Easting
		data.Northing = loc.Northing

		surfaces, err := s.geo.RoofSurfaces(ctx, loc.Easting, loc.Northing)
		if err != nil {
			s.log.UpstreamError("geoadmin", "roof_surfaces", err)
			complete = false
		} else {
			applySurfaces(data, surfaces)
		}

		code, err := s.geo.CantonAt(ctx, loc.Easting, loc.Northing)
		if err != nil {
			s.log.UpstreamError("geoadmin", "canton", err)
			complete = false
		}
		data.Canton = CantonName(code)
	}

	if data.Canton == "" {
		data.Canton = ExtractCanton(address)
	}
	if data.Canton == "" && data.Label != "" {
		data.Canton = ExtractCanton(data.Label)
	}
	if price, ok := ElectricityPrice(data.Canton); ok {
		data.ElectricityPriceCHFPerKWh = &price
	}

	if complete {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.log.UpstreamError("cache", "set", err)
		}
	}
	return data, nil
}

// LookupMany resolves addresses concurrently and keeps their order. A failed
// lookup yields an entry with Found=false instead of an error.
func (s *Service) LookupMany(ctx context.Context, addresses []string) []*transport.RoofData {
	out := make([]*transport.RoofData, len(addresses))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(lookupParallel)
	for i, address := range addresses {
		eg.Go(func() error {
			data, err := s.Lookup(egCtx, address)
			if err != nil {
				data = &transport.RoofData{Address: strings.TrimSpace(address), FetchedAt: s.now().UTC()}
				if canton := ExtractCanton(address); canton != "" {
					data.Canton = canton
					if price, ok := ElectricityPrice(canton); ok {
						data.ElectricityPriceCHFPerKWh = &price
					}
				}
			}
			out[i] = data
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// RoofAreaM2 returns the measured roof area, or nil when it is unknown for
// any reason.
func (s *Service) RoofAreaM2(ctx context.Context, address string) *float64 {
	data, err := s.Lookup(ctx, address)
	if err != nil || data == nil {
		return nil
	}
	return data.SurfaceAreaM2
}

// applySurfaces sums area and yield over all surfaces; pitch, heading and
// suitability come from the largest one.
func applySurfaces(data *transport.RoofData, surfaces []client.RoofSurface) {
	if len(surfaces) == 0 {
		return
	}

	var area, yield float64
	largest := surfaces[0]
	for _, s := range surfaces {
		area += s.AreaM2
		yield += s.YieldKWh
		if s.AreaM2 > largest.AreaM2 {
			largest = s
		}
	}
	if area <= 0 {
		return
	}

	pitch, heading := largest.PitchDeg, largest.HeadingDeg
	data.SurfaceAreaM2 = &area
	data.PVYieldKWh = &yield
	data.PitchDeg = &pitch
	data.HeadingDeg = &heading
	data.Suitability = suitabilityLabels[largest.Class]
}

func cacheKey(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
