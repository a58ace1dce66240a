package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"solar21_precheck/internal/roofdata/client"
	"solar21_precheck/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeGeo struct {
	mu          sync.Mutex
	geocodes    int
	locations   map[string]*client.Location
	surfaces    []client.RoofSurface
	surfacesErr error
	canton      string
}

func (f *fakeGeo) Geocode(_ context.Context, address string) (*client.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodes++
	if strings.Contains(address, "fail") {
		return nil, errors.New("geoadmin down")
	}
	return f.locations[address], nil
}

func (f *fakeGeo) RoofSurfaces(context.Context, float64, float64) ([]client.RoofSurface, error) {
	return f.surfaces, f.surfacesErr
}

func (f *fakeGeo) CantonAt(context.Context, float64, float64) (string, error) {
	return f.canton, nil
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{
		locations: map[string]*client.Location{
			"Brunnenggstrasse 9 9000 St. Gallen": {Label: "Brunnenggstrasse 9 9000 St. Gallen", Easting: 2746000, Northing: 1254000},
		},
		surfaces: []client.RoofSurface{
			{AreaM2: 400, PitchDeg: 25, HeadingDeg: 180, YieldKWh: 60000, Class: 3},
			{AreaM2: 700, PitchDeg: 10, HeadingDeg: -20, YieldKWh: 110000, Class: 5},
		},
		canton: "SG",
	}
}

func TestLookupAggregatesAndCaches(t *testing.T) {
	geo := newFakeGeo()
	svc := New(geo, nil, time.Hour, logger.Discard())

	data, err := svc.Lookup(context.Background(), "Brunnenggstrasse 9 9000 St. Gallen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !data.Found || data.SurfaceAreaM2 == nil || *data.SurfaceAreaM2 != 1100 {
		t.Fatalf("unexpected roof data %+v", data)
	}
	if *data.PitchDeg != 10 || data.Suitability != "Excellent" || *data.PVYieldKWh != 170000 {
		t.Fatalf("expected attributes of the largest surface, got %+v", data)
	}
	if data.Canton != "St. Gallen" || data.ElectricityPriceCHFPerKWh == nil || *data.ElectricityPriceCHFPerKWh != 0.2772 {
		t.Fatalf("unexpected canton pricing %+v", data)
	}

	if _, err := svc.Lookup(context.Background(), "  brunnenggstrasse 9   9000 st. gallen "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.geocodes != 1 {
		t.Fatalf("expected the second lookup to hit the cache, got %d geocodes", geo.geocodes)
	}
}

func TestLookupPartialFailureIsNotCached(t *testing.T) {
	geo := newFakeGeo()
	geo.surfacesErr = errors.New("identify timeout")
	svc := New(geo, nil, time.Hour, logger.Discard())

	for i := 0; i < 2; i++ {
		data, err := svc.Lookup(context.Background(), "Brunnenggstrasse 9 9000 St. Gallen")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.SurfaceAreaM2 != nil {
			t.Fatalf("expected missing roof area")
		}
	}
	if geo.geocodes != 2 {
		t.Fatalf("expected partial results not to be cached, got %d geocodes", geo.geocodes)
	}
}

func TestLookupManyKeepsOrderAndDegrades(t *testing.T) {
	svc := New(newFakeGeo(), nil, time.Hour, logger.Discard())

	got := svc.LookupMany(context.Background(), []string{
		"fail street 1 1003 Lausanne VD",
		"Brunnenggstrasse 9 9000 St. Gallen",
		"Unknown road 5",
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Found || got[0].Canton != "Vaud" || got[0].ElectricityPriceCHFPerKWh == nil {
		t.Fatalf("expected failed lookup to fall back to text canton, got %+v", got[0])
	}
	if !got[1].Found {
		t.Fatalf("expected second address to be found")
	}
	if got[2].Found || got[2].SurfaceAreaM2 != nil {
		t.Fatalf("expected unknown address to be absent, got %+v", got[2])
	}
}

func TestRoofAreaM2TreatsFailureAsAbsent(t *testing.T) {
	svc := New(newFakeGeo(), nil, time.Hour, logger.Discard())

	if area := svc.RoofAreaM2(context.Background(), "fail road"); area != nil {
		t.Fatalf("expected nil area on failure, got %v", *area)
	}
	area := svc.RoofAreaM2(context.Background(), "Brunnenggstrasse 9 9000 St. Gallen")
	if area == nil || *area != 1100 {
		t.Fatalf("unexpected area %v", area)
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	geo := newFakeGeo()
	svc := New(geo, NewRedisCache(rdb), time.Hour, logger.Discard())

	if _, err := svc.Lookup(context.Background(), "Brunnenggstrasse 9 9000 St. Gallen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := "roofdata:" + cacheKey("Brunnenggstrasse 9 9000 St. Gallen")
	if !mr.Exists(key) {
		t.Fatalf("expected %s to be stored in redis", key)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}

	other := New(geo, NewRedisCache(rdb), time.Hour, logger.Discard())
	data, err := other.Lookup(context.Background(), "Brunnenggstrasse 9 9000 St. Gallen")
	if err != nil || data.SurfaceAreaM2 == nil {
		t.Fatalf("expected cached data from redis, got %+v %v", data, err)
	}
	if geo.geocodes != 1 {
		t.Fatalf("expected a shared cache hit, got %d geocodes", geo.geocodes)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := NewRedisCache(rdb).Get(context.Background(), cacheKey("Brunnenggstrasse 9 9000 St. Gallen")); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	svc := New(newFakeGeo(), cache, time.Minute, logger.Discard())
	if _, err := svc.Lookup(ctx, "Brunnenggstrasse 9 9000 St. Gallen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, cacheKey("Brunnenggstrasse 9 9000 St. Gallen")); !ok {
		t.Fatalf("expected cache hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, cacheKey("Brunnenggstrasse 9 9000 St. Gallen")); ok {
		t.Fatalf("expected cache miss after ttl")
	}
}

func TestExtractCanton(t *testing.T) {
	cases := map[string]string{
		"Rue du Rhône 1, 1204 Genève":        "Geneva",
		"Bahnhofstrasse 1, 8001 Zurich":      "Zürich",
		"Hauptstrasse 4, 4450 Sissach BL":    "Basel-Landschaft",
		"Route de Berne 2, Fribourg":         "Fribourg",
		"Via Nassa 5, 6900 Lugano":           "",
		"Via Nassa 5, 6900 Lugano TI":        "Ticino",
		"Some street, be careful, no canton": "",
	}
	for address, want := range cases {
		if got := ExtractCanton(address); got != want {
			t.Fatalf("%q: expected %q, got %q", address, want, got)
		}
	}
}
