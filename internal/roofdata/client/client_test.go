package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"solar21_precheck/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second, retries, logger.Discard(), WithRetryWait(time.Millisecond))
}

func TestGeocodeSwapsSwissAxes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/services/api/SearchServer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("searchText") != "Brunnenggstrasse 9 St. Gallen" || r.URL.Query().Get("sr") != "2056" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[{"attrs":{"label":"<b>Brunnenggstrasse 9</b> <i>9000 St. Gallen</i>","x":1254321.5,"y":2746123.25}}]}`))
	}, 0)

	loc, err := c.Geocode(context.Background(), "Brunnenggstrasse 9 St. Gallen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc == nil {
		t.Fatalf("expected a location")
	}
	if loc.Easting != 2746123.25 || loc.Northing != 1254321.5 {
		t.Fatalf("unexpected coordinates %+v", loc)
	}
	if loc.Label != "Brunnenggstrasse 9 9000 St. Gallen" {
		t.Fatalf("unexpected label %q", loc.Label)
	}
}

func TestGeocodeNoResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, 0)

	loc, err := c.Geocode(context.Background(), "nowhere")
	if err != nil || loc != nil {
		t.Fatalf("expected nil location and nil error, got %+v %v", loc, err)
	}
}

func TestRoofSurfacesAndCanton(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("geometry") != "2746123.25,1254321.50" {
			t.Errorf("unexpected geometry %q", q.Get("geometry"))
		}
		switch {
		case strings.Contains(q.Get("layers"), "solarenergie-eignung-daecher"):
			_, _ = w.Write([]byte(`{"results":[
				{"layerBodId":"ch.bfe.solarenergie-eignung-daecher","attributes":{"flaeche":812.4,"neigung":12,"ausrichtung":-5,"stromertrag":143000,"klasse":4}},
				{"layerBodId":"ch.bfe.solarenergie-eignung-daecher","attributes":{"flaeche":"120","neigung":30,"ausrichtung":90,"stromertrag":15000,"klasse":2}}
			]}`))
		case strings.Contains(q.Get("layers"), "kanton"):
			_, _ = w.Write([]byte(`{"results":[{"attributes":{"ak":"sg"}}]}`))
		default:
			t.Errorf("unexpected layers %q", q.Get("layers"))
		}
	}, 0)

	surfaces, err := c.RoofSurfaces(context.Background(), 2746123.25, 1254321.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(surfaces) != 2 || surfaces[0].AreaM2 != 812.4 || surfaces[1].AreaM2 != 120 || surfaces[0].Class != 4 {
		t.Fatalf("unexpected surfaces %+v", surfaces)
	}

	canton, err := c.CantonAt(context.Background(), 2746123.25, 1254321.5)
	if err != nil || canton != "SG" {
		t.Fatalf("expected SG, got %q %v", canton, err)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, 3)

	if _, err := c.Geocode(context.Background(), "x"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, 5)

	if _, err := c.Geocode(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestPlainText(t *testing.T) {
	if got := plainText("Bahnhofstrasse 1 8001 Zürich"); got != "Bahnhofstrasse 1 8001 Zürich" {
		t.Fatalf("unexpected plain label %q", got)
	}
	if got := plainText("<b>Rue du Rhône 1</b> <i>1204 Genève</i>"); got != "Rue du Rhône 1 1204 Genève" {
		t.Fatalf("unexpected stripped label %q", got)
	}
}
