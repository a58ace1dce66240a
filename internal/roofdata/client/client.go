// Package client provides the HTTP client for the GeoAdmin REST API
// (address search and the Sonnendach roof suitability layer).
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"solar21_precheck/platform/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultBaseURL is the public GeoAdmin API.
	DefaultBaseURL = "https://api3.geo.admin.ch"

	roofLayer   = "ch.bfe.solarenergie-eignung-daecher"
	cantonLayer = "ch.swisstopo.swissboundaries3d-kanton-flaeche.fill"

	// LV95 extent covering Switzerland, required by identify.
	swissMapExtent = "2480000,1070000,2840000,1300000"
	imageDisplay   = "1920,1080,96"
	lv95           = "2056"
)

// Location is a geocoded address in LV95 coordinates.
type Location struct {
	Label    string
	Easting  float64
	Northing float64
}

// RoofSurface is one roof polygon of the Sonnendach layer.
type RoofSurface struct {
	AreaM2     float64
	PitchDeg   float64
	HeadingDeg float64
	YieldKWh   float64
	Class      int
}

// Client is the HTTP client for GeoAdmin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint64
	retryWait  time.Duration
	log        *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryWait sets the pause between retries.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a GeoAdmin client. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, timeout time.Duration, maxRetries int, log *logger.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: uint64(maxRetries),
		retryWait:  250 * time.Millisecond,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves an address to LV95 coordinates. It returns nil when the
// search has no result.
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	params := url.Values{}
	params.Set("searchText", address)
	params.Set("type", "locations")
	params.Set("origins", "address")
	params.Set("sr", lv95)
	params.Set("limit", "1")

	var payload apiSearchResponse
	if err := c.getJSON(ctx, "/rest/services/api/SearchServer", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	attrs := payload.Results[0].Attrs
	if attrs.X == 0 || attrs.Y == 0 {
		return nil, nil
	}
	// GeoAdmin follows the Swiss convention: y is the easting, x the northing.
	return &Location{
		Label:    plainText(attrs.Label),
		Easting:  attrs.Y,
		Northing: attrs.X,
	}, nil
}

// RoofSurfaces returns the Sonnendach roof surfaces at a point.
func (c *Client) RoofSurfaces(ctx context.Context, easting, northing float64) ([]RoofSurface, error) {
	var payload apiIdentifyResponse
	if err := c.getJSON(ctx, "/rest/services/all/MapServer/identify", identifyParams(roofLayer, easting, northing), &payload); err != nil {
		return nil, err
	}

	surfaces := make([]RoofSurface, 0, len(payload.Results))
	for _, r := range payload.Results {
		surfaces = append(surfaces, RoofSurface{
			AreaM2:     number(r.Attributes["flaeche"]),
			PitchDeg:   number(r.Attributes["neigung"]),
			HeadingDeg: number(r.Attributes["ausrichtung"]),
			YieldKWh:   number(r.Attributes["stromertrag"]),
			Class:      int(number(r.Attributes["klasse"])),
		})
	}
	return surfaces, nil
}

// CantonAt returns the two-letter canton code at a point, or "" when outside Switzerland.
func (c *Client) CantonAt(ctx context.Context, easting, northing float64) (string, error) {
	var payload apiIdentifyResponse
	if err := c.getJSON(ctx, "/rest/services/all/MapServer/identify", identifyParams(cantonLayer, easting, northing), &payload); err != nil {
		return "", err
	}
	for _, r := range payload.Results {
		if ak, ok := r.Attributes["ak"].(string); ok && ak != "" {
			return strings.ToUpper(ak), nil
		}
	}
	return "", nil
}

func identifyParams(layer string, easting, northing float64) url.Values {
	params := url.Values{}
	params.Set("geometry", formatCoord(easting)+","+formatCoord(northing))
	params.Set("geometryType", "esriGeometryPoint")
	params.Set("sr", lv95)
	params.Set("layers", "all:"+layer)
	params.Set("tolerance", "0")
	params.Set("mapExtent", swissMapExtent)
	params.Set("imageDisplay", imageDisplay)
	params.Set("returnGeometry", "false")
	params.Set("lang", "en")
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("upstream error: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("geoadmin rejected request: status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryWait), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		c.log.Debug("geoadmin request failed", "path", path, "error", err)
		return err
	}
	return nil
}

// plainText strips the markup GeoAdmin puts into search labels,
// e.g. "<b>Bahnhofstrasse 1</b> <i>8001 Zürich</i>".
func plainText(label string) string {
	if !strings.Contains(label, "<") {
		return strings.TrimSpace(label)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(label))
	if err != nil {
		return strings.TrimSpace(label)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, "'", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

type apiSearchResponse struct {
	Results []struct {
		Attrs struct {
			Label string  `json:"label"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		} `json:"attrs"`
	} `json:"results"`
}

type apiIdentifyResponse struct {
	Results []struct {
		LayerBodID string         `json:"layerBodId"`
		Attributes map[string]any `json:"attributes"`
	} `json:"results"`
}
