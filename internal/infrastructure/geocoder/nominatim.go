package geocoder

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

	"bootcamp-directory/internal/config"
	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	"bootcamp-directory/internal/metrics"

	"github.com/PuerkitoBio/rehttp"
)

const userAgent = "bootcamp-directory/1.0"

// Client geocodes through a Nominatim-compatible search endpoint. Transient
// failures and 429/5xx answers are retried with jittered backoff.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(cfg *config.GeocoderConfig) *Client {
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	transport := rehttp.NewTransport(
		http.DefaultTransport,
		rehttp.RetryAll(
			rehttp.RetryMaxRetries(retries),
			rehttp.RetryAny(
				rehttp.RetryTemporaryErr(),
				rehttp.RetryStatuses(http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout),
			),
		),
		rehttp.ExpJitterDelay(200*time.Millisecond, 2*time.Second),
	)

	return &Client{
		endpoint: cfg.URL,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Transport: transport, Timeout: cfg.Timeout},
	}
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (c *Client) Geocode(ctx context.Context, address string) (loc *domainBootcamp.Location, err error) {
	start := time.Now()
	defer func() {
		if !errors.Is(err, domainBootcamp.ErrAddressNotFound) {
			metrics.RecordGeocoderCall(time.Since(start), err)
		}
	}()

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domainBootcamp.ErrAddressNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		return nil, domainBootcamp.ErrAddressNotFound
	}

	return toLocation(&places[0])
}

func toLocation(p *place) (*domainBootcamp.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", p.Lat)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", p.Lon)
	}

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return &domainBootcamp.Location{
		Type:             "Point",
		Coordinates:      []float64{lng, lat},
		FormattedAddress: p.DisplayName,
		Street:           strings.TrimSpace(p.Address.HouseNumber + " " + p.Address.Road),
		City:             city,
		State:            p.Address.State,
		Zipcode:          p.Address.Postcode,
		Country:          strings.ToUpper(p.Address.CountryCode),
	}, nil
}
