package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"city311/model"
)

// NominatimClient geocodes against the OpenStreetMap Nominatim search
// API. Calls are synchronous with a short timeout; the verifier treats
// any error the same as no match.
type NominatimClient struct {
	baseURL   string
	userAgent string
	httpCli   *http.Client
}

func NewNominatimClient(baseURL string) *NominatimClient {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "city311-agent/1.0",
		httpCli: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *NominatimClient) Name() string { return "nominatim" }

type nominatimAddress struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type nominatimPlace struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}

// Geocode resolves a free-text address. Returns (nil, nil) when the
// provider has no match.
func (c *NominatimClient) Geocode(ctx context.Context, query, cityHint, stateHint string) (*model.AddressRecord, error) {
	q := query
	if cityHint != "" {
		q += ", " + cityHint
	}
	if stateHint != "" {
		q += ", " + stateHint
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}

	p := places[0]
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return &model.AddressRecord{
		FormattedAddress: p.DisplayName,
		City:             city,
		State:            p.Address.State,
		Zip:              p.Address.Postcode,
		Lat:              lat,
		Lon:              lon,
		Provider:         c.Name(),
	}, nil
}
