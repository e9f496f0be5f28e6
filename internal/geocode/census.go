package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"city311/model"
	"city311/utils"
)

// CensusClient geocodes against the US Census Bureau onelineaddress
// endpoint. Used as the configuration-gated secondary provider.
type CensusClient struct {
	baseURL string
	httpCli *http.Client
}

func NewCensusClient(baseURL string) *CensusClient {
	if baseURL == "" {
		baseURL = "https://geocoding.geo.census.gov"
	}
	return &CensusClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCli: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *CensusClient) Name() string { return "census" }

type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			MatchedAddress string `json:"matchedAddress"`
			Coordinates    struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"coordinates"`
			AddressComponents struct {
				City  string `json:"city"`
				State string `json:"state"`
				Zip   string `json:"zip"`
			} `json:"addressComponents"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// Geocode resolves a free-text address. The Census API wants a single
// oneline address, so hints are appended to the query. Returns
// (nil, nil) when there is no match.
func (c *CensusClient) Geocode(ctx context.Context, query, cityHint, stateHint string) (*model.AddressRecord, error) {
	addr := query
	if cityHint != "" {
		addr += ", " + cityHint
	}
	if stateHint != "" {
		addr += ", " + stateHint
	}

	params := url.Values{}
	params.Set("address", addr)
	params.Set("benchmark", "Public_AR_Current")
	params.Set("format", "json")

	endpoint := c.baseURL + "/geocoder/locations/onelineaddress?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("census: unexpected status %d", resp.StatusCode)
	}

	var cr censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, err
	}
	if len(cr.Result.AddressMatches) == 0 {
		return nil, nil
	}

	m := cr.Result.AddressMatches[0]
	return &model.AddressRecord{
		FormattedAddress: m.MatchedAddress,
		City:             utils.TitleWords(strings.ToLower(m.AddressComponents.City)),
		State:            m.AddressComponents.State,
		Zip:              m.AddressComponents.Zip,
		Lat:              m.Coordinates.Y,
		Lon:              m.Coordinates.X,
		Provider:         c.Name(),
	}, nil
}
