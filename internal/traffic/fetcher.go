package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// edgeQuery pulls one day-group of site-wide traffic counters for the zone.
const edgeQuery = `query ($zone: String!, $since: String!) {
  viewer {
    zones(filter: {zoneTag: $zone}) {
      httpRequests1dGroups(limit: 1, filter: {date_geq: $since}) {
        sum { requests bytes cachedRequests }
        uniq { uniques }
      }
    }
  }
}`

// Options configures the edge analytics client.
type Options struct {
	APIURL     string
	APIToken   string
	ZoneID     string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Fetcher calls the external edge analytics GraphQL API and reduces the
// response to a TrafficSnapshot.
type Fetcher struct {
	apiURL     string
	apiToken   string
	zoneID     string
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{
		apiURL:     opts.APIURL,
		apiToken:   opts.APIToken,
		zoneID:     opts.ZoneID,
		httpClient: client,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Viewer struct {
			Zones []struct {
				Groups []struct {
					Sum struct {
						Requests       int64 `json:"requests"`
						Bytes          int64 `json:"bytes"`
						CachedRequests int64 `json:"cachedRequests"`
					} `json:"sum"`
					Uniq struct {
						Uniques int64 `json:"uniques"`
					} `json:"uniq"`
				} `json:"httpRequests1dGroups"`
			} `json:"zones"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch requests the last day of traffic for the configured zone.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	since := f.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	body, err := json.Marshal(graphqlRequest{
		Query:     edgeQuery,
		Variables: map[string]any{"zone": f.zoneID, "since": since},
	})
	if err != nil {
		return nil, fmt.Errorf("encode traffic query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build traffic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call traffic api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("traffic api status %d", resp.StatusCode)
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode traffic response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("traffic api error: %s", payload.Errors[0].Message)
	}
	zones := payload.Data.Viewer.Zones
	if len(zones) == 0 || len(zones[0].Groups) == 0 {
		return nil, fmt.Errorf("traffic api returned no data for zone %s", f.zoneID)
	}

	group := zones[0].Groups[0]
	snap := &Snapshot{
		Requests:       group.Sum.Requests,
		UniqueVisitors: group.Uniq.Uniques,
		Bytes:          group.Sum.Bytes,
		FetchedAt:      f.now().UTC(),
	}
	if group.Sum.Requests > 0 {
		snap.CacheHitRate = float64(group.Sum.CachedRequests) / float64(group.Sum.Requests)
	}
	return snap, nil
}
