package traffic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetchComputesSnapshot(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["zone"] != "zone-1" {
			t.Errorf("zone = %v", req.Variables["zone"])
		}
		_, _ = w.Write([]byte(`{
			"data": {"viewer": {"zones": [{"httpRequests1dGroups": [{
				"sum": {"requests": 1000, "bytes": 5000000, "cachedRequests": 840},
				"uniq": {"uniques": 250}
			}]}]}}
		}`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(Options{
		APIURL:   srv.URL,
		APIToken: "token-1",
		ZoneID:   "zone-1",
		Logger:   zerolog.Nop(),
	})

	snap, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if snap.Requests != 1000 || snap.UniqueVisitors != 250 || snap.Bytes != 5000000 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.CacheHitRate != 0.84 {
		t.Fatalf("cache hit rate = %v, want 0.84", snap.CacheHitRate)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatal("FetchedAt not set")
	}
}

func TestFetchSurfacesAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "graphql error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"errors": [{"message": "zone not authorized"}]}`))
			},
		},
		{
			name: "empty zone data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data": {"viewer": {"zones": []}}}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			fetcher := NewFetcher(Options{APIURL: srv.URL, ZoneID: "zone-1", Logger: zerolog.Nop()})
			if _, err := fetcher.Fetch(context.Background()); err == nil {
				t.Fatal("Fetch should return an error")
			}
		})
	}
}

func TestFetchZeroRequestsAvoidsDivideByZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {"viewer": {"zones": [{"httpRequests1dGroups": [{
				"sum": {"requests": 0, "bytes": 0, "cachedRequests": 0},
				"uniq": {"uniques": 0}
			}]}]}}
		}`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(Options{APIURL: srv.URL, ZoneID: "zone-1", Logger: zerolog.Nop()})
	snap, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if snap.CacheHitRate != 0 {
		t.Fatalf("cache hit rate = %v, want 0", snap.CacheHitRate)
	}
}
