package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type fakeListings struct {
	listings map[string]domain.Listing
}

func (f *fakeListings) BySlugOrID(_ context.Context, slugOrID string) (*domain.Listing, error) {
	if l, ok := f.listings[slugOrID]; ok {
		return &l, nil
	}
	return nil, domain.ErrNotFound
}

type fakeRecorder struct {
	listingID string
	day       string
	kind      domain.EventKind
	calls     int
	err       error
}

func (f *fakeRecorder) ApplyOne(_ context.Context, listingID, day string, kind domain.EventKind) error {
	f.calls++
	f.listingID, f.day, f.kind = listingID, day, kind
	return f.err
}

func trackApp(recorder *fakeRecorder) *App {
	return &App{
		Recorder: recorder,
		Listings: &fakeListings{listings: map[string]domain.Listing{
			"cafe-uno": {ID: "l1", Slug: "cafe-uno"},
		}},
		Logger: zerolog.Nop(),
	}
}

func postTrack(app *App, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/track", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Track(rr, req)
	return rr
}

func TestTrackRecordsOneCounter(t *testing.T) {
	recorder := &fakeRecorder{}
	rr := postTrack(trackApp(recorder), `{"slug":"cafe-uno","type":"click_phone"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if recorder.calls != 1 {
		t.Fatalf("recorder called %d times, want 1", recorder.calls)
	}
	if recorder.listingID != "l1" || recorder.kind != domain.KindClickPhone {
		t.Fatalf("recorded (%q, %q)", recorder.listingID, recorder.kind)
	}
	if len(recorder.day) != 10 {
		t.Fatalf("day = %q, want a calendar day", recorder.day)
	}
}

func TestTrackRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "invalid json", body: `{`, want: http.StatusBadRequest},
		{name: "missing slug", body: `{"type":"profile_view"}`, want: http.StatusBadRequest},
		{name: "missing type", body: `{"slug":"cafe-uno"}`, want: http.StatusBadRequest},
		{name: "unknown type", body: `{"slug":"cafe-uno","type":"page_scrolled"}`, want: http.StatusBadRequest},
		{name: "unknown slug", body: `{"slug":"nope","type":"profile_view"}`, want: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &fakeRecorder{}
			rr := postTrack(trackApp(recorder), tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if recorder.calls != 0 {
				t.Fatal("recorder must not be called for rejected input")
			}
			var payload map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload["error"] == "" {
				t.Fatal("error body missing error code")
			}
		})
	}
}

func TestTrackStoreFailureIs500(t *testing.T) {
	recorder := &fakeRecorder{err: domain.ErrUnavailable}
	rr := postTrack(trackApp(recorder), `{"slug":"cafe-uno","type":"profile_view"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}
