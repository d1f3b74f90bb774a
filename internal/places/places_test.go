package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_SearchNearby(t *testing.T) {
	t.Parallel()

	t.Run("decodes results with coordinates and photo reference", func(t *testing.T) {
		t.Parallel()

		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			gotQuery = map[string]string{
				"location": query.Get("location"),
				"radius":   query.Get("radius"),
				"language": query.Get("language"),
				"keyword":  query.Get("keyword"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": "OK",
				"results": [{
					"place_id": "ChIJ00000001",
					"name": "광장시장",
					"types": ["restaurant", "point_of_interest"],
					"vicinity": "서울 종로구",
					"rating": 4.4,
					"geometry": {"location": {"lat": 37.57, "lng": 126.999}},
					"photos": [{"photo_reference": "ref-1"}]
				}]
			}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, APIKey: "key-1"}, nil)
		results, err := client.SearchNearby(context.Background(), 37.5665, 126.978, 0, "시장")
		if err != nil {
			t.Fatalf("SearchNearby failed: %v", err)
		}

		if gotQuery["language"] != "ko" {
			t.Fatalf("expected korean results, got %#v", gotQuery)
		}
		if gotQuery["radius"] != "3000" {
			t.Fatalf("expected default radius, got %q", gotQuery["radius"])
		}
		if gotQuery["keyword"] != "시장" {
			t.Fatalf("expected keyword, got %q", gotQuery["keyword"])
		}
		if len(results) != 1 {
			t.Fatalf("expected one result, got %d", len(results))
		}
		result := results[0]
		if result.PlaceID != "ChIJ00000001" || result.Rating != 4.4 {
			t.Fatalf("unexpected result %#v", result)
		}
		if result.PhotoReference != "ref-1" {
			t.Fatalf("expected first photo reference, got %q", result.PhotoReference)
		}
	})

	t.Run("treats zero results as an empty list", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, APIKey: "key"}, nil)
		results, err := client.SearchNearby(context.Background(), 0, 0, 100, "")
		if err != nil {
			t.Fatalf("SearchNearby failed: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected no results, got %d", len(results))
		}
	})

	t.Run("rejects provider error statuses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, APIKey: "key"}, nil)
		if _, err := client.SearchNearby(context.Background(), 0, 0, 100, ""); !errors.Is(err, ErrProvider) {
			t.Fatalf("expected ErrProvider, got %v", err)
		}
	})

	t.Run("fails fast without an api key", func(t *testing.T) {
		t.Parallel()

		client := NewClient(Config{}, nil)
		if _, err := client.SearchNearby(context.Background(), 0, 0, 100, ""); !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	})
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		types []string
		want  string
	}{
		{"restaurant wins", []string{"point_of_interest", "restaurant"}, "맛집"},
		{"cafe", []string{"cafe"}, "카페"},
		{"label priority over type order", []string{"lodging", "restaurant"}, "맛집"},
		{"unknown falls back", []string{"embassy"}, "장소"},
		{"empty falls back", nil, "장소"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := TypeLabel(tc.types); got != tc.want {
				t.Fatalf("TypeLabel(%v) = %q, want %q", tc.types, got, tc.want)
			}
		})
	}
}

func TestToPlaceEntry(t *testing.T) {
	t.Parallel()

	result := Result{
		PlaceID:   "ChIJ00000001",
		Name:      "광장시장",
		Types:     []string{"restaurant"},
		Address:   "서울 종로구",
		Rating:    4.4,
		Latitude:  37.57,
		Longitude: 126.999,
	}

	entry := ToPlaceEntry(result, "https://photos.example/ref-1")
	if entry.EntryID() != "place_ChIJ00000001" {
		t.Fatalf("expected prefixed entry id, got %q", entry.EntryID())
	}
	if entry.TypeLabel != "맛집" {
		t.Fatalf("expected type label, got %q", entry.TypeLabel)
	}
	if entry.PhotoURL != "https://photos.example/ref-1" {
		t.Fatalf("expected photo url, got %q", entry.PhotoURL)
	}
}

func TestPhotoURL(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "https://maps.example/place", APIKey: "key-1"}, nil)
	photo := client.PhotoURL("ref-1", 0)
	if !strings.Contains(photo, "photo_reference=ref-1") || !strings.Contains(photo, "maxwidth=400") {
		t.Fatalf("unexpected photo url %q", photo)
	}
	if client.PhotoURL("", 400) != "" {
		t.Fatalf("expected empty url without reference")
	}
}
