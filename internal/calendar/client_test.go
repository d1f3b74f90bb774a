package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/festory/festory/internal/store"
)

func TestClient_InsertEvent(t *testing.T) {
	t.Parallel()

	t.Run("writes all-day events with an exclusive end date", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		var gotBody eventResource
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode request: %v", err)
			}
			gotBody.ID = "evt-1"
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(gotBody)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, CalendarID: "primary"}, nil)
		event := Event{
			Summary: "서울 뮤직 페스티벌",
			Start:   time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		}

		stored, err := client.InsertEvent(context.Background(), "token-1", event)
		if err != nil {
			t.Fatalf("InsertEvent failed: %v", err)
		}

		if gotAuth != "Bearer token-1" {
			t.Fatalf("expected bearer token, got %q", gotAuth)
		}
		if gotBody.Start == nil || gotBody.Start.Date != "2025-05-02" {
			t.Fatalf("expected date-only start, got %#v", gotBody.Start)
		}
		if gotBody.End == nil || gotBody.End.Date != "2025-05-05" {
			t.Fatalf("expected exclusive end date, got %#v", gotBody.End)
		}
		if stored.ID != "evt-1" {
			t.Fatalf("expected stored id, got %q", stored.ID)
		}
		if !stored.End.Equal(event.End) {
			t.Fatalf("expected inclusive end after round trip, got %v", stored.End)
		}
	})

	t.Run("maps 401 to ErrTokenExpired", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, nil)
		_, err := client.InsertEvent(context.Background(), "stale", Event{Summary: "x", AllDay: true})
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("surfaces provider errors with the response message", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, nil)
		_, err := client.InsertEvent(context.Background(), "token", Event{Summary: "x", AllDay: true})
		if !errors.Is(err, ErrProvider) {
			t.Fatalf("expected ErrProvider, got %v", err)
		}
	})
}

func TestClient_ListEvents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("timeMin") == "" || query.Get("timeMax") == "" {
			t.Errorf("expected time window query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"id": "evt-1", "summary": "불꽃축제", "start": {"date": "2025-10-03"}, "end": {"date": "2025-10-05"}},
			{"id": "evt-2", "summary": "회의", "start": {"dateTime": "2025-10-03T10:00:00Z"}, "end": {"dateTime": "2025-10-03T11:00:00Z"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	events, err := client.ListEvents(context.Background(), "token",
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}

	allDay := events[0]
	if !allDay.AllDay {
		t.Fatalf("expected all-day event, got %#v", allDay)
	}
	if got := allDay.End.Format("2006-01-02"); got != "2025-10-04" {
		t.Fatalf("expected inclusive end from exclusive wire date, got %s", got)
	}

	timed := events[1]
	if timed.AllDay {
		t.Fatalf("expected timed event, got %#v", timed)
	}
	if timed.End.Sub(timed.Start) != time.Hour {
		t.Fatalf("expected one hour duration, got %v", timed.End.Sub(timed.Start))
	}
}

func TestEventForFestival(t *testing.T) {
	t.Parallel()

	festival := store.Festival{
		PSeq:        1001,
		Name:        "서울 뮤직 페스티벌",
		Description: "한강에서 열리는 음악 축제",
		Venue:       "한강공원",
		StartDate:   "2025-05-02",
		EndDate:     "2025-05-04",
	}

	event, err := EventForFestival(festival)
	if err != nil {
		t.Fatalf("EventForFestival failed: %v", err)
	}
	if !event.AllDay {
		t.Fatalf("expected all-day event")
	}
	if got := event.Start.Format("2006-01-02"); got != "2025-05-02" {
		t.Fatalf("unexpected start %s", got)
	}
	if got := event.End.Format("2006-01-02"); got != "2025-05-04" {
		t.Fatalf("expected inclusive end, got %s", got)
	}
	if event.Location != "한강공원" {
		t.Fatalf("expected venue as location, got %q", event.Location)
	}

	if _, err := EventForFestival(store.Festival{PSeq: 2, Name: "무일정"}); err == nil {
		t.Fatalf("expected error for festival without dates")
	}
}

func TestClient_DeleteEvent(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, CalendarID: "primary"}, nil)
	if err := client.DeleteEvent(context.Background(), "token", "evt-9"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", gotMethod)
	}
	if gotPath != "/calendars/primary/events/evt-9" {
		t.Fatalf("unexpected path %s", gotPath)
	}

	if err := client.DeleteEvent(context.Background(), "token", ""); err == nil {
		t.Fatalf("expected error for missing event id")
	}
}
