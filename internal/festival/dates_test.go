package festival

import (
	"testing"
	"time"

	"github.com/festory/festory/internal/store"
)

func TestEventRange(t *testing.T) {
	t.Parallel()

	t.Run("uses structured dates with an exclusive end", func(t *testing.T) {
		t.Parallel()

		f := store.Festival{StartDate: "2025-04-04", EndDate: "2025-04-09"}
		start, end, ok := EventRange(f)
		if !ok {
			t.Fatal("expected a resolved period")
		}
		if got := start.Format("2006-01-02"); got != "2025-04-04" {
			t.Fatalf("unexpected start: %s", got)
		}
		if got := end.Format("2006-01-02"); got != "2025-04-10" {
			t.Fatalf("expected exclusive end 2025-04-10, got %s", got)
		}
	})

	t.Run("falls back to the start date when the end is absent", func(t *testing.T) {
		t.Parallel()

		f := store.Festival{StartDate: "2025-11-01"}
		start, end, ok := EventRange(f)
		if !ok {
			t.Fatal("expected a resolved period")
		}
		if end.Sub(start) != 24*time.Hour {
			t.Fatalf("expected a single-day span, got %v", end.Sub(start))
		}
	})

	t.Run("parses same-year legacy ranges", func(t *testing.T) {
		t.Parallel()

		f := store.Festival{LegacyDate: "2025. 3. 28. ~ 4. 6."}
		start, end, ok := EventRange(f)
		if !ok {
			t.Fatal("expected a resolved period")
		}
		if got := start.Format("2006-01-02"); got != "2025-03-28" {
			t.Fatalf("unexpected start: %s", got)
		}
		if got := end.Format("2006-01-02"); got != "2025-04-07" {
			t.Fatalf("expected exclusive end 2025-04-07, got %s", got)
		}
	})

	t.Run("parses cross-year legacy ranges", func(t *testing.T) {
		t.Parallel()

		f := store.Festival{LegacyDate: "2026. 1. 10. ~ 2026. 2. 1."}
		start, end, ok := EventRange(f)
		if !ok {
			t.Fatal("expected a resolved period")
		}
		if got := start.Format("2006-01-02"); got != "2026-01-10" {
			t.Fatalf("unexpected start: %s", got)
		}
		if got := end.Format("2006-01-02"); got != "2026-02-02" {
			t.Fatalf("expected exclusive end 2026-02-02, got %s", got)
		}
	})

	t.Run("parses single legacy dates", func(t *testing.T) {
		t.Parallel()

		f := store.Festival{LegacyDate: "2025. 3. 14."}
		start, end, ok := EventRange(f)
		if !ok {
			t.Fatal("expected a resolved period")
		}
		if got := start.Format("2006-01-02"); got != "2025-03-14" {
			t.Fatalf("unexpected start: %s", got)
		}
		if end.Sub(start) != 24*time.Hour {
			t.Fatalf("expected a single-day span, got %v", end.Sub(start))
		}
	})

	t.Run("reports festivals without any parsable date", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "상시 운영", "매주 토요일"} {
			if _, _, ok := EventRange(store.Festival{LegacyDate: raw}); ok {
				t.Fatalf("expected %q to be unparsable", raw)
			}
		}
	})
}

func TestDurationDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		festival store.Festival
		want     int
	}{
		{"single structured day", store.Festival{StartDate: "2025-11-01", EndDate: "2025-11-01"}, 1},
		{"three structured days", store.Festival{StartDate: "2025-08-01", EndDate: "2025-08-03"}, 3},
		{"legacy range", store.Festival{LegacyDate: "2025. 5. 1. ~ 5. 6."}, 6},
		{"unparsable", store.Festival{LegacyDate: "미정"}, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DurationDays(tc.festival); got != tc.want {
				t.Fatalf("DurationDays = %d, want %d", got, tc.want)
			}
		})
	}
}
