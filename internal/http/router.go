package http

import (
	"net/http"
	"strconv"
	"strings"
)

type RouterConfig struct {
	Auth        *AuthHandler
	Festivals   *FestivalHandler
	Collections *CollectionHandler
	Calendar    *CalendarHandler
	Trips       *TripHandler
	Taste       *TasteHandler
	Weather     *WeatherHandler
	Places      *PlaceHandler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Signup(w, r)
		})
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
		mux.HandleFunc("/auth/kakao/url", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.KakaoURL(w, r)
		})
		mux.HandleFunc("/auth/kakao/callback", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.KakaoCallback(w, r)
		})
		mux.HandleFunc("/auth/google/token", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.GoogleToken(w, r)
		})
	}

	if cfg.Festivals != nil {
		mux.HandleFunc("/festivals", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Festivals.List(w, r)
		})
		mux.HandleFunc("/festivals/", func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.URL.Path, "/festivals/")
			id, ok := parseFestivalID(raw)
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			r = r.WithContext(ContextWithFestivalID(r.Context(), id))
			cfg.Festivals.Get(w, r)
		})
	}

	if cfg.Collections != nil {
		mux.HandleFunc("/likes", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Collections.ListLikes(w, r)
		})
		mux.HandleFunc("/likes/", func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.URL.Path, "/likes/")
			id, ok := parseFestivalID(raw)
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithFestivalID(r.Context(), id))
			cfg.Collections.ToggleLike(w, r)
		})
		mux.HandleFunc("/calendar-festivals", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Collections.ListCalendar(w, r)
		})
		mux.HandleFunc("/calendar-festivals/", func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.URL.Path, "/calendar-festivals/")
			id, ok := parseFestivalID(raw)
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithFestivalID(r.Context(), id))
			cfg.Collections.ToggleCalendar(w, r)
		})
	}

	if cfg.Calendar != nil {
		mux.HandleFunc("/calendar/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.ListEvents(w, r)
		})
		mux.HandleFunc("/calendar/events/", func(w http.ResponseWriter, r *http.Request) {
			eventID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/calendar/events/"), "/")
			if eventID == "" || strings.Contains(eventID, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithEventID(r.Context(), eventID))
			switch r.Method {
			case http.MethodPut:
				cfg.Calendar.UpdateEvent(w, r)
			case http.MethodDelete:
				cfg.Calendar.DeleteEvent(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Trips != nil {
		mux.HandleFunc("/trips", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Trips.List(w, r)
			case http.MethodPost:
				cfg.Trips.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/trips/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Trips.SetCurrent(w, r)
		})
		mux.HandleFunc("/trips/editing", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Trips.SetEditing(w, r)
		})
		mux.HandleFunc("/trips/", func(w http.ResponseWriter, r *http.Request) {
			routeTrip(cfg.Trips, w, r)
		})
	}

	if cfg.Taste != nil {
		mux.HandleFunc("/taste/answers", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				cfg.Taste.AddAnswer(w, r)
			case http.MethodDelete:
				cfg.Taste.Reset(w, r)
			default:
				methodNotAllowed(w, http.MethodPost, http.MethodDelete)
			}
		})
		mux.HandleFunc("/taste/result", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Taste.Result(w, r)
		})
	}

	if cfg.Weather != nil {
		mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Weather.Current(w, r)
		})
	}

	if cfg.Places != nil {
		mux.HandleFunc("/places/search", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Places.Search(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// routeTrip dispatches the nested trip paths:
//
//	/trips/{id}
//	/trips/{id}/schedule
//	/trips/{id}/calendar.ics
//	/trips/{id}/days/{day}/entries
//	/trips/{id}/days/{day}/entries/{entryID}
func routeTrip(trips *TripHandler, w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/trips/")
	segments := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		http.NotFound(w, r)
		return
	}

	tripID, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	r = r.WithContext(ContextWithTripID(r.Context(), tripID))

	switch {
	case len(segments) == 1:
		switch r.Method {
		case http.MethodPut:
			trips.Update(w, r)
		case http.MethodDelete:
			trips.Delete(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}
	case len(segments) == 2 && segments[1] == "schedule":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		trips.Schedule(w, r)
	case len(segments) == 2 && segments[1] == "calendar.ics":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		trips.ExportICS(w, r)
	case len(segments) >= 4 && segments[1] == "days" && segments[3] == "entries":
		day, err := strconv.Atoi(segments[2])
		if err != nil || day < 0 {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithDay(r.Context(), day))
		switch {
		case len(segments) == 4:
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			trips.AddEntry(w, r)
		case len(segments) == 5:
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			r = r.WithContext(ContextWithEntryID(r.Context(), segments[4]))
			trips.RemoveEntry(w, r)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
