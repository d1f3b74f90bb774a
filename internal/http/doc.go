// Package http provides HTTP handlers and middleware for the Festory API.
//
// The router exposes the following endpoints:
//   - POST /auth/signup, POST /auth/login, POST /auth/logout: local credential
//     flows exchanging the payloads defined in auth_handler.go. Login activates
//     the stored profile; logout clears the whole store state.
//   - GET /auth/kakao/url, GET /auth/kakao/callback: Kakao OAuth hand-off. The
//     URL endpoint returns the authorize URL carrying a signed state token; the
//     callback verifies the state and records the authorization code.
//   - POST /auth/google/token: stores a Google Calendar access token for later
//     calendar writes.
//   - GET /festivals, GET /festivals/{pSeq}: festival catalog lookup with
//     keyword, region, duration, free, and weekend filters.
//   - GET /likes, POST /likes/{pSeq}: liked-festival collection listing and
//     toggling.
//   - GET /calendar-festivals, POST /calendar-festivals/{pSeq}: calendar-saved
//     festival collection. Toggling on also inserts a Google Calendar event when
//     an access token is present.
//   - GET /calendar/events?from=&to=, PUT /calendar/events/{id},
//     DELETE /calendar/events/{id}: external calendar event listing and edits
//     using the stored Google token. An expired token answers 401 and drops the
//     stored token.
//   - GET /trips, POST /trips, PUT /trips/{id}, DELETE /trips/{id}: trip
//     management exchanging the payloads defined in trip_handler.go.
//   - PUT /trips/current, PUT /trips/editing: trip pointer updates.
//   - POST /trips/{id}/days/{day}/entries, DELETE /trips/{id}/days/{day}/entries/{entryID}:
//     per-day schedule entry management for festivals and places.
//   - GET /trips/{id}/schedule: the trip with its day buckets and planner
//     warnings.
//   - GET /trips/{id}/calendar.ics: the trip schedule as an iCalendar feed.
//   - POST /taste/answers, DELETE /taste/answers, GET /taste/result: taste test
//     answers, reset, and the derived type with festival recommendations.
//   - GET /weather?region=: current weather for a supported region label.
//   - GET /places/search?lat=&lon=: nearby place search for schedule entries.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
