package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/festory/festory/internal/festival"
	"github.com/festory/festory/internal/store"
)

const (
	defaultBaseURL    = "https://www.googleapis.com/calendar/v3"
	defaultCalendarID = "primary"

	dateLayout = "2006-01-02"
)

var (
	// ErrTokenExpired is returned on HTTP 401 so the caller can drop the
	// stored access token and re-authenticate.
	ErrTokenExpired = errors.New("calendar: access token expired")
	// ErrProvider wraps other non-OK responses from the calendar provider.
	ErrProvider = errors.New("calendar: provider request failed")
)

// Event is a calendar event. All-day events carry date-only Start/End with End
// on the last included day; the exclusive-end adjustment happens at the wire
// boundary.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
}

// Config carries the provider settings for the calendar client.
type Config struct {
	BaseURL    string
	CalendarID string
	Timeout    time.Duration
}

// Client talks to a Google-Calendar-compatible events API with a bearer token
// supplied per call. Requests are not retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	calendarID string
	logger     *slog.Logger
}

// NewClient constructs a calendar client for the configured calendar.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = defaultCalendarID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		calendarID: cfg.CalendarID,
		logger:     logger,
	}
}

type eventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

type eventResource struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *eventTime `json:"start,omitempty"`
	End         *eventTime `json:"end,omitempty"`
}

type eventListResource struct {
	Items []eventResource `json:"items"`
}

func encodeEvent(event Event) eventResource {
	resource := eventResource{
		ID:          event.ID,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
	}
	if event.AllDay {
		resource.Start = &eventTime{Date: event.Start.Format(dateLayout)}
		// The provider treats the end date as exclusive.
		resource.End = &eventTime{Date: event.End.AddDate(0, 0, 1).Format(dateLayout)}
		return resource
	}
	resource.Start = &eventTime{DateTime: event.Start.Format(time.RFC3339)}
	resource.End = &eventTime{DateTime: event.End.Format(time.RFC3339)}
	return resource
}

func decodeEvent(resource eventResource) (Event, error) {
	event := Event{
		ID:          resource.ID,
		Summary:     resource.Summary,
		Description: resource.Description,
		Location:    resource.Location,
	}
	switch {
	case resource.Start != nil && resource.Start.Date != "":
		start, err := time.Parse(dateLayout, resource.Start.Date)
		if err != nil {
			return Event{}, fmt.Errorf("calendar: parse start date: %w", err)
		}
		event.Start = start
		event.End = start
		event.AllDay = true
		if resource.End != nil && resource.End.Date != "" {
			end, err := time.Parse(dateLayout, resource.End.Date)
			if err != nil {
				return Event{}, fmt.Errorf("calendar: parse end date: %w", err)
			}
			event.End = end.AddDate(0, 0, -1)
		}
	case resource.Start != nil && resource.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, resource.Start.DateTime)
		if err != nil {
			return Event{}, fmt.Errorf("calendar: parse start time: %w", err)
		}
		event.Start = start
		event.End = start
		if resource.End != nil && resource.End.DateTime != "" {
			end, err := time.Parse(time.RFC3339, resource.End.DateTime)
			if err != nil {
				return Event{}, fmt.Errorf("calendar: parse end time: %w", err)
			}
			event.End = end
		}
	}
	return event, nil
}

func (c *Client) eventsURL(eventID string) string {
	base := c.baseURL + "/calendars/" + url.PathEscape(c.calendarID) + "/events"
	if eventID == "" {
		return base
	}
	return base + "/" + url.PathEscape(eventID)
}

func (c *Client) do(ctx context.Context, token, method, endpoint string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("calendar: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("calendar: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: request: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, ErrTokenExpired
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		c.logger.WarnContext(ctx, "calendar provider returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("method", method))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, string(message))
	}
	return resp, nil
}

// ListEvents returns the events between from and to.
func (c *Client) ListEvents(ctx context.Context, token string, from, to time.Time) ([]Event, error) {
	query := url.Values{}
	query.Set("timeMin", from.Format(time.RFC3339))
	query.Set("timeMax", to.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	resp, err := c.do(ctx, token, http.MethodGet, c.eventsURL("")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list eventListResource
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("calendar: decode response: %w", err)
	}
	events := make([]Event, 0, len(list.Items))
	for _, item := range list.Items {
		event, err := decodeEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// InsertEvent creates the event and returns the stored version with its id.
func (c *Client) InsertEvent(ctx context.Context, token string, event Event) (Event, error) {
	resp, err := c.do(ctx, token, http.MethodPost, c.eventsURL(""), encodeEvent(event))
	if err != nil {
		return Event{}, err
	}
	defer resp.Body.Close()

	var stored eventResource
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return Event{}, fmt.Errorf("calendar: decode response: %w", err)
	}
	return decodeEvent(stored)
}

// UpdateEvent replaces the event identified by its id.
func (c *Client) UpdateEvent(ctx context.Context, token string, event Event) (Event, error) {
	if event.ID == "" {
		return Event{}, fmt.Errorf("calendar: event id required for update")
	}
	resp, err := c.do(ctx, token, http.MethodPut, c.eventsURL(event.ID), encodeEvent(event))
	if err != nil {
		return Event{}, err
	}
	defer resp.Body.Close()

	var stored eventResource
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return Event{}, fmt.Errorf("calendar: decode response: %w", err)
	}
	return decodeEvent(stored)
}

// DeleteEvent removes the event identified by its id.
func (c *Client) DeleteEvent(ctx context.Context, token, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("calendar: event id required for delete")
	}
	resp, err := c.do(ctx, token, http.MethodDelete, c.eventsURL(eventID), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// EventForFestival builds the all-day event saved when a festival is added to
// the calendar. Festivals without a parsable date range are rejected.
func EventForFestival(f store.Festival) (Event, error) {
	start, end, ok := festival.EventRange(f)
	if !ok {
		return Event{}, fmt.Errorf("calendar: festival %d has no parsable dates", f.PSeq)
	}
	location := f.Venue
	if location == "" {
		location = f.RoadAddress
	}
	return Event{
		Summary:     f.Name,
		Description: f.Description,
		Location:    location,
		Start:       start,
		End:         end.AddDate(0, 0, -1),
		AllDay:      true,
	}, nil
}
