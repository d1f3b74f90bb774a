package http

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerContextKey     contextKey = "logger"
	tripIDContextKey     contextKey = "trip_id"
	dayContextKey        contextKey = "day"
	entryIDContextKey    contextKey = "entry_id"
	festivalIDContextKey contextKey = "festival_id"
	eventIDContextKey    contextKey = "event_id"
)

// ContextWithLogger returns a derived context carrying the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext extracts the request logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerContextKey).(*slog.Logger)
	return logger
}

// ContextWithTripID injects the trip identifier resolved from the request path.
func ContextWithTripID(ctx context.Context, tripID int64) context.Context {
	return context.WithValue(ctx, tripIDContextKey, tripID)
}

// TripIDFromContext extracts a trip identifier previously associated with the context.
func TripIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tripIDContextKey).(int64)
	return id, ok
}

// ContextWithDay injects the zero-based day offset resolved from the request path.
func ContextWithDay(ctx context.Context, day int) context.Context {
	return context.WithValue(ctx, dayContextKey, day)
}

// DayFromContext extracts a day offset previously associated with the context.
func DayFromContext(ctx context.Context) (int, bool) {
	day, ok := ctx.Value(dayContextKey).(int)
	return day, ok
}

// ContextWithEntryID injects the schedule entry identifier resolved from the request path.
func ContextWithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, entryID)
}

// EntryIDFromContext extracts a schedule entry identifier previously associated with the context.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}

// ContextWithFestivalID injects the festival identifier resolved from the request path.
func ContextWithFestivalID(ctx context.Context, pSeq int64) context.Context {
	return context.WithValue(ctx, festivalIDContextKey, pSeq)
}

// FestivalIDFromContext extracts a festival identifier previously associated with the context.
func FestivalIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(festivalIDContextKey).(int64)
	return id, ok
}

// ContextWithEventID injects the calendar event identifier resolved from the request path.
func ContextWithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventIDFromContext extracts a calendar event identifier previously associated with the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(eventIDContextKey).(string)
	return id, ok
}
