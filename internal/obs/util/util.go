// Package util holds small context-value helpers used by the logger.
package util

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey    ctxKey = "run-id"
	symbolKey   ctxKey = "symbol"
	requestIDKey ctxKey = "request-id"
)

// WithRunID attaches the current run id to ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID returns the run id stored in ctx, or "" if absent.
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithSymbol attaches the traded symbol to ctx.
func WithSymbol(ctx context.Context, symbol string) context.Context {
	return context.WithValue(ctx, symbolKey, symbol)
}

// GetSymbol returns the symbol stored in ctx, or "" if absent.
func GetSymbol(ctx context.Context) string {
	s, _ := ctx.Value(symbolKey).(string)
	return s
}

// WithRequestID attaches a correlation id to ctx, generating one if id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation id stored in ctx, or "" if absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
