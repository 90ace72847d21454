package storage

import (
	"context"
	"errors"
)

// Common storage errors
var (
	ErrNotFound = errors.New("key not found")
)

// Storage is durable client-local key/value persistence. Values are opaque
// strings written synchronously, so a successful Set survives a restart.
type Storage interface {
	// Get returns the value for key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store
	Close() error
}

// Options represents storage configuration options
type Options struct {
	Path string
}

// NewOptions creates a new Options with default values
func NewOptions() *Options {
	return &Options{
		Path: "session.json",
	}
}
