// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., sqlstore) inside this directory.
package repository

import "context"

// CounterRepository persists named monotonically increasing counters.
// No business logic here, strictly persistence operations.
type CounterRepository interface {
	// Increment atomically adds one to the named counter, creating it at 1 when
	// it does not exist, and returns the new value.
	Increment(ctx context.Context, name string) (int64, error)

	// Get returns the current value of the named counter, 0 when it does not exist.
	Get(ctx context.Context, name string) (int64, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
