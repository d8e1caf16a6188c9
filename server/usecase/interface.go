package usecase

import "context"

// Repository is the user registry and the append-only message log.
// Implementations must make every method atomic on its own.
type Repository interface {
	// Register returns true iff username was not registered before.
	Register(ctx context.Context, username string) (bool, error)
	IsRegistered(ctx context.Context, username string) (bool, error)

	// Append stores text at the next log index and returns that index.
	Append(ctx context.Context, text string) (uint64, error)
	// ReadFrom returns a copy of the messages at index >= cursor.
	// A cursor past the end yields an empty slice.
	ReadFrom(ctx context.Context, cursor uint64) ([]string, error)
	Len(ctx context.Context) (uint64, error)
}
