package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		DriverMemory: NewMemory(),
		DriverSQLite: sqlite,
	}
}

func TestRegisterSucceedsOncePerName(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			registered, err := store.IsRegistered(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, registered)

			created, err := store.Register(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, created)

			created, err = store.Register(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, created)

			registered, err = store.IsRegistered(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, registered)

			registered, err = store.IsRegistered(ctx, "Alice")
			require.NoError(t, err)
			assert.False(t, registered, "usernames are case-sensitive")
		})
	}
}

func TestAppendAssignsDenseIndices(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				index, err := store.Append(ctx, fmt.Sprintf("m%d", i))
				require.NoError(t, err)
				assert.EqualValues(t, i, index)
			}
			n, err := store.Len(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 5, n)
		})
	}
}

func TestReadFromReturnsSuffix(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			all := []string{"a", "b", "c", "d"}
			for _, msg := range all {
				_, err := store.Append(ctx, msg)
				require.NoError(t, err)
			}

			for cursor := 0; cursor <= len(all); cursor++ {
				got, err := store.ReadFrom(ctx, uint64(cursor))
				require.NoError(t, err)
				assert.Equal(t, all[cursor:], got, "cursor %d", cursor)
			}

			for _, cursor := range []uint64{5, 1000, math.MaxUint64} {
				got, err := store.ReadFrom(ctx, cursor)
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Empty(t, got)
			}
		})
	}
}

func TestReadFromIsSnapshot(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Append(ctx, "first")
			require.NoError(t, err)

			snapshot, err := store.ReadFrom(ctx, 0)
			require.NoError(t, err)

			_, err = store.Append(ctx, "second")
			require.NoError(t, err)
			snapshot[0] = "mutated"

			assert.Len(t, snapshot, 1)
			again, err := store.ReadFrom(ctx, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"first", "second"}, again)
		})
	}
}

func TestConcurrentAppendsKeepEveryMessage(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			const writers, perWriter = 8, 25

			var wg sync.WaitGroup
			for w := 0; w < writers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWriter; i++ {
						_, err := store.Append(ctx, fmt.Sprintf("w%d-%d", w, i))
						assert.NoError(t, err)
					}
				}(w)
			}
			wg.Wait()

			got, err := store.ReadFrom(ctx, 0)
			require.NoError(t, err)
			require.Len(t, got, writers*perWriter)

			seen := make(map[string]bool, len(got))
			for _, msg := range got {
				assert.False(t, seen[msg], "duplicate %s", msg)
				seen[msg] = true
			}
		})
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	store, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	store, err = Open(DriverSQLite, "")
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = Open("postgres", "")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
