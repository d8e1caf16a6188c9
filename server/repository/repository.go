package repository

import (
	"errors"
	"fmt"

	"github.com/ponyo877/chatroom/server/usecase"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a usecase.Repository that owns resources.
type Store interface {
	usecase.Repository
	Close() error
}

// Open returns the store backend named by driver. dsn is only used by sqlite.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
