package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrMixedTenants is returned when a batch lookup mixes tenant IDs.
	ErrMixedTenants = errors.New("all entry keys must share the same tenant id")
)

// IsConflict reports whether err is the backing store's write-contention
// failure. These are the errors the service layer retries; everything else
// propagates unchanged.
func IsConflict(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}
