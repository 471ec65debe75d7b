package wpilog

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrDuplicateEntryName is returned when a Start binds a name that is
	// already live under a different entry id.
	ErrDuplicateEntryName = errors.New("entry name already open under another entry id")
	// ErrOrphanRecord is returned under OrphanError for a record outside
	// every validity window of its entry id.
	ErrOrphanRecord = errors.New("record outside every window of its entry id")
)

func formatDuplicate(name string, liveID, startID uint32) string {
	return fmt.Sprintf("%q is open under entry id %d, start for entry id %d", name, liveID, startID)
}
