package wpilog

import (
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wpilog/pkg/codec"
)

// OrphanPolicy decides what happens to a data or SetMetadata record that no
// validity window of its entry id covers.
type OrphanPolicy uint8

const (
	// OrphanDrop skips the record and counts it in Stats.Orphans.
	OrphanDrop OrphanPolicy = iota
	// OrphanError fails the parse with ErrOrphanRecord.
	OrphanError
)

func (p OrphanPolicy) String() string {
	switch p {
	case OrphanDrop:
		return "drop"
	case OrphanError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseOrphanPolicy maps a configuration value onto an OrphanPolicy.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch s {
	case "", "drop":
		return OrphanDrop, nil
	case "error":
		return OrphanError, nil
	default:
		return OrphanDrop, errors.Newf("unknown orphan policy %q", s)
	}
}

// Stats counts what a parse saw.
type Stats struct {
	Bytes          int `json:"bytes"`
	Records        int `json:"records"`
	ControlRecords int `json:"control_records"`
	DataRecords    int `json:"data_records"`
	Orphans        int `json:"orphans"`
	Entries        int `json:"entries"`
}

// Observer is notified once per Parse call, whether it succeeded or not.
type Observer interface {
	ObserveParse(stats Stats, elapsed time.Duration, err error)
}

// Options configures Parse. The zero value parses with the safe policy,
// zero-copy strings and drops orphan records.
type Options struct {
	Decoder  codec.Decoder
	Orphans  OrphanPolicy
	Logger   *slog.Logger
	Observer Observer
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
