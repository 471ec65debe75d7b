package catalog

import (
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/wpilog/pkg/wpilog"
)

// EntrySummary describes one entry of a cataloged log.
type EntrySummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Metadata string `json:"metadata,omitempty"`
	Values   int    `json:"values"`
	MinTS    uint64 `json:"min_ts,omitempty"` // earliest value timestamp
	MaxTS    uint64 `json:"max_ts,omitempty"` // latest value timestamp
}

// Summary is what the catalog keeps about a parsed log. It holds no record
// payloads, only counts and the entry directory.
type Summary struct {
	ID       ksuid.KSUID    `json:"id"`
	Path     string         `json:"path"`
	Version  string         `json:"version"`
	Metadata string         `json:"metadata,omitempty"`
	Stats    wpilog.Stats   `json:"stats"`
	Entries  []EntrySummary `json:"entries"`
	AddedAt  time.Time      `json:"added_at"`
}

// Summarize captures log into a Summary for path. Strings are copied, so the
// buffer behind log may be released afterwards.
func Summarize(path string, log *wpilog.Log) Summary {
	s := Summary{
		Path:     path,
		Version:  log.Header().String(),
		Metadata: strings.Clone(log.Metadata()),
		Stats:    log.Stats(),
		Entries:  make([]EntrySummary, 0, log.Len()),
	}

	log.Range(func(e *wpilog.Entry) bool {
		es := EntrySummary{
			Name:     strings.Clone(e.Name()),
			Type:     strings.Clone(e.Type()),
			Metadata: strings.Clone(e.Metadata()),
			Values:   e.Len(),
		}
		for i, v := range e.Values() {
			if i == 0 || v.Timestamp < es.MinTS {
				es.MinTS = v.Timestamp
			}
			if v.Timestamp > es.MaxTS {
				es.MaxTS = v.Timestamp
			}
		}
		s.Entries = append(s.Entries, es)
		return true
	})
	return s
}

// Entry returns the summary of the named entry.
func (s Summary) Entry(name string) (EntrySummary, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return EntrySummary{}, false
}
