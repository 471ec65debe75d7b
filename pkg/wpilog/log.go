package wpilog

import (
	"bytes"
	"strings"

	"github.com/ssargent/wpilog/pkg/codec"
)

// Value is one timestamped payload of an entry. Payload is the raw bytes as
// logged; interpreting them according to the entry type is up to the caller.
type Value struct {
	Timestamp uint64
	Payload   []byte
}

// Entry is a named stream of values. It is immutable once Parse returns.
type Entry struct {
	name     string
	typeName string
	metadata string
	values   []Value
}

// Name returns the entry name, unique within a log.
func (e *Entry) Name() string { return e.name }

// Type returns the declared type name, verbatim.
func (e *Entry) Type() string { return e.typeName }

// Metadata returns the latest metadata written for the entry.
func (e *Entry) Metadata() string { return e.metadata }

// Len returns the number of values.
func (e *Entry) Len() int { return len(e.values) }

// At returns the i-th value in log order.
func (e *Entry) At(i int) Value { return e.values[i] }

// Values returns the values in log order. The slice and the payloads it
// references must not be modified.
func (e *Entry) Values() []Value {
	return e.values[:len(e.values):len(e.values)]
}

// Log is a parsed data log. Unless it was produced by Clone or parsed with
// Decoder.CopyStrings, its strings and payloads reference the input buffer,
// which must outlive it and stay unmodified.
type Log struct {
	header  codec.Header
	entries []*Entry
	byName  map[string]*Entry
	stats   Stats
}

// Header returns the decoded log header.
func (l *Log) Header() codec.Header { return l.header }

// Version returns the packed format version (major in the high byte).
func (l *Log) Version() uint16 { return l.header.Version() }

// Metadata returns the global metadata string from the header.
func (l *Log) Metadata() string { return l.header.Metadata }

// Entry looks up an entry by name.
func (l *Log) Entry(name string) (*Entry, bool) {
	e, ok := l.byName[name]
	return e, ok
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns the entries in the order their first Start was seen.
func (l *Log) Entries() []*Entry {
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Range calls fn for each entry in first-seen order until fn returns false.
func (l *Log) Range(fn func(*Entry) bool) {
	for _, e := range l.entries {
		if !fn(e) {
			return
		}
	}
}

// Stats returns the counters collected while parsing.
func (l *Log) Stats() Stats { return l.stats }

// Clone returns a deep copy that shares no memory with the parsed buffer.
func (l *Log) Clone() *Log {
	out := &Log{
		header:  l.header,
		entries: make([]*Entry, len(l.entries)),
		byName:  make(map[string]*Entry, len(l.entries)),
		stats:   l.stats,
	}
	out.header.Metadata = strings.Clone(l.header.Metadata)

	for i, e := range l.entries {
		c := &Entry{
			name:     strings.Clone(e.name),
			typeName: strings.Clone(e.typeName),
			metadata: strings.Clone(e.metadata),
			values:   make([]Value, len(e.values)),
		}
		for j, v := range e.values {
			c.values[j] = Value{Timestamp: v.Timestamp, Payload: bytes.Clone(v.Payload)}
		}
		out.entries[i] = c
		out.byName[c.name] = c
	}
	return out
}
