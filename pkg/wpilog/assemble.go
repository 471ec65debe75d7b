package wpilog

import (
	"fmt"
	"log/slog"

	"github.com/ssargent/wpilog/pkg/codec"
)

// assembler is the second pass: it attributes every data record to the
// entry whose window covers its timestamp and applies SetMetadata records.
type assembler struct {
	dec       codec.Decoder
	log       *slog.Logger
	orphans   OrphanPolicy
	timelines map[uint32]*timeline
	stats     *Stats
}

func (a *assembler) run(f *codec.Framer) error {
	for f.Next() {
		rec := f.Record()
		if rec.IsControl() {
			if err := a.control(rec); err != nil {
				return err
			}
			continue
		}

		e := a.resolve(rec.EntryID, rec.Timestamp)
		if e == nil {
			if err := a.orphan(rec, rec.EntryID, "data"); err != nil {
				return err
			}
			continue
		}
		e.values = append(e.values, Value{Timestamp: rec.Timestamp, Payload: rec.Payload})
	}
	return f.Err()
}

// control applies SetMetadata. Start and Finish were fully handled by the
// correlator, so only the tag byte is inspected for them.
func (a *assembler) control(rec codec.RawRecord) error {
	if len(rec.Payload) > 0 && codec.ControlType(rec.Payload[0]) != codec.ControlSetMetadata {
		return nil
	}
	ctrl, err := a.dec.DecodeControl(rec)
	if err != nil {
		return err
	}
	m, ok := ctrl.(codec.SetMetadata)
	if !ok {
		return nil
	}

	e := a.resolve(m.EntryID, rec.Timestamp)
	if e == nil {
		return a.orphan(rec, m.EntryID, "set_metadata")
	}
	e.metadata = m.Metadata
	return nil
}

func (a *assembler) resolve(id uint32, ts uint64) *Entry {
	tl := a.timelines[id]
	if tl == nil {
		return nil
	}
	return tl.lookup(ts)
}

func (a *assembler) orphan(rec codec.RawRecord, id uint32, kind string) error {
	if a.orphans == OrphanError {
		return a.dec.Fail(&codec.DecodeError{
			Kind:   ErrOrphanRecord,
			Offset: rec.Offset,
			Detail: fmt.Sprintf("%s record for entry id %d at %d", kind, id, rec.Timestamp),
		})
	}
	a.stats.Orphans++
	a.log.Debug("dropped orphan record",
		slog.String("kind", kind),
		slog.Uint64("entry_id", uint64(id)),
		slog.Uint64("timestamp", rec.Timestamp),
		slog.Int("offset", rec.Offset))
	return nil
}
