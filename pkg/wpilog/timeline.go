package wpilog

import (
	"log/slog"
	"math"
	"sort"

	"github.com/ssargent/wpilog/pkg/codec"
)

const openEnd = math.MaxUint64

// window is the span [start, end) during which an entry id refers to entry.
type window struct {
	start uint64
	end   uint64
	entry *Entry
}

// timeline holds every window ever opened for one entry id.
type timeline struct {
	windows []window
	open    int // index of the open window, -1 if none
}

// close ends the open window at ts, if there is one, and returns it. An
// implicit close (a later Start) stamped before the window's own start leaves
// its end to seal, which clamps it to the next start. A Finish stamped before
// the start empties the window.
func (tl *timeline) close(ts uint64, finish bool) *window {
	if tl.open < 0 {
		return nil
	}
	w := &tl.windows[tl.open]
	switch {
	case ts >= w.start && ts < w.end:
		w.end = ts
	case ts < w.start && finish:
		w.end = w.start
	}
	tl.open = -1
	return w
}

// seal orders windows by start so lookups do not depend on scan order.
// Equal starts keep the later observed window and every end is clamped to
// the start of the window that follows.
func (tl *timeline) seal() {
	sort.SliceStable(tl.windows, func(i, j int) bool {
		return tl.windows[i].start < tl.windows[j].start
	})

	out := tl.windows[:0]
	for _, w := range tl.windows {
		if n := len(out); n > 0 && out[n-1].start == w.start {
			out[n-1] = w
			continue
		}
		out = append(out, w)
	}
	for i := 0; i+1 < len(out); i++ {
		if out[i].end > out[i+1].start {
			out[i].end = out[i+1].start
		}
	}
	tl.windows = out
	tl.open = -1
}

// lookup returns the entry whose window has the greatest start <= ts,
// provided that window had not ended by ts.
func (tl *timeline) lookup(ts uint64) *Entry {
	i := sort.Search(len(tl.windows), func(i int) bool {
		return tl.windows[i].start > ts
	}) - 1
	if i < 0 {
		return nil
	}
	w := tl.windows[i]
	if ts >= w.end {
		return nil
	}
	return w.entry
}

// correlator is the first pass: it reads only control records and builds
// the per id timelines and the entry set.
type correlator struct {
	dec       codec.Decoder
	log       *slog.Logger
	timelines map[uint32]*timeline
	live      map[string]uint32 // name -> id whose window is open under it
	entries   []*Entry
	byName    map[string]*Entry
	stats     Stats
}

func newCorrelator(dec codec.Decoder, logger *slog.Logger) *correlator {
	return &correlator{
		dec:       dec,
		log:       logger,
		timelines: make(map[uint32]*timeline),
		live:      make(map[string]uint32),
		byName:    make(map[string]*Entry),
	}
}

func (c *correlator) run(f *codec.Framer) error {
	for f.Next() {
		rec := f.Record()
		c.stats.Records++
		if !rec.IsControl() {
			c.stats.DataRecords++
			continue
		}
		c.stats.ControlRecords++

		ctrl, err := c.dec.DecodeControl(rec)
		if err != nil {
			return err
		}
		switch ctrl := ctrl.(type) {
		case codec.Start:
			if err := c.start(rec, ctrl); err != nil {
				return err
			}
		case codec.Finish:
			c.finish(rec, ctrl)
		case codec.SetMetadata:
			// applied by the assembler once windows are known
		}
	}
	if err := f.Err(); err != nil {
		return err
	}

	for _, tl := range c.timelines {
		tl.seal()
	}
	c.stats.Entries = len(c.entries)
	return nil
}

func (c *correlator) start(rec codec.RawRecord, s codec.Start) error {
	if id, ok := c.live[s.Name]; ok && id != s.EntryID {
		return c.dec.Fail(&codec.DecodeError{
			Kind:   ErrDuplicateEntryName,
			Offset: rec.Offset,
			Detail: formatDuplicate(s.Name, id, s.EntryID),
		})
	}

	tl := c.timelines[s.EntryID]
	if tl == nil {
		tl = &timeline{open: -1}
		c.timelines[s.EntryID] = tl
	}
	if prev := tl.close(rec.Timestamp, false); prev != nil {
		// A second Start without a Finish also finishes the previous entry.
		delete(c.live, prev.entry.name)
		c.log.Debug("implicit finish",
			slog.Uint64("entry_id", uint64(s.EntryID)),
			slog.String("previous", prev.entry.name),
			slog.String("next", s.Name),
			slog.Uint64("timestamp", rec.Timestamp))
	}

	e := c.byName[s.Name]
	if e == nil {
		e = &Entry{name: s.Name, typeName: s.TypeName, metadata: s.Metadata}
		c.byName[s.Name] = e
		c.entries = append(c.entries, e)
	}

	tl.windows = append(tl.windows, window{start: rec.Timestamp, end: openEnd, entry: e})
	tl.open = len(tl.windows) - 1
	c.live[s.Name] = s.EntryID
	return nil
}

func (c *correlator) finish(rec codec.RawRecord, f codec.Finish) {
	tl := c.timelines[f.EntryID]
	if tl == nil {
		c.log.Debug("finish for unknown entry id",
			slog.Uint64("entry_id", uint64(f.EntryID)),
			slog.Int("offset", rec.Offset))
		return
	}
	if w := tl.close(rec.Timestamp, true); w != nil {
		delete(c.live, w.entry.name)
	}
}
